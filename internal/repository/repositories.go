package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories groups the repositories that share one database handle, so a
// transaction can hand the same set to a unit of work.
type Repositories struct {
	Users      UserRepository
	Candidates CandidateRepository
	Votes      VoteRepository

	db *gorm.DB
}

// New builds every repository on top of db.
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(db),
		Candidates: NewCandidateRepository(db),
		Votes:      NewVoteRepository(db),
		db:         db,
	}
}

// WithTransaction executes fn within a database transaction. Every repository in
// tx is bound to the transaction; returning an error rolls all writes back.
func (r *Repositories) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(txDB *gorm.DB) error {
		return fn(ctx, New(txDB))
	})
}
