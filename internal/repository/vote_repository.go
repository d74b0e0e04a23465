package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"votely/internal/model"
)

// VoteRepository defines vote persistence operations.
type VoteRepository interface {
	FindByUserID(ctx context.Context, userID uint) (*model.Vote, error)
	Create(ctx context.Context, vote *model.Vote) error
	Count(ctx context.Context) (int64, error)
	ListVoters(ctx context.Context) ([]model.VoterRow, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new vote repository.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// FindByUserID returns the user's vote, or nil when the user has not voted.
func (r *voteRepository) FindByUserID(ctx context.Context, userID uint) (*model.Vote, error) {
	var vote model.Vote
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// Create inserts the vote row. A second vote for the same user violates the
// unique index on user_id and returns apperrors.ErrDuplicateKey.
func (r *voteRepository) Create(ctx context.Context, vote *model.Vote) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(vote).Error)
}

// Count returns the number of vote rows.
func (r *voteRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Vote{}).Count(&count).Error
	return count, err
}

// ListVoters returns the voter roll, most recent first.
func (r *voteRepository) ListVoters(ctx context.Context) ([]model.VoterRow, error) {
	var rows []model.VoterRow
	err := r.db.WithContext(ctx).Table("votes AS v").
		Select("u.username, c.name AS candidate_name, v.voted_at").
		Joins("JOIN users u ON v.user_id = u.id").
		Joins("JOIN candidates c ON v.candidate_id = c.id").
		Order("v.voted_at DESC").
		Order("v.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
