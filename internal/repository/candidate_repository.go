package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "votely/internal/errors"
	"votely/internal/model"
)

// CandidateRepository defines candidate persistence operations.
type CandidateRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Candidate, error)
	LockByID(ctx context.Context, id uint) (*model.Candidate, error)
	List(ctx context.Context) ([]model.Candidate, error)
	Count(ctx context.Context) (int64, error)
	SumVoteCount(ctx context.Context) (int64, error)
	IncrementVoteCount(ctx context.Context, id uint) error
	SetVoteCount(ctx context.Context, id uint, count int64) error
	Results(ctx context.Context) ([]model.ResultRow, error)
	Upsert(ctx context.Context, candidate *model.Candidate) error
}

type candidateRepository struct {
	db *gorm.DB
}

// NewCandidateRepository creates a new candidate repository.
func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

// FindByID finds a candidate by ID.
func (r *candidateRepository) FindByID(ctx context.Context, id uint) (*model.Candidate, error) {
	var candidate model.Candidate
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&candidate).Error; err != nil {
		return nil, notFound(err, apperrors.ErrCandidateNotFound)
	}
	return &candidate, nil
}

// LockByID reads a candidate with SELECT ... FOR UPDATE. The lock is held
// until the surrounding transaction ends. SQLite drops the clause.
func (r *candidateRepository) LockByID(ctx context.Context, id uint) (*model.Candidate, error) {
	var candidate model.Candidate
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&candidate).Error
	if err != nil {
		return nil, notFound(err, apperrors.ErrCandidateNotFound)
	}
	return &candidate, nil
}

// List returns candidates ordered by vote count, highest first.
func (r *candidateRepository) List(ctx context.Context) ([]model.Candidate, error) {
	var candidates []model.Candidate
	if err := r.db.WithContext(ctx).Order("vote_count DESC").Order("id ASC").Find(&candidates).Error; err != nil {
		return nil, err
	}
	return candidates, nil
}

// Count returns the number of candidates.
func (r *candidateRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Candidate{}).Count(&count).Error
	return count, err
}

// SumVoteCount returns the sum of all denormalized counters.
func (r *candidateRepository) SumVoteCount(ctx context.Context) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&model.Candidate{}).
		Select("COALESCE(SUM(vote_count), 0)").
		Scan(&sum).Error
	return sum, err
}

// IncrementVoteCount adds one to the candidate's counter in a single statement.
func (r *candidateRepository) IncrementVoteCount(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&model.Candidate{}).
		Where("id = ?", id).
		UpdateColumn("vote_count", gorm.Expr("vote_count + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrCandidateNotFound
	}
	return nil
}

// SetVoteCount overwrites the counter. Used only when reconciling tallies.
func (r *candidateRepository) SetVoteCount(ctx context.Context, id uint, count int64) error {
	res := r.db.WithContext(ctx).Model(&model.Candidate{}).
		Where("id = ?", id).
		UpdateColumn("vote_count", count)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrCandidateNotFound
	}
	return nil
}

// Results joins each candidate with the number of vote rows referencing it.
func (r *candidateRepository) Results(ctx context.Context) ([]model.ResultRow, error) {
	var rows []model.ResultRow
	err := r.db.WithContext(ctx).Table("candidates AS c").
		Select("c.id, c.name, c.description, c.image_url, c.vote_count, COUNT(v.id) AS total_votes").
		Joins("LEFT JOIN votes v ON v.candidate_id = c.id").
		Group("c.id, c.name, c.description, c.image_url, c.vote_count").
		Order("c.vote_count DESC").
		Order("c.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert updates name, description and image of an existing candidate by ID,
// or creates it when absent. The vote counter is never touched.
func (r *candidateRepository) Upsert(ctx context.Context, candidate *model.Candidate) error {
	if candidate.ID != 0 {
		var existing int64
		if err := r.db.WithContext(ctx).Model(&model.Candidate{}).Where("id = ?", candidate.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return r.db.WithContext(ctx).Model(&model.Candidate{}).
				Where("id = ?", candidate.ID).
				Updates(map[string]interface{}{
					"name":        candidate.Name,
					"description": candidate.Description,
					"image_url":   candidate.ImageURL,
				}).Error
		}
	}
	explicitID := candidate.ID != 0
	candidate.VoteCount = 0
	if err := r.db.WithContext(ctx).Create(candidate).Error; err != nil {
		return translate(err)
	}
	if explicitID && r.db.Dialector.Name() == "postgres" {
		// Postgres does not advance the serial sequence for explicit ids.
		return r.db.WithContext(ctx).
			Exec("SELECT setval(pg_get_serial_sequence('candidates', 'id'), (SELECT MAX(id) FROM candidates))").
			Error
	}
	return nil
}
