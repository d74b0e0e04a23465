package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"votely/internal/cache"
	apperrors "votely/internal/errors"
	"votely/internal/model"
	"votely/internal/repository"
)

// BallotService casts votes.
type BallotService interface {
	CastVote(ctx context.Context, userID, candidateID uint) error
	HasVoted(ctx context.Context, userID uint) (bool, error)
}

type ballotService struct {
	repos *repository.Repositories
	cache *cache.Client
	now   func() time.Time
}

// NewBallotService creates a new ballot service.
func NewBallotService(repos *repository.Repositories, cache *cache.Client) BallotService {
	return &ballotService{
		repos: repos,
		cache: cache,
		now:   time.Now,
	}
}

// CastVote records the user's single vote. The vote row, the candidate's
// counter and the user's has_voted flag are written in one transaction.
func (s *ballotService) CastVote(ctx context.Context, userID, candidateID uint) error {
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		existing, err := tx.Votes.FindByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("find vote: %w", err)
		}
		if existing != nil {
			return apperrors.ErrAlreadyVoted
		}

		// Lock the candidate before inserting the vote. The vote's foreign key
		// check takes a shared lock on this row, and two voters holding it
		// would deadlock on the counter update under InnoDB.
		if _, err := tx.Candidates.LockByID(ctx, candidateID); err != nil {
			return err
		}
		if _, err := tx.Users.FindByID(ctx, userID); err != nil {
			return err
		}

		vote := &model.Vote{
			UserID:      userID,
			CandidateID: candidateID,
			VotedAt:     s.now().UTC(),
		}
		if err := tx.Votes.Create(ctx, vote); err != nil {
			// The unique index on votes.user_id settles concurrent casts.
			if errors.Is(err, apperrors.ErrDuplicateKey) {
				return apperrors.ErrAlreadyVoted
			}
			return fmt.Errorf("insert vote: %w", err)
		}

		if err := tx.Candidates.IncrementVoteCount(ctx, candidateID); err != nil {
			return fmt.Errorf("increment vote count: %w", err)
		}
		if err := tx.Users.SetVoted(ctx, userID); err != nil {
			return fmt.Errorf("mark user voted: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Invalidate cached projections
	_ = s.cache.Delete(ctx, candidatesCacheKey, resultsCacheKey)

	slog.InfoContext(ctx, "vote cast", "user_id", userID, "candidate_id", candidateID)
	return nil
}

// HasVoted reads the user's has_voted flag from the store.
func (s *ballotService) HasVoted(ctx context.Context, userID uint) (bool, error) {
	user, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.HasVoted, nil
}
