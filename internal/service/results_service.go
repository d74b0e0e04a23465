package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"votely/internal/cache"
	"votely/internal/model"
	"votely/internal/repository"
)

const (
	projectionCacheTTL = 30 * time.Second

	candidatesCacheKey = "candidates:list"
	resultsCacheKey    = "results:summary"
)

var hundred = decimal.NewFromInt(100)

// ResultsSummary is the results board: per-candidate tallies and the total
// number of vote rows.
type ResultsSummary struct {
	Results    []model.ResultRow `json:"results"`
	TotalVotes int64             `json:"totalVotes"`
}

// ResultsService exposes read-only projections over the ballot, plus the
// tally audit and reconcile operations used by administrators.
type ResultsService interface {
	ListCandidates(ctx context.Context) ([]model.Candidate, error)
	ListVoters(ctx context.Context) ([]model.VoterRow, error)
	Results(ctx context.Context) (*ResultsSummary, error)
	TotalVotes(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (*model.Stats, error)
	Audit(ctx context.Context) ([]model.ResultRow, error)
	Reconcile(ctx context.Context) ([]model.ResultRow, error)
}

type resultsService struct {
	repos *repository.Repositories
	cache *cache.Client
}

// NewResultsService creates a new results service.
func NewResultsService(repos *repository.Repositories, cache *cache.Client) ResultsService {
	return &resultsService{repos: repos, cache: cache}
}

// ListCandidates returns candidates ordered by vote count, highest first.
func (s *resultsService) ListCandidates(ctx context.Context) ([]model.Candidate, error) {
	var cached []model.Candidate
	if s.cached(ctx, candidatesCacheKey, &cached) {
		return cached, nil
	}

	candidates, err := s.repos.Candidates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	s.store(ctx, candidatesCacheKey, candidates)
	return candidates, nil
}

// ListVoters returns the voter roll, newest vote first.
func (s *resultsService) ListVoters(ctx context.Context) ([]model.VoterRow, error) {
	voters, err := s.repos.Votes.ListVoters(ctx)
	if err != nil {
		return nil, fmt.Errorf("list voters: %w", err)
	}
	return voters, nil
}

// Results returns per-candidate tallies with their share of all votes. Shares
// are computed from vote rows so they sum to 100 even if a counter drifts.
func (s *resultsService) Results(ctx context.Context) (*ResultsSummary, error) {
	var cached ResultsSummary
	if s.cached(ctx, resultsCacheKey, &cached) {
		return &cached, nil
	}

	rows, err := s.repos.Candidates.Results(ctx)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	total, err := s.TotalVotes(ctx)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].Percentage = percentage(rows[i].TotalVotes, total)
	}
	summary := &ResultsSummary{Results: rows, TotalVotes: total}
	s.store(ctx, resultsCacheKey, summary)
	return summary, nil
}

// TotalVotes counts vote rows.
func (s *resultsService) TotalVotes(ctx context.Context) (int64, error) {
	total, err := s.repos.Votes.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return total, nil
}

// Stats summarizes participation across users and candidates.
func (s *resultsService) Stats(ctx context.Context) (*model.Stats, error) {
	var (
		stats model.Stats
		err   error
	)
	if stats.TotalUsers, err = s.repos.Users.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if stats.VotedUsers, err = s.repos.Users.CountVoted(ctx); err != nil {
		return nil, fmt.Errorf("count voted users: %w", err)
	}
	if stats.TotalCandidates, err = s.repos.Candidates.Count(ctx); err != nil {
		return nil, fmt.Errorf("count candidates: %w", err)
	}
	if stats.TotalVotes, err = s.repos.Candidates.SumVoteCount(ctx); err != nil {
		return nil, fmt.Errorf("sum vote counts: %w", err)
	}
	if stats.VoteDistribution, err = s.repos.Candidates.List(ctx); err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return &stats, nil
}

// Audit returns the candidates whose counter differs from their vote rows.
func (s *resultsService) Audit(ctx context.Context) ([]model.ResultRow, error) {
	rows, err := s.repos.Candidates.Results(ctx)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	return inconsistent(rows), nil
}

// Reconcile rewrites every drifted counter from the vote rows in one
// transaction and returns the rows that were corrected.
func (s *resultsService) Reconcile(ctx context.Context) ([]model.ResultRow, error) {
	var fixed []model.ResultRow
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		rows, err := tx.Candidates.Results(ctx)
		if err != nil {
			return fmt.Errorf("load results: %w", err)
		}
		fixed = inconsistent(rows)
		for _, row := range fixed {
			if err := tx.Candidates.SetVoteCount(ctx, row.ID, row.TotalVotes); err != nil {
				return fmt.Errorf("reset candidate %d: %w", row.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(fixed) > 0 {
		_ = s.cache.Delete(ctx, candidatesCacheKey, resultsCacheKey)
		slog.WarnContext(ctx, "reconciled vote counters", "candidates", len(fixed))
	}
	return fixed, nil
}

func (s *resultsService) cached(ctx context.Context, key string, dst interface{}) bool {
	data, _ := s.cache.Get(ctx, key)
	if data == nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (s *resultsService) store(ctx context.Context, key string, value interface{}) {
	if payload, err := json.Marshal(value); err == nil {
		_ = s.cache.Set(ctx, key, payload, projectionCacheTTL)
	}
}

func inconsistent(rows []model.ResultRow) []model.ResultRow {
	var out []model.ResultRow
	for _, row := range rows {
		if !row.Consistent() {
			out = append(out, row)
		}
	}
	return out
}

// percentage is count's share of total, rounded to two places.
func percentage(count, total int64) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(count).Mul(hundred).Div(decimal.NewFromInt(total)).Round(2)
}
