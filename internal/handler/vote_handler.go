package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "votely/internal/errors"
	"votely/internal/model"
	"votely/internal/service"
)

// VoteHandler handles ballot and results endpoints.
type VoteHandler struct {
	ballot  service.BallotService
	results service.ResultsService
}

// NewVoteHandler creates a new vote handler.
func NewVoteHandler(ballot service.BallotService, results service.ResultsService) *VoteHandler {
	return &VoteHandler{ballot: ballot, results: results}
}

// CastVoteRequest represents a vote.
type CastVoteRequest struct {
	CandidateID uint `json:"candidateId" validate:"required"`
}

// CastVoteResponse is returned after a successful vote.
type CastVoteResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	HasVoted bool   `json:"hasVoted"`
}

// CandidatesResponse lists candidates.
type CandidatesResponse struct {
	Success    bool              `json:"success"`
	Candidates []model.Candidate `json:"candidates"`
}

// VotersResponse lists who voted for whom.
type VotersResponse struct {
	Success bool             `json:"success"`
	Voters  []model.VoterRow `json:"voters"`
}

// ResultsResponse is the results board.
type ResultsResponse struct {
	Success bool `json:"success"`
	service.ResultsSummary
}

// CheckVoteResponse reports whether the caller has voted.
type CheckVoteResponse struct {
	Success  bool `json:"success"`
	HasVoted bool `json:"hasVoted"`
}

// Candidates godoc
// @Summary List candidates
// @Tags vote
// @Produce json
// @Success 200 {object} CandidatesResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /vote/candidates [get]
func (h *VoteHandler) Candidates(c echo.Context) error {
	candidates, err := h.results.ListCandidates(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, CandidatesResponse{Success: true, Candidates: nonNil(candidates)})
}

// CastVote godoc
// @Summary Cast the caller's single vote
// @Tags vote
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CastVoteRequest true "Candidate to vote for"
// @Success 200 {object} CastVoteResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /vote/vote [post]
func (h *VoteHandler) CastVote(c echo.Context) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return fail(c, apperrors.ErrInvalidToken)
	}

	var req CastVoteRequest
	if err := c.Bind(&req); err != nil {
		return invalid(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, "Candidate ID is required")
	}

	if err := h.ballot.CastVote(c.Request().Context(), claims.UserID, req.CandidateID); err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, CastVoteResponse{
		Success:  true,
		Message:  "Vote cast successfully!",
		HasVoted: true,
	})
}

// Voters godoc
// @Summary List voters, newest first
// @Tags vote
// @Produce json
// @Success 200 {object} VotersResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /vote/voters [get]
func (h *VoteHandler) Voters(c echo.Context) error {
	voters, err := h.results.ListVoters(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, VotersResponse{Success: true, Voters: nonNil(voters)})
}

// Results godoc
// @Summary Per-candidate tallies and total votes
// @Tags vote
// @Produce json
// @Success 200 {object} ResultsResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /vote/results [get]
func (h *VoteHandler) Results(c echo.Context) error {
	summary, err := h.results.Results(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	summary.Results = nonNil(summary.Results)
	return c.JSON(http.StatusOK, ResultsResponse{Success: true, ResultsSummary: *summary})
}

// CheckVote godoc
// @Summary Report whether the caller has voted
// @Tags vote
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CheckVoteResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /vote/check-vote [get]
func (h *VoteHandler) CheckVote(c echo.Context) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return fail(c, apperrors.ErrInvalidToken)
	}

	voted, err := h.ballot.HasVoted(c.Request().Context(), claims.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, CheckVoteResponse{Success: true, HasVoted: voted})
}

// nonNil keeps empty lists rendering as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
