package model

import "time"

// Vote records that a user voted for a candidate. At most one per user.
type Vote struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	CandidateID uint      `json:"candidate_id" gorm:"not null;index"`
	VotedAt     time.Time `json:"voted_at" gorm:"not null;index"`

	// Relations
	User      User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Candidate Candidate `json:"-" gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE"`
}

// VoterRow is one line of the public voter roll.
type VoterRow struct {
	Username      string    `json:"username"`
	CandidateName string    `json:"candidate_name"`
	VotedAt       time.Time `json:"voted_at"`
}

// Stats summarizes participation.
type Stats struct {
	TotalUsers       int64       `json:"total_users"`
	VotedUsers       int64       `json:"voted_users"`
	TotalCandidates  int64       `json:"total_candidates"`
	TotalVotes       int64       `json:"total_votes"`
	VoteDistribution []Candidate `json:"voteDistribution"`
}
