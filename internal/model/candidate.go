package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candidate is a nominee. VoteCount is a denormalized counter over Vote rows.
type Candidate struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	ImageURL    string    `json:"image_url" gorm:"column:image_url;size:512"`
	VoteCount   int64     `json:"vote_count" gorm:"not null;default:0;index"`
	CreatedAt   time.Time `json:"created_at"`
}

// ResultRow is a candidate tally joined with its raw vote row count.
type ResultRow struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	VoteCount   int64           `json:"vote_count"`
	TotalVotes  int64           `json:"total_votes"`
	Percentage  decimal.Decimal `json:"percentage" gorm:"-"`
}

// Consistent reports whether the denormalized counter matches the vote rows.
func (r ResultRow) Consistent() bool {
	return r.VoteCount == r.TotalVotes
}
