package db

import (
	"fmt"

	"gorm.io/gorm"

	"votely/internal/model"
)

// DefaultCandidates are inserted into an empty candidates table.
var DefaultCandidates = []model.Candidate{
	{
		Name:        "Emil Shain",
		Description: "Emil Shain is a B.Tech CSE student at Christ College of Engineering, Irinjalakuda. A passionate Frontend Developer and skilled graphic designer.",
		ImageURL:    "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400&h=400&fit=crop",
	},
	{
		Name:        "Justine Krieger",
		Description: "Justine Krieger is a software engineer with over 10 years of experience in the field. He is a strong advocate for diversity and inclusion in the workplace.",
		ImageURL:    "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=400&h=400&fit=crop",
	},
	{
		Name:        "Sarah Johnson",
		Description: "Sarah is a product manager with expertise in building user-centric applications. She believes in transparent governance.",
		ImageURL:    "https://images.unsplash.com/photo-1494790108755-2616b612b786?w=400&h=400&fit=crop",
	},
	{
		Name:        "Michael Chen",
		Description: "Michael is a data scientist passionate about using analytics to improve community decision-making processes.",
		ImageURL:    "https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?w=400&h=400&fit=crop",
	},
}

// SeedCandidates inserts the given candidates when the table is empty.
// It returns the number of rows inserted.
func SeedCandidates(db *gorm.DB, candidates []model.Candidate) (int, error) {
	var count int64
	if err := db.Model(&model.Candidate{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count candidates: %w", err)
	}
	if count > 0 || len(candidates) == 0 {
		return 0, nil
	}

	rows := make([]model.Candidate, len(candidates))
	copy(rows, candidates)
	if err := db.Create(&rows).Error; err != nil {
		return 0, fmt.Errorf("insert candidates: %w", err)
	}
	return len(rows), nil
}
