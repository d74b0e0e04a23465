package model

import "time"

// User represents a voter identity, local or federated.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;size:255;not null"` // Never expose in JSON
	Name         string    `json:"name" gorm:"size:255"`
	HasVoted     bool      `json:"has_voted" gorm:"not null;default:false"`
	GoogleID     *string   `json:"-" gorm:"column:google_id;uniqueIndex;size:255"`
	LinkedInID   *string   `json:"-" gorm:"column:linkedin_id;uniqueIndex;size:255"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserView is the public projection of a User returned to clients.
type UserView struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	HasVoted bool   `json:"hasVoted"`
}

// View builds the public projection, falling back to the username for the display name.
func (u *User) View() UserView {
	name := u.Name
	if name == "" {
		name = u.Username
	}
	return UserView{
		ID:       u.ID,
		Username: u.Username,
		Name:     name,
		Email:    u.Email,
		HasVoted: u.HasVoted,
	}
}

// SocialID returns the subject id linked for the provider, if any.
func (u *User) SocialID(p Provider) (string, bool) {
	var id *string
	switch p {
	case ProviderGoogle:
		id = u.GoogleID
	case ProviderLinkedIn:
		id = u.LinkedInID
	}
	if id == nil {
		return "", false
	}
	return *id, true
}

// SetSocialID links a provider subject id onto the record in memory.
func (u *User) SetSocialID(p Provider, socialID string) {
	id := socialID
	switch p {
	case ProviderGoogle:
		u.GoogleID = &id
	case ProviderLinkedIn:
		u.LinkedInID = &id
	}
}
