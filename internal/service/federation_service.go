package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	mrand "math/rand/v2"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	apperrors "votely/internal/errors"
	"votely/internal/model"
	"votely/internal/repository"
)

// maxLinkAttempts bounds retries after a username collision on create.
const maxLinkAttempts = 5

// FederationService reconciles provider profiles with local users.
type FederationService interface {
	Resolve(ctx context.Context, profile *model.SocialProfile) (*model.User, error)
}

type federationService struct {
	userRepo repository.UserRepository
	suffix   func() int
}

// NewFederationService creates a new federation service.
func NewFederationService(userRepo repository.UserRepository) FederationService {
	return &federationService{
		userRepo: userRepo,
		suffix:   func() int { return mrand.IntN(1000) },
	}
}

// Resolve returns the user for a provider profile. In order of precedence it
// finds the user already linked to the subject id, links the subject id onto
// the user with the profile's email, or creates a new user.
func (s *federationService) Resolve(ctx context.Context, profile *model.SocialProfile) (*model.User, error) {
	if profile == nil || profile.SubjectID == "" {
		return nil, fmt.Errorf("%w: profile has no subject id", apperrors.ErrFederation)
	}

	for attempt := 1; attempt <= maxLinkAttempts; attempt++ {
		user, err := s.resolveOnce(ctx, profile)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, apperrors.ErrDuplicateKey) {
			return nil, federationError(err)
		}
		slog.WarnContext(ctx, "federated login conflict, retrying",
			"provider", profile.Provider, "attempt", attempt, "error", err)
	}
	return nil, fmt.Errorf("%w: gave up after %d attempts", apperrors.ErrFederation, maxLinkAttempts)
}

func (s *federationService) resolveOnce(ctx context.Context, profile *model.SocialProfile) (*model.User, error) {
	user, err := s.userRepo.FindBySocialID(ctx, profile.Provider, profile.SubjectID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	if profile.Email != "" {
		user, err = s.userRepo.FindByEmail(ctx, profile.Email)
		switch {
		case err == nil:
			if linked, ok := user.SocialID(profile.Provider); ok && linked != profile.SubjectID {
				slog.WarnContext(ctx, "email already linked to another identity",
					"provider", profile.Provider, "user_id", user.ID)
				return nil, apperrors.ErrIdentityLinked
			}
			if err := s.userRepo.LinkSocialID(ctx, user.ID, profile.Provider, profile.SubjectID); err != nil {
				return nil, err
			}
			user.SetSocialID(profile.Provider, profile.SubjectID)
			slog.InfoContext(ctx, "linked federated identity",
				"provider", profile.Provider, "user_id", user.ID)
			return user, nil
		case !errors.Is(err, apperrors.ErrUserNotFound):
			return nil, err
		}
	}

	return s.create(ctx, profile)
}

func (s *federationService) create(ctx context.Context, profile *model.SocialProfile) (*model.User, error) {
	username := usernameBase(profile.DisplayName) + strconv.Itoa(s.suffix())
	// A taken username is retried with a new suffix.
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: username %s taken", apperrors.ErrDuplicateKey, username)
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	email := profile.Email
	if email == "" {
		email = profile.PlaceholderEmail()
	}

	passwordHash, err := randomPasswordHash()
	if err != nil {
		return nil, err
	}

	name := profile.DisplayName
	if name == "" {
		name = username
	}
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
	}
	user.SetSocialID(profile.Provider, profile.SubjectID)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "created federated user",
		"provider", profile.Provider, "user_id", user.ID, "username", user.Username)
	return user, nil
}

// usernameBase strips whitespace from a display name and lower-cases it.
func usernameBase(displayName string) string {
	base := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, displayName)
	if base == "" {
		return "user"
	}
	return base
}

func randomPasswordHash() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(buf)), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func federationError(err error) error {
	if errors.Is(err, apperrors.ErrFederation) {
		return err
	}
	return fmt.Errorf("%w: %v", apperrors.ErrFederation, err)
}
