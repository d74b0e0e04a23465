package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "votely/internal/errors"
	"votely/internal/model"
)

// socialColumns maps each provider to the users column holding its subject id.
var socialColumns = map[model.Provider]string{
	model.ProviderGoogle:   "google_id",
	model.ProviderLinkedIn: "linkedin_id",
}

// UserRepository defines identity persistence operations.
// Finders return apperrors.ErrUserNotFound when no row matches.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*model.User, error)
	FindByLinkedInID(ctx context.Context, linkedInID string) (*model.User, error)
	FindBySocialID(ctx context.Context, provider model.Provider, socialID string) (*model.User, error)
	LinkSocialID(ctx context.Context, userID uint, provider model.Provider, socialID string) error
	SetVoted(ctx context.Context, userID uint) error
	Count(ctx context.Context) (int64, error)
	CountVoted(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user and fills in its id. Username, email and social id
// collisions return apperrors.ErrDuplicateKey.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepository) FindByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	return r.FindBySocialID(ctx, model.ProviderGoogle, googleID)
}

func (r *userRepository) FindByLinkedInID(ctx context.Context, linkedInID string) (*model.User, error) {
	return r.FindBySocialID(ctx, model.ProviderLinkedIn, linkedInID)
}

func (r *userRepository) FindBySocialID(ctx context.Context, provider model.Provider, socialID string) (*model.User, error) {
	column, ok := socialColumns[provider]
	if !ok {
		return nil, apperrors.ErrUnknownProvider
	}
	var user model.User
	err := r.db.WithContext(ctx).Where(map[string]interface{}{column: socialID}).First(&user).Error
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	return &user, nil
}

// LinkSocialID stores the provider subject id on an existing user in a single
// update. A user already linked to a different subject for the provider is
// left untouched and ErrIdentityLinked is returned.
func (r *userRepository) LinkSocialID(ctx context.Context, userID uint, provider model.Provider, socialID string) error {
	column, ok := socialColumns[provider]
	if !ok {
		return apperrors.ErrUnknownProvider
	}
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Where(fmt.Sprintf("(%s IS NULL OR %s = ?)", column, column), socialID).
		Update(column, socialID)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// MySQL reports zero rows for an update that changes nothing, so look
	// at the row to tell a relink apart from a missing or taken user.
	user, err := r.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if linked, ok := user.SocialID(provider); ok && linked != socialID {
		return apperrors.ErrIdentityLinked
	}
	return nil
}

// SetVoted flips has_voted. Only the ballot ledger calls this, inside its transaction.
func (r *userRepository) SetVoted(ctx context.Context, userID uint) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("has_voted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error
	return count, err
}

func (r *userRepository) CountVoted(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("has_voted = ?", true).Count(&count).Error
	return count, err
}

func (r *userRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	return &user, nil
}

// translate maps unique constraint violations to apperrors.ErrDuplicateKey.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", apperrors.ErrDuplicateKey, err)
	}
	return err
}

// notFound maps gorm.ErrRecordNotFound to the given domain error.
func notFound(err, domainErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}
