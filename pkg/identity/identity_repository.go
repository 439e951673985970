package identity

import (
	"Snack-Tracker/entities"
	"context"
	"time"

	"gorm.io/gorm"
)

type (
	IdentityRepository interface {
		CreateUser(ctx context.Context, user *entities.User) error
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		MarkSignedOut(ctx context.Context, id string, at time.Time) error
	}

	identityRepository struct {
		db *gorm.DB
	}
)

func NewIdentityRepository(db *gorm.DB) IdentityRepository {
	return &identityRepository{db: db}
}

func (r *identityRepository) CreateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *identityRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *identityRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *identityRepository) MarkSignedOut(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&entities.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"signed_out_at": at}).Error
}
