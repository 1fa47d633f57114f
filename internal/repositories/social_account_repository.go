package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"peerlink_backend/internal/models"
)

var ErrSocialAccountNotFound = errors.New("social account not found")

type SocialAccountRepository interface {
	Create(ctx context.Context, account *models.SocialAccount) error
	FindByEmail(ctx context.Context, email string) (*models.SocialAccount, error)
	FindByUser(ctx context.Context, userID string) ([]models.SocialAccount, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type SocialAccountRepositoryImpl struct {
	db *gorm.DB
}

func NewSocialAccountRepository(db *gorm.DB) SocialAccountRepository {
	return &SocialAccountRepositoryImpl{db: db}
}

func (r *SocialAccountRepositoryImpl) Create(ctx context.Context, account *models.SocialAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *SocialAccountRepositoryImpl) FindByEmail(ctx context.Context, email string) (*models.SocialAccount, error) {
	var account models.SocialAccount
	err := r.db.WithContext(ctx).First(&account, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSocialAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *SocialAccountRepositoryImpl) FindByUser(ctx context.Context, userID string) ([]models.SocialAccount, error) {
	var accounts []models.SocialAccount
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *SocialAccountRepositoryImpl) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SocialAccount{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
