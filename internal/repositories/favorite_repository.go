package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"peerlink_backend/internal/models"
)

var ErrFavoriteNotFound = errors.New("favorite not found")

type FavoriteRepository interface {
	// Upsert creates the favorite row if absent; a second call for the
	// same pair is a no-op.
	Upsert(ctx context.Context, userID, reviewID string) error

	// Delete removes the favorite row. Deleting an absent pairing
	// returns ErrFavoriteNotFound.
	Delete(ctx context.Context, userID, reviewID string) error

	Exists(ctx context.Context, userID, reviewID string) (bool, error)

	// FavoritedReviewIDs filters the given review ids down to the ones
	// the user has favorited.
	FavoritedReviewIDs(ctx context.Context, userID string, reviewIDs []string) (map[string]bool, error)

	CountByUser(ctx context.Context, userID string) (int64, error)
}

type FavoriteRepositoryImpl struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &FavoriteRepositoryImpl{db: db}
}

func (r *FavoriteRepositoryImpl) Upsert(ctx context.Context, userID, reviewID string) error {
	favorite := &models.FavoriteReview{
		UserID:   userID,
		ReviewID: reviewID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "review_id"}},
			DoNothing: true,
		}).
		Create(favorite).Error
}

func (r *FavoriteRepositoryImpl) Delete(ctx context.Context, userID, reviewID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND review_id = ?", userID, reviewID).
		Delete(&models.FavoriteReview{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

func (r *FavoriteRepositoryImpl) Exists(ctx context.Context, userID, reviewID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FavoriteReview{}).
		Where("user_id = ? AND review_id = ?", userID, reviewID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *FavoriteRepositoryImpl) FavoritedReviewIDs(ctx context.Context, userID string, reviewIDs []string) (map[string]bool, error) {
	favorited := make(map[string]bool)
	if len(reviewIDs) == 0 {
		return favorited, nil
	}

	var rows []models.FavoriteReview
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND review_id IN ?", userID, reviewIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		favorited[row.ReviewID] = true
	}
	return favorited, nil
}

func (r *FavoriteRepositoryImpl) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FavoriteReview{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
