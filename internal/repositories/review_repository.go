package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"peerlink_backend/internal/models"
)

var ErrReviewNotFound = errors.New("review not found")

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id string) (*models.Review, error)
	FindByRecipient(ctx context.Context, recipientID string) ([]models.Review, error)
	CountByRecipient(ctx context.Context, recipientID string) (int64, error)

	// ComputeAggregate averages the three score dimensions over all
	// reviews received by the user. An empty review set yields a
	// zero-valued aggregate, never an error.
	ComputeAggregate(ctx context.Context, recipientID string) (*models.RatingAggregate, error)
}

type ReviewRepositoryImpl struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &ReviewRepositoryImpl{db: db}
}

func (r *ReviewRepositoryImpl) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *ReviewRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).Preload("Author").
		First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindByRecipient(ctx context.Context, recipientID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).Preload("Author").
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewRepositoryImpl) CountByRecipient(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("recipient_id = ?", recipientID).
		Count(&count).Error
	return count, err
}

func (r *ReviewRepositoryImpl) ComputeAggregate(ctx context.Context, recipientID string) (*models.RatingAggregate, error) {
	var row struct {
		Professionalism float64
		Reliability     float64
		Communication   float64
		Total           int64
	}

	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select(
			"COALESCE(AVG(professionalism), 0) AS professionalism, "+
				"COALESCE(AVG(reliability), 0) AS reliability, "+
				"COALESCE(AVG(communication), 0) AS communication, "+
				"COUNT(*) AS total",
		).
		Where("recipient_id = ?", recipientID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	agg := &models.RatingAggregate{
		Professionalism: row.Professionalism,
		Reliability:     row.Reliability,
		Communication:   row.Communication,
		TotalReviews:    row.Total,
	}
	if row.Total > 0 {
		agg.Overall = (row.Professionalism + row.Reliability + row.Communication) / 3
	}
	return agg, nil
}
