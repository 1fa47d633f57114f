package dto

import "time"

// ======================
// Request DTOs
// ======================

type SubmitReviewRequest struct {
	Professionalism int    `json:"professionalism" validate:"required,min=1,max=5"`
	Reliability     int    `json:"reliability" validate:"required,min=1,max=5"`
	Communication   int    `json:"communication" validate:"required,min=1,max=5"`
	Comment         string `json:"comment" validate:"omitempty,max=2000"`
	Anonymous       bool   `json:"anonymous"` // defaults to false when unset
}

// ======================
// Response DTOs
// ======================

// ReviewAuthorInfo is the author identity block. Omitted entirely for
// anonymous reviews.
type ReviewAuthorInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PictureURL string `json:"picture_url,omitempty"`
}

type ReviewResponse struct {
	ID              string    `json:"id"`
	RecipientID     string    `json:"recipient_id"`
	Professionalism int       `json:"professionalism"`
	Reliability     int       `json:"reliability"`
	Communication   int       `json:"communication"`
	Comment         string    `json:"comment"`
	Anonymous       bool      `json:"anonymous"`
	CreatedAt       time.Time `json:"created_at"`

	Author *ReviewAuthorInfo `json:"author,omitempty"`

	// IsOwnReview is computed server-side against the caller; only the
	// boolean leaves the service, never a hidden author id.
	IsOwnReview bool `json:"is_own_review"`
	IsFavorite  bool `json:"is_favorite"`
}

type ReviewListResponse struct {
	Reviews []*ReviewResponse `json:"reviews"`
	Total   int64             `json:"total"`
}

type AverageRatingResponse struct {
	UserID          string  `json:"user_id"`
	Professionalism float64 `json:"professionalism"`
	Reliability     float64 `json:"reliability"`
	Communication   float64 `json:"communication"`
	Overall         float64 `json:"overall"`
	TotalReviews    int64   `json:"total_reviews"`
}
