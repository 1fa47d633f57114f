package models

// FavoriteReview marks a review as bookmarked by a user.
// One row per (user, review) pair.
type FavoriteReview struct {
	BaseModel
	UserID   string `gorm:"not null;uniqueIndex:idx_favorite_user_review" json:"user_id"`
	ReviewID string `gorm:"not null;uniqueIndex:idx_favorite_user_review" json:"review_id"`

	Review *Review `gorm:"foreignKey:ReviewID" json:"-"`
}
