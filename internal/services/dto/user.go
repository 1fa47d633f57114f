package dto

import (
	"encoding/json"
	"time"
)

// ======================
// Request DTOs
// ======================

// UpdateProfileRequest covers the mutable profile fields. Email and id
// are immutable.
type UpdateProfileRequest struct {
	Name      *string   `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Headline  *string   `json:"headline,omitempty" validate:"omitempty,max=160"`
	Interests *[]string `json:"interests,omitempty" validate:"omitempty,max=20,dive,notblank,max=50"`
}

type SearchUsersRequest struct {
	Query    string `form:"q" json:"q" validate:"required,notblank"`
	Page     int    `form:"page" json:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" json:"page_size" validate:"omitempty,min=1,max=100"`
}

type LinkSocialAccountRequest struct {
	Provider   string          `json:"provider" validate:"required,oneof=google github linkedin"`
	ExternalID string          `json:"external_id" validate:"required"`
	Email      string          `json:"email" validate:"required,email"`
	Profile    json.RawMessage `json:"profile,omitempty"`
}

// ======================
// Response DTOs
// ======================

type ProfileResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Headline   string    `json:"headline"`
	PictureURL string    `json:"picture_url"`
	Interests  []string  `json:"interests"`
	IsVerified bool      `json:"is_verified"`
	JoinedAt   time.Time `json:"joined_at"`

	RatingCount     int64 `json:"rating_count"`
	ConnectionCount int64 `json:"connection_count"`
}

// UserSummary is the search result shape.
type UserSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Headline   string `json:"headline"`
	PictureURL string `json:"picture_url"`

	RatingCount     int64 `json:"rating_count"`
	ConnectionCount int64 `json:"connection_count"`
}

type SearchUsersResponse struct {
	Users      []*UserSummary `json:"users"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

type SocialAccountResponse struct {
	ID         string    `json:"id"`
	Provider   string    `json:"provider"`
	ExternalID string    `json:"external_id"`
	Email      string    `json:"email"`
	LinkedAt   time.Time `json:"linked_at"`
}

type UploadPictureResponse struct {
	PictureURL string `json:"picture_url"`
}
