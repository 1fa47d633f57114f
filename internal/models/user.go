package models

import (
	"github.com/lib/pq"
)

type User struct {
	BaseModel
	Email             string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash      string         `gorm:"not null" json:"-"`
	Name              string         `gorm:"not null" json:"name"`
	Headline          string         `json:"headline"`
	PictureURL        string         `json:"picture_url"`
	Interests         pq.StringArray `gorm:"type:text[]" json:"interests"`
	IsVerified        bool           `gorm:"default:false" json:"is_verified"`
	VerificationToken string         `json:"-"`

	// Relations
	ReviewsReceived []Review        `gorm:"foreignKey:RecipientID" json:"-"`
	ReviewsWritten  []Review        `gorm:"foreignKey:AuthorID" json:"-"`
	SocialAccounts  []SocialAccount `gorm:"foreignKey:UserID" json:"-"`
}
