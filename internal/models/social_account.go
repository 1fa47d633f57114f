package models

import (
	"gorm.io/datatypes"
)

// SocialAccount links an external identity (google, github, ...) to a user.
type SocialAccount struct {
	BaseModel
	UserID     string         `gorm:"not null;index" json:"user_id"`
	Provider   string         `gorm:"not null;uniqueIndex:idx_social_provider_external" json:"provider"`
	ExternalID string         `gorm:"not null;uniqueIndex:idx_social_provider_external" json:"external_id"`
	Email      string         `gorm:"not null;index" json:"email"`
	Profile    datatypes.JSON `json:"profile,omitempty"` // raw provider payload

	User *User `gorm:"foreignKey:UserID" json:"-"`
}
