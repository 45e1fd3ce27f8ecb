package models

import (
	"time"

	"gorm.io/datatypes"
)

// SubscriptionTier is one paid tier an artist offers. Price is in cents.
type SubscriptionTier struct {
	ID              string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ArtistProfileID string         `json:"artistProfileId" gorm:"type:uuid;not null"`
	Name            string         `json:"name" binding:"required"`
	Price           int            `json:"price" binding:"required"`
	Description     string         `json:"description"`
	Benefits        datatypes.JSON `json:"benefits" gorm:"type:jsonb"`
	StripePriceId   string         `json:"stripePriceId"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func (SubscriptionTier) TableName() string {
	return "subscription_tiers"
}

type TierUpsert struct {
	Name        string   `json:"name" binding:"required"`
	Price       int      `json:"price" binding:"required"`
	Description string   `json:"description"`
	Benefits    []string `json:"benefits"`
}
