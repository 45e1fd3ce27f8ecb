package models

import (
	"time"
)

// ArtistProfile is the public face of an artist: the page fans subscribe to.
// Subscriptions and gated content hang off the profile ID, not the user ID.
type ArtistProfile struct {
	ID              string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID          string    `json:"userId" gorm:"type:uuid;not null;uniqueIndex"`
	Slug            string    `json:"slug" gorm:"uniqueIndex;not null"`
	BannerURL       string    `json:"bannerUrl" gorm:"column:banner_url"`
	Tagline         string    `json:"tagline"`
	StripeConnectId string    `json:"stripeConnectId"`
	IsVerified      bool      `json:"isVerified" gorm:"default:false"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	User  *User              `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Tiers []SubscriptionTier `json:"tiers,omitempty" gorm:"foreignKey:ArtistProfileID"`
}

func (ArtistProfile) TableName() string {
	return "artist_profiles"
}

type ArtistProfileUpdate struct {
	Tagline string `json:"tagline"`
}
