package models

import (
	"time"
)

type Role string

const (
	FanRole    Role = "FAN"
	ArtistRole Role = "ARTIST"
	AdminRole  Role = "ADMIN"
)

type User struct {
	ID               string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Email            string    `json:"email" gorm:"uniqueIndex" binding:"required,email"`
	Password         string    `json:"-"`
	DisplayName      string    `json:"displayName"`
	Role             Role      `json:"role" gorm:"type:varchar(20);default:'FAN'"`
	Bio              string    `json:"bio"`
	AvatarURL        string    `json:"avatarUrl" gorm:"column:avatar_url"`
	StripeCustomerId string    `json:"stripeCustomerId"`
	Enable           bool      `json:"enable" gorm:"default:true"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// UserCreate is the registration payload. Registering with the ARTIST role
// also creates the matching ArtistProfile.
type UserCreate struct {
	Email       string `json:"email" binding:"required,email" example:"fan@example.com"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role" example:"FAN"`
}

type UserLogin struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserUpdate struct {
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
}
