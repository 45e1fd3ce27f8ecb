package models

import (
	"time"
)

// Favorite persists a user's favorited tracks for the player.
type Favorite struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    string    `json:"userId" gorm:"column:user_id;index"`
	TrackID   string    `json:"trackId" gorm:"column:track_id"`
	CreatedAt time.Time `json:"createdAt"`
}
