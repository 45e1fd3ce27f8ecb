package models

import (
	"time"

	"github.com/m3rcey/crwn/entitlement"
)

type Playlist struct {
	ID              string                  `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ArtistProfileID string                  `json:"artistProfileId" gorm:"type:uuid;not null;index"`
	Title           string                  `json:"title" binding:"required"`
	AccessLevel     entitlement.AccessLevel `json:"accessLevel" gorm:"type:varchar(20);default:'free'"`
	Tracks          []Track                 `json:"tracks,omitempty" gorm:"many2many:playlist_tracks;"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
}

func (Playlist) TableName() string {
	return "playlists"
}

type PlaylistCreate struct {
	Title string `json:"title" binding:"required"`
}
