package models

import (
	"time"

	"github.com/m3rcey/crwn/entitlement"
)

type Track struct {
	ID              string                  `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ArtistProfileID string                  `json:"artistProfileId" gorm:"type:uuid;not null;index"`
	Title           string                  `json:"title" binding:"required"`
	AudioURL128     string                  `json:"audioUrl128" gorm:"column:audio_url_128"`
	AudioURL320     string                  `json:"audioUrl320" gorm:"column:audio_url_320"`
	Duration        int                     `json:"duration"`
	AccessLevel     entitlement.AccessLevel `json:"accessLevel" gorm:"type:varchar(20);default:'free'"`
	Price           int                     `json:"price"`
	AlbumArtURL     string                  `json:"albumArtUrl" gorm:"column:album_art_url"`
	ReleaseDate     time.Time               `json:"releaseDate"`
	PlayCount       int                     `json:"playCount" gorm:"default:0"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
	DeletedAt       *time.Time              `json:"deletedAt,omitempty" gorm:"index"`

	Artist *ArtistProfile `json:"artist,omitempty" gorm:"foreignKey:ArtistProfileID"`
}

func (Track) TableName() string {
	return "tracks"
}

// Gated exposes the track to the entitlement engine.
func (t Track) Gated() entitlement.Content {
	return gatedTrack{t}
}

type gatedTrack struct {
	t Track
}

func (g gatedTrack) AccessLevel() entitlement.AccessLevel { return g.t.AccessLevel }
func (g gatedTrack) OwnerArtistID() string                { return g.t.ArtistProfileID }
func (g gatedTrack) IsAudio() bool                        { return true }
func (g gatedTrack) DurationSeconds() int                 { return g.t.Duration }
