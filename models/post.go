package models

import (
	"time"

	"github.com/m3rcey/crwn/entitlement"
	"gorm.io/datatypes"
)

type PostType string

const (
	PostTypeText  PostType = "text"
	PostTypeImage PostType = "image"
	PostTypeVideo PostType = "video"
	PostTypeAudio PostType = "audio"
	PostTypePoll  PostType = "poll"
	PostTypeLink  PostType = "link"
)

// Post is a community feed entry. Gated posts are served as locked
// placeholders to non-entitled viewers: author and timestamp stay, the body
// and media do not.
type Post struct {
	ID              string                  `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	AuthorID        string                  `json:"authorId" gorm:"type:uuid;not null"`
	ArtistProfileID string                  `json:"artistProfileId" gorm:"type:uuid;not null;index"`
	Content         string                  `json:"content"`
	PostType        PostType                `json:"postType" gorm:"type:varchar(20);default:'text'"`
	MediaURLs       datatypes.JSON          `json:"mediaUrls" gorm:"column:media_urls;type:jsonb"`
	AccessLevel     entitlement.AccessLevel `json:"accessLevel" gorm:"type:varchar(20);default:'free'"`
	Pinned          bool                    `json:"pinned" gorm:"default:false"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
	DeletedAt       *time.Time              `json:"deletedAt,omitempty" gorm:"index"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

func (Post) TableName() string {
	return "posts"
}

type PostCreate struct {
	Content     string                  `json:"content" binding:"required"`
	PostType    PostType                `json:"postType"`
	MediaURLs   []string                `json:"mediaUrls"`
	AccessLevel entitlement.AccessLevel `json:"accessLevel"`
	Pinned      bool                    `json:"pinned"`
}

// Gated exposes the post to the entitlement engine. Posts never carry a
// preview window, whatever their media type.
func (p Post) Gated() entitlement.Content {
	return gatedPost{p}
}

type gatedPost struct {
	p Post
}

func (g gatedPost) AccessLevel() entitlement.AccessLevel { return g.p.AccessLevel }
func (g gatedPost) OwnerArtistID() string                { return g.p.ArtistProfileID }
func (g gatedPost) IsAudio() bool                        { return false }
func (g gatedPost) DurationSeconds() int                 { return 0 }
