package playlists

import (
	"net/http"

	"github.com/m3rcey/crwn/db"
	"github.com/m3rcey/crwn/entitlement"
	"github.com/m3rcey/crwn/ledger"
	"github.com/m3rcey/crwn/models"
	"github.com/m3rcey/crwn/utils"

	"github.com/gin-gonic/gin"
)

// TrackView mirrors the catalog view: each playlist entry carries the
// viewer's entitlement decision.
type TrackView struct {
	models.Track
	Access entitlement.Access `json:"access"`
}

type PlaylistView struct {
	models.Playlist
	Tracks []TrackView `json:"tracks"`
}

func viewerFrom(c *gin.Context) entitlement.Viewer {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(string); ok {
			return entitlement.Viewer{ID: id}
		}
	}
	return entitlement.Anonymous()
}

// @Summary List an artist's playlists
// @Tags playlists
// @Produce json
// @Param slug path string true "Artist slug"
// @Success 200 {array} models.Playlist
// @Failure 404 {object} map[string]string "error: Artist not found"
// @Router /artists/{slug}/playlists [get]
func GetArtistPlaylists(c *gin.Context) {
	slug := c.Param("slug")

	var artist models.ArtistProfile
	if err := db.DB.First(&artist, "slug = ?", slug).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artist not found"})
		return
	}

	var playlists []models.Playlist
	if err := db.DB.Where("artist_profile_id = ?", artist.ID).
		Order("created_at DESC").Find(&playlists).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving playlists: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, playlists)
}

// @Summary Get a playlist with its tracks
// @Description Retrieve a playlist. Each track carries the viewer's entitlement decision; one ledger read serves the whole playlist.
// @Tags playlists
// @Produce json
// @Param id path string true "Playlist ID"
// @Success 200 {object} PlaylistView
// @Failure 404 {object} map[string]string "error: Playlist not found"
// @Router /playlists/{id} [get]
func GetPlaylistByID(c *gin.Context) {
	playlistID := c.Param("id")

	var playlist models.Playlist
	if err := db.DB.Preload("Tracks").First(&playlist, "id = ?", playlistID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found"})
		return
	}

	engine := entitlement.New(ledger.Cached(ledger.Lookup))
	viewer := viewerFrom(c)

	views := make([]TrackView, 0, len(playlist.Tracks))
	for _, track := range playlist.Tracks {
		views = append(views, TrackView{
			Track:  track,
			Access: engine.Evaluate(viewer, track.Gated()),
		})
	}
	playlist.Tracks = nil

	c.JSON(http.StatusOK, PlaylistView{Playlist: playlist, Tracks: views})
}

// @Summary Create a playlist
// @Description Create a playlist on the connected artist's profile
// @Tags playlists
// @Accept json
// @Produce json
// @Param playlist body models.PlaylistCreate true "Playlist"
// @Security BearerAuth
// @Success 201 {object} models.Playlist
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 404 {object} map[string]string "error: Artist profile not found"
// @Router /playlists [post]
func CreatePlaylist(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var input models.PlaylistCreate
	if !utils.ValidateRequestBody(c, &input) {
		return
	}

	var artist models.ArtistProfile
	if err := db.DB.First(&artist, "user_id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artist profile not found"})
		return
	}

	playlist := models.Playlist{
		ArtistProfileID: artist.ID,
		Title:           input.Title,
	}

	if err := db.DB.Create(&playlist).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating playlist: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Playlist created in CreatePlaylist")
	c.JSON(http.StatusCreated, playlist)
}

// @Summary Add a track to a playlist
// @Description Append one of the artist's own tracks to one of their playlists
// @Tags playlists
// @Produce json
// @Param id path string true "Playlist ID"
// @Param trackId path string true "Track ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Track added to playlist"
// @Failure 403 {object} map[string]string "error: Not the owner"
// @Failure 404 {object} map[string]string "error: Playlist or track not found"
// @Router /playlists/{id}/tracks/{trackId} [post]
func AddTrackToPlaylist(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var playlist models.Playlist
	if err := db.DB.First(&playlist, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found"})
		return
	}

	var artist models.ArtistProfile
	if err := db.DB.First(&artist, "user_id = ?", userID).Error; err != nil || artist.ID != playlist.ArtistProfileID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to modify this playlist"})
		return
	}

	var track models.Track
	if err := db.DB.First(&track, "id = ?", c.Param("trackId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Track not found"})
		return
	}

	if track.ArtistProfileID != artist.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only add your own tracks"})
		return
	}

	if err := db.DB.Model(&playlist).Association("Tracks").Append(&track); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error adding track: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Track added to playlist in AddTrackToPlaylist")
	c.JSON(http.StatusOK, gin.H{"message": "Track added to playlist"})
}
