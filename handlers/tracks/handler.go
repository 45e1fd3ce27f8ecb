package tracks

import (
	"fmt"
	"net/http"
	"time"

	"github.com/m3rcey/crwn/db"
	"github.com/m3rcey/crwn/entitlement"
	"github.com/m3rcey/crwn/ledger"
	"github.com/m3rcey/crwn/models"
	"github.com/m3rcey/crwn/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrackView is a catalog entry annotated with the viewer's entitlement
// decision, so the client never re-derives access rules.
type TrackView struct {
	models.Track
	Access entitlement.Access `json:"access"`
}

// viewerFrom builds the engine's viewer from the optional auth middleware.
func viewerFrom(c *gin.Context) entitlement.Viewer {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(string); ok {
			return entitlement.Viewer{ID: id}
		}
	}
	return entitlement.Anonymous()
}

// @Summary Create a track
// @Description Add a track to the connected artist's catalog. Purchase-level tracks require a positive price.
// @Tags tracks
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Track title"
// @Param audioUrl128 formData string true "128kbps asset URL"
// @Param audioUrl320 formData string false "320kbps asset URL"
// @Param duration formData int false "Duration in seconds"
// @Param accessLevel formData string false "free, subscriber or purchase"
// @Param price formData int false "Price in cents (purchase level)"
// @Param albumArt formData file false "Album art"
// @Security BearerAuth
// @Success 201 {object} models.Track
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Artist profile not found"
// @Router /tracks [post]
func CreateTrack(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var artist models.ArtistProfile
	if err := db.DB.First(&artist, "user_id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artist profile not found"})
		return
	}

	title := c.Request.FormValue("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	audioURL128 := c.Request.FormValue("audioUrl128")
	if audioURL128 == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audioUrl128 is required"})
		return
	}

	level := entitlement.AccessLevel(c.Request.FormValue("accessLevel"))
	if level == "" {
		level = entitlement.AccessFree
	}
	switch level {
	case entitlement.AccessFree, entitlement.AccessSubscriber, entitlement.AccessPurchase:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "accessLevel must be free, subscriber or purchase"})
		return
	}

	var price int
	if _, err := fmt.Sscanf(c.Request.FormValue("price"), "%d", &price); err != nil {
		price = 0
	}
	if level == entitlement.AccessPurchase && price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Purchase-level tracks require a positive price"})
		return
	}

	var duration int
	if _, err := fmt.Sscanf(c.Request.FormValue("duration"), "%d", &duration); err != nil {
		duration = 0
	}

	track := models.Track{
		ArtistProfileID: artist.ID,
		Title:           title,
		AudioURL128:     audioURL128,
		AudioURL320:     c.Request.FormValue("audioUrl320"),
		Duration:        duration,
		AccessLevel:     level,
		Price:           price,
		ReleaseDate:     time.Now(),
	}

	file, err := c.FormFile("albumArt")
	if err == nil && file != nil {
		artURL, err := utils.UploadImage(file, "album_art", "track")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error uploading album art: " + err.Error()})
			return
		}
		track.AlbumArtURL = artURL
	}

	if err := db.DB.Create(&track).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating track: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Track created in CreateTrack")
	c.JSON(http.StatusCreated, track)
}

// @Summary List an artist's tracks
// @Description Retrieve an artist's catalog. Every entry carries the viewer's entitlement decision; one ledger read serves the whole page.
// @Tags tracks
// @Produce json
// @Param slug path string true "Artist slug"
// @Success 200 {array} TrackView
// @Failure 404 {object} map[string]string "error: Artist not found"
// @Router /artists/{slug}/tracks [get]
func GetArtistTracks(c *gin.Context) {
	slug := c.Param("slug")

	var artist models.ArtistProfile
	if err := db.DB.First(&artist, "slug = ?", slug).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artist not found"})
		return
	}

	var trackList []models.Track
	if err := db.DB.Where("artist_profile_id = ?", artist.ID).
		Order("release_date DESC").Find(&trackList).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving tracks: " + err.Error()})
		return
	}

	engine := entitlement.New(ledger.Cached(ledger.Lookup))
	viewer := viewerFrom(c)

	views := make([]TrackView, 0, len(trackList))
	for _, track := range trackList {
		views = append(views, TrackView{
			Track:  track,
			Access: engine.Evaluate(viewer, track.Gated()),
		})
	}

	c.JSON(http.StatusOK, views)
}

// @Summary Get a track by ID
// @Tags tracks
// @Produce json
// @Param id path string true "Track ID"
// @Success 200 {object} TrackView
// @Failure 404 {object} map[string]string "error: Track not found"
// @Router /tracks/{id} [get]
func GetTrackByID(c *gin.Context) {
	trackID := c.Param("id")

	var track models.Track
	if err := db.DB.Preload("Artist").First(&track, "id = ?", trackID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Track not found"})
		return
	}

	engine := entitlement.New(ledger.Lookup)
	c.JSON(http.StatusOK, TrackView{
		Track:  track,
		Access: engine.Evaluate(viewerFrom(c), track.Gated()),
	})
}

// @Summary Stream a track
// @Description Resolve the playable asset for the viewer. Full asset when granted, a 30-second clip for previews, a locked payload otherwise. A failed entitlement check denies access, it never grants it.
// @Tags tracks
// @Produce json
// @Param id path string true "Track ID"
// @Success 200 {object} map[string]interface{} "url, decision, previewSeconds"
// @Failure 403 {object} map[string]interface{} "decision: denied, callToAction"
// @Failure 404 {object} map[string]string "error: Track not found"
// @Router /tracks/{id}/stream [get]
func StreamTrack(c *gin.Context) {
	trackID := c.Param("id")

	var track models.Track
	if err := db.DB.First(&track, "id = ?", trackID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Track not found"})
		return
	}

	engine := entitlement.New(ledger.Lookup)
	viewer := viewerFrom(c)
	access := engine.Evaluate(viewer, track.Gated())

	switch access.Decision {
	case entitlement.Granted:
		url := track.AudioURL320
		if url == "" {
			url = track.AudioURL128
		}

		db.DB.Model(&track).UpdateColumn("play_count", gorm.Expr("play_count + 1"))

		c.JSON(http.StatusOK, gin.H{
			"decision":    access.Decision,
			"accessLevel": access.Level,
			"url":         url,
		})

	case entitlement.PreviewOnly:
		// media fragment so the client player stops at the preview boundary
		c.JSON(http.StatusOK, gin.H{
			"decision":       access.Decision,
			"accessLevel":    access.Level,
			"url":            fmt.Sprintf("%s#t=0,%d", track.AudioURL128, access.PreviewSeconds),
			"previewSeconds": access.PreviewSeconds,
			"callToAction":   "Subscribe to this artist to unlock full access",
		})

	default:
		utils.LogErrorWithUser(viewer.ID, nil, "Stream denied in StreamTrack: "+access.Reason)
		c.JSON(http.StatusForbidden, gin.H{
			"decision":     access.Decision,
			"accessLevel":  access.Level,
			"callToAction": "Subscribe to this artist to unlock full access",
		})
	}
}

// @Summary Delete a track
// @Description Delete a track owned by the connected artist
// @Tags tracks
// @Produce json
// @Param id path string true "Track ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Track deleted successfully"
// @Failure 403 {object} map[string]string "error: Not the owner"
// @Failure 404 {object} map[string]string "error: Track not found"
// @Router /tracks/{id} [delete]
func DeleteTrack(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	trackID := c.Param("id")
	if _, err := uuid.Parse(trackID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid track ID"})
		return
	}

	var track models.Track
	if err := db.DB.First(&track, "id = ?", trackID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Track not found"})
		return
	}

	var artist models.ArtistProfile
	if err := db.DB.First(&artist, "user_id = ?", userID).Error; err != nil || artist.ID != track.ArtistProfileID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to delete this track"})
		return
	}

	if err := db.DB.Delete(&track).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting track: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Track deleted in DeleteTrack")
	c.JSON(http.StatusOK, gin.H{"message": "Track deleted successfully"})
}
