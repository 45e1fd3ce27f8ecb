package player

import (
	"net/http"

	"github.com/m3rcey/crwn/db"
	"github.com/m3rcey/crwn/models"
	playerpkg "github.com/m3rcey/crwn/player"

	"github.com/gin-gonic/gin"
)

var store playerpkg.Store = playerpkg.GormStore{}

// @Summary List the connected user's favorite tracks
// @Tags player
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Track
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /player/favorites [get]
func GetFavorites(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	trackIDs, err := store.ListFavorites(userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving favorites: " + err.Error()})
		return
	}

	trackList := []models.Track{}
	if len(trackIDs) > 0 {
		if err := db.DB.Where("id IN ?", trackIDs).Find(&trackList).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving tracks: " + err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, trackList)
}

// @Summary Toggle a favorite track
// @Description Add or remove a track from the connected user's favorites
// @Tags player
// @Produce json
// @Param trackId path string true "Track ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "favorite: new state"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Track not found"
// @Router /player/favorites/{trackId} [post]
func ToggleFavorite(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	trackID := c.Param("trackId")

	var track models.Track
	if err := db.DB.First(&track, "id = ?", trackID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Track not found"})
		return
	}

	session, err := playerpkg.NewSession(userID.(string), store)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading favorites: " + err.Error()})
		return
	}

	favorite, err := session.ToggleFavorite(trackID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating favorite: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorite": favorite})
}
