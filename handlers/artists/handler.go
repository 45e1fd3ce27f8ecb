package artists

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/m3rcey/crwn/db"
	"github.com/m3rcey/crwn/ledger"
	"github.com/m3rcey/crwn/models"
	"github.com/m3rcey/crwn/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// @Summary List artists
// @Description Retrieve all verified artist profiles
// @Tags artists
// @Produce json
// @Success 200 {array} models.ArtistProfile
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /artists [get]
func GetAllArtists(c *gin.Context) {
	var artists []models.ArtistProfile
	query := db.DB.Preload("User").Preload("Tiers").Order("created_at DESC")

	if verified := c.Query("verified"); verified != "" {
		query = query.Where("is_verified = ?", verified == "true")
	}

	if err := query.Find(&artists).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving artists: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, artists)
}

// @Summary Get an artist by slug
// @Description Retrieve an artist profile with tiers. When the viewer is authenticated, includes their subscription state for this artist.
// @Tags artists
// @Produce json
// @Param slug path string true "Artist slug"
// @Success 200 {object} map[string]interface{} "artist, isSubscribed"
// @Failure 404 {object} map[string]string "error: Artist not found"
// @Router /artists/{slug} [get]
func GetArtistBySlug(c *gin.Context) {
	slug := c.Param("slug")

	var artist models.ArtistProfile
	if err := db.DB.Preload("User").Preload("Tiers").First(&artist, "slug = ?", slug).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artist not found"})
		return
	}

	isSubscribed := false
	if userID, exists := c.Get("user_id"); exists {
		record, err := ledger.Lookup(userID.(string), artist.ID)
		if err != nil {
			// the page still renders, the viewer just shows as not subscribed
			utils.LogErrorWithUser(userID, err, "Ledger lookup failed in GetArtistBySlug")
		} else if record != nil && record.GrantsAt(time.Now()) {
			isSubscribed = true
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"artist":       artist,
		"isSubscribed": isSubscribed,
	})
}

// @Summary Update the connected artist's profile
// @Description Update tagline and banner of the connected artist
// @Tags artists
// @Accept multipart/form-data
// @Produce json
// @Param tagline formData string false "Tagline"
// @Param banner formData file false "Banner image"
// @Security BearerAuth
// @Success 200 {object} models.ArtistProfile
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Artist profile not found"
// @Router /artists/me [put]
func UpdateMyProfile(c *gin.Context) {
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

	updates := map[string]interface{}{}

	if tagline := c.Request.FormValue("tagline"); tagline != "" {
		updates["tagline"] = tagline
	}

	file, err := c.FormFile("banner")
	if err == nil && file != nil {
		bannerURL, err := utils.UploadImage(file, "banners", "banner")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error uploading banner: " + err.Error()})
			return
		}
		updates["banner_url"] = bannerURL
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&artist).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating artist profile: " + err.Error()})
			return
		}
	}

	utils.LogSuccessWithUser(userID, "Artist profile updated in UpdateMyProfile")
	c.JSON(http.StatusOK, artist)
}

// @Summary Get the connected artist's tiers
// @Tags artists
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.SubscriptionTier
// @Failure 404 {object} map[string]string "error: Artist profile not found"
// @Router /artists/me/tiers [get]
func GetMyTiers(c *gin.Context) {
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

	var tiers []models.SubscriptionTier
	if err := db.DB.Where("artist_profile_id = ?", artist.ID).Order("price ASC").Find(&tiers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving tiers: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, tiers)
}

// @Summary Create a subscription tier
// @Description Add a tier to the connected artist's profile. Price is in cents and must be positive.
// @Tags artists
// @Accept json
// @Produce json
// @Param tier body models.TierUpsert true "Tier"
// @Security BearerAuth
// @Success 201 {object} models.SubscriptionTier
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 404 {object} map[string]string "error: Artist profile not found"
// @Router /artists/me/tiers [post]
func CreateMyTier(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var input models.TierUpsert
	if !utils.ValidateRequestBody(c, &input) {
		return
	}

	if input.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be positive"})
		return
	}

	var artist models.ArtistProfile
	if err := db.DB.First(&artist, "user_id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artist profile not found"})
		return
	}

	benefits, err := json.Marshal(input.Benefits)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid benefits format"})
		return
	}

	tier := models.SubscriptionTier{
		ArtistProfileID: artist.ID,
		Name:            input.Name,
		Price:           input.Price,
		Description:     input.Description,
		Benefits:        datatypes.JSON(benefits),
	}

	if err := db.DB.Create(&tier).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating tier: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Tier created in CreateMyTier")
	c.JSON(http.StatusCreated, tier)
}
