package users

import (
	"net/http"

	"github.com/m3rcey/crwn/db"
	"github.com/m3rcey/crwn/models"
	"github.com/m3rcey/crwn/utils"

	"github.com/gin-gonic/gin"
)

// @Summary Get the connected user
// @Description Return the profile of the connected user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: User not found"
// @Router /users/me [get]
func GetMe(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Update the connected user
// @Description Update display name, bio and avatar of the connected user
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param displayName formData string false "Display name"
// @Param bio formData string false "Bio"
// @Param avatar formData file false "Avatar image"
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /users/me [put]
func UpdateMe(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updates := map[string]interface{}{}

	if displayName := c.Request.FormValue("displayName"); displayName != "" {
		updates["display_name"] = displayName
	}
	if bio := c.Request.FormValue("bio"); bio != "" {
		updates["bio"] = bio
	}

	file, err := c.FormFile("avatar")
	if err == nil && file != nil {
		avatarURL, err := utils.UploadImage(file, "avatars", "avatar")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error uploading avatar: " + err.Error()})
			return
		}
		updates["avatar_url"] = avatarURL
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating user: " + err.Error()})
			return
		}
	}

	utils.LogSuccessWithUser(userID, "Profile updated in UpdateMe")
	c.JSON(http.StatusOK, user)
}
