package comment

import (
	"net/http"

	"github.com/m3rcey/crwn/db"
	"github.com/m3rcey/crwn/models"
	"github.com/m3rcey/crwn/utils"

	"github.com/gin-gonic/gin"
)

type commentResponse struct {
	ID          string `json:"id"`
	PostID      string `json:"postId"`
	UserID      string `json:"userId"`
	Content     string `json:"content"`
	DisplayName string `json:"displayName"`
	CreatedAt   string `json:"createdAt"`
}

// @Summary Get the comments of a post
// @Tags comments
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]interface{} "comments"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /posts/{id}/comments [get]
func GetCommentsByPostID(c *gin.Context) {
	postID := c.Param("id")

	var comments []models.Comment
	if err := db.DB.Where("post_id = ?", postID).Order("created_at ASC").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	responses := make([]commentResponse, 0, len(comments))
	for _, comment := range comments {
		var user models.User
		db.DB.Select("display_name").Where("id = ?", comment.UserID).First(&user)

		responses = append(responses, commentResponse{
			ID:          comment.ID,
			PostID:      comment.PostID,
			UserID:      comment.UserID,
			Content:     comment.Content,
			DisplayName: user.DisplayName,
			CreatedAt:   comment.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	c.JSON(http.StatusOK, gin.H{"comments": responses})
}

// @Summary Create a comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param comment body map[string]string true "Comment content"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "comment"
// @Failure 400 {object} map[string]string "error: Invalid request"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Post not found"
// @Router /posts/{id}/comments [post]
func CreateComment(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	postID := c.Param("id")

	var post models.Post
	if err := db.DB.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var commentData struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.BindJSON(&commentData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment data"})
		return
	}

	comment := models.Comment{
		PostID:  postID,
		UserID:  userID.(string),
		Content: commentData.Content,
	}

	if err := db.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save comment"})
		return
	}

	var user models.User
	db.DB.Select("display_name").Where("id = ?", userID).First(&user)

	utils.LogSuccessWithUser(userID, "Comment created in CreateComment")
	c.JSON(http.StatusCreated, gin.H{"comment": commentResponse{
		ID:          comment.ID,
		PostID:      comment.PostID,
		UserID:      comment.UserID,
		Content:     comment.Content,
		DisplayName: user.DisplayName,
		CreatedAt:   comment.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}})
}
