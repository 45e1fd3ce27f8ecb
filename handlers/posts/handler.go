package posts

import (
	"encoding/json"
	"net/http"

	"github.com/m3rcey/crwn/db"
	"github.com/m3rcey/crwn/entitlement"
	"github.com/m3rcey/crwn/ledger"
	"github.com/m3rcey/crwn/models"
	"github.com/m3rcey/crwn/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// PostView is a feed entry after gating. A locked post keeps its author and
// timestamp but loses its body and media.
type PostView struct {
	models.Post
	Locked bool               `json:"locked"`
	Access entitlement.Access `json:"access"`
}

func viewerFrom(c *gin.Context) entitlement.Viewer {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(string); ok {
			return entitlement.Viewer{ID: id}
		}
	}
	return entitlement.Anonymous()
}

// redact builds the viewer-facing version of a post from the engine's
// decision. Posts have no preview concept, so anything but Granted is a
// locked placeholder.
func redact(post models.Post, access entitlement.Access) PostView {
	view := PostView{Post: post, Access: access}
	if access.Decision != entitlement.Granted {
		view.Locked = true
		view.Content = ""
		view.MediaURLs = nil
	}
	return view
}

// @Summary Get an artist's community feed
// @Description Retrieve the community posts of an artist. Gated posts are redacted to locked placeholders for non-entitled viewers.
// @Tags posts
// @Produce json
// @Param slug path string true "Artist slug"
// @Success 200 {array} PostView
// @Failure 404 {object} map[string]string "error: Artist not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /artists/{slug}/posts [get]
func GetArtistFeed(c *gin.Context) {
	slug := c.Param("slug")

	var artist models.ArtistProfile
	if err := db.DB.First(&artist, "slug = ?", slug).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artist not found"})
		return
	}

	var feed []models.Post
	if err := db.DB.Preload("Author").
		Where("artist_profile_id = ?", artist.ID).
		Order("pinned DESC, created_at DESC").
		Find(&feed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving posts: " + err.Error()})
		return
	}

	engine := entitlement.New(ledger.Cached(ledger.Lookup))
	viewer := viewerFrom(c)

	views := make([]PostView, 0, len(feed))
	for _, post := range feed {
		views = append(views, redact(post, engine.Evaluate(viewer, post.Gated())))
	}

	c.JSON(http.StatusOK, views)
}

// @Summary Get a post by ID
// @Description Retrieve a single post, redacted per the viewer's entitlement
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} PostView
// @Failure 404 {object} map[string]string "error: Post not found"
// @Router /posts/{id} [get]
func GetPostByID(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	if err := db.DB.Preload("Author").First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	engine := entitlement.New(ledger.Lookup)
	c.JSON(http.StatusOK, redact(post, engine.Evaluate(viewerFrom(c), post.Gated())))
}

// @Summary Create a post
// @Description Publish a post on the connected artist's community feed
// @Tags posts
// @Accept json
// @Produce json
// @Param post body models.PostCreate true "Post"
// @Security BearerAuth
// @Success 201 {object} models.Post
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Artist profile not found"
// @Router /posts [post]
func CreatePost(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var input models.PostCreate
	if !utils.ValidateRequestBody(c, &input) {
		return
	}

	var artist models.ArtistProfile
	if err := db.DB.First(&artist, "user_id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artist profile not found"})
		return
	}

	level := input.AccessLevel
	if level == "" {
		level = entitlement.AccessFree
	}
	switch level {
	case entitlement.AccessFree, entitlement.AccessSubscriber, entitlement.AccessPurchase:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "accessLevel must be free, subscriber or purchase"})
		return
	}

	postType := input.PostType
	if postType == "" {
		postType = models.PostTypeText
	}

	mediaURLs, err := json.Marshal(input.MediaURLs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid media URLs format"})
		return
	}

	post := models.Post{
		AuthorID:        userID.(string),
		ArtistProfileID: artist.ID,
		Content:         input.Content,
		PostType:        postType,
		MediaURLs:       datatypes.JSON(mediaURLs),
		AccessLevel:     level,
		Pinned:          input.Pinned,
	}

	if err := db.DB.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating post: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Post created in CreatePost")
	c.JSON(http.StatusCreated, post)
}

// @Summary Delete a post
// @Description Delete a post authored by the connected user
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Post deleted successfully"
// @Failure 403 {object} map[string]string "error: Not the author"
// @Failure 404 {object} map[string]string "error: Post not found"
// @Router /posts/{id} [delete]
func DeletePost(c *gin.Context) {
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

	if post.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to delete this post"})
		return
	}

	if err := db.DB.Delete(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting post: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Post deleted in DeletePost")
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}
