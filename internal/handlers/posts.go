package handlers

import (
	"net/http"
	"strings"

	"github.com/fannypil/MovieSquad/internal/database"
	"github.com/fannypil/MovieSquad/internal/models"
	"github.com/fannypil/MovieSquad/internal/notify"
	"github.com/gin-gonic/gin"
)

// CreatePost POST /posts
func CreatePost(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var body struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post content is required"})
		return
	}

	post := models.Post{AuthorID: userID, Content: strings.TrimSpace(body.Content)}
	if err := database.DB.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}
	database.DB.Preload("Author").First(&post, "id = ?", post.ID)

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// LikePost POST /posts/:id/like
func LikePost(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	postID := c.Param("id")

	var post models.Post
	if err := database.DB.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var existing models.PostLike
	alreadyLiked := database.DB.
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&existing).Error == nil

	if !alreadyLiked {
		like := models.PostLike{PostID: post.ID, UserID: userID}
		if err := database.DB.Create(&like).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to like post"})
			return
		}

		// No notification for liking your own post, or for re-likes
		if post.AuthorID != userID {
			notifyQuietly(post.AuthorID, models.NotificationTypeLike, notify.Options{
				SenderID:   &userID,
				EntityID:   &post.ID,
				EntityType: models.EntityTypePost,
			})
		}
	}

	var likeCount int64
	database.DB.Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&likeCount)

	c.JSON(http.StatusOK, gin.H{"message": "Post liked", "likes": likeCount})
}

// CommentOnPost POST /posts/:id/comments
func CommentOnPost(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	postID := c.Param("id")

	var body struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment content is required"})
		return
	}

	var post models.Post
	if err := database.DB.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	comment := models.PostComment{
		PostID:  post.ID,
		UserID:  userID,
		Content: strings.TrimSpace(body.Content),
	}
	if err := database.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}
	database.DB.Preload("User").First(&comment, "id = ?", comment.ID)

	if post.AuthorID != userID {
		notifyQuietly(post.AuthorID, models.NotificationTypeComment, notify.Options{
			SenderID:   &userID,
			EntityID:   &post.ID,
			EntityType: models.EntityTypePost,
		})
	}

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}
