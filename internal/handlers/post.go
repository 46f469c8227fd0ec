package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/avoronov/devlink/internal/database"
	"github.com/avoronov/devlink/internal/handlers/dto"
	"github.com/avoronov/devlink/internal/middleware"
	"github.com/avoronov/devlink/internal/models"
)

// PostStore is the slice of the database the post handlers need.
type PostStore interface {
	GetUser(id string) (*models.User, error)
	CreatePost(post *models.Post) error
	GetPost(id string) (*models.Post, error)
	GetAllPosts() ([]models.Post, error)
	DeletePost(id string) error
	LikePost(like *models.Like) error
	UnlikePost(postID, userID string) error
	GetPostLikes(postID string) ([]models.Like, error)
	AddComment(comment *models.Comment) error
	GetComment(postID, commentID string) (*models.Comment, error)
	DeleteComment(postID, commentID string) error
	GetPostComments(postID string) ([]models.Comment, error)
}

type PostHandler struct {
	store PostStore
}

func NewPostHandler(store PostStore) *PostHandler {
	return &PostHandler{store: store}
}

// CreatePost stores a post with a snapshot of the author's current name and
// avatar.
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingErrors(err))
		return
	}

	user, err := h.store.GetUser(userID.String())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "user not found"})
			return
		}
		log.Printf("get user failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create post"})
		return
	}

	post := &models.Post{
		UserID:    userID,
		Text:      req.Text,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		CreatedAt: time.Now(),
	}

	if err := h.store.CreatePost(post); err != nil {
		log.Printf("create post failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, formatPostResponse(post))
}

// GetPosts returns all posts, newest first.
func (h *PostHandler) GetPosts(c *gin.Context) {
	posts, err := h.store.GetAllPosts()
	if err != nil {
		log.Printf("list posts failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get posts"})
		return
	}

	result := make([]gin.H, len(posts))
	for i := range posts {
		result[i] = formatPostResponse(&posts[i])
	}

	c.JSON(http.StatusOK, gin.H{"posts": result})
}

// GetPost returns one post by id.
func (h *PostHandler) GetPost(c *gin.Context) {
	post, ok := h.findPost(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, formatPostResponse(post))
}

// DeletePost removes a post; only its author may do so.
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	post, ok := h.findPost(c)
	if !ok {
		return
	}

	if post.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only delete your own posts"})
		return
	}

	if err := h.store.DeletePost(post.ID.String()); err != nil {
		log.Printf("delete post failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "post removed"})
}

// LikePost records the caller's like. Liking twice is a conflict; the
// uniqueness check and the insert are one storage operation.
func (h *PostHandler) LikePost(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	post, ok := h.findPost(c)
	if !ok {
		return
	}

	like := &models.Like{
		PostID:    post.ID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	if err := h.store.LikePost(like); err != nil {
		if errors.Is(err, database.ErrAlreadyLiked) {
			c.JSON(http.StatusConflict, gin.H{"error": "post already liked"})
			return
		}
		log.Printf("like post failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to like post"})
		return
	}

	h.respondWithLikes(c, post.ID.String())
}

// UnlikePost removes the caller's like by (post, user) identity.
func (h *PostHandler) UnlikePost(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	post, ok := h.findPost(c)
	if !ok {
		return
	}

	if err := h.store.UnlikePost(post.ID.String(), userID.String()); err != nil {
		if errors.Is(err, database.ErrNotLiked) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "post has not yet been liked"})
			return
		}
		log.Printf("unlike post failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unlike post"})
		return
	}

	h.respondWithLikes(c, post.ID.String())
}

// AddComment appends a comment with an author snapshot and returns the
// updated comment list.
func (h *PostHandler) AddComment(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingErrors(err))
		return
	}

	post, ok := h.findPost(c)
	if !ok {
		return
	}

	user, err := h.store.GetUser(userID.String())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "user not found"})
			return
		}
		log.Printf("get user failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add comment"})
		return
	}

	comment := &models.Comment{
		PostID:    post.ID,
		UserID:    userID,
		Text:      req.Text,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		CreatedAt: time.Now(),
	}

	if err := h.store.AddComment(comment); err != nil {
		log.Printf("add comment failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add comment"})
		return
	}

	h.respondWithComments(c, post.ID.String())
}

// DeleteComment removes a comment; only its author may do so.
func (h *PostHandler) DeleteComment(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	post, ok := h.findPost(c)
	if !ok {
		return
	}

	commentID := c.Param("comment_id")
	if _, err := uuid.Parse(commentID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "comment does not exist"})
		return
	}

	comment, err := h.store.GetComment(post.ID.String(), commentID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "comment does not exist"})
			return
		}
		log.Printf("get comment failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get comment"})
		return
	}

	if comment.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only delete your own comments"})
		return
	}

	if err := h.store.DeleteComment(post.ID.String(), commentID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "comment does not exist"})
			return
		}
		log.Printf("delete comment failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete comment"})
		return
	}

	h.respondWithComments(c, post.ID.String())
}

// findPost resolves the :id route param to a post, writing the 404 response
// itself when the id is malformed or unknown.
func (h *PostHandler) findPost(c *gin.Context) (*models.Post, bool) {
	postID := c.Param("id")
	if _, err := uuid.Parse(postID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "post not found"})
		return nil, false
	}

	post, err := h.store.GetPost(postID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "post not found"})
			return nil, false
		}
		log.Printf("get post failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get post"})
		return nil, false
	}

	return post, true
}

func (h *PostHandler) respondWithLikes(c *gin.Context, postID string) {
	likes, err := h.store.GetPostLikes(postID)
	if err != nil {
		log.Printf("load likes failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get likes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": formatLikes(likes)})
}

func (h *PostHandler) respondWithComments(c *gin.Context, postID string) {
	comments, err := h.store.GetPostComments(postID)
	if err != nil {
		log.Printf("load comments failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get comments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": formatComments(comments)})
}

func formatPostResponse(post *models.Post) gin.H {
	return gin.H{
		"id":         post.ID,
		"user_id":    post.UserID,
		"text":       post.Text,
		"name":       post.Name,
		"avatar":     post.AvatarURL,
		"created_at": post.CreatedAt,
		"likes":      formatLikes(post.Likes),
		"comments":   formatComments(post.Comments),
	}
}

func formatLikes(likes []models.Like) []gin.H {
	result := make([]gin.H, len(likes))
	for i, like := range likes {
		result[i] = gin.H{
			"id":      like.ID,
			"user_id": like.UserID,
		}
	}
	return result
}

func formatComments(comments []models.Comment) []gin.H {
	result := make([]gin.H, len(comments))
	for i, comment := range comments {
		result[i] = gin.H{
			"id":         comment.ID,
			"user_id":    comment.UserID,
			"text":       comment.Text,
			"name":       comment.Name,
			"avatar":     comment.AvatarURL,
			"created_at": comment.CreatedAt,
		}
	}
	return result
}
