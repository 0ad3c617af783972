package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/notifications"
	"github.com/pulsefeed/backend/internal/realtime"
	"github.com/pulsefeed/backend/internal/repositories"
	"gorm.io/gorm"
)

// PostHandler handles post creation, feed reads and reposting
type PostHandler struct {
	postRepository repositories.PostRepository
	engine         *notifications.Engine
	publisher      *realtime.Publisher
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	engine *notifications.Engine,
	publisher *realtime.Publisher,
) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		engine:         engine,
		publisher:      publisher,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts", h.GetFeed)
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.POST("/posts/:id/repost", h.CreateRepost)
}

// GetFeed returns all posts newest first, reposts wrapped with their
// original
func (h *PostHandler) GetFeed(c echo.Context) error {
	feed, err := h.postRepository.GetFeed(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, feed)
}

// CreatePost creates a new post authored by the caller
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post := &models.Post{
		Title:    req.Title,
		Content:  &req.Content,
		AuthorID: userID,
	}
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a single post with comments and counts
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, post)
}

// CreateRepost creates the caller's repost of a post, or replays the
// existing one. The action is idempotent under double-submission: the
// store-level uniqueness on (author, original) is the authority, and a
// replay returns 200 with the same descriptor instead of an error.
func (h *PostHandler) CreateRepost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	originalPostID := c.Param("id")
	ctx := c.Request().Context()

	original, err := h.postRepository.GetPostByID(ctx, originalPostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	existing, err := h.postRepository.GetRepostByAuthor(ctx, userID, originalPostID)
	if err == nil {
		return c.JSON(http.StatusOK, models.RepostDescriptor{
			Type:       "repost",
			CreatedAt:  existing.CreatedAt,
			Post:       original,
			RepostedBy: existing.Author.ToCompact(),
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	repost, err := h.postRepository.CreateRepost(ctx, userID, originalPostID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.engine.Create(ctx, models.NotificationTypeRepost, userID, originalPostID, nil)

	likeCount, commentCount, repostCount, err := h.postRepository.GetCounts(ctx, originalPostID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	original.LikeCount = likeCount
	original.CommentCount = commentCount
	original.RepostCount = repostCount

	descriptor := models.RepostDescriptor{
		Type:       "repost",
		CreatedAt:  repost.CreatedAt,
		Post:       original,
		RepostedBy: repost.Author.ToCompact(),
	}

	h.publisher.PublishPostUpdated(realtime.PostUpdatedEvent{
		PostID:       originalPostID,
		LikeCount:    likeCount,
		CommentCount: commentCount,
		RepostCount:  repostCount,
		NewRepost:    &descriptor,
		UserID:       userID,
	})

	return c.JSON(http.StatusCreated, descriptor)
}
