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

// LikeHandler handles the like toggle endpoint
type LikeHandler struct {
	likeRepository repositories.LikeRepository
	postRepository repositories.PostRepository
	engine         *notifications.Engine
	publisher      *realtime.Publisher
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(
	likeRepo repositories.LikeRepository,
	postRepo repositories.PostRepository,
	engine *notifications.Engine,
	publisher *realtime.Publisher,
) *LikeHandler {
	return &LikeHandler{
		likeRepository: likeRepo,
		postRepository: postRepo,
		engine:         engine,
		publisher:      publisher,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.ToggleLike)
	g.GET("/posts/liked", h.GetLikedPostIDs)
}

// ToggleLike flips the caller's like on a post. The row mutation and the
// cached counter move in one transaction; a notification is created only on
// the unliked-to-liked transition. The response carries the counter as
// re-read from the store after the write, and the same absolute counts go
// out on the post's channel so other viewers reconcile without polling.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	liked, err := h.likeRepository.Toggle(userID, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if liked {
		h.engine.Create(c.Request().Context(), models.NotificationTypeLike, userID, postID, nil)
	}

	// Authoritative counts come from a fresh read, not client arithmetic
	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publisher.PublishPostUpdated(realtime.PostUpdatedEvent{
		PostID:       postID,
		LikeCount:    post.LikeCount,
		CommentCount: post.CommentCount,
		RepostCount:  post.RepostCount,
		Liked:        &liked,
		UserID:       userID,
	})

	return c.JSON(http.StatusOK, models.LikeToggleResponse{Liked: liked, Post: *post})
}

// GetLikedPostIDs lists the ids of posts the caller has liked, for seeding
// client view state after a reload
func (h *LikeHandler) GetLikedPostIDs(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ids, err := h.likeRepository.GetLikedPostIDs(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"likedPostIds": ids})
}
