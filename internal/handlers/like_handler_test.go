package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLikeRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	c, _ := env.request(http.MethodPost, "/api/v1/posts/p1/like", "", "")
	c.SetParamNames("id")
	c.SetParamValues("p1")

	err := env.likeHandler.ToggleLike(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)
}

func TestToggleLikeMissingPost(t *testing.T) {
	env := newTestEnv(t)
	env.store.addUser("u1", "Alice")

	c, _ := env.request(http.MethodPost, "/api/v1/posts/nope/like", "", "u1")
	c.SetParamNames("id")
	c.SetParamValues("nope")

	err := env.likeHandler.ToggleLike(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, err.(*echo.HTTPError).Code)
}

func TestToggleLikeCreatesNotificationAndBroadcasts(t *testing.T) {
	env := newTestEnv(t)
	env.store.addUser("u1", "Alice")
	env.store.addUser("u2", "Bob")
	env.store.addPost("p1", "u2", "hello")

	events := env.capture(t, realtime.PostChannel("p1"))

	c, rec := env.request(http.MethodPost, "/api/v1/posts/p1/like", "", "u1")
	c.SetParamNames("id")
	c.SetParamValues("p1")
	require.NoError(t, env.likeHandler.ToggleLike(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.LikeToggleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Liked)
	assert.Equal(t, 1, resp.LikeCount)

	// Cached counter matches the like table
	likeRows, err := env.store.GetLikesCountByPostID("p1")
	require.NoError(t, err)
	assert.EqualValues(t, resp.LikeCount, likeRows)

	// Notification for the post's author, from the liker
	created := env.store.notificationsFor("u2")
	require.Len(t, created, 1)
	assert.Equal(t, models.NotificationTypeLike, created[0].Type)
	assert.Equal(t, "u1", created[0].SenderID)
	assert.Equal(t, "Alice liked your post", created[0].Content)

	// Broadcast carries absolute counts and the acting identity
	require.Len(t, *events, 1)
	event := decodePostUpdated(t, (*events)[0])
	assert.Equal(t, realtime.EventPostUpdated, (*events)[0].Event)
	assert.Equal(t, "p1", event.PostID)
	assert.Equal(t, 1, event.LikeCount)
	assert.Equal(t, "u1", event.UserID)
	require.NotNil(t, event.Liked)
	assert.True(t, *event.Liked)
}

func TestToggleLikeUnlikeRemovesLikeWithoutNotification(t *testing.T) {
	env := newTestEnv(t)
	env.store.addUser("u1", "Alice")
	env.store.addUser("u2", "Bob")
	env.store.addPost("p1", "u2", "hello")

	like := func() *models.LikeToggleResponse {
		c, rec := env.request(http.MethodPost, "/api/v1/posts/p1/like", "", "u1")
		c.SetParamNames("id")
		c.SetParamValues("p1")
		require.NoError(t, env.likeHandler.ToggleLike(c))
		var resp models.LikeToggleResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return &resp
	}

	first := like()
	assert.True(t, first.Liked)
	assert.Equal(t, 1, first.LikeCount)

	second := like()
	assert.False(t, second.Liked)
	assert.Equal(t, 0, second.LikeCount)

	// Only the liked transition notified
	assert.Len(t, env.store.notificationsFor("u2"), 1)

	likeRows, err := env.store.GetLikesCountByPostID("p1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, likeRows)
}

func TestToggleLikeOwnPostNeverNotifies(t *testing.T) {
	env := newTestEnv(t)
	env.store.addUser("u1", "Alice")
	env.store.addPost("p1", "u1", "self")

	c, rec := env.request(http.MethodPost, "/api/v1/posts/p1/like", "", "u1")
	c.SetParamNames("id")
	c.SetParamValues("p1")
	require.NoError(t, env.likeHandler.ToggleLike(c))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Empty(t, env.store.notificationsFor("u1"))
}

func TestToggleLikeStoreFailureReturns500(t *testing.T) {
	env := newTestEnv(t)
	env.store.addUser("u1", "Alice")
	env.store.addUser("u2", "Bob")
	env.store.addPost("p1", "u2", "hello")
	env.store.failToggle = true

	events := env.capture(t, realtime.PostChannel("p1"))

	c, _ := env.request(http.MethodPost, "/api/v1/posts/p1/like", "", "u1")
	c.SetParamNames("id")
	c.SetParamValues("p1")

	err := env.likeHandler.ToggleLike(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, err.(*echo.HTTPError).Code)

	// Nothing committed, nothing broadcast
	assert.Empty(t, env.store.notificationsFor("u2"))
	assert.Empty(t, *events)
}

func TestGetLikedPostIDs(t *testing.T) {
	env := newTestEnv(t)
	env.store.addUser("u1", "Alice")
	env.store.addUser("u2", "Bob")
	env.store.addPost("p1", "u2", "hello")

	c, _ := env.request(http.MethodPost, "/api/v1/posts/p1/like", "", "u1")
	c.SetParamNames("id")
	c.SetParamValues("p1")
	require.NoError(t, env.likeHandler.ToggleLike(c))

	c, rec := env.request(http.MethodGet, "/api/v1/posts/liked", "", "u1")
	require.NoError(t, env.likeHandler.GetLikedPostIDs(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		LikedPostIDs []string `json:"likedPostIds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"p1"}, resp.LikedPostIDs)
}
