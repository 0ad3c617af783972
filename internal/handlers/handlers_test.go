package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pulsefeed/backend/internal/notifications"
	"github.com/pulsefeed/backend/internal/realtime"
	"github.com/pulsefeed/backend/validators"
)

// testEnv wires handlers the way the router does, over the in-memory store
// and the in-process relay
type testEnv struct {
	e     *echo.Echo
	store *fakeStore
	relay *realtime.MemoryRelay

	likeHandler         *LikeHandler
	postHandler         *PostHandler
	commentHandler      *CommentHandler
	notificationHandler *NotificationHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	e := echo.New()
	e.Validator = validators.NewValidator()

	store := newFakeStore()
	relay := realtime.NewMemoryRelay()
	publisher := realtime.NewPublisher(relay)
	engine := notifications.NewEngine(store, store, store, publisher)

	return &testEnv{
		e:                   e,
		store:               store,
		relay:               relay,
		likeHandler:         NewLikeHandler(store, store, engine, publisher),
		postHandler:         NewPostHandler(store, engine, publisher),
		commentHandler:      NewCommentHandler(store, store, engine, publisher),
		notificationHandler: NewNotificationHandler(store),
	}
}

// request builds an echo context carrying the given authenticated identity
func (env *testEnv) request(method, path, body, userID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	if userID != "" {
		c.Set("userID", userID)
	}
	return c, rec
}

// capture collects every envelope delivered on a channel
func (env *testEnv) capture(t *testing.T, channel string) *[]realtime.Envelope {
	t.Helper()
	var envelopes []realtime.Envelope
	_, err := env.relay.Subscribe(channel, func(data []byte) {
		var envelope realtime.Envelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			t.Errorf("malformed envelope on %s: %v", channel, err)
			return
		}
		envelopes = append(envelopes, envelope)
	})
	if err != nil {
		t.Fatalf("subscribe %s: %v", channel, err)
	}
	return &envelopes
}

func decodePostUpdated(t *testing.T, envelope realtime.Envelope) realtime.PostUpdatedEvent {
	t.Helper()
	var event realtime.PostUpdatedEvent
	if err := json.Unmarshal(envelope.Data, &event); err != nil {
		t.Fatalf("decode post-updated: %v", err)
	}
	return event
}
