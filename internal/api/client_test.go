package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, "test-token", zap.NewNop())
	c.PollDelay = time.Millisecond
	return c
}

func TestNotificationsDecodesEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/notifications", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"data": {"notifications": [
				{"id": 1, "type": "post_reaction", "actor_id": 2, "recipient_id": 1,
				 "created_at": "2025-06-01T12:00:00Z",
				 "data": {"postId": "665f1", "reaction_type": "like"}}
			]},
			"meta": {"currentPage": 1, "totalPages": 3, "totalItems": 41,
			         "itemsPerPage": 20, "hasNextPage": true, "hasPreviousPage": false}
		}`))
	})

	got, meta, err := c.Notifications(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint(1), got[0].ID)
	assert.Equal(t, "665f1", got[0].Payload.PostID, "wire data normalized into the payload")
	require.NotNil(t, meta)
	assert.True(t, meta.HasNextPage)
	assert.Equal(t, 41, meta.TotalItems)
}

func TestUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, _, err := c.Notifications(context.Background(), 1, 20)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestEnvelopeFailureSurfacesMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success": false, "message": "post not found"}`))
	})

	_, err := c.UnreadCount(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "post not found")
}

func TestPollSessionEnd(t *testing.T) {
	t.Run("returns once the session ends", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			ended := calls.Add(1) >= 3
			w.Write([]byte(`{"success": true, "data": {"id": "s1", "ended": ` + boolJSON(ended) + `}}`))
		})
		c.PollAttempts = 10

		status, err := c.PollSessionEnd(context.Background(), "s1")
		require.NoError(t, err)
		require.NotNil(t, status)
		assert.True(t, status.Ended)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("gives up after the attempt cap", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.Write([]byte(`{"success": true, "data": {"id": "s1", "ended": false}}`))
		})
		c.PollAttempts = 3

		status, err := c.PollSessionEnd(context.Background(), "s1")
		require.NoError(t, err, "exhaustion is a soft failure, not an error")
		assert.Nil(t, status)
		assert.Equal(t, int32(3), calls.Load(), "never polls past the cap")
	})

	t.Run("transient failures count as attempts", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"success": false, "message": "busy"}`))
		})
		c.PollAttempts = 2

		status, err := c.PollSessionEnd(context.Background(), "s1")
		require.NoError(t, err)
		assert.Nil(t, status)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("context cancellation stops the loop", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success": true, "data": {"id": "s1", "ended": false}}`))
		})
		c.PollAttempts = 100
		c.PollDelay = 50 * time.Millisecond

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := c.PollSessionEnd(ctx, "s1")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestBlockRelationships(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/blocks", r.URL.Path)
		w.Write([]byte(`{"success": true, "data": {"blocks": {
			"5": {"blocked_by_me": true},
			"9": {"blocks_me": true}
		}}}`))
	})

	blocks, err := c.BlockRelationships(context.Background())
	require.NoError(t, err)
	assert.True(t, blocks.Blocked(5))
	assert.True(t, blocks.Blocked(9))
	assert.False(t, blocks.Blocked(2))
}

func boolJSON(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
