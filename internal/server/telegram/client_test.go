package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUpdates_ParsesChannelPosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken123/getUpdates", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"ok": true,
			"result": [
				{"update_id": 1, "channel_post": {"message_id": 42, "text": "hello", "date": 1700000000, "chat": {"title": "News", "username": "newschannel"}}},
				{"update_id": 2}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "token123", time.Second)
	updates, err := c.GetUpdates(context.Background())
	require.NoError(t, err)
	require.Len(t, updates, 2)

	require.NotNil(t, updates[0].ChannelPost)
	assert.Equal(t, int64(42), updates[0].ChannelPost.MessageID)
	assert.Equal(t, "hello", updates[0].ChannelPost.Text)
	assert.Equal(t, int64(1700000000), updates[0].ChannelPost.Date)
	assert.Equal(t, "newschannel", updates[0].ChannelPost.Chat.Username)

	assert.Nil(t, updates[1].ChannelPost)
}

func TestGetUpdates_NotOKEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "description": "Unauthorized"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad", time.Second)
	_, err := c.GetUpdates(context.Background())
	assert.ErrorContains(t, err, "Unauthorized")
}

func TestGetUpdates_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "token", time.Second)
	_, err := c.GetUpdates(context.Background())
	assert.ErrorContains(t, err, "status 502")
}

func TestGetUpdates_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "token", 20*time.Millisecond)
	_, err := c.GetUpdates(context.Background())
	assert.Error(t, err)
}
