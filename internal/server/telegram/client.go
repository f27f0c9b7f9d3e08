// Package telegram is a minimal client for the Telegram Bot API getUpdates
// endpoint. The upstream service is opaque: callers only see a list of
// updates or an error, and treat any error as "no new data this cycle".
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Update is a single entry from getUpdates. Only channel posts are of
// interest; every other update kind leaves ChannelPost nil.
type Update struct {
	UpdateID    int64 `json:"update_id"`
	ChannelPost *Post `json:"channel_post"`
}

// Post is a channel post payload. Date is Unix epoch seconds.
type Post struct {
	MessageID int64  `json:"message_id"`
	Text      string `json:"text"`
	Date      int64  `json:"date"`
	Chat      Chat   `json:"chat"`
}

type Chat struct {
	Title    string `json:"title"`
	Username string `json:"username"`
}

type updatesResponse struct {
	OK          bool     `json:"ok"`
	Result      []Update `json:"result"`
	Description string   `json:"description"`
}

type Client struct {
	baseURL  string
	botToken string
	http     *http.Client
}

// NewClient builds a client against baseURL (e.g. "https://api.telegram.org")
// with a bounded per-request timeout.
func NewClient(baseURL, botToken string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  baseURL,
		botToken: botToken,
		http:     &http.Client{Timeout: timeout},
	}
}

// GetUpdates fetches the pending updates for the bot. A transport failure,
// a non-2xx status, or an ok=false envelope all return an error.
func (c *Client) GetUpdates(ctx context.Context) ([]Update, error) {
	url := fmt.Sprintf("%s/bot%s/getUpdates", c.baseURL, c.botToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building getUpdates request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling getUpdates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("getUpdates returned status %d", resp.StatusCode)
	}

	var parsed updatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding getUpdates response: %w", err)
	}

	if !parsed.OK {
		return nil, fmt.Errorf("getUpdates not ok: %s", parsed.Description)
	}

	return parsed.Result, nil
}
