// Package telegram implements the notification channel: a minimal Telegram
// Bot API client with explicit delivery acknowledgment. A nil error from
// SendMessage is the only signal callers may treat as "delivered"; the
// reminder worker writes its dedup ledger strictly after that.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goalsapp/reminderd/internal/config"
	"github.com/goalsapp/reminderd/internal/errors"
)

// Client sends messages through the Telegram Bot API.
type Client struct {
	token   string
	apiBase string
	http    *http.Client
}

// NewClient creates a client from configuration.
func NewClient(cfg config.TelegramConfig) *Client {
	return &Client{
		token:   cfg.Token,
		apiBase: cfg.APIBase,
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// sendMessageRequest is the Bot API sendMessage payload.
type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// SendMessage delivers text to a chat. Any non-nil error means the delivery
// was not acknowledged; transient failures (network, non-2xx) are marked
// retryable so the caller skips the ledger write and the next tick retries.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if c.token == "" {
		return errors.ErrMissingToken
	}
	if text == "" {
		return errors.New("empty message text")
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiBase, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Transient("telegram sendMessage", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Transient("telegram sendMessage",
			fmt.Errorf("status %d: %s", resp.StatusCode, string(snippet)))
	}

	return nil
}

// defaultTimeout guards against a zero-value config.
const defaultTimeout = 15 * time.Second

// NewClientWithHTTP creates a client with a caller-supplied HTTP client.
// Used by tests to point at a stub server.
func NewClientWithHTTP(token, apiBase string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{token: token, apiBase: apiBase, http: httpClient}
}
