// Package messaging sends text messages through the WhatsApp Cloud API.
package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"studiohub/internal/domain/errors"
)

const (
	DefaultAPIURL     = "https://graph.facebook.com"
	DefaultAPIVersion = "v18.0"
	// DefaultRate is the number of sends per second allowed by default.
	DefaultRate = 5
)

// SentRecorder keeps track of delivered message ids.
type SentRecorder interface {
	CacheSentMessage(ctx context.Context, messageID string, sentAt time.Time) error
}

// Client is a rate-limited WhatsApp Cloud API client.
type Client struct {
	httpClient    *http.Client
	limiter       *rate.Limiter
	apiURL        string
	apiVersion    string
	phoneNumberID string
	token         string
	sent          SentRecorder
	log           *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAPIURL overrides the API base URL, mostly for tests.
func WithAPIURL(url string) Option {
	return func(c *Client) { c.apiURL = strings.TrimRight(url, "/") }
}

func WithAPIVersion(version string) Option {
	return func(c *Client) { c.apiVersion = version }
}

// WithRate limits sends to perSecond, allowing bursts of burst.
func WithRate(perSecond float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

// WithSentRecorder records every delivered message id in r.
func WithSentRecorder(r SentRecorder) Option {
	return func(c *Client) { c.sent = r }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

func NewClient(phoneNumberID, token string, opts ...Option) *Client {
	c := &Client{
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		limiter:       rate.NewLimiter(rate.Limit(DefaultRate), 1),
		apiURL:        DefaultAPIURL,
		apiVersion:    DefaultAPIVersion,
		phoneNumberID: phoneNumberID,
		token:         token,
		log:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type textMessage struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Send posts body as a text message to the phone number to and returns the
// provider message id.
func (c *Client) Send(ctx context.Context, to, body string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	msg := textMessage{MessagingProduct: "whatsapp", To: to, Type: "text"}
	msg.Text.Body = body
	payload, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s/%s/messages", c.apiURL, c.apiVersion, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("WhatsApp request failed", zap.Error(err))
		return "", err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Warn("response body close failed", zap.Error(err))
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	var res sendResponse
	decodeErr := json.Unmarshal(raw, &res)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		reason := strings.TrimSpace(string(raw))
		if decodeErr == nil && res.Error != nil {
			reason = res.Error.Message
		}
		c.log.Warn("WhatsApp non-2xx response", zap.Int("status", resp.StatusCode), zap.String("reason", reason))
		return "", fmt.Errorf("%w: status %d: %s", errors.ErrMessageRejected, resp.StatusCode, reason)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode WhatsApp response: %w", decodeErr)
	}
	if len(res.Messages) == 0 || res.Messages[0].ID == "" {
		return "", fmt.Errorf("%w: response carries no message id", errors.ErrMessageRejected)
	}

	id := res.Messages[0].ID
	if c.sent != nil {
		if err := c.sent.CacheSentMessage(ctx, id, time.Now()); err != nil {
			c.log.Warn("cache sent message failed", zap.String("message_id", id), zap.Error(err))
		}
	}
	return id, nil
}
