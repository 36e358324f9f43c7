package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// DefaultAPIURL is the public Bot API endpoint.
const DefaultAPIURL = "https://api.telegram.org"

// ErrDisabled is returned by calls that need a bot token when none is configured.
var ErrDisabled = errors.New("telegram client disabled")

// HTTPDoer defines http.Client interface subset.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the Telegram Bot API.
type Client struct {
	apiURL  string
	token   string
	client  HTTPDoer
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// NewClient builds a Bot API client. An empty token disables it.
func NewClient(apiURL, token string, timeout time.Duration, logger *zap.Logger) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return NewClientWithDoer(apiURL, token, &http.Client{Timeout: timeout}, logger)
}

// NewClientWithDoer builds a client on top of a custom HTTPDoer.
func NewClientWithDoer(apiURL, token string, doer HTTPDoer, logger *zap.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "telegram-bot-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &Client{
		apiURL:  strings.TrimRight(apiURL, "/"),
		token:   token,
		client:  doer,
		breaker: breaker,
		logger:  logger,
	}
}

// Enabled reports whether a bot token is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.token != ""
}

// SendMessage posts text to a chat. It is a no-op without a bot token.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if !c.Enabled() {
		if c != nil {
			c.logger.Debug("telegram client disabled, skipping message")
		}
		return nil
	}
	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return err
	}
	_, err = c.call(ctx, http.MethodPost, "sendMessage", body)
	return err
}

// GetUpdates returns pending updates received by the bot.
func (c *Client) GetUpdates(ctx context.Context) ([]Update, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	result, err := c.call(ctx, http.MethodGet, "getUpdates", nil)
	if err != nil {
		return nil, err
	}
	var updates []Update
	if err := json.Unmarshal(result, &updates); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}
	return updates, nil
}

func (c *Client) call(ctx context.Context, method, apiMethod string, body []byte) (json.RawMessage, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(ctx, method, apiMethod, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.Warn("telegram api unavailable", zap.String("method", apiMethod), zap.Error(err))
		}
		return nil, err
	}
	return out.(json.RawMessage), nil
}

func (c *Client) do(ctx context.Context, method, apiMethod string, body []byte) (json.RawMessage, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.apiURL, c.token, apiMethod)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		// the URL carries the bot token
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("telegram %s: %w", apiMethod, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var decoded apiResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("telegram %s: status %d: %w", apiMethod, resp.StatusCode, err)
	}
	if resp.StatusCode >= 300 || !decoded.OK {
		return nil, fmt.Errorf("telegram %s: status %d: %s", apiMethod, resp.StatusCode, decoded.Description)
	}
	return decoded.Result, nil
}
