package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/proxy"
)

const (
	defaultBaseURL = "https://api.telegram.org"
	requestTimeout = 15 * time.Second
)

type Client struct {
	logger *zap.Logger
	token  string
	chatID string
	http   *http.Client

	baseURL string // переопределяется в тестах
}

// NewClient создаёт клиента Bot API. Непустой proxyURL (socks5://host:port)
// заворачивает весь трафик в SOCKS5.
func NewClient(logger *zap.Logger, token, chatID, proxyURL string) (*Client, error) {
	httpClient := &http.Client{Timeout: requestTimeout}

	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		dialer, err := proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("create proxy dialer: %w", err)
		}

		transport := &http.Transport{}
		if ctxDialer, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = ctxDialer.DialContext
		} else {
			transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
		httpClient.Transport = transport

		logger.Info("telegram client using SOCKS5 proxy", zap.String("proxy", u.Host))
	}

	return &Client{
		logger:  logger,
		token:   token,
		chatID:  chatID,
		http:    httpClient,
		baseURL: defaultBaseURL,
	}, nil
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func (c *Client) SendMessage(ctx context.Context, text string) error {
	body, _ := json.Marshal(sendMessageRequest{
		ChatID:    c.chatID,
		Text:      text,
		ParseMode: "Markdown",
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("telegram send failed", zap.Error(err))
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	return c.checkResponse(resp, nil)
}

// TestConnection дёргает getMe и логирует имя бота.
func (c *Client) TestConnection(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/bot%s/getMe", c.baseURL, c.token), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("telegram connection check failed", zap.Error(err))
		return fmt.Errorf("failed to connect to telegram: %w", err)
	}
	defer resp.Body.Close()

	var me struct {
		Username string `json:"username"`
	}
	if err := c.checkResponse(resp, &me); err != nil {
		return err
	}

	c.logger.Info("telegram connection ok", zap.String("bot", me.Username))
	return nil
}

func (c *Client) checkResponse(resp *http.Response, result interface{}) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read telegram response: %w", err)
	}

	var api apiResponse
	if err := json.Unmarshal(body, &api); err != nil {
		c.logger.Error("failed to decode telegram response",
			zap.String("status", resp.Status), zap.ByteString("body", body))
		return fmt.Errorf("decode telegram response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !api.OK {
		c.logger.Error("telegram api error",
			zap.String("status", resp.Status),
			zap.String("description", api.Description))
		return fmt.Errorf("telegram api error: %s", api.Description)
	}

	if result != nil && len(api.Result) > 0 {
		if err := json.Unmarshal(api.Result, result); err != nil {
			return fmt.Errorf("decode telegram result: %w", err)
		}
	}
	return nil
}
