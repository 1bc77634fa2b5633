package service

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// Binance отдаёт не больше 1000 свечей за запрос.
const maxKlinesLimit = 1000

type Config struct {
	RestURL string
	WSURL   string
	Timeout time.Duration
}

type Client struct {
	restURL  string
	wsURL    string
	http     *http.Client
	wsDialer *websocket.Dialer
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		restURL: strings.TrimRight(cfg.RestURL, "/"),
		wsURL:   strings.TrimRight(cfg.WSURL, "/"),
		http:    &http.Client{Timeout: timeout},
		wsDialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// APIError ответ биржи вида {"code":-1121,"msg":"Invalid symbol."}.
type APIError struct {
	Status int
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
}

func (e *APIError) Error() string {
	return "binance http " + http.StatusText(e.Status) + ": " + e.Msg
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dst any) error {
	u := c.restURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "GET %s", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}

	if resp.StatusCode/100 != 2 {
		apiErr := &APIError{Status: resp.StatusCode}
		if sonic.Unmarshal(body, apiErr) != nil || apiErr.Msg == "" {
			apiErr.Msg = string(body)
		}
		return apiErr
	}

	if err := sonic.Unmarshal(body, dst); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}
