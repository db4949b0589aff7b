package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iudanet/fishlog/internal/validation"
	"github.com/iudanet/fishlog/pkg/api"
)

// DefaultTimeout для http.Client, если не задан через WithTimeout
const DefaultTimeout = 30 * time.Second

// ErrTransport indicates that no response was received from the server
var ErrTransport = errors.New("transport failure")

// Error represents a non-2xx response from the server
type Error struct {
	Message    string // сообщение для пользователя, как прислал сервер
	StatusCode int
}

func (e *Error) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
	images     validation.ImageConfig
}

// Option настраивает Client
type Option func(*Client)

// WithTransport задает RoundTripper, через который идут все запросы
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// WithTimeout задает общий таймаут запроса
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithImageConfig задает ограничения для загружаемых изображений
func WithImageConfig(cfg validation.ImageConfig) Option {
	return func(c *Client) {
		c.images = cfg
	}
}

// NewClient создает новый API клиент
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		images:  validation.DefaultImageConfig,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			// Authorization не копируется при редиректе: каждый hop заново
			// проходит через credentials.Transport, который не отдает токен чужому origin
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL возвращает адрес сервера
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doJSON выполняет запрос с JSON телом
func (c *Client) doJSON(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	contentType := ""
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
		contentType = "application/json"
	}

	return c.do(ctx, method, path, contentType, bodyReader, result)
}

// do выполняет HTTP запрос и декодирует ответ в result
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, respBody)
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// decodeError извлекает сообщение из тела ответа с ошибкой.
// Порядок: message, затем errors, затем статус.
func decodeError(status int, body []byte) error {
	var errResp api.ErrorResponse
	message := ""
	if err := json.Unmarshal(body, &errResp); err == nil {
		message = errResp.Message
		if message == "" && len(errResp.Errors) > 0 {
			message = strings.Join(errResp.Errors, ", ")
		}
	}
	if message == "" {
		message = fmt.Sprintf("Error %d: %s", status, http.StatusText(status))
	}
	return &Error{StatusCode: status, Message: message}
}
