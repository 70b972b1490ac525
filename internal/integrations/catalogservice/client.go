// Package catalogservice HTTP клиент каталога барбершопов и услуг.
// С точки зрения этого сервиса каталог только для чтения
package catalogservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с каталогом
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetBarbershop получает барбершоп по id
func (c *Client) GetBarbershop(ctx context.Context, barbershopID string) (*Barbershop, error) {
	endpoint := fmt.Sprintf("%s/internal/barbershops/%s", c.baseURL, url.PathEscape(barbershopID))

	var shop Barbershop
	if err := c.getJSON(ctx, endpoint, &shop, ErrBarbershopNotFound); err != nil {
		return nil, err
	}
	return &shop, nil
}

// GetService получает услугу по id
func (c *Client) GetService(ctx context.Context, serviceID string) (*Service, error) {
	endpoint := fmt.Sprintf("%s/internal/services/%s", c.baseURL, url.PathEscape(serviceID))

	var service Service
	if err := c.getJSON(ctx, endpoint, &service, ErrServiceNotFound); err != nil {
		return nil, err
	}
	return &service, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}, notFound error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// продолжаем к декодированию
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}
