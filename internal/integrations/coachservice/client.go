package coachservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client клиент для работы с каталогом тренеров
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента CoachService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetCoach получает карточку тренера
func (c *Client) GetCoach(ctx context.Context, coachID string) (*Coach, error) {
	endpoint := fmt.Sprintf("%s/internal/coaches/%s", c.baseURL, url.PathEscape(coachID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrCoachNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var coach Coach
	if err := json.NewDecoder(resp.Body).Decode(&coach); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &coach, nil
}

// GetCoachWithGracefulDegradation получает тренера, не прерывая оформление при сбоях каталога.
// При любой ошибке возвращает nil, nil: вызывающий использует данные тренера из черновика
// или цену по умолчанию
func (c *Client) GetCoachWithGracefulDegradation(ctx context.Context, coachID string) (*Coach, error) {
	coach, err := c.GetCoach(ctx, coachID)
	if err != nil {
		if errors.Is(err, ErrCoachNotFound) {
			c.log.Warn("Coach id=%s not found in CoachService, using draft data", coachID)
			return nil, nil
		}

		c.log.Error("CoachService unavailable, applying graceful degradation for coach id=%s: %v", coachID, err)
		return nil, nil
	}

	c.log.Info("Successfully fetched coach id=%s", coachID)
	return coach, nil
}
