package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/geocoder89/mealhub/internal/domain/meal"
	"github.com/go-resty/resty/v2"
)

// MenuSource yields the ordered list of meals on offer.
type MenuSource interface {
	Fetch(ctx context.Context) ([]meal.Meal, error)
}

type HTTPMenuSource struct {
	client *resty.Client
	url    string
}

func NewHTTPMenuSource(url string, timeout time.Duration) *HTTPMenuSource {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &HTTPMenuSource{client: client, url: url}
}

func (s *HTTPMenuSource) Fetch(ctx context.Context) ([]meal.Meal, error) {
	resp, err := s.client.R().SetContext(ctx).Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.url, err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("get %s: unexpected status %d", s.url, resp.StatusCode())
	}

	var meals []meal.Meal
	if err := json.Unmarshal(resp.Body(), &meals); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}

	return meals, nil
}
