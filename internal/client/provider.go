package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"trolley/navigator/internal/config"
	"trolley/navigator/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// StoreDocument is the catalog payload a provider publishes for one store.
// Section coordinates may be absent; the importer fills them in from the
// layout SVG when they are.
type StoreDocument struct {
	Store      domain.Store      `json:"store"`
	Sections   []domain.Section  `json:"sections"`
	Categories []domain.Category `json:"categories"`
	Products   []domain.Product  `json:"products"`
}

// ProviderClient fetches store catalogs and layout maps from the upstream
// catalog provider.
type ProviderClient interface {
	FetchStore(ctx context.Context, storeID string) (*StoreDocument, error)
	FetchLayout(ctx context.Context, storeID string) (string, error)
}

type providerClient struct {
	rl         ratelimit.Limiter
	config     config.ProviderConfig
	baseURL    string
	httpClient *resty.Client
}

func NewProviderClient(cfg config.ProviderConfig) ProviderClient {
	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(2*time.Second).
		SetRetryMaxWaitTime(10*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "trolley-navigator/1.0")

	rps := cfg.MaxRequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	return &providerClient{
		rl:         ratelimit.New(rps),
		config:     cfg,
		baseURL:    cfg.BaseURL,
		httpClient: client,
	}
}

func (c *providerClient) FetchStore(ctx context.Context, storeID string) (*StoreDocument, error) {
	url := fmt.Sprintf("%s/stores/%s", c.baseURL, storeID)

	body, err := c.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch store document: %w", err)
	}

	var doc StoreDocument
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode store document: %w", err)
	}

	log.Debugf("Fetched store %s: %d sections, %d categories, %d products",
		storeID, len(doc.Sections), len(doc.Categories), len(doc.Products))
	return &doc, nil
}

func (c *providerClient) FetchLayout(ctx context.Context, storeID string) (string, error) {
	url := fmt.Sprintf("%s/stores/%s/layout.svg", c.baseURL, storeID)

	body, err := c.fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch store layout: %w", err)
	}

	return body, nil
}

func (c *providerClient) fetch(ctx context.Context, url string) (string, error) {
	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	return resp.String(), nil
}
