package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	appsync "github.com/glowshop/backend/internal/application/sync"
)

const (
	channelAPIVersion  = "2024-07"
	channelPageLimit   = 250
	defaultHTTPTimeout = 30 * time.Second
)

// ChannelConfig holds the credentials for one Shopify-compatible
// sales channel. Shopbase exposes the same admin REST surface.
type ChannelConfig struct {
	Source      string
	BaseURL     string
	AccessToken string
	Timeout     time.Duration
}

// Validate checks the configuration
func (c *ChannelConfig) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("channel: source is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("channel: base_url is required")
	}
	if c.AccessToken == "" {
		return fmt.Errorf("channel: access_token is required")
	}
	return nil
}

// ChannelClient fetches orders over the Shopify-compatible admin REST API
type ChannelClient struct {
	config ChannelConfig
	client *http.Client
}

// NewChannelClient creates a client for one sales channel
func NewChannelClient(config ChannelConfig) (*ChannelClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &ChannelClient{
		config: config,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Source implements appsync.PlatformClient
func (c *ChannelClient) Source() string {
	return c.config.Source
}

type channelAddress struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address1 string `json:"address1"`
	City     string `json:"city"`
}

type channelLineItem struct {
	Quantity int `json:"quantity"`
}

type channelOrder struct {
	ID                json.Number       `json:"id"`
	FinancialStatus   string            `json:"financial_status"`
	FulfillmentStatus string            `json:"fulfillment_status"`
	TotalPrice        decimal.Decimal   `json:"total_price"`
	UpdatedAt         time.Time         `json:"updated_at"`
	LineItems         []channelLineItem `json:"line_items"`
	ShippingAddress   channelAddress    `json:"shipping_address"`
}

type channelOrdersPayload struct {
	Orders []channelOrder `json:"orders"`
}

// FetchOrders implements appsync.PlatformClient
func (c *ChannelClient) FetchOrders(ctx context.Context, updatedSince time.Time) ([]appsync.PlatformOrder, error) {
	endpoint := fmt.Sprintf("%s/admin/api/%s/orders.json",
		strings.TrimRight(c.config.BaseURL, "/"), channelAPIVersion)

	query := url.Values{}
	query.Set("status", "any")
	query.Set("limit", strconv.Itoa(channelPageLimit))
	if !updatedSince.IsZero() {
		query.Set("updated_at_min", updatedSince.UTC().Format(time.RFC3339))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", c.config.Source, err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.config.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s orders: %w", c.config.Source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s orders: unexpected status %d", c.config.Source, resp.StatusCode)
	}

	var payload channelOrdersPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode %s orders: %w", c.config.Source, err)
	}

	orders := make([]appsync.PlatformOrder, 0, len(payload.Orders))
	for _, raw := range payload.Orders {
		amount := 0
		for _, item := range raw.LineItems {
			amount += item.Quantity
		}
		orders = append(orders, appsync.PlatformOrder{
			ExternalID:        raw.ID.String(),
			FinancialStatus:   raw.FinancialStatus,
			FulfillmentStatus: raw.FulfillmentStatus,
			TotalPrice:        raw.TotalPrice,
			TotalAmount:       amount,
			Receiver:          raw.ShippingAddress.Name,
			Phone:             raw.ShippingAddress.Phone,
			Address:           strings.TrimSpace(raw.ShippingAddress.Address1 + " " + raw.ShippingAddress.City),
			UpdatedAt:         raw.UpdatedAt,
		})
	}
	return orders, nil
}

var _ appsync.PlatformClient = (*ChannelClient)(nil)
