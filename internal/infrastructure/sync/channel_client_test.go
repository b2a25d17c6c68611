package sync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowshop/backend/internal/domain/order"
)

func testConfig(baseURL string) ChannelConfig {
	return ChannelConfig{
		Source:      order.SourceShopify,
		BaseURL:     baseURL,
		AccessToken: "shpat_test",
	}
}

func TestChannelConfig_Validate(t *testing.T) {
	cfg := testConfig("https://demo.myshopify.com")
	require.NoError(t, cfg.Validate())

	missing := cfg
	missing.AccessToken = ""
	assert.Error(t, missing.Validate())

	missing = cfg
	missing.BaseURL = ""
	assert.Error(t, missing.Validate())
}

func TestChannelClient_FetchOrders(t *testing.T) {
	var gotPath, gotToken, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("X-Shopify-Access-Token")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"orders":[{
			"id": 450789469,
			"financial_status": "paid",
			"fulfillment_status": "fulfilled",
			"total_price": "409000",
			"updated_at": "2024-03-02T10:00:00Z",
			"line_items": [{"quantity": 2}, {"quantity": 1}],
			"shipping_address": {"name": "Nguyen Van A", "phone": "0911222333", "address1": "1 Tran Hung Dao", "city": "Ha Noi"}
		}]}`))
	}))
	defer server.Close()

	client, err := NewChannelClient(testConfig(server.URL))
	require.NoError(t, err)

	orders, err := client.FetchOrders(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	assert.Equal(t, "/admin/api/2024-07/orders.json", gotPath)
	assert.Equal(t, "shpat_test", gotToken)
	assert.NotContains(t, gotQuery, "updated_at_min")

	got := orders[0]
	assert.Equal(t, "450789469", got.ExternalID)
	assert.Equal(t, "paid", got.FinancialStatus)
	assert.Equal(t, "fulfilled", got.FulfillmentStatus)
	assert.True(t, got.TotalPrice.Equal(decimal.NewFromInt(409000)))
	assert.Equal(t, 3, got.TotalAmount)
	assert.Equal(t, "Nguyen Van A", got.Receiver)
	assert.Equal(t, "1 Tran Hung Dao Ha Noi", got.Address)
}

func TestChannelClient_FetchOrders_SendsUpdatedSince(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"orders":[]}`))
	}))
	defer server.Close()

	client, err := NewChannelClient(testConfig(server.URL))
	require.NoError(t, err)

	since := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	orders, err := client.FetchOrders(context.Background(), since)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Contains(t, gotQuery, "updated_at_min=2024-03-01T12%3A00%3A00Z")
}

func TestChannelClient_FetchOrders_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewChannelClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.FetchOrders(context.Background(), time.Time{})
	assert.ErrorContains(t, err, "unexpected status 429")
}
