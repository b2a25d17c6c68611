package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apporder "github.com/glowshop/backend/internal/application/order"
	"github.com/glowshop/backend/internal/domain/order"
	"github.com/glowshop/backend/internal/domain/shared"
)

// PlatformOrder is the normalized shape of an order fetched from an
// external sales channel.
type PlatformOrder struct {
	ExternalID        string
	FinancialStatus   string
	FulfillmentStatus string
	TotalPrice        decimal.Decimal
	TotalAmount       int
	Receiver          string
	Phone             string
	Address           string
	UpdatedAt         time.Time
}

// PlatformClient fetches orders from one external sales channel
type PlatformClient interface {
	// Source identifies the channel (shopify, shopbase)
	Source() string

	// FetchOrders returns orders updated since the given time
	FetchOrders(ctx context.Context, updatedSince time.Time) ([]PlatformOrder, error)
}

// Importer mirrors external-channel orders into the local order table.
// Imported orders join the normal lifecycle; their lines stay on the
// channel, so status transitions here never touch stock.
type Importer struct {
	orders  order.Repository
	txScope apporder.TransactionScope
	clients []PlatformClient
	logger  *zap.Logger

	mu    sync.Mutex
	since map[string]time.Time
}

// NewImporter creates an importer over the given channel clients
func NewImporter(orders order.Repository, txScope apporder.TransactionScope, clients []PlatformClient, logger *zap.Logger) *Importer {
	return &Importer{
		orders:  orders,
		txScope: txScope,
		clients: clients,
		logger:  logger,
		since:   make(map[string]time.Time),
	}
}

// Run performs one import pass over every channel. A channel failure
// is logged and does not block the other channels.
func (imp *Importer) Run(ctx context.Context) error {
	var lastErr error
	for _, client := range imp.clients {
		if err := imp.runClient(ctx, client); err != nil {
			imp.logger.Error("order import failed",
				zap.String("source", client.Source()),
				zap.Error(err))
			lastErr = err
		}
	}
	return lastErr
}

func (imp *Importer) runClient(ctx context.Context, client PlatformClient) error {
	source := client.Source()
	started := time.Now()

	imp.mu.Lock()
	since := imp.since[source]
	imp.mu.Unlock()

	fetched, err := client.FetchOrders(ctx, since)
	if err != nil {
		return fmt.Errorf("fetch %s orders: %w", source, err)
	}

	imported := 0
	for _, ext := range fetched {
		if err := imp.upsert(ctx, source, ext); err != nil {
			return err
		}
		imported++
	}

	imp.mu.Lock()
	imp.since[source] = started
	imp.mu.Unlock()

	if imported > 0 {
		imp.logger.Info("orders imported",
			zap.String("source", source),
			zap.Int("count", imported))
	}
	return nil
}

func (imp *Importer) upsert(ctx context.Context, source string, ext PlatformOrder) error {
	return imp.txScope.Execute(ctx, func(repos apporder.TransactionalRepositories) error {
		existing, err := repos.Orders.FindByExternalID(ctx, source, ext.ExternalID)
		if err != nil && !errors.Is(err, shared.ErrOrderNotFound) {
			return err
		}

		target := lifecycleFor(ext.FinancialStatus, ext.FulfillmentStatus)

		if existing == nil {
			fresh, err := order.NewExternalOrder(source, ext.ExternalID, target, order.ContactInfo{
				Receiver: ext.Receiver,
				Phone:    ext.Phone,
				Address:  ext.Address,
			})
			if err != nil {
				return err
			}
			fresh.SetTotals(ext.TotalPrice, ext.TotalAmount)
			fresh.SetExternalStatuses(ext.FinancialStatus, ext.FulfillmentStatus)
			return repos.Orders.Save(ctx, fresh)
		}

		existing.SetExternalStatuses(ext.FinancialStatus, ext.FulfillmentStatus)
		if existing.Status != target {
			if err := existing.MirrorStatus(target); err != nil {
				return err
			}
		}
		return repos.Orders.Save(ctx, existing)
	})
}

// lifecycleFor maps channel payment/fulfillment state onto the local
// order lifecycle.
func lifecycleFor(financial, fulfillment string) order.OrderStatus {
	switch financial {
	case "refunded", "voided":
		return order.OrderStatusReject
	}
	if fulfillment == "fulfilled" {
		return order.OrderStatusSuccess
	}
	if financial == "paid" {
		return order.OrderStatusConfirmed
	}
	return order.OrderStatusWaitingConfirm
}
