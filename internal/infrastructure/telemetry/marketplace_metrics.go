package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/wheeltrade/backend/internal/domain/billing"
	"github.com/wheeltrade/backend/internal/domain/deal"
	"github.com/wheeltrade/backend/internal/domain/logistics"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// MarketplaceMetrics records business metrics off the domain event stream.
// It subscribes to the event bus like any other handler, so every counted
// transition is one that actually persisted.
type MarketplaceMetrics struct {
	logger *zap.Logger

	dealsOpened    *Counter
	dealsAccepted  *Counter
	dealsCompleted *Counter
	dealsClosed    *Counter
	dealAmount     *Histogram

	paymentsByStatus *Counter
	escrowVolume     *Counter

	transportByStatus *Counter
}

// NewMarketplaceMetrics creates the marketplace metric instruments on the
// given meter.
func NewMarketplaceMetrics(meter metric.Meter, logger *zap.Logger) (*MarketplaceMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &MarketplaceMetrics{logger: logger}

	var err error
	if m.dealsOpened, err = NewCounter(meter,
		"wheeltrade_deals_opened_total", "Deals opened by buyers", "{deal}"); err != nil {
		return nil, err
	}
	if m.dealsAccepted, err = NewCounter(meter,
		"wheeltrade_deals_accepted_total", "Deals accepted by the counterparty", "{deal}"); err != nil {
		return nil, err
	}
	if m.dealsCompleted, err = NewCounter(meter,
		"wheeltrade_deals_completed_total", "Deals completed after delivery", "{deal}"); err != nil {
		return nil, err
	}
	if m.dealsClosed, err = NewCounter(meter,
		"wheeltrade_deals_closed_total", "Deals ended without completing", "{deal}"); err != nil {
		return nil, err
	}
	if m.dealAmount, err = NewHistogram(meter, HistogramOpts{
		Name:        "wheeltrade_deal_agreed_amount",
		Description: "Agreed amount of accepted deals",
		Unit:        "INR",
		Boundaries:  []float64{100000, 300000, 500000, 1000000, 2000000, 5000000},
	}); err != nil {
		return nil, err
	}
	if m.paymentsByStatus, err = NewCounter(meter,
		"wheeltrade_escrow_payments_total", "Escrow payment transitions by status", "{payment}"); err != nil {
		return nil, err
	}
	if m.escrowVolume, err = NewCounter(meter,
		"wheeltrade_escrow_volume_total", "Escrow amount captured, in whole rupees", "INR"); err != nil {
		return nil, err
	}
	if m.transportByStatus, err = NewCounter(meter,
		"wheeltrade_transport_orders_total", "Transport order transitions by status", "{order}"); err != nil {
		return nil, err
	}

	return m, nil
}

// EventTypes returns the domain events this handler counts
func (m *MarketplaceMetrics) EventTypes() []string {
	return []string{
		deal.EventTypeDealOpened,
		deal.EventTypeDealAccepted,
		deal.EventTypeDealCompleted,
		deal.EventTypeDealClosed,
		billing.EventTypePaymentStatusChanged,
		logistics.EventTypeTransportStatusChange,
	}
}

// Handle records the metric for a domain event
func (m *MarketplaceMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *deal.DealOpenedEvent:
		m.dealsOpened.Inc(ctx)
	case *deal.DealAcceptedEvent:
		m.dealsAccepted.Inc(ctx)
		m.dealAmount.Record(ctx, e.AgreedAmount.InexactFloat64())
	case *deal.DealCompletedEvent:
		m.dealsCompleted.Inc(ctx)
	case *deal.DealClosedEvent:
		m.dealsClosed.Inc(ctx, attribute.String("status", string(e.NewStatus)))
	case *billing.PaymentStatusChangedEvent:
		m.paymentsByStatus.Inc(ctx, attribute.String("status", string(e.NewStatus)))
		if e.NewStatus == billing.PaymentStatusHeld {
			m.escrowVolume.Add(ctx, e.Amount.IntPart())
		}
	case *logistics.TransportStatusChangedEvent:
		m.transportByStatus.Inc(ctx, attribute.String("status", string(e.NewStatus)))
	}
	return nil
}

var _ shared.EventHandler = (*MarketplaceMetrics)(nil)
