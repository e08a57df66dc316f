// Package engine implements the risk-accounting core: the order book,
// the per-instrument state, and the four message handlers that decide
// whether an order breaches the configured worst-case position limits.
package engine

import (
	"context"
	"log/slog"

	"github.com/riskgate/riskgate/internal/domain"
	"github.com/riskgate/riskgate/internal/store"
)

// Limits are the immutable per-side position ceilings sourced once at
// startup.
type Limits struct {
	MaxBuyPos  uint64
	MaxSellPos uint64
}

// Engine owns the order book and the instrument-state mapping. All
// mutating methods assume they are invoked from a single goroutine
// (the worker loop in internal/service); it performs no I/O and never
// suspends.
type Engine struct {
	limits      Limits
	orders      *store.OrderStore
	instruments *store.InstrumentStore
	history     *History
	logger      *slog.Logger
}

// New creates an Engine with empty order book and instrument state.
func New(limits Limits, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		limits:      limits,
		orders:      store.NewOrderStore(),
		instruments: store.NewInstrumentStore(),
		history:     NewHistory(32),
		logger:      logger,
	}
}

// HandleNewOrder decides whether to accept a NewOrder and, on accept,
// registers the order and updates the instrument's live quantity.
func (e *Engine) HandleNewOrder(m *domain.NewOrder) domain.OrderResponse {
	resp := domain.OrderResponse{OrderID: m.OrderID, Status: domain.StatusRejected}

	if !m.Side.Valid() {
		e.logger.Warn("new order with invalid side dropped",
			slog.Uint64("order_id", m.OrderID), slog.Any("side", m.Side))
		return resp
	}

	if _, exists := e.orders.Get(m.OrderID); exists {
		e.logger.Warn("new order rejected: duplicate order id",
			slog.Uint64("order_id", m.OrderID))
		return resp
	}

	state := e.instruments.GetOrCreate(m.ListingID)
	accepted := e.registerNewOrder(m, state)
	if accepted {
		resp.Status = domain.StatusAccepted
	}
	e.history.Record(m.ListingID, m.Header.SequenceNumber, m.OrderID, accepted)
	return resp
}

func (e *Engine) registerNewOrder(m *domain.NewOrder, state *domain.InstrumentState) bool {
	qty := int64(m.OrderQuantity)

	switch m.Side {
	case domain.SideBuy:
		if qty+state.WorstBuyPos() > int64(e.limits.MaxBuyPos) {
			return false
		}
		state.BuyQty += m.OrderQuantity
	case domain.SideSell:
		if qty+state.WorstSellPos() > int64(e.limits.MaxSellPos) {
			return false
		}
		state.SellQty += m.OrderQuantity
	default:
		return false
	}

	e.orders.Put(&domain.Order{
		OrderID:   m.OrderID,
		ListingID: m.ListingID,
		Quantity:  m.OrderQuantity,
		Side:      m.Side,
	})
	return true
}

// HandleModifyOrder decides whether to accept a quantity change to a
// live order.
func (e *Engine) HandleModifyOrder(m *domain.ModifyOrderQuantity) domain.OrderResponse {
	resp := domain.OrderResponse{OrderID: m.OrderID, Status: domain.StatusRejected}

	order, exists := e.orders.Get(m.OrderID)
	if !exists {
		e.logger.Warn("modify rejected: unknown order id", slog.Uint64("order_id", m.OrderID))
		return resp
	}

	state := e.instruments.GetOrCreate(order.ListingID)
	delta := int64(m.NewQuantity) - int64(order.Quantity)

	var accepted bool
	switch order.Side {
	case domain.SideBuy:
		if delta+state.WorstBuyPos() <= int64(e.limits.MaxBuyPos) {
			state.BuyQty = uint64(int64(state.BuyQty) + delta)
			accepted = true
		}
	case domain.SideSell:
		if delta+state.WorstSellPos() <= int64(e.limits.MaxSellPos) {
			state.SellQty = uint64(int64(state.SellQty) + delta)
			accepted = true
		}
	}

	if accepted {
		order.Quantity = m.NewQuantity
		resp.Status = domain.StatusAccepted
	}
	e.history.Record(order.ListingID, m.Header.SequenceNumber, m.OrderID, accepted)
	return resp
}

// HandleDeleteOrder removes a live order and releases its quantity
// from the instrument's aggregate. Unknown order ids are a no-op.
// This handler never produces a wire response.
func (e *Engine) HandleDeleteOrder(m *domain.DeleteOrder) {
	order, exists := e.orders.Get(m.OrderID)
	if !exists {
		return
	}

	state := e.instruments.GetOrCreate(order.ListingID)
	switch order.Side {
	case domain.SideBuy:
		state.BuyQty -= order.Quantity
	case domain.SideSell:
		state.SellQty -= order.Quantity
	}
	e.orders.Delete(m.OrderID)
}

// HandleTrade applies a fill notification to the referenced order's
// instrument's net position. It never touches buy_qty/sell_qty and
// never removes the order; clients are responsible for a follow-on
// Delete or Modify. A trade referencing an unknown order id is a
// logged no-op.
func (e *Engine) HandleTrade(m *domain.Trade) {
	order, exists := e.orders.Get(m.TradeID)
	if !exists {
		e.logger.Warn("trade discarded: unknown order id",
			slog.Uint64("trade_id", m.TradeID), slog.Uint64("listing_id", m.ListingID))
		return
	}

	state := e.instruments.GetOrCreate(m.ListingID)
	switch order.Side {
	case domain.SideBuy:
		state.NetPos -= int64(m.TradeQuantity)
	case domain.SideSell:
		state.NetPos += int64(m.TradeQuantity)
	}
}

// DumpState logs a structured snapshot of every live order and
// instrument state, mirroring the source's per-connection state dump.
func (e *Engine) DumpState(ctx context.Context) {
	orders := e.orders.Snapshot()
	instruments := e.instruments.Snapshot()

	orderFields := make([]any, 0, len(orders))
	for _, o := range orders {
		orderFields = append(orderFields, slog.GroupValue(
			slog.Uint64("order_id", o.OrderID),
			slog.Uint64("listing_id", o.ListingID),
			slog.Uint64("quantity", o.Quantity),
			slog.String("side", o.Side.String()),
		))
	}

	instrumentFields := make([]any, 0, len(instruments))
	for id, st := range instruments {
		instrumentFields = append(instrumentFields, slog.GroupValue(
			slog.Uint64("listing_id", id),
			slog.Int64("net_pos", st.NetPos),
			slog.Uint64("buy_qty", st.BuyQty),
			slog.Uint64("sell_qty", st.SellQty),
			slog.Int64("worst_buy_pos", st.WorstBuyPos()),
			slog.Int64("worst_sell_pos", st.WorstSellPos()),
		))
	}

	e.logger.LogAttrs(ctx, slog.LevelInfo, "engine state dump",
		slog.Uint64("max_buy_pos", e.limits.MaxBuyPos),
		slog.Uint64("max_sell_pos", e.limits.MaxSellPos),
		slog.Any("orders", orderFields),
		slog.Any("instruments", instrumentFields),
	)
}

// InstrumentSnapshot returns a copy of the current instrument-state
// mapping, used by the admin HTTP sidecar's /state endpoint.
func (e *Engine) InstrumentSnapshot() map[uint64]domain.InstrumentState {
	return e.instruments.Snapshot()
}

// OrderSnapshot returns a copy of every live order, used by the admin
// HTTP sidecar's /state endpoint.
func (e *Engine) OrderSnapshot() []*domain.Order {
	return e.orders.Snapshot()
}

// RecentDecisions returns up to n of the most recent accept/reject
// decisions recorded for listingID, most recent first.
func (e *Engine) RecentDecisions(listingID uint64, n int) []Decision {
	return e.history.Recent(listingID, n)
}
