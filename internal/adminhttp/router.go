// Package adminhttp is an operator-facing HTTP sidecar: liveness and a
// read-only rendering of engine state. The wire protocol the risk gate
// actually enforces limits over is raw TCP (internal/transport,
// internal/service); this package never touches order acceptance.
package adminhttp

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/riskgate/riskgate/internal/engine"
)

// stateSnapshot is the JSON payload for GET /state.
type stateSnapshot struct {
	Orders      []orderView      `json:"orders"`
	Instruments []instrumentView `json:"instruments"`
}

type orderView struct {
	OrderID   uint64 `json:"order_id"`
	ListingID uint64 `json:"listing_id"`
	Quantity  uint64 `json:"quantity"`
	Side      string `json:"side"`
}

type instrumentView struct {
	ListingID    uint64 `json:"listing_id"`
	NetPos       int64  `json:"net_pos"`
	BuyQty       uint64 `json:"buy_qty"`
	SellQty      uint64 `json:"sell_qty"`
	WorstBuyPos  int64  `json:"worst_buy_pos"`
	WorstSellPos int64  `json:"worst_sell_pos"`
}

// NewRouter creates a chi router exposing /healthz and /state for
// operator use alongside the main TCP protocol port.
func NewRouter(e *engine.Engine, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(requestLogging(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/state", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, buildStateSnapshot(e))
	})

	return r
}

func buildStateSnapshot(e *engine.Engine) stateSnapshot {
	orders := e.OrderSnapshot()
	orderViews := make([]orderView, 0, len(orders))
	for _, o := range orders {
		orderViews = append(orderViews, orderView{
			OrderID:   o.OrderID,
			ListingID: o.ListingID,
			Quantity:  o.Quantity,
			Side:      o.Side.String(),
		})
	}

	instruments := e.InstrumentSnapshot()
	instrumentViews := make([]instrumentView, 0, len(instruments))
	for id, st := range instruments {
		instrumentViews = append(instrumentViews, instrumentView{
			ListingID:    id,
			NetPos:       st.NetPos,
			BuyQty:       st.BuyQty,
			SellQty:      st.SellQty,
			WorstBuyPos:  st.WorstBuyPos(),
			WorstSellPos: st.WorstSellPos(),
		})
	}

	return stateSnapshot{Orders: orderViews, Instruments: instrumentViews}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data) // write error intentionally ignored in response helper
}

// requestLogging returns middleware that logs each request's method,
// path, status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("admin request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}
