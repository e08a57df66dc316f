// Package service dispatches decoded inbound messages to the risk
// engine's handlers and frames the resulting responses back onto the
// wire. All engine mutations are funnelled through a single worker
// goroutine so that concurrently served connections never race on the
// order book or instrument-state mapping, while each connection is
// still read and written on its own goroutine.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/riskgate/riskgate/internal/domain"
	"github.com/riskgate/riskgate/internal/engine"
	"github.com/riskgate/riskgate/internal/protocol"
	"github.com/riskgate/riskgate/internal/transport"
)

// job is one decoded inbound message routed to the engine worker.
type job struct {
	msg   domain.InboundMessage
	reply chan domain.OrderResponse
}

// Worker owns the risk engine and serializes every mutation onto a
// single goroutine fed by a channel, the generalization of the
// original single-threaded event loop to a design that can serve
// several transports concurrently.
type Worker struct {
	engine *engine.Engine
	jobs   chan job
}

// NewWorker creates a Worker around the given engine with the given
// inbound job queue depth.
func NewWorker(e *engine.Engine, queueDepth int) *Worker {
	return &Worker{engine: e, jobs: make(chan job, queueDepth)}
}

// Run processes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-w.jobs:
			w.dispatch(j)
		}
	}
}

func (w *Worker) dispatch(j job) {
	switch j.msg.Type {
	case domain.MessageTypeNewOrder:
		j.reply <- w.engine.HandleNewOrder(j.msg.New)
	case domain.MessageTypeModifyOrder:
		j.reply <- w.engine.HandleModifyOrder(j.msg.Modify)
	case domain.MessageTypeDeleteOrder:
		w.engine.HandleDeleteOrder(j.msg.Delete)
		close(j.reply)
	case domain.MessageTypeTrade:
		w.engine.HandleTrade(j.msg.Trade)
		close(j.reply)
	default:
		close(j.reply)
	}
}

// submit routes a decoded message to the worker and waits for its
// outcome. ok is false for message types that produce no response.
func (w *Worker) submit(ctx context.Context, msg domain.InboundMessage) (domain.OrderResponse, bool) {
	reply := make(chan domain.OrderResponse, 1)
	select {
	case w.jobs <- job{msg: msg, reply: reply}:
	case <-ctx.Done():
		return domain.OrderResponse{}, false
	}

	select {
	case resp, ok := <-reply:
		return resp, ok
	case <-ctx.Done():
		return domain.OrderResponse{}, false
	}
}

// Loop dispatches decoded messages read off one connection at a time
// to the engine worker and writes any response the message type
// requires.
type Loop struct {
	worker *Worker
	logger *slog.Logger
	now    func() time.Time
}

// NewLoop creates a Loop around the given worker.
func NewLoop(worker *Worker, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{worker: worker, logger: logger, now: time.Now}
}

// Serve reads and dispatches messages from conn until the client
// closes the connection, a transport error occurs, or ctx is
// cancelled. It always closes conn before returning and logs an
// engine state dump for this connection on exit.
func (l *Loop) Serve(ctx context.Context, conn transport.Conn) {
	defer conn.Close()
	defer l.worker.engine.DumpState(ctx)

	var outboundSeq uint32

	for {
		frame, err := conn.ReadMessage()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				l.logger.Error("transport read failed",
					slog.String("remote", conn.RemoteAddr()), slog.String("error", err.Error()))
			}
			return
		}

		msg, err := protocol.Decode(frame)
		if err != nil {
			l.logger.Warn("malformed frame, dropping connection",
				slog.String("remote", conn.RemoteAddr()), slog.String("error", err.Error()))
			return
		}

		if !isKnownType(msg.Type) {
			l.logger.Warn("ignoring unknown message type",
				slog.Any("type", msg.Type), slog.String("remote", conn.RemoteAddr()))
			continue
		}

		l.logger.Info("handling message",
			slog.Any("type", msg.Type), slog.String("remote", conn.RemoteAddr()))

		resp, hasResponse := l.worker.submit(ctx, msg)
		if !hasResponse {
			continue
		}

		outboundSeq++
		payload := protocol.EncodeOrderResponsePayload(resp.OrderID, resp.Status)
		resp.Header = domain.Header{
			Version:        domain.MessageTypeOrderResponse,
			PayloadSize:    protocol.PayloadSize(payload),
			SequenceNumber: outboundSeq,
			Timestamp:      uint64(l.now().Unix()),
		}
		if _, err := conn.WriteMessage(protocol.EncodeOrderResponse(resp)); err != nil {
			l.logger.Error("transport write failed",
				slog.String("remote", conn.RemoteAddr()), slog.String("error", err.Error()))
			return
		}
	}
}

func isKnownType(t domain.MessageType) bool {
	switch t {
	case domain.MessageTypeNewOrder, domain.MessageTypeDeleteOrder,
		domain.MessageTypeModifyOrder, domain.MessageTypeTrade:
		return true
	default:
		return false
	}
}
