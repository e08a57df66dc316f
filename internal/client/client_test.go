package client

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/riskgate/riskgate/internal/domain"
	"github.com/riskgate/riskgate/internal/engine"
	"github.com/riskgate/riskgate/internal/service"
	"github.com/riskgate/riskgate/internal/transport"
)

// startTestGate spins up a real risk gate on an ephemeral port and
// returns its address, standing in for the source's tests/main.cpp
// harness which drove the exchange over a real socket too.
func startTestGate(t *testing.T, maxBuy, maxSell uint64) string {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := engine.New(engine.Limits{MaxBuyPos: maxBuy, MaxSellPos: maxSell}, logger)
	worker := service.NewWorker(e, 16)
	loop := service.NewLoop(worker, logger)

	ln, err := transport.Listen("127.0.0.1", "0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go worker.Run(ctx)
	go func() {
		_ = transport.ServeUntil(ctx, ln, func(c transport.Conn) { loop.Serve(ctx, c) })
	}()

	return ln.Addr().String()
}

func TestClient_SendNewOrder_Accepted(t *testing.T) {
	addr := startTestGate(t, 20, 20)
	c, err := Dial(addr)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	resp, err := c.SendNewOrder(1, 1, 10, 0, domain.SideBuy, 1700000000)
	if err != nil {
		t.Fatalf("SendNewOrder() error = %v", err)
	}
	if resp.OrderID != 1 || resp.Status != domain.StatusAccepted {
		t.Errorf("resp = %+v, want order 1 ACCEPTED", resp)
	}
}

func TestClient_SendNewOrder_Rejected(t *testing.T) {
	addr := startTestGate(t, 5, 5)
	c, err := Dial(addr)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	resp, err := c.SendNewOrder(1, 1, 10, 0, domain.SideBuy, 1700000000)
	if err != nil {
		t.Fatalf("SendNewOrder() error = %v", err)
	}
	if resp.Status != domain.StatusRejected {
		t.Errorf("status = %v, want REJECTED", resp.Status)
	}
}

func TestClient_SendModifyOrder(t *testing.T) {
	addr := startTestGate(t, 20, 20)
	c, err := Dial(addr)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	if _, err := c.SendNewOrder(1, 1, 10, 0, domain.SideBuy, 1700000000); err != nil {
		t.Fatalf("SendNewOrder() error = %v", err)
	}

	resp, err := c.SendModifyOrder(1, 15, 1700000001)
	if err != nil {
		t.Fatalf("SendModifyOrder() error = %v", err)
	}
	if resp.Status != domain.StatusAccepted {
		t.Errorf("modify status = %v, want ACCEPTED", resp.Status)
	}
}

func TestClient_SendModifyOrder_UnknownOrder(t *testing.T) {
	addr := startTestGate(t, 20, 20)
	c, err := Dial(addr)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	resp, err := c.SendModifyOrder(999, 5, 1700000000)
	if err != nil {
		t.Fatalf("SendModifyOrder() error = %v", err)
	}
	if resp.Status != domain.StatusRejected {
		t.Errorf("status = %v, want REJECTED for unknown order", resp.Status)
	}
}

func TestClient_SeqIncrementsPerMessage(t *testing.T) {
	addr := startTestGate(t, 20, 20)
	c, err := Dial(addr)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	if _, err := c.SendNewOrder(1, 1, 10, 0, domain.SideBuy, 1700000000); err != nil {
		t.Fatalf("SendNewOrder() error = %v", err)
	}
	firstSeq := c.seq
	if _, err := c.SendNewOrder(1, 2, 1, 0, domain.SideBuy, 1700000001); err != nil {
		t.Fatalf("SendNewOrder() error = %v", err)
	}
	if c.seq != firstSeq+1 {
		t.Errorf("seq = %d, want %d", c.seq, firstSeq+1)
	}
}

func TestClient_SendDeleteAndTrade_NoResponse(t *testing.T) {
	addr := startTestGate(t, 20, 20)
	c, err := Dial(addr)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	if _, err := c.SendNewOrder(1, 1, 10, 0, domain.SideBuy, 1700000000); err != nil {
		t.Fatalf("SendNewOrder() error = %v", err)
	}
	if err := c.SendDeleteOrder(1, 1700000001); err != nil {
		t.Errorf("SendDeleteOrder() error = %v", err)
	}
	if err := c.SendTrade(1, 1, 1, 0, 1700000002); err != nil {
		t.Errorf("SendTrade() error = %v", err)
	}
}
