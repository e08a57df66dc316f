package protocol

import (
	"testing"

	"github.com/riskgate/riskgate/internal/domain"
)

func TestDecode_NewOrder(t *testing.T) {
	frame := "1 100 7 1700000000 1 1 2 10 5000 66"
	msg, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if msg.Type != domain.MessageTypeNewOrder || msg.New == nil {
		t.Fatalf("expected NewOrder, got %+v", msg)
	}
	want := domain.NewOrder{
		Header: domain.Header{
			Version:        domain.MessageTypeNewOrder,
			PayloadSize:    100,
			SequenceNumber: 7,
			Timestamp:      1700000000,
		},
		ListingID:     1,
		OrderID:       2,
		OrderQuantity: 10,
		OrderPrice:    5000,
		Side:          domain.SideBuy,
	}
	if *msg.New != want {
		t.Errorf("got %+v, want %+v", *msg.New, want)
	}
}

func TestDecode_MalformedFrame(t *testing.T) {
	tests := []string{
		"1 100 7 1700000000 1 1 2 10 5000 notanumber",
		"1 100 7",
		"",
	}
	for _, frame := range tests {
		if _, err := Decode(frame); err == nil {
			t.Errorf("Decode(%q) expected error, got nil", frame)
		}
	}
}

func TestDecode_UnknownMessageType(t *testing.T) {
	msg, err := Decode("99 0 1 1700000000")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if msg.Type != 99 || msg.New != nil || msg.Delete != nil || msg.Modify != nil || msg.Trade != nil {
		t.Errorf("expected empty variant for unknown type, got %+v", msg)
	}
}

func TestTradeRoundTrip_CanonicalOrder(t *testing.T) {
	trade := domain.Trade{
		Header: domain.Header{
			Version:        domain.MessageTypeTrade,
			PayloadSize:    42,
			SequenceNumber: 3,
			Timestamp:      1700000001,
		},
		ListingID:     2,
		TradeID:       1,
		TradeQuantity: 4,
		TradePrice:    12345,
	}
	encoded := EncodeTrade(trade)
	msg, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if msg.Trade == nil || *msg.Trade != trade {
		t.Errorf("round trip mismatch: got %+v, want %+v", msg.Trade, trade)
	}
}

func TestEncodeDecodeOrderResponse_RoundTrip(t *testing.T) {
	resp := domain.OrderResponse{
		Header: domain.Header{
			Version:        domain.MessageTypeOrderResponse,
			PayloadSize:    8,
			SequenceNumber: 1,
			Timestamp:      1700000002,
		},
		OrderID: 42,
		Status:  domain.StatusAccepted,
	}
	encoded := EncodeOrderResponse(resp)
	got, err := DecodeOrderResponse(encoded)
	if err != nil {
		t.Fatalf("DecodeOrderResponse() error = %v", err)
	}
	if got != resp {
		t.Errorf("got %+v, want %+v", got, resp)
	}
}

func TestEncodeOrderResponse_StatusEncoding(t *testing.T) {
	accepted := EncodeOrderResponsePayload(1, domain.StatusAccepted)
	rejected := EncodeOrderResponsePayload(1, domain.StatusRejected)
	if accepted == rejected {
		t.Fatal("accepted and rejected payloads must differ")
	}
	if want := "5 1 0"; accepted != want {
		t.Errorf("accepted payload = %q, want %q", accepted, want)
	}
	if want := "5 1 1"; rejected != want {
		t.Errorf("rejected payload = %q, want %q", rejected, want)
	}
}
