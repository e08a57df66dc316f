// Package client is a small reference/test client for the risk gate,
// standing in for the source's risk_client.h collaborator. It is used
// by the integration test harness, not by the service itself.
package client

import (
	"log/slog"
	"net"

	"github.com/google/uuid"

	"github.com/riskgate/riskgate/internal/domain"
	"github.com/riskgate/riskgate/internal/protocol"
)

// Client connects to a risk gate and sends/receives whole frames. It
// tags itself with a correlation id for its own log lines only; the
// id never appears on the wire, which stays exactly the bit-exact
// ASCII grammar of internal/protocol.
type Client struct {
	conn          net.Conn
	correlationID string
	seq           uint32
}

// Dial connects to a risk gate listening at addr.
func Dial(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	c := &Client{conn: conn, correlationID: uuid.New().String()}
	slog.Debug("client connected", slog.String("correlation_id", c.correlationID), slog.String("addr", addr))
	return c, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) nextSeq() uint32 {
	c.seq++
	return c.seq
}

func (c *Client) header(msgType domain.MessageType, payloadLen int, ts uint64) domain.Header {
	return domain.Header{
		Version:        msgType,
		PayloadSize:    uint16(payloadLen),
		SequenceNumber: c.nextSeq(),
		Timestamp:      ts,
	}
}

// SendNewOrder encodes and sends a NewOrder, then waits for the
// OrderResponse.
func (c *Client) SendNewOrder(listingID, orderID, qty, price uint64, side domain.Side, ts uint64) (domain.OrderResponse, error) {
	m := domain.NewOrder{
		ListingID:     listingID,
		OrderID:       orderID,
		OrderQuantity: qty,
		OrderPrice:    price,
		Side:          side,
	}
	m.Header = c.header(domain.MessageTypeNewOrder, 0, ts)
	if err := c.send(protocol.EncodeNewOrder(m)); err != nil {
		return domain.OrderResponse{}, err
	}
	return c.receiveResponse()
}

// SendModifyOrder encodes and sends a ModifyOrderQuantity, then waits
// for the OrderResponse.
func (c *Client) SendModifyOrder(orderID, newQty uint64, ts uint64) (domain.OrderResponse, error) {
	m := domain.ModifyOrderQuantity{OrderID: orderID, NewQuantity: newQty}
	m.Header = c.header(domain.MessageTypeModifyOrder, 0, ts)
	if err := c.send(protocol.EncodeModifyOrderQuantity(m)); err != nil {
		return domain.OrderResponse{}, err
	}
	return c.receiveResponse()
}

// SendDeleteOrder encodes and sends a DeleteOrder. There is no
// response to wait for.
func (c *Client) SendDeleteOrder(orderID uint64, ts uint64) error {
	m := domain.DeleteOrder{OrderID: orderID}
	m.Header = c.header(domain.MessageTypeDeleteOrder, 0, ts)
	return c.send(protocol.EncodeDeleteOrder(m))
}

// SendTrade encodes and sends a Trade notification. There is no
// response to wait for.
func (c *Client) SendTrade(listingID, tradeID, tradeQty, tradePrice uint64, ts uint64) error {
	m := domain.Trade{
		ListingID:     listingID,
		TradeID:       tradeID,
		TradeQuantity: tradeQty,
		TradePrice:    tradePrice,
	}
	m.Header = c.header(domain.MessageTypeTrade, 0, ts)
	return c.send(protocol.EncodeTrade(m))
}

func (c *Client) send(frame string) error {
	_, err := c.conn.Write([]byte(frame))
	return err
}

func (c *Client) receiveResponse() (domain.OrderResponse, error) {
	buf := make([]byte, 1<<16)
	n, err := c.conn.Read(buf)
	if err != nil {
		return domain.OrderResponse{}, err
	}
	return protocol.DecodeOrderResponse(string(buf[:n]))
}
