package protocol

import (
	"strconv"

	"github.com/riskgate/riskgate/internal/domain"
)

// Decode parses a whole frame into a tagged InboundMessage. It decodes
// the header first, skips the payload's leading message-type token, and
// then reads the payload fields appropriate to header.Version. Unknown
// message types are decoded into an InboundMessage with the given Type
// and no populated variant; the caller is responsible for the
// log-and-discard path.
func Decode(frame string) (domain.InboundMessage, error) {
	t := newTokenizer(frame)
	header, err := decodeHeader(t)
	if err != nil {
		return domain.InboundMessage{}, err
	}

	switch header.Version {
	case domain.MessageTypeNewOrder, domain.MessageTypeDeleteOrder,
		domain.MessageTypeModifyOrder, domain.MessageTypeTrade:
		// Skip the message-type token; it is redundant with header.Version.
		if _, err := t.next(); err != nil {
			return domain.InboundMessage{}, err
		}
	}

	switch header.Version {
	case domain.MessageTypeNewOrder:
		p, err := decodeNewOrderPayload(t, header)
		if err != nil {
			return domain.InboundMessage{}, err
		}
		return domain.InboundMessage{Type: header.Version, New: p}, nil

	case domain.MessageTypeDeleteOrder:
		p, err := decodeDeleteOrderPayload(t, header)
		if err != nil {
			return domain.InboundMessage{}, err
		}
		return domain.InboundMessage{Type: header.Version, Delete: p}, nil

	case domain.MessageTypeModifyOrder:
		p, err := decodeModifyOrderPayload(t, header)
		if err != nil {
			return domain.InboundMessage{}, err
		}
		return domain.InboundMessage{Type: header.Version, Modify: p}, nil

	case domain.MessageTypeTrade:
		p, err := decodeTradePayload(t, header)
		if err != nil {
			return domain.InboundMessage{}, err
		}
		return domain.InboundMessage{Type: header.Version, Trade: p}, nil

	default:
		return domain.InboundMessage{Type: header.Version}, nil
	}
}

func decodeNewOrderPayload(t *tokenizer, header domain.Header) (*domain.NewOrder, error) {
	listingID, err := t.next()
	if err != nil {
		return nil, err
	}
	orderID, err := t.next()
	if err != nil {
		return nil, err
	}
	qty, err := t.next()
	if err != nil {
		return nil, err
	}
	price, err := t.next()
	if err != nil {
		return nil, err
	}
	side, err := t.next()
	if err != nil {
		return nil, err
	}
	return &domain.NewOrder{
		Header:        header,
		ListingID:     listingID,
		OrderID:       orderID,
		OrderQuantity: qty,
		OrderPrice:    price,
		Side:          domain.Side(byte(side)),
	}, nil
}

func decodeDeleteOrderPayload(t *tokenizer, header domain.Header) (*domain.DeleteOrder, error) {
	orderID, err := t.next()
	if err != nil {
		return nil, err
	}
	return &domain.DeleteOrder{Header: header, OrderID: orderID}, nil
}

func decodeModifyOrderPayload(t *tokenizer, header domain.Header) (*domain.ModifyOrderQuantity, error) {
	orderID, err := t.next()
	if err != nil {
		return nil, err
	}
	newQty, err := t.next()
	if err != nil {
		return nil, err
	}
	return &domain.ModifyOrderQuantity{Header: header, OrderID: orderID, NewQuantity: newQty}, nil
}

// decodeTradePayload reads the Trade payload in the canonical field
// order listing_id, trade_id, trade_quantity, trade_price. This is the
// source encoder's order; the source decoder's swapped order is
// deliberately not reproduced (see design notes).
func decodeTradePayload(t *tokenizer, header domain.Header) (*domain.Trade, error) {
	listingID, err := t.next()
	if err != nil {
		return nil, err
	}
	tradeID, err := t.next()
	if err != nil {
		return nil, err
	}
	tradeQty, err := t.next()
	if err != nil {
		return nil, err
	}
	tradePrice, err := t.next()
	if err != nil {
		return nil, err
	}
	return &domain.Trade{
		Header:        header,
		ListingID:     listingID,
		TradeID:       tradeID,
		TradeQuantity: tradeQty,
		TradePrice:    tradePrice,
	}, nil
}

// EncodeNewOrder renders a NewOrder to its wire form, header included.
func EncodeNewOrder(m domain.NewOrder) string {
	return encodeHeader(m.Header) + " " +
		strconv.FormatUint(uint64(domain.MessageTypeNewOrder), 10) + " " +
		strconv.FormatUint(m.ListingID, 10) + " " +
		strconv.FormatUint(m.OrderID, 10) + " " +
		strconv.FormatUint(m.OrderQuantity, 10) + " " +
		strconv.FormatUint(m.OrderPrice, 10) + " " +
		strconv.FormatUint(uint64(byte(m.Side)), 10)
}

// EncodeDeleteOrder renders a DeleteOrder to its wire form.
func EncodeDeleteOrder(m domain.DeleteOrder) string {
	return encodeHeader(m.Header) + " " +
		strconv.FormatUint(uint64(domain.MessageTypeDeleteOrder), 10) + " " +
		strconv.FormatUint(m.OrderID, 10)
}

// EncodeModifyOrderQuantity renders a ModifyOrderQuantity to its wire form.
func EncodeModifyOrderQuantity(m domain.ModifyOrderQuantity) string {
	return encodeHeader(m.Header) + " " +
		strconv.FormatUint(uint64(domain.MessageTypeModifyOrder), 10) + " " +
		strconv.FormatUint(m.OrderID, 10) + " " +
		strconv.FormatUint(m.NewQuantity, 10)
}

// EncodeTrade renders a Trade to its wire form using the canonical
// field order (listing_id, trade_id, trade_quantity, trade_price).
func EncodeTrade(m domain.Trade) string {
	return encodeHeader(m.Header) + " " +
		strconv.FormatUint(uint64(domain.MessageTypeTrade), 10) + " " +
		strconv.FormatUint(m.ListingID, 10) + " " +
		strconv.FormatUint(m.TradeID, 10) + " " +
		strconv.FormatUint(m.TradeQuantity, 10) + " " +
		strconv.FormatUint(m.TradePrice, 10)
}

// PayloadSize returns the byte length of an encoded payload (the part
// of a frame after the header), truncated to 16 bits. Used by the
// service loop to populate the response header's payload_size field
// with a real byte count.
func PayloadSize(encodedPayload string) uint16 {
	return uint16(len(encodedPayload))
}

// EncodeOrderResponsePayload renders the OrderResponse payload tokens
// alone (message type, order id, status), used both for the full wire
// encoding and for payload-size accounting.
func EncodeOrderResponsePayload(orderID uint64, status domain.ResponseStatus) string {
	return strconv.FormatUint(uint64(domain.MessageTypeOrderResponse), 10) + " " +
		strconv.FormatUint(orderID, 10) + " " +
		strconv.FormatUint(uint64(status), 10)
}

// EncodeOrderResponse renders an OrderResponse to its wire form.
func EncodeOrderResponse(m domain.OrderResponse) string {
	return encodeHeader(m.Header) + " " + EncodeOrderResponsePayload(m.OrderID, m.Status)
}

// DecodeOrderResponse parses an OrderResponse frame, used by the test
// client to interpret the gate's replies.
func DecodeOrderResponse(frame string) (domain.OrderResponse, error) {
	t := newTokenizer(frame)
	header, err := decodeHeader(t)
	if err != nil {
		return domain.OrderResponse{}, err
	}
	// Skip the message-type token; it is redundant with header.Version.
	if _, err := t.next(); err != nil {
		return domain.OrderResponse{}, err
	}
	orderID, err := t.next()
	if err != nil {
		return domain.OrderResponse{}, err
	}
	status, err := t.next()
	if err != nil {
		return domain.OrderResponse{}, err
	}
	return domain.OrderResponse{
		Header:  header,
		OrderID: orderID,
		Status:  domain.ResponseStatus(status),
	}, nil
}
