package domain

// MessageType is both the inbound message-type discriminant and, on
// outbound OrderResponse frames, the header's version field. There is no
// separate notion of a protocol version in this codebase (see spec
// design note on message-type discriminants).
type MessageType uint16

const (
	MessageTypeNewOrder      MessageType = 1
	MessageTypeDeleteOrder   MessageType = 2
	MessageTypeModifyOrder   MessageType = 3
	MessageTypeTrade         MessageType = 4
	MessageTypeOrderResponse MessageType = 5
)

// Header is present on every message in both directions.
type Header struct {
	Version        MessageType
	PayloadSize    uint16
	SequenceNumber uint32
	Timestamp      uint64
}

// NewOrder requests that a new order be placed on the book.
type NewOrder struct {
	Header        Header
	ListingID     uint64
	OrderID       uint64
	OrderQuantity uint64
	OrderPrice    uint64
	Side          Side
}

// DeleteOrder requests that a live order be removed from the book.
type DeleteOrder struct {
	Header  Header
	OrderID uint64
}

// ModifyOrderQuantity requests that a live order's quantity be changed.
type ModifyOrderQuantity struct {
	Header      Header
	OrderID     uint64
	NewQuantity uint64
}

// Trade notifies the gate that an order has been filled, in whole or in
// part, by the downstream venue.
type Trade struct {
	Header        Header
	ListingID     uint64
	TradeID       uint64
	TradeQuantity uint64
	TradePrice    uint64
}

// ResponseStatus is the accept/reject outcome carried on an
// OrderResponse.
type ResponseStatus uint16

const (
	StatusAccepted ResponseStatus = 0
	StatusRejected ResponseStatus = 1
)

// OrderResponse is the only outbound message shape. It answers a
// NewOrder or a ModifyOrderQuantity.
type OrderResponse struct {
	Header  Header
	OrderID uint64
	Status  ResponseStatus
}

// InboundMessage is a tagged variant over the four inbound message
// shapes, dispatched by Header.Version. Exactly one of the pointer
// fields is non-nil.
type InboundMessage struct {
	Type   MessageType
	New    *NewOrder
	Delete *DeleteOrder
	Modify *ModifyOrderQuantity
	Trade  *Trade
}
