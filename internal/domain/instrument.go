package domain

// InstrumentState is the per-listing accounting record. It is created
// with zero values the first time a listing is touched and is never
// removed for the lifetime of the process.
type InstrumentState struct {
	NetPos  int64  // cumulative traded position, + long, - short
	BuyQty  uint64 // sum of live-order quantities with side buy
	SellQty uint64 // sum of live-order quantities with side sell
}

// WorstBuyPos is the position the book would reach if every resting buy
// order filled while no sell order did.
func (s *InstrumentState) WorstBuyPos() int64 {
	buy := int64(s.BuyQty)
	if worst := s.NetPos + buy; worst > buy {
		return worst
	}
	return buy
}

// WorstSellPos is the position the book would reach if every resting
// sell order filled while no buy order did.
func (s *InstrumentState) WorstSellPos() int64 {
	sell := int64(s.SellQty)
	if worst := sell - s.NetPos; worst > sell {
		return worst
	}
	return sell
}
