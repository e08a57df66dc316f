package engine

import (
	"sync"

	"github.com/google/btree"
)

// Decision is a single accept/reject outcome recorded for a listing,
// used only for diagnostics and read back through
// Engine.RecentDecisions; it plays no role in the accept/reject logic
// itself.
type Decision struct {
	SequenceNumber uint32
	OrderID        uint64
	Accepted       bool
}

func decisionLess(a, b Decision) bool {
	return a.SequenceNumber < b.SequenceNumber
}

// History keeps a bounded, sequence-ordered ring of recent decisions
// per listing, repurposing an ordered-index structure that elsewhere
// backs price-time order priority: there is no matching in this
// domain, but "most recent decisions in sequence order" is exactly the
// ordered traversal a B-tree already gives for free.
type History struct {
	mu      sync.Mutex
	perSide map[uint64]*btree.BTreeG[Decision]
	max     int
}

// NewHistory creates a History that retains at most max decisions per
// listing.
func NewHistory(max int) *History {
	return &History{
		perSide: make(map[uint64]*btree.BTreeG[Decision]),
		max:     max,
	}
}

// Record inserts a decision for listingID keyed by its sequence number,
// replacing any earlier decision with the same sequence number, and
// evicts the lowest-sequence entries while the per-listing ring is over
// capacity.
func (h *History) Record(listingID uint64, seq uint32, orderID uint64, accepted bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	tree, ok := h.perSide[listingID]
	if !ok {
		const degree = 8
		tree = btree.NewG[Decision](degree, decisionLess)
		h.perSide[listingID] = tree
	}

	tree.ReplaceOrInsert(Decision{SequenceNumber: seq, OrderID: orderID, Accepted: accepted})
	for tree.Len() > h.max {
		oldest, ok := tree.Min()
		if !ok {
			break
		}
		tree.Delete(oldest)
	}
}

// Recent returns up to n of the retained decisions for listingID with
// the highest sequence numbers, highest first.
func (h *History) Recent(listingID uint64, n int) []Decision {
	h.mu.Lock()
	defer h.mu.Unlock()

	tree, ok := h.perSide[listingID]
	if !ok || n <= 0 {
		return nil
	}

	out := make([]Decision, 0, n)
	tree.Descend(func(d Decision) bool {
		if len(out) >= n {
			return false
		}
		out = append(out, d)
		return true
	})
	return out
}
