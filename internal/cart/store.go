package cart

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/powercore-shop/storefront/pkg/logger"
	"github.com/powercore-shop/storefront/pkg/storage"
)

// RecordName is the durable storage key (under the configured namespace) that
// holds the cart line items.
const RecordName = "cart"

// LineItem is one product entry in the cart. ProductID is unique across the
// collection; adding an existing product merges quantities instead of
// duplicating the line.
type LineItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// Totals are derived from the line items on every read, never stored.
type Totals struct {
	Items int
	Price decimal.Decimal
}

// Store owns the ordered line-item collection. Every mutation persists the
// full collection and notifies subscribers. Mutations are serialized by a
// mutex, the process-wide equivalent of the single UI event loop the
// storefront pages assume.
type Store struct {
	mu     sync.Mutex
	items  []LineItem
	record *storage.Record[[]LineItem]
	logg   *logger.Logger

	subMu   sync.Mutex
	subs    map[int]func([]LineItem)
	nextSub int
}

// NewStore loads the persisted cart. A persisted value that is not an ordered
// list is discarded by the record layer and the store starts empty.
func NewStore(ctx context.Context, kv storage.KV, namespace string, logg *logger.Logger) *Store {
	record := storage.NewRecord(kv, namespace, RecordName, logg, func() []LineItem {
		return []LineItem{}
	})
	return &Store{
		items:  record.Load(ctx),
		record: record,
		logg:   logg,
		subs:   map[int]func([]LineItem){},
	}
}

// Items returns a copy of the ordered collection.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) snapshot() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// ComputeTotals derives aggregate totals from a line-item collection.
func ComputeTotals(items []LineItem) Totals {
	totals := Totals{Price: decimal.Zero}
	for _, item := range items {
		totals.Items += item.Quantity
		line := decimal.NewFromFloat(item.UnitPrice).Mul(decimal.NewFromInt(int64(item.Quantity)))
		totals.Price = totals.Price.Add(line)
	}
	return totals
}

// Totals reports the current derived totals.
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeTotals(s.items)
}

// AddItem appends a new line or merges quantity into an existing one,
// preserving the order of existing entries.
func (s *Store) AddItem(ctx context.Context, item LineItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].ProductID == item.ProductID {
			s.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, item)
	}
	s.persistAndNotify(ctx)
}

// RemoveItem drops the matching line. Removing an absent product is a no-op,
// without persistence churn.
func (s *Store) RemoveItem(ctx context.Context, productID string) {
	s.mu.Lock()
	kept := s.items[:0]
	removed := false
	for _, item := range s.items {
		if item.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	if !removed {
		s.mu.Unlock()
		return
	}
	s.persistAndNotify(ctx)
}

// UpdateQuantity replaces the quantity in place. A quantity at or below zero
// removes the item entirely.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(ctx, productID)
		return
	}
	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity
			changed = true
			break
		}
	}
	if !changed {
		s.mu.Unlock()
		return
	}
	s.persistAndNotify(ctx)
}

// Clear empties the collection.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = []LineItem{}
	s.persistAndNotify(ctx)
}

// persistAndNotify is called with the mutex held and releases it.
func (s *Store) persistAndNotify(ctx context.Context) {
	snapshot := s.snapshot()
	s.mu.Unlock()

	s.record.Save(ctx, snapshot)

	s.subMu.Lock()
	subs := make([]func([]LineItem), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(snapshot)
	}
}

// Subscribe registers a listener invoked with the new snapshot after every
// mutation. The returned function cancels the subscription.
func (s *Store) Subscribe(fn func([]LineItem)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}
