package cart

import (
	"math"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/gaonbazar/gaonbazar-backend/pkg/errors"
)

// LineItem is one product entry in a buyer's cart.
type LineItem struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	UnitPrice decimal.Decimal   `json:"unit_price"`
	Quantity  int               `json:"quantity"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Subtotal returns unit price times quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Candidate is an add request. Nil price or quantity means the caller did not supply one.
type Candidate struct {
	ID        string
	Name      string
	UnitPrice *decimal.Decimal
	Quantity  *int
	Metadata  map[string]string
}

// Snapshot is a consistent view of the cart at one instant.
type Snapshot struct {
	Items []LineItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// Observer receives notifications about cart mutations.
type Observer interface {
	ItemAdded(merged bool)
	ItemRemoved()
	Cleared()
}

type Option func(*Store)

// WithObserver attaches an observer that is notified after each mutation.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		s.observer = o
	}
}

// Store holds the line items a buyer intends to purchase. Items are unique by ID
// and keep insertion order. All methods are safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	items    []LineItem
	index    map[string]int
	observer Observer
}

func NewStore(opts ...Option) *Store {
	s := &Store{index: map[string]int{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddItem merges the candidate into the cart. A repeated ID increments the existing
// quantity and keeps the original price and metadata.
func (s *Store) AddItem(c Candidate) error {
	id := strings.TrimSpace(c.ID)
	if id == "" {
		id = DeriveID(c.Name)
	}
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart item requires an id or name")
	}
	qty := normalizeQuantity(c.Quantity)

	s.mu.Lock()
	merged := false
	if pos, ok := s.index[id]; ok {
		s.items[pos].Quantity = addQuantity(s.items[pos].Quantity, qty)
		merged = true
	} else {
		s.index[id] = len(s.items)
		s.items = append(s.items, LineItem{
			ID:        id,
			Name:      c.Name,
			UnitPrice: normalizePrice(c.UnitPrice),
			Quantity:  qty,
			Metadata:  copyMetadata(c.Metadata),
		})
	}
	s.mu.Unlock()

	if s.observer != nil {
		s.observer.ItemAdded(merged)
	}
	return nil
}

// RemoveItem deletes the line item with the given ID. Unknown IDs are ignored.
func (s *Store) RemoveItem(id string) {
	s.mu.Lock()
	_, ok := s.index[id]
	if ok {
		s.dropLocked(id)
	}
	s.mu.Unlock()

	if ok && s.observer != nil {
		s.observer.ItemRemoved()
	}
}

// RemoveSnapshot subtracts the quantities captured in snap from the live cart.
// Lines that reach zero are dropped; anything added after the snapshot was taken stays.
func (s *Store) RemoveSnapshot(snap Snapshot) {
	s.mu.Lock()
	dropped := 0
	for _, ordered := range snap.Items {
		pos, ok := s.index[ordered.ID]
		if !ok {
			continue
		}
		remaining := s.items[pos].Quantity - ordered.Quantity
		if remaining > 0 {
			s.items[pos].Quantity = remaining
			continue
		}
		s.dropLocked(ordered.ID)
		dropped++
	}
	s.mu.Unlock()

	if s.observer != nil {
		for i := 0; i < dropped; i++ {
			s.observer.ItemRemoved()
		}
	}
}

func (s *Store) dropLocked(id string) {
	pos := s.index[id]
	s.items = append(s.items[:pos], s.items[pos+1:]...)
	delete(s.index, id)
	for i := pos; i < len(s.items); i++ {
		s.index[s.items[i].ID] = i
	}
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.index = map[string]int{}
	s.mu.Unlock()

	if s.observer != nil {
		s.observer.Cleared()
	}
}

// Total sums unit price times quantity over the current items.
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return total(s.items)
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyItems(s.items)
}

// Item returns the line item with the given ID.
func (s *Store) Item(id string) (LineItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.index[id]
	if !ok {
		return LineItem{}, false
	}
	return copyItem(s.items[pos]), true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Items: copyItems(s.items), Total: total(s.items)}
}

// DeriveID builds a product identity from a display name.
func DeriveID(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

func total(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Subtotal())
	}
	return sum
}

func normalizeQuantity(q *int) int {
	if q == nil || *q < 1 {
		return 1
	}
	return *q
}

// addQuantity saturates at math.MaxInt.
func addQuantity(current, delta int) int {
	if delta > 0 && current > math.MaxInt-delta {
		return math.MaxInt
	}
	return current + delta
}

func normalizePrice(p *decimal.Decimal) decimal.Decimal {
	if p == nil || p.IsNegative() {
		return decimal.Zero
	}
	return *p
}

func copyItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, item := range items {
		out[i] = copyItem(item)
	}
	return out
}

func copyItem(item LineItem) LineItem {
	item.Metadata = copyMetadata(item.Metadata)
	return item
}

func copyMetadata(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
