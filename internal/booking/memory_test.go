package booking

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// fakeUsers is an in-memory UserDirectory.
type fakeUsers struct {
	names map[int64]string
	calls atomic.Int32
}

func (f *fakeUsers) Exists(_ context.Context, id int64) (bool, error) {
	f.calls.Add(1)
	_, ok := f.names[id]
	return ok, nil
}

// fakeCatalog is an in-memory ItemCatalog.
type fakeCatalog struct {
	items map[int64]*ItemRef
}

func (f *fakeCatalog) Lookup(_ context.Context, itemID int64) (*ItemRef, error) {
	it, ok := f.items[itemID]
	if !ok {
		return nil, ErrItemNotFound
	}
	cp := *it
	return &cp, nil
}

func (f *fakeCatalog) ListOwnedIDs(_ context.Context, ownerID int64) ([]int64, error) {
	ids := make([]int64, 0)
	for id, it := range f.items {
		if it.OwnerID == ownerID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// memoryStore is a Repository backed by a map. The mutex stands in for the row lock.
type memoryStore struct {
	mu       sync.Mutex
	users    *fakeUsers
	catalog  *fakeCatalog
	bookings map[int64]*Booking
	lastID   int64
	queries  int

	// beforeWrite runs between the decision and the status write.
	beforeWrite func(b *Booking)
}

func newMemoryStore(users *fakeUsers, catalog *fakeCatalog) *memoryStore {
	return &memoryStore{
		users:    users,
		catalog:  catalog,
		bookings: make(map[int64]*Booking),
	}
}

// view returns a copy of b with the read-side joins filled in.
func (m *memoryStore) view(b *Booking) *Booking {
	cp := *b
	if it, ok := m.catalog.items[b.ItemID]; ok {
		cp.ItemName = it.Name
		cp.OwnerID = it.OwnerID
	}
	cp.BookerName = m.users.names[b.BookerID]
	return &cp
}

// seed stores b as-is, bypassing the engine's create checks.
func (m *memoryStore) seed(b Booking) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastID++
	b.ID = m.lastID
	m.bookings[b.ID] = &b
	return b.ID
}

func (m *memoryStore) Create(_ context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++
	m.lastID++
	b.ID = m.lastID
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memoryStore) GetByID(_ context.Context, id int64) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m.view(b), nil
}

func (m *memoryStore) List(_ context.Context, q Query) ([]*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++

	items := make(map[int64]bool, len(q.ItemIDs))
	for _, id := range q.ItemIDs {
		items[id] = true
	}

	out := make([]*Booking, 0)
	for _, b := range m.bookings {
		if q.BookerID != 0 && b.BookerID != q.BookerID {
			continue
		}
		if q.BookerID == 0 && !items[b.ItemID] {
			continue
		}
		if !q.State.Includes(b, q.Now) {
			continue
		}
		out = append(out, m.view(b))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.After(out[j].Start)
		}
		return out[i].ID > out[j].ID
	})

	if q.Page.From >= len(out) {
		return []*Booking{}, nil
	}
	out = out[q.Page.From:]
	if q.Page.Size > 0 && q.Page.Size < len(out) {
		out = out[:q.Page.Size]
	}
	return out, nil
}

func (m *memoryStore) UpdateStatus(_ context.Context, id int64, decide func(b *Booking) (Status, error)) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++

	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}

	read := b.Status
	next, err := decide(m.view(b))
	if err != nil {
		return nil, err
	}

	if m.beforeWrite != nil {
		m.beforeWrite(b)
	}
	if b.Status != read {
		return nil, ErrDecisionConflict
	}

	b.Status = next
	b.UpdatedAt = time.Now()
	return m.view(b), nil
}

func (m *memoryStore) Last(_ context.Context, itemID int64, now time.Time) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var best *Booking
	for _, b := range m.bookings {
		if b.ItemID != itemID || !b.End.Before(now) {
			continue
		}
		if best == nil || b.End.After(best.End) || (b.End.Equal(best.End) && b.ID > best.ID) {
			best = b
		}
	}
	if best == nil {
		return nil, nil
	}
	return m.view(best), nil
}

func (m *memoryStore) Next(_ context.Context, itemID int64, now time.Time) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var best *Booking
	for _, b := range m.bookings {
		if b.ItemID != itemID || !b.Start.After(now) {
			continue
		}
		if best == nil || b.Start.Before(best.Start) || (b.Start.Equal(best.Start) && b.ID < best.ID) {
			best = b
		}
	}
	if best == nil {
		return nil, nil
	}
	return m.view(best), nil
}

func (m *memoryStore) HasCompleted(_ context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.bookings {
		if b.ItemID == itemID && b.BookerID == bookerID && b.Status == StatusApproved && b.End.Before(now) {
			return true, nil
		}
	}
	return false, nil
}
