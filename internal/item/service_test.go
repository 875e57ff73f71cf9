package item

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryRepo struct {
	items         map[int64]*Item
	comments      []*Comment
	authors       map[int64]string
	lastID        int64
	lastCommentID int64
}

func newMemoryRepo(authors map[int64]string) *memoryRepo {
	return &memoryRepo{items: make(map[int64]*Item), authors: authors}
}

func (m *memoryRepo) Create(_ context.Context, it *Item) error {
	m.lastID++
	it.ID = m.lastID
	it.CreatedAt = time.Now()
	it.UpdatedAt = it.CreatedAt
	cp := *it
	m.items[it.ID] = &cp
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (*Item, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (m *memoryRepo) filter(keep func(*Item) bool) []*Item {
	out := make([]*Item, 0)
	for id := int64(1); id <= m.lastID; id++ {
		if it, ok := m.items[id]; ok && keep(it) {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out
}

func (m *memoryRepo) ListByOwner(_ context.Context, ownerID int64) ([]*Item, error) {
	return m.filter(func(it *Item) bool { return it.OwnerID == ownerID }), nil
}

func (m *memoryRepo) ListOwnedIDs(_ context.Context, ownerID int64) ([]int64, error) {
	ids := make([]int64, 0)
	for _, it := range m.filter(func(it *Item) bool { return it.OwnerID == ownerID }) {
		ids = append(ids, it.ID)
	}
	return ids, nil
}

func (m *memoryRepo) ListByRequestIDs(_ context.Context, requestIDs []int64) ([]*Item, error) {
	return m.filter(func(it *Item) bool {
		if it.RequestID == nil {
			return false
		}
		for _, id := range requestIDs {
			if *it.RequestID == id {
				return true
			}
		}
		return false
	}), nil
}

func (m *memoryRepo) Search(_ context.Context, text string) ([]*Item, error) {
	text = strings.ToLower(text)
	return m.filter(func(it *Item) bool {
		return it.Available && (strings.Contains(strings.ToLower(it.Name), text) ||
			strings.Contains(strings.ToLower(it.Description), text))
	}), nil
}

func (m *memoryRepo) Update(_ context.Context, it *Item) error {
	if _, ok := m.items[it.ID]; !ok {
		return ErrNotFound
	}
	cp := *it
	m.items[it.ID] = &cp
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memoryRepo) CreateComment(_ context.Context, c *Comment) error {
	m.lastCommentID++
	c.ID = m.lastCommentID
	c.AuthorName = m.authors[c.AuthorID]
	c.CreatedAt = time.Now()
	cp := *c
	m.comments = append(m.comments, &cp)
	return nil
}

func (m *memoryRepo) ListComments(_ context.Context, itemID int64) ([]*Comment, error) {
	out := make([]*Comment, 0)
	for _, c := range m.comments {
		if c.ItemID == itemID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeDirectory map[int64]bool

func (f fakeDirectory) Exists(_ context.Context, id int64) (bool, error) {
	return f[id], nil
}

// fakeBookings answers from fixed per-item values.
type fakeBookings struct {
	last      map[int64]*booking.Booking
	next      map[int64]*booking.Booking
	completed map[[2]int64]bool
	calls     int
}

func (f *fakeBookings) LastBooking(_ context.Context, itemID int64) (*booking.Booking, error) {
	f.calls++
	return f.last[itemID], nil
}

func (f *fakeBookings) NextBooking(_ context.Context, itemID int64) (*booking.Booking, error) {
	f.calls++
	return f.next[itemID], nil
}

func (f *fakeBookings) HasCompletedBooking(_ context.Context, itemID, userID int64) (bool, error) {
	return f.completed[[2]int64{itemID, userID}], nil
}

const (
	ownerID    int64 = 1
	bookerID   int64 = 2
	strangerID int64 = 3
	requestID  int64 = 50
)

type testEnv struct {
	svc      Service
	repo     *memoryRepo
	bookings *fakeBookings
}

func newTestEnv() *testEnv {
	repo := newMemoryRepo(map[int64]string{ownerID: "Owner", bookerID: "Booker", strangerID: "Stranger"})
	users := fakeDirectory{ownerID: true, bookerID: true, strangerID: true}
	requests := fakeDirectory{requestID: true}
	bookings := &fakeBookings{
		last:      make(map[int64]*booking.Booking),
		next:      make(map[int64]*booking.Booking),
		completed: make(map[[2]int64]bool),
	}
	return &testEnv{
		svc:      NewService(repo, users, requests, bookings, zap.NewNop()),
		repo:     repo,
		bookings: bookings,
	}
}

func (e *testEnv) createItem(t *testing.T, name string, available bool) *Item {
	t.Helper()
	it, err := e.svc.Create(context.Background(), CreateRequest{
		OwnerID:     ownerID,
		Name:        name,
		Description: name + " for rent",
		Available:   &available,
	})
	require.NoError(t, err)
	return it
}

func ptr[T any](v T) *T { return &v }

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		env := newTestEnv()
		it, err := env.svc.Create(ctx, CreateRequest{
			OwnerID:     ownerID,
			Name:        "  Drill ",
			Description: "Cordless drill",
			Available:   ptr(true),
			RequestID:   ptr(requestID),
		})
		require.NoError(t, err)
		assert.NotZero(t, it.ID)
		assert.Equal(t, "Drill", it.Name)
		assert.True(t, it.Available)
		require.NotNil(t, it.RequestID)
		assert.Equal(t, requestID, *it.RequestID)
	})

	tests := []struct {
		name string
		req  CreateRequest
		want error
	}{
		{"EmptyName", CreateRequest{OwnerID: ownerID, Name: " ", Description: "d", Available: ptr(true)}, ErrEmptyName},
		{"EmptyDescription", CreateRequest{OwnerID: ownerID, Name: "n", Available: ptr(true)}, ErrEmptyDescription},
		{"MissingAvailable", CreateRequest{OwnerID: ownerID, Name: "n", Description: "d"}, ErrAvailableRequired},
		{"UnknownOwner", CreateRequest{OwnerID: 99, Name: "n", Description: "d", Available: ptr(true)}, ErrOwnerNotFound},
		{"UnknownRequest", CreateRequest{OwnerID: ownerID, Name: "n", Description: "d", Available: ptr(true), RequestID: ptr(int64(7))}, ErrRequestNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			_, err := env.svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, env.repo.items)
		})
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("OwnerPatchesSelectedFields", func(t *testing.T) {
		env := newTestEnv()
		it := env.createItem(t, "Drill", true)

		updated, err := env.svc.Update(ctx, it.ID, ownerID, UpdateRequest{Available: ptr(false)})
		require.NoError(t, err)
		assert.Equal(t, "Drill", updated.Name)
		assert.False(t, updated.Available)

		updated, err = env.svc.Update(ctx, it.ID, ownerID, UpdateRequest{Name: ptr("Hammer drill")})
		require.NoError(t, err)
		assert.Equal(t, "Hammer drill", updated.Name)
		assert.False(t, updated.Available)
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		env := newTestEnv()
		it := env.createItem(t, "Drill", true)

		_, err := env.svc.Update(ctx, it.ID, strangerID, UpdateRequest{Name: ptr("Mine")})
		assert.ErrorIs(t, err, ErrNotOwner)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
		assert.Equal(t, "Drill", env.repo.items[it.ID].Name)
	})

	t.Run("BlankName", func(t *testing.T) {
		env := newTestEnv()
		it := env.createItem(t, "Drill", true)

		_, err := env.svc.Update(ctx, it.ID, ownerID, UpdateRequest{Name: ptr("  ")})
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("NotFound", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.svc.Update(ctx, 404, ownerID, UpdateRequest{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	it := env.createItem(t, "Drill", true)

	assert.ErrorIs(t, env.svc.Delete(ctx, it.ID, bookerID), ErrNotOwner)
	require.NoError(t, env.svc.Delete(ctx, it.ID, ownerID))
	assert.ErrorIs(t, env.svc.Delete(ctx, it.ID, ownerID), ErrNotFound)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.createItem(t, "Drill", true)
	env.createItem(t, "Saw", true)
	env.createItem(t, "Broken drill", false)

	found, err := env.svc.Search(ctx, "DRILL")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Drill", found[0].Name)

	found, err = env.svc.Search(ctx, "for rent")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = env.svc.Search(ctx, "   ")
	require.NoError(t, err)
	assert.NotNil(t, found)
	assert.Empty(t, found)
}

func TestDetails(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	it := env.createItem(t, "Drill", true)

	last := &booking.Booking{ID: 5, ItemID: it.ID, BookerID: bookerID}
	next := &booking.Booking{ID: 6, ItemID: it.ID, BookerID: bookerID}
	env.bookings.last[it.ID] = last
	env.bookings.next[it.ID] = next

	t.Run("OwnerSeesBookings", func(t *testing.T) {
		d, err := env.svc.Details(ctx, it.ID, ownerID)
		require.NoError(t, err)
		assert.Equal(t, last, d.LastBooking)
		assert.Equal(t, next, d.NextBooking)
		assert.NotNil(t, d.Comments)
	})

	t.Run("OthersDoNot", func(t *testing.T) {
		calls := env.bookings.calls
		d, err := env.svc.Details(ctx, it.ID, bookerID)
		require.NoError(t, err)
		assert.Nil(t, d.LastBooking)
		assert.Nil(t, d.NextBooking)
		assert.Equal(t, calls, env.bookings.calls)
	})

	t.Run("UnknownViewer", func(t *testing.T) {
		_, err := env.svc.Details(ctx, it.ID, 99)
		assert.ErrorIs(t, err, ErrOwnerNotFound)
	})

	t.Run("ListByOwner", func(t *testing.T) {
		list, err := env.svc.ListByOwner(ctx, ownerID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, last, list[0].LastBooking)

		list, err = env.svc.ListByOwner(ctx, strangerID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()

	t.Run("AfterCompletedBooking", func(t *testing.T) {
		env := newTestEnv()
		it := env.createItem(t, "Drill", true)
		env.bookings.completed[[2]int64{it.ID, bookerID}] = true

		c, err := env.svc.AddComment(ctx, it.ID, bookerID, " Worked great ")
		require.NoError(t, err)
		assert.Equal(t, "Worked great", c.Text)
		assert.Equal(t, "Booker", c.AuthorName)

		d, err := env.svc.Details(ctx, it.ID, strangerID)
		require.NoError(t, err)
		require.Len(t, d.Comments, 1)
		assert.Equal(t, c.ID, d.Comments[0].ID)
	})

	t.Run("WithoutCompletedBooking", func(t *testing.T) {
		env := newTestEnv()
		it := env.createItem(t, "Drill", true)

		_, err := env.svc.AddComment(ctx, it.ID, strangerID, "Nice")
		assert.ErrorIs(t, err, ErrCommentNotPermitted)
		assert.Equal(t, apperror.KindInvalid, apperror.KindOf(err))
		assert.Empty(t, env.repo.comments)
	})

	t.Run("EmptyText", func(t *testing.T) {
		env := newTestEnv()
		it := env.createItem(t, "Drill", true)
		env.bookings.completed[[2]int64{it.ID, bookerID}] = true

		_, err := env.svc.AddComment(ctx, it.ID, bookerID, "  ")
		assert.ErrorIs(t, err, ErrEmptyComment)
	})

	t.Run("UnknownItem", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.svc.AddComment(ctx, 404, bookerID, "Nice")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListByRequestIDs(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.createItem(t, "Unrelated", true)
	answer, err := env.svc.Create(ctx, CreateRequest{
		OwnerID: ownerID, Name: "Ladder", Description: "Tall", Available: ptr(true), RequestID: ptr(requestID),
	})
	require.NoError(t, err)

	items, err := env.svc.ListByRequestIDs(ctx, []int64{requestID})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, answer.ID, items[0].ID)

	items, err = env.svc.ListByRequestIDs(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
