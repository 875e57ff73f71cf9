package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/events"
	"go.uber.org/zap"
)

type CreateRequest struct {
	BookerID int64
	ItemID   int64
	Start    time.Time
	End      time.Time
}

// UserDirectory answers whether a user exists.
type UserDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// ItemRef is the part of an item the booking engine depends on.
type ItemRef struct {
	ID        int64
	OwnerID   int64
	Name      string
	Available bool
}

// ItemCatalog resolves items and item ownership.
// Lookup must return ErrItemNotFound for a missing item.
type ItemCatalog interface {
	Lookup(ctx context.Context, itemID int64) (*ItemRef, error)
	ListOwnedIDs(ctx context.Context, ownerID int64) ([]int64, error)
}

// OwnerWithoutItems decides what ListByOwner returns for a user who owns nothing.
type OwnerWithoutItems int

const (
	OwnerItemsEmpty OwnerWithoutItems = iota
	OwnerItemsError
)

func ParseOwnerWithoutItems(raw string) (OwnerWithoutItems, error) {
	switch raw {
	case "", "empty":
		return OwnerItemsEmpty, nil
	case "error":
		return OwnerItemsError, nil
	default:
		return 0, fmt.Errorf("unknown owner-without-items policy %q", raw)
	}
}

// Decode lets envconfig parse the policy straight from the environment.
func (p *OwnerWithoutItems) Decode(raw string) error {
	parsed, err := ParseOwnerWithoutItems(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	Decide(ctx context.Context, bookingID, userID int64, approve bool) (*Booking, error)
	GetByID(ctx context.Context, bookingID, userID int64) (*Booking, error)
	ListByBooker(ctx context.Context, userID int64, state State, page Page) ([]*Booking, error)
	ListByOwner(ctx context.Context, userID int64, state State, page Page) ([]*Booking, error)
	LastBooking(ctx context.Context, itemID int64) (*Booking, error)
	NextBooking(ctx context.Context, itemID int64) (*Booking, error)
	HasCompletedBooking(ctx context.Context, itemID, userID int64) (bool, error)
}

type Option func(*service)

// WithClock replaces the wall clock. Every operation reads it exactly once.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *service) { s.publisher = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *service) { s.logger = l }
}

func WithOwnerWithoutItems(p OwnerWithoutItems) Option {
	return func(s *service) { s.ownerPolicy = p }
}

type service struct {
	repo        Repository
	users       UserDirectory
	items       ItemCatalog
	now         func() time.Time
	publisher   events.Publisher
	logger      *zap.Logger
	ownerPolicy OwnerWithoutItems
}

func NewService(repo Repository, users UserDirectory, items ItemCatalog, opts ...Option) Service {
	s := &service{
		repo:      repo,
		users:     users,
		items:     items,
		now:       func() time.Time { return time.Now().UTC() },
		publisher: events.NopPublisher{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) ensureUser(ctx context.Context, userID int64) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	now := s.now()

	// 1. Validate Booker
	if err := s.ensureUser(ctx, req.BookerID); err != nil {
		return nil, err
	}

	// 2. Validate Item
	item, err := s.items.Lookup(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID == req.BookerID {
		return nil, ErrOwnItem
	}
	if !item.Available {
		return nil, ErrItemUnavailable
	}

	// 3. Validate Time Range
	if !req.End.After(req.Start) {
		return nil, ErrInvalidTimeRange
	}
	if !req.Start.After(now) {
		return nil, ErrStartTimePast
	}

	// 4. Create Booking
	b := &Booking{
		ItemID:   req.ItemID,
		BookerID: req.BookerID,
		Start:    req.Start,
		End:      req.End,
		Status:   StatusWaiting,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	created, err := s.repo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.Int64("booking_id", created.ID),
		zap.Int64("item_id", created.ItemID),
		zap.Int64("user_id", created.BookerID),
	)
	s.publish(ctx, events.TypeBookingCreated, created, req.BookerID, now)

	return created, nil
}

func (s *service) Decide(ctx context.Context, bookingID, userID int64, approve bool) (*Booking, error) {
	// 1. Acting user and booking must exist
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// 2. Resolve ownership through the catalog
	item, err := s.items.Lookup(ctx, current.ItemID)
	if err != nil {
		return nil, err
	}

	// 3. Re-check and write under the row lock
	now := s.now()
	updated, err := s.repo.UpdateStatus(ctx, bookingID, func(b *Booking) (Status, error) {
		return decide(b, item.OwnerID, userID, approve, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking decided",
		zap.Int64("booking_id", updated.ID),
		zap.Int64("user_id", userID),
		zap.String("status", string(updated.Status)),
	)
	s.publish(ctx, events.TypeBookingDecided, updated, userID, now)

	return updated, nil
}

// decide applies the transition table to b for the acting user.
// Strangers get ErrNotFound so a booking's existence is not revealed.
func decide(b *Booking, ownerID, userID int64, approve bool, now time.Time) (Status, error) {
	isOwner := userID == ownerID
	isBooker := userID == b.BookerID
	if !isOwner && !isBooker {
		return "", ErrNotFound
	}

	if b.Status == StatusCanceled {
		return "", ErrBookingCanceled
	}
	if !b.End.After(now) {
		return "", ErrBookingExpired
	}

	var next Status
	if isOwner {
		if approve && b.Status == StatusApproved {
			return "", ErrAlreadyApproved
		}
		if b.Status != StatusWaiting {
			return "", ErrAlreadyDecided
		}
		next = StatusRejected
		if approve {
			next = StatusApproved
		}
	} else {
		if approve {
			return "", ErrOwnerApproveOnly
		}
		if b.Status != StatusWaiting {
			return "", ErrAlreadyDecided
		}
		next = StatusCanceled
	}

	if !b.Status.CanTransitionTo(next) {
		return "", ErrAlreadyDecided
	}
	return next, nil
}

func (s *service) GetByID(ctx context.Context, bookingID, userID int64) (*Booking, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.BookerID != userID && b.OwnerID != userID {
		return nil, ErrNotFound
	}

	return b, nil
}

func (s *service) ListByBooker(ctx context.Context, userID int64, state State, page Page) ([]*Booking, error) {
	if !state.IsValid() {
		return nil, ErrUnknownState
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	return s.repo.List(ctx, Query{
		BookerID: userID,
		State:    state,
		Now:      s.now(),
		Page:     page,
	})
}

func (s *service) ListByOwner(ctx context.Context, userID int64, state State, page Page) ([]*Booking, error) {
	if !state.IsValid() {
		return nil, ErrUnknownState
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	itemIDs, err := s.items.ListOwnedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(itemIDs) == 0 {
		if s.ownerPolicy == OwnerItemsError {
			return nil, ErrOwnerHasNoItems
		}
		return []*Booking{}, nil
	}

	return s.repo.List(ctx, Query{
		ItemIDs: itemIDs,
		State:   state,
		Now:     s.now(),
		Page:    page,
	})
}

// LastBooking returns the booking of itemID that ended most recently, or nil.
// Status is not considered.
func (s *service) LastBooking(ctx context.Context, itemID int64) (*Booking, error) {
	return s.repo.Last(ctx, itemID, s.now())
}

// NextBooking returns the booking of itemID that starts soonest, or nil.
// Status is not considered.
func (s *service) NextBooking(ctx context.Context, itemID int64) (*Booking, error) {
	return s.repo.Next(ctx, itemID, s.now())
}

func (s *service) HasCompletedBooking(ctx context.Context, itemID, userID int64) (bool, error) {
	return s.repo.HasCompleted(ctx, itemID, userID, s.now())
}

// publish emits an audit event after commit. Failures never affect the caller.
func (s *service) publish(ctx context.Context, eventType string, b *Booking, actorID int64, at time.Time) {
	err := s.publisher.Publish(ctx, events.BookingEvent{
		Type:       eventType,
		BookingID:  b.ID,
		ItemID:     b.ItemID,
		BookerID:   b.BookerID,
		ActorID:    actorID,
		Status:     string(b.Status),
		Start:      b.Start,
		End:        b.End,
		OccurredAt: at,
	})
	if err != nil {
		s.logger.Warn("failed to publish booking event",
			zap.String("type", eventType),
			zap.Int64("booking_id", b.ID),
			zap.Error(err),
		)
	}
}
