package item

import (
	"context"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"go.uber.org/zap"
)

type CreateRequest struct {
	OwnerID     int64
	Name        string
	Description string
	Available   *bool
	RequestID   *int64
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

// UserDirectory answers whether a user exists.
type UserDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// RequestDirectory answers whether an item request exists.
type RequestDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// BookingLookup is the part of the booking engine items are decorated with.
type BookingLookup interface {
	LastBooking(ctx context.Context, itemID int64) (*booking.Booking, error)
	NextBooking(ctx context.Context, itemID int64) (*booking.Booking, error)
	HasCompletedBooking(ctx context.Context, itemID, userID int64) (bool, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Item, error)
	GetByID(ctx context.Context, id int64) (*Item, error)
	Details(ctx context.Context, id, viewerID int64) (*Details, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*Details, error)
	ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]*Item, error)
	Search(ctx context.Context, text string) ([]*Item, error)
	Update(ctx context.Context, id, userID int64, req UpdateRequest) (*Item, error)
	Delete(ctx context.Context, id, userID int64) error
	AddComment(ctx context.Context, itemID, authorID int64, text string) (*Comment, error)
}

type service struct {
	repo     Repository
	users    UserDirectory
	requests RequestDirectory
	bookings BookingLookup
	logger   *zap.Logger
}

func NewService(repo Repository, users UserDirectory, requests RequestDirectory, bookings BookingLookup, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		users:    users,
		requests: requests,
		bookings: bookings,
		logger:   logger,
	}
}

func (s *service) ensureUser(ctx context.Context, userID int64) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOwnerNotFound
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, ErrEmptyDescription
	}
	if req.Available == nil {
		return nil, ErrAvailableRequired
	}

	if err := s.ensureUser(ctx, req.OwnerID); err != nil {
		return nil, err
	}

	if req.RequestID != nil {
		ok, err := s.requests.Exists(ctx, *req.RequestID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrRequestNotFound
		}
	}

	it := &Item{
		OwnerID:     req.OwnerID,
		Name:        name,
		Description: description,
		Available:   *req.Available,
		RequestID:   req.RequestID,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}

	s.logger.Info("item created",
		zap.Int64("item_id", it.ID),
		zap.Int64("user_id", it.OwnerID),
	)
	return it, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Details(ctx context.Context, id, viewerID int64) (*Details, error) {
	if err := s.ensureUser(ctx, viewerID); err != nil {
		return nil, err
	}

	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.decorate(ctx, it, viewerID == it.OwnerID)
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64) ([]*Details, error) {
	if err := s.ensureUser(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := make([]*Details, 0, len(items))
	for _, it := range items {
		d, err := s.decorate(ctx, it, true)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// decorate attaches comments and, for the owner, the surrounding bookings.
func (s *service) decorate(ctx context.Context, it *Item, withBookings bool) (*Details, error) {
	comments, err := s.repo.ListComments(ctx, it.ID)
	if err != nil {
		return nil, err
	}

	d := &Details{Item: it, Comments: comments}
	if !withBookings {
		return d, nil
	}

	if d.LastBooking, err = s.bookings.LastBooking(ctx, it.ID); err != nil {
		return nil, err
	}
	if d.NextBooking, err = s.bookings.NextBooking(ctx, it.ID); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]*Item, error) {
	if len(requestIDs) == 0 {
		return []*Item{}, nil
	}
	return s.repo.ListByRequestIDs(ctx, requestIDs)
}

// Search matches available items by name or description, ignoring case.
// Blank text matches nothing.
func (s *service) Search(ctx context.Context, text string) ([]*Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*Item{}, nil
	}
	return s.repo.Search(ctx, text)
}

func (s *service) Update(ctx context.Context, id, userID int64, req UpdateRequest) (*Item, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != userID {
		return nil, ErrNotOwner
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		it.Name = name
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, ErrEmptyDescription
		}
		it.Description = description
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) Delete(ctx context.Context, id, userID int64) error {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if it.OwnerID != userID {
		return ErrNotOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("item deleted",
		zap.Int64("item_id", id),
		zap.Int64("user_id", userID),
	)
	return nil
}

func (s *service) AddComment(ctx context.Context, itemID, authorID int64, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	if err := s.ensureUser(ctx, authorID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, itemID); err != nil {
		return nil, err
	}

	ok, err := s.bookings.HasCompletedBooking(ctx, itemID, authorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCommentNotPermitted
	}

	c := &Comment{
		ItemID:   itemID,
		AuthorID: authorID,
		Text:     text,
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
