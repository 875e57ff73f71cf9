package item

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(apperror.KindNotFound, "item not found")
	ErrOwnerNotFound       = apperror.New(apperror.KindNotFound, "user not found")
	ErrRequestNotFound     = apperror.New(apperror.KindNotFound, "item request not found")
	ErrNotOwner            = apperror.New(apperror.KindForbidden, "only the owner can modify the item")
	ErrEmptyName           = apperror.New(apperror.KindInvalid, "name cannot be empty")
	ErrEmptyDescription    = apperror.New(apperror.KindInvalid, "description cannot be empty")
	ErrAvailableRequired   = apperror.New(apperror.KindInvalid, "available is required")
	ErrEmptyComment        = apperror.New(apperror.KindInvalid, "comment text cannot be empty")
	ErrCommentNotPermitted = apperror.New(apperror.KindInvalid, "only users who completed a booking of the item can comment")
)

// Item is a thing a user offers for others to book.
type Item struct {
	ID          int64
	OwnerID     int64
	Name        string
	Description string
	Available   bool
	RequestID   *int64 // set when the item was listed in answer to an item request
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Comment is feedback left by a past booker.
type Comment struct {
	ID         int64
	ItemID     int64
	AuthorID   int64
	AuthorName string
	Text       string
	CreatedAt  time.Time
}

// Details is an item decorated for display.
// LastBooking and NextBooking are only filled for the owner.
type Details struct {
	Item        *Item
	LastBooking *booking.Booking
	NextBooking *booking.Booking
	Comments    []*Comment
}
