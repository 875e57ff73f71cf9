package booking

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(apperror.KindNotFound, "booking not found")
	ErrUserNotFound     = apperror.New(apperror.KindNotFound, "user not found")
	ErrItemNotFound     = apperror.New(apperror.KindNotFound, "item not found")
	ErrItemUnavailable  = apperror.New(apperror.KindInvalid, "item is not available for booking")
	ErrOwnItem          = apperror.New(apperror.KindInvalid, "owner cannot book their own item")
	ErrInvalidTimeRange = apperror.New(apperror.KindInvalid, "start time must be before end time")
	ErrStartTimePast    = apperror.New(apperror.KindInvalid, "cannot create booking in the past")
	ErrBookingExpired   = apperror.New(apperror.KindInvalid, "booking has already ended")
	ErrBookingCanceled  = apperror.New(apperror.KindInvalid, "booking was canceled")
	ErrAlreadyApproved  = apperror.New(apperror.KindInvalid, "booking already approved")
	ErrAlreadyDecided   = apperror.New(apperror.KindInvalid, "decision already made")
	ErrOwnerApproveOnly = apperror.New(apperror.KindForbidden, "only the item owner can approve a booking")
	ErrDecisionConflict = apperror.New(apperror.KindConflict, "booking was modified concurrently")
	ErrUnknownState     = apperror.New(apperror.KindInvalid, "unknown state")
	ErrOwnerHasNoItems  = apperror.New(apperror.KindInvalid, "user has no items")
)

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusCanceled Status = "CANCELED"
)

// transitions lists every status reachable from a given status.
// Everything except WAITING is terminal.
var transitions = map[Status][]Status{
	StatusWaiting:  {StatusApproved, StatusRejected, StatusCanceled},
	StatusApproved: {},
	StatusRejected: {},
	StatusCanceled: {},
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking is a reservation of an item by a booker over [Start, End).
// ItemName, OwnerID and BookerName are read-side joins and never written back.
type Booking struct {
	ID         int64
	ItemID     int64
	ItemName   string
	OwnerID    int64
	BookerID   int64
	BookerName string
	Start      time.Time
	End        time.Time
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Page is an offset window over a listing. Size 0 means no limit.
type Page struct {
	From int
	Size int
}

// Query selects bookings either by booker or by a set of items.
type Query struct {
	BookerID int64
	ItemIDs  []int64
	State    State
	Now      time.Time
	Page     Page
}
