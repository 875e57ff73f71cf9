package booking

import (
	"strings"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

// State is a listing bucket. Temporal buckets are evaluated against a single instant.
type State int

const (
	StateAll State = iota
	StateCurrent
	StatePast
	StateFuture
	StateWaiting
	StateRejected
)

var stateNames = [...]string{
	StateAll:      "ALL",
	StateCurrent:  "CURRENT",
	StatePast:     "PAST",
	StateFuture:   "FUTURE",
	StateWaiting:  "WAITING",
	StateRejected: "REJECTED",
}

func (s State) String() string {
	if !s.IsValid() {
		return "UNKNOWN"
	}
	return stateNames[s]
}

func (s State) IsValid() bool {
	return s >= StateAll && int(s) < len(stateNames)
}

// ParseState resolves a bucket name case-insensitively.
// An empty name selects ALL.
func ParseState(raw string) (State, error) {
	if raw == "" {
		return StateAll, nil
	}
	for i, name := range stateNames {
		if strings.EqualFold(raw, name) {
			return State(i), nil
		}
	}
	return 0, apperror.Wrap(ErrUnknownState, apperror.KindInvalid, "Unknown state: "+raw)
}

// Includes reports whether b belongs to the bucket at instant now.
// All comparisons are strict: a booking starting or ending exactly at now
// is neither CURRENT nor on that side of PAST/FUTURE.
func (s State) Includes(b *Booking, now time.Time) bool {
	switch s {
	case StateAll:
		return true
	case StateCurrent:
		return b.Start.Before(now) && b.End.After(now)
	case StatePast:
		return b.End.Before(now)
	case StateFuture:
		return b.Start.After(now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected || b.Status == StatusCanceled
	default:
		return false
	}
}
