package user

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(apperror.KindNotFound, "user not found")
	ErrEmailAlreadyUsed = apperror.New(apperror.KindConflict, "email already used")
	ErrNameRequired     = apperror.New(apperror.KindInvalid, "name is required")
	ErrEmailRequired    = apperror.New(apperror.KindInvalid, "email is required")
	ErrInvalidEmail     = apperror.New(apperror.KindInvalid, "email is invalid")
)

// User represents a user in the system.
type User struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}

// UserFilter defines filter options for listing users.
type UserFilter struct {
	Email string
	Name  string

	Page     int
	PageSize int
}
