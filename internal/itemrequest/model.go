package itemrequest

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(apperror.KindNotFound, "item request not found")
	ErrUserNotFound        = apperror.New(apperror.KindNotFound, "user not found")
	ErrDescriptionRequired = apperror.New(apperror.KindInvalid, "description is required")
)

// ItemRequest is a user's wish for an item nobody offers yet.
type ItemRequest struct {
	ID          int64
	Description string
	RequestorID int64
	CreatedAt   time.Time
	Items       []*item.Item // items listed in answer
}
