package gateway

import (
	"errors"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

var ErrStartNotBeforeEnd = errors.New("start must be before end")

type CreateUserBody struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type UpdateUserBody struct {
	Name  *string `json:"name" binding:"omitempty,min=1"`
	Email *string `json:"email" binding:"omitempty,email"`
}

type ListUsersQuery struct {
	request.ListParams
}

type CreateItemBody struct {
	Name        string `json:"name" binding:"required,notblank"`
	Description string `json:"description" binding:"required,notblank"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"requestId" binding:"omitempty,min=1"`
}

type UpdateItemBody struct {
	Name        *string `json:"name" binding:"omitempty,notblank"`
	Description *string `json:"description" binding:"omitempty,notblank"`
	Available   *bool   `json:"available"`
}

type SearchQuery struct {
	Text string `form:"text"`
}

type CommentBody struct {
	Text string `json:"text" binding:"required,notblank"`
}

type CreateItemRequestBody struct {
	Description string `json:"description" binding:"required,notblank"`
}

type CreateBookingBody struct {
	ItemID int64     `json:"itemId" binding:"required,min=1"`
	Start  time.Time `json:"start" binding:"required,future"`
	End    time.Time `json:"end" binding:"required,future"`
}

func (b *CreateBookingBody) Validate() error {
	if !b.Start.Before(b.End) {
		return ErrStartNotBeforeEnd
	}
	return nil
}

type DecideQuery struct {
	Approved *bool `form:"approved" binding:"required"`
}

type WindowQuery struct {
	request.WindowParams
}
