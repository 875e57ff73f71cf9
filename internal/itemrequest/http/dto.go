package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

// ItemBrief is an item listed in answer to a request.
type ItemBrief struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"ownerId"`
}

type ItemRequestResponse struct {
	ID          int64       `json:"id"`
	Description string      `json:"description"`
	Created     time.Time   `json:"created"`
	Items       []ItemBrief `json:"items"`
}

func NewItemRequestResponse(r *itemrequest.ItemRequest) ItemRequestResponse {
	items := make([]ItemBrief, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, newItemBrief(it))
	}

	return ItemRequestResponse{
		ID:          r.ID,
		Description: r.Description,
		Created:     r.CreatedAt,
		Items:       items,
	}
}

func newItemBrief(it *item.Item) ItemBrief {
	return ItemBrief{ID: it.ID, Name: it.Name, OwnerID: it.OwnerID}
}

func newList(list []*itemrequest.ItemRequest) []ItemRequestResponse {
	out := make([]ItemRequestResponse, 0, len(list))
	for _, r := range list {
		out = append(out, NewItemRequestResponse(r))
	}
	return out
}

type CreateRequest struct {
	Description string `json:"description" binding:"required"`
}

type ListAllRequest struct {
	request.WindowParams
}
