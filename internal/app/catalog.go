package app

import (
	"context"
	"errors"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/item"
)

// itemCatalog exposes the item store to the booking engine.
type itemCatalog struct {
	repo item.Repository
}

func (c itemCatalog) Lookup(ctx context.Context, itemID int64) (*booking.ItemRef, error) {
	it, err := c.repo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			return nil, booking.ErrItemNotFound
		}
		return nil, err
	}
	return &booking.ItemRef{
		ID:        it.ID,
		OwnerID:   it.OwnerID,
		Name:      it.Name,
		Available: it.Available,
	}, nil
}

func (c itemCatalog) ListOwnedIDs(ctx context.Context, ownerID int64) ([]int64, error) {
	return c.repo.ListOwnedIDs(ctx, ownerID)
}
