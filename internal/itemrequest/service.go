package itemrequest

import (
	"context"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"go.uber.org/zap"
)

// UserDirectory answers whether a user exists.
type UserDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// ItemLister finds the items listed in answer to requests.
type ItemLister interface {
	ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]*item.Item, error)
}

type Service interface {
	Create(ctx context.Context, requestorID int64, description string) (*ItemRequest, error)
	GetByID(ctx context.Context, id, userID int64) (*ItemRequest, error)
	ListOwn(ctx context.Context, userID int64) ([]*ItemRequest, error)
	ListOthers(ctx context.Context, userID int64, from, size int) ([]*ItemRequest, error)
}

type service struct {
	repo   Repository
	users  UserDirectory
	items  ItemLister
	logger *zap.Logger
}

func NewService(repo Repository, users UserDirectory, items ItemLister, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		users:  users,
		items:  items,
		logger: logger,
	}
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

func (s *service) Create(ctx context.Context, requestorID int64, description string) (*ItemRequest, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	if err := s.ensureUser(ctx, requestorID); err != nil {
		return nil, err
	}

	req := &ItemRequest{
		Description: description,
		RequestorID: requestorID,
		Items:       []*item.Item{},
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info("item request created",
		zap.Int64("request_id", req.ID),
		zap.Int64("user_id", requestorID),
	)
	return req, nil
}

func (s *service) GetByID(ctx context.Context, id, userID int64) (*ItemRequest, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.attachItems(ctx, []*ItemRequest{req}); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) ListOwn(ctx context.Context, userID int64) ([]*ItemRequest, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	list, err := s.repo.ListByRequestor(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.attachItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *service) ListOthers(ctx context.Context, userID int64, from, size int) ([]*ItemRequest, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	list, err := s.repo.ListOthers(ctx, userID, from, size)
	if err != nil {
		return nil, err
	}

	if err := s.attachItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// attachItems fills Items on every request with a single lookup.
func (s *service) attachItems(ctx context.Context, list []*ItemRequest) error {
	ids := make([]int64, 0, len(list))
	byID := make(map[int64]*ItemRequest, len(list))
	for _, req := range list {
		req.Items = []*item.Item{}
		ids = append(ids, req.ID)
		byID[req.ID] = req
	}
	if len(ids) == 0 {
		return nil
	}

	items, err := s.items.ListByRequestIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, it := range items {
		if it.RequestID == nil {
			continue
		}
		if req, ok := byID[*it.RequestID]; ok {
			req.Items = append(req.Items, it)
		}
	}
	return nil
}
