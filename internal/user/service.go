package user

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// UpdateUserRequest carries a partial update. Nil fields are left unchanged.
type UpdateUserRequest struct {
	Name  *string
	Email *string
}

// Service defines business logic related to users.
type Service interface {
	Create(ctx context.Context, name, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, filter UserFilter) ([]*User, int, error)
	Update(ctx context.Context, id int64, req UpdateUserRequest) (*User, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo     Repository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService creates a new user Service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		validate: validator.New(),
		logger:   logger,
	}
}

func (s *service) Create(ctx context.Context, name, email string) (*User, error) {
	cleanName := strings.TrimSpace(name)
	if cleanName == "" {
		return nil, ErrNameRequired
	}

	cleanEmail, err := s.checkEmail(email)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:  cleanName,
		Email: cleanEmail,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.Int64("user_id", u.ID))
	return u, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *service) List(ctx context.Context, filter UserFilter) ([]*User, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		cleanName := strings.TrimSpace(*req.Name)
		if cleanName == "" {
			return nil, ErrNameRequired
		}
		u.Name = cleanName
	}

	if req.Email != nil {
		cleanEmail, err := s.checkEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		u.Email = cleanEmail
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted", zap.Int64("user_id", id))
	return nil
}

func (s *service) checkEmail(email string) (string, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" {
		return "", ErrEmailRequired
	}
	if err := s.validate.Var(cleanEmail, "email"); err != nil {
		return "", ErrInvalidEmail
	}
	return cleanEmail, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
