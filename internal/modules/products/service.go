package products

import (
	"context"
	"fmt"

	"silicon.com/app/internal/backend"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// CatalogAPI is the read and status part of the backend client.
type CatalogAPI interface {
	Products(ctx context.Context, p backend.ListParams) ([]backend.Product, error)
	Product(ctx context.Context, id string) (backend.Product, error)
	SetProductStatus(ctx context.Context, id, status string) error
}

type Service struct {
	api CatalogAPI
}

func NewService(api CatalogAPI) *Service { return &Service{api: api} }

func (s *Service) List(ctx context.Context, p backend.ListParams) ([]backend.Product, error) {
	return s.api.Products(ctx, p)
}

func (s *Service) Get(ctx context.Context, id string) (backend.Product, error) {
	return s.api.Product(ctx, id)
}

func (s *Service) SetStatus(ctx context.Context, id, status string) error {
	if status != StatusActive && status != StatusInactive {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.api.SetProductStatus(ctx, id, status)
}

// Toggle flips a product between active and inactive and returns the new
// status. Nothing is cached; callers reload their view afterwards.
func (s *Service) Toggle(ctx context.Context, id string) (string, error) {
	p, err := s.api.Product(ctx, id)
	if err != nil {
		return "", err
	}
	next := StatusActive
	if p.Status == StatusActive {
		next = StatusInactive
	}
	if err := s.api.SetProductStatus(ctx, id, next); err != nil {
		return "", err
	}
	return next, nil
}
