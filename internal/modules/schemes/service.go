package schemes

import (
	"context"
	"errors"
	"fmt"

	"silicon.com/app/internal/backend"
)

// Scheme flag names as the backend knows them.
const (
	OnSale     = "onSale"
	BestSeller = "bestSeller"
	NewArrival = "newArrival"
	Featured   = "featured"
)

var All = []string{OnSale, BestSeller, NewArrival, Featured}

var (
	ErrUnknownScheme = errors.New("unknown sales scheme")
	ErrNoProduct     = errors.New("product has no scheme row")
)

type API interface {
	Schemes(ctx context.Context) ([]backend.ProductSchemes, error)
	SetScheme(ctx context.Context, productID, scheme string, enabled bool) error
}

type Service struct {
	api API
}

func NewService(api API) *Service { return &Service{api: api} }

func (s *Service) List(ctx context.Context) ([]backend.ProductSchemes, error) {
	return s.api.Schemes(ctx)
}

func (s *Service) Set(ctx context.Context, productID, scheme string, enabled bool) error {
	if !Valid(scheme) {
		return fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
	return s.api.SetScheme(ctx, productID, scheme, enabled)
}

// Toggle reads the current flag, writes its opposite and returns it.
func (s *Service) Toggle(ctx context.Context, productID, scheme string) (bool, error) {
	if !Valid(scheme) {
		return false, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
	rows, err := s.api.Schemes(ctx)
	if err != nil {
		return false, err
	}
	for _, r := range rows {
		if r.ProductID != productID {
			continue
		}
		next := !Flag(r.Schemes, scheme)
		if err := s.api.SetScheme(ctx, productID, scheme, next); err != nil {
			return false, err
		}
		return next, nil
	}
	return false, fmt.Errorf("%w: %s", ErrNoProduct, productID)
}

func Valid(scheme string) bool {
	for _, s := range All {
		if s == scheme {
			return true
		}
	}
	return false
}

// Flag reads one named flag.
func Flag(f backend.SchemeFlags, scheme string) bool {
	switch scheme {
	case OnSale:
		return f.OnSale
	case BestSeller:
		return f.BestSeller
	case NewArrival:
		return f.NewArrival
	case Featured:
		return f.Featured
	}
	return false
}
