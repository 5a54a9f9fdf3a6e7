package products_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"silicon.com/app/internal/backend"
	"silicon.com/app/internal/modules/products"
)

type fakeCatalog struct {
	status map[string]string
}

func (f *fakeCatalog) Products(context.Context, backend.ListParams) ([]backend.Product, error) {
	var out []backend.Product
	for id, s := range f.status {
		out = append(out, backend.Product{ID: id, Status: s})
	}
	return out, nil
}

func (f *fakeCatalog) Product(_ context.Context, id string) (backend.Product, error) {
	return backend.Product{ID: id, Status: f.status[id]}, nil
}

func (f *fakeCatalog) SetProductStatus(_ context.Context, id, status string) error {
	f.status[id] = status
	return nil
}

func TestToggle(t *testing.T) {
	api := &fakeCatalog{status: map[string]string{"p1": "active"}}
	s := products.NewService(api)

	next, err := s.Toggle(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, products.StatusInactive, next)

	next, err = s.Toggle(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, products.StatusActive, next)
}

func TestSetStatusRejectsUnknown(t *testing.T) {
	s := products.NewService(&fakeCatalog{status: map[string]string{}})
	assert.ErrorIs(t, s.SetStatus(context.Background(), "p1", "archived"), products.ErrInvalidStatus)
}
