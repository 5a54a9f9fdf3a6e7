package schemes_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"silicon.com/app/internal/backend"
	"silicon.com/app/internal/modules/schemes"
)

type fakeAPI struct {
	rows []backend.ProductSchemes
	sets []string
}

func (f *fakeAPI) Schemes(context.Context) ([]backend.ProductSchemes, error) { return f.rows, nil }

func (f *fakeAPI) SetScheme(_ context.Context, id, scheme string, enabled bool) error {
	state := "off"
	if enabled {
		state = "on"
	}
	f.sets = append(f.sets, id+":"+scheme+":"+state)
	return nil
}

func TestToggle(t *testing.T) {
	api := &fakeAPI{rows: []backend.ProductSchemes{
		{ProductID: "p1", Schemes: backend.SchemeFlags{OnSale: true}},
	}}
	s := schemes.NewService(api)

	on, err := s.Toggle(context.Background(), "p1", schemes.OnSale)
	require.NoError(t, err)
	assert.False(t, on)

	on, err = s.Toggle(context.Background(), "p1", schemes.Featured)
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, []string{"p1:onSale:off", "p1:featured:on"}, api.sets)

	_, err = s.Toggle(context.Background(), "p9", schemes.Featured)
	assert.ErrorIs(t, err, schemes.ErrNoProduct)
	_, err = s.Toggle(context.Background(), "p1", "clearance")
	assert.ErrorIs(t, err, schemes.ErrUnknownScheme)
}
