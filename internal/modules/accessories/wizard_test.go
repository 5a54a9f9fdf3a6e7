package accessories_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"silicon.com/app/internal/backend"
	"silicon.com/app/internal/form"
	"silicon.com/app/internal/modules/accessories"
)

type fakeAPI struct {
	created  []backend.AccessoryInput
	features map[string][]backend.Pair
	fail     error
	status   map[string]string
}

func (f *fakeAPI) CreateAccessory(_ context.Context, in backend.AccessoryInput) (backend.Created, error) {
	if f.fail != nil {
		return backend.Created{}, f.fail
	}
	f.created = append(f.created, in)
	return backend.Created{ID: "a1"}, nil
}

func (f *fakeAPI) UpdateAccessory(_ context.Context, id string, _ backend.AccessoryInput) (backend.Created, error) {
	return backend.Created{ID: id}, nil
}

func (f *fakeAPI) SetAccessoryFeatures(_ context.Context, id string, features []backend.Pair) error {
	if f.features == nil {
		f.features = map[string][]backend.Pair{}
	}
	f.features[id] = features
	return nil
}

func (f *fakeAPI) Accessories(context.Context, backend.ListParams) ([]backend.Accessory, error) {
	return []backend.Accessory{{ID: "a1"}}, nil
}

func (f *fakeAPI) Accessory(_ context.Context, id string) (backend.Accessory, error) {
	return backend.Accessory{ID: id}, nil
}

func (f *fakeAPI) SetAccessoryStatus(_ context.Context, id, status string) error {
	if f.status == nil {
		f.status = map[string]string{}
	}
	f.status[id] = status
	return nil
}

func fillBasic(t *testing.T, w *accessories.Wizard) {
	t.Helper()
	require.NoError(t, w.Edit(accessories.StepBasic, func(g *form.Group) error {
		for k, v := range map[string]string{"title": "SpO2 sensor", "category": "sensors", "price": "1800"} {
			if err := g.SetField(k, v); err != nil {
				return err
			}
		}
		if err := g.SetListItem("specifications", 0, "key", "Cable"); err != nil {
			return err
		}
		if err := g.SetListItem("specifications", 0, "value", "3 m"); err != nil {
			return err
		}
		return g.SetListItem("warranty", 0, "", "6 months")
	}))
}

func TestAccessoryWizard(t *testing.T) {
	api := &fakeAPI{}
	w := accessories.NewWizard(api)
	ctx := context.Background()

	assert.False(t, w.Controller().IsStepEnabled(accessories.StepFeatures))
	fillBasic(t, w)
	require.NoError(t, w.Controller().Submit(ctx))
	assert.True(t, w.Controller().IsStepEnabled(accessories.StepFeatures))
	assert.Equal(t, "a1", w.Controller().Token(accessories.TokenAccessory))
	assert.Equal(t, []backend.Pair{{Key: "Cable", Value: "3 m"}}, api.created[0].Specifications)

	require.NoError(t, w.Edit(accessories.StepFeatures, func(g *form.Group) error {
		if err := g.AddListItem("features"); err != nil {
			return err
		}
		for i, kv := range [][2]string{{"Reusable", "yes"}, {"Latex free", "yes"}} {
			if err := g.SetListItem("features", i, "key", kv[0]); err != nil {
				return err
			}
			if err := g.SetListItem("features", i, "value", kv[1]); err != nil {
				return err
			}
		}
		return nil
	}))
	require.NoError(t, w.Controller().Submit(ctx))
	assert.True(t, w.Controller().Completed())
	assert.Len(t, api.features["a1"], 2)
}

func TestAccessoryFailedSubmitKeepsDraft(t *testing.T) {
	boom := errors.New("connection refused")
	api := &fakeAPI{fail: boom}
	w := accessories.NewWizard(api)
	fillBasic(t, w)

	assert.ErrorIs(t, w.Controller().Submit(context.Background()), boom)
	assert.Equal(t, accessories.StepBasic, w.Controller().Active())
	d := w.Draft(accessories.StepBasic).(accessories.BasicDraft)
	assert.Equal(t, "SpO2 sensor", d.Title)
	assert.Equal(t, []string{"6 months"}, d.Warranty)

	api.fail = nil
	require.NoError(t, w.Controller().Submit(context.Background()))
	assert.Equal(t, accessories.StepFeatures, w.Controller().Active())
}

func TestServiceSetStatus(t *testing.T) {
	api := &fakeAPI{}
	s := accessories.NewService(api)
	assert.ErrorIs(t, s.SetStatus(context.Background(), "a1", "deleted"), accessories.ErrInvalidStatus)
	require.NoError(t, s.SetStatus(context.Background(), "a1", "inactive"))
	assert.Equal(t, "inactive", api.status["a1"])
}
