package products_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"silicon.com/app/internal/backend"
	"silicon.com/app/internal/form"
	"silicon.com/app/internal/modules/products"
	"silicon.com/app/internal/shared/apperr"
	"silicon.com/app/internal/storage"
)

type fakeAPI struct {
	mu        sync.Mutex
	products  []backend.ProductInput
	updates   int
	models    []backend.ModelInput
	colors    []string
	images    []string
	filenames []string
	features  []backend.Feature
	failColor string
	// colorUpdates records "id:name:image" per UpdateColor; image is empty
	// when no image part was sent.
	colorUpdates []string
	deleted      []string
}

func (f *fakeAPI) UpdateColor(_ context.Context, _, _, colorID string, in backend.ColorInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	img := ""
	if in.Image != nil {
		b, _ := io.ReadAll(in.Image.Body)
		img = string(b)
	}
	f.colorUpdates = append(f.colorUpdates, colorID+":"+in.Name+":"+img)
	return nil
}

func (f *fakeAPI) DeleteColor(_ context.Context, _, _, colorID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, colorID)
	return nil
}

func (f *fakeAPI) CreateProduct(_ context.Context, in backend.ProductInput) (backend.Created, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = append(f.products, in)
	return backend.Created{ID: "p1"}, nil
}

func (f *fakeAPI) UpdateProduct(_ context.Context, id string, in backend.ProductInput) (backend.Created, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	return backend.Created{ID: id}, nil
}

func (f *fakeAPI) CreateModel(_ context.Context, productID string, in backend.ModelInput) (backend.Created, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if productID != "p1" {
		return backend.Created{}, errors.New("unknown product")
	}
	f.models = append(f.models, in)
	return backend.Created{ID: "m1"}, nil
}

func (f *fakeAPI) UpdateModel(_ context.Context, _, modelID string, _ backend.ModelInput) (backend.Created, error) {
	return backend.Created{ID: modelID}, nil
}

func (f *fakeAPI) CreateColor(_ context.Context, _, _ string, in backend.ColorInput) (backend.Created, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if in.Name == f.failColor {
		return backend.Created{}, &backend.APIError{StatusCode: 422, Message: "duplicate color"}
	}
	b, _ := io.ReadAll(in.Image.Body)
	f.filenames = append(f.filenames, in.Image.Filename)
	f.colors = append(f.colors, in.Name)
	f.images = append(f.images, string(b))
	return backend.Created{ID: "c-" + in.Name}, nil
}

func (f *fakeAPI) SetFeatures(_ context.Context, _, _ string, features []backend.Feature) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.features = features
	return nil
}

func set(t *testing.T, w *products.Wizard, step int, fields map[string]string) {
	t.Helper()
	require.NoError(t, w.Edit(step, func(g *form.Group) error {
		for k, v := range fields {
			if err := g.SetField(k, v); err != nil {
				return err
			}
		}
		return nil
	}))
}

func setItem(t *testing.T, w *products.Wizard, step int, list string, i int, parts map[string]string) {
	t.Helper()
	require.NoError(t, w.Edit(step, func(g *form.Group) error {
		for p, v := range parts {
			if err := g.SetListItem(list, i, p, v); err != nil {
				return err
			}
		}
		return nil
	}))
}

func fillUpToColors(t *testing.T, w *products.Wizard) {
	t.Helper()
	ctx := context.Background()
	set(t, w, products.StepBasic, map[string]string{"title": "Patient Monitor", "category": "monitors"})
	require.NoError(t, w.Controller().Submit(ctx))

	set(t, w, products.StepModel, map[string]string{"name": "PM-9000", "price": "45000", "discountPrice": "42000"})
	setItem(t, w, products.StepModel, "specifications", 0, map[string]string{"key": "Display", "value": "12 inch"})
	setItem(t, w, products.StepModel, "warranty", 0, map[string]string{"": "2 years"})
	require.NoError(t, w.Controller().Submit(ctx))
}

func stage(t *testing.T, w *products.Wizard, i int, body string) string {
	t.Helper()
	res, err := w.StageImage(context.Background(), i, strings.NewReader(body), storage.PutInput{Filename: "c.png", ContentType: "image/png"})
	require.NoError(t, err)
	return res.Key
}

func TestProductWizardEndToEnd(t *testing.T) {
	api := &fakeAPI{}
	images := storage.NewLocal(t.TempDir(), "/uploads")
	w := products.NewWizard(api, images, nil)
	ctx := context.Background()

	assert.False(t, w.Controller().IsStepEnabled(products.StepModel))
	fillUpToColors(t, w)
	assert.Equal(t, "p1", w.Controller().Token(products.TokenProduct))
	assert.Equal(t, "m1", w.Controller().Token(products.TokenModel))
	require.Len(t, api.models, 1)
	assert.Equal(t, []backend.Pair{{Key: "Display", Value: "12 inch"}}, api.models[0].Specifications)
	assert.Equal(t, 42000.0, api.models[0].DiscountPrice)

	require.NoError(t, w.Edit(products.StepColors, func(g *form.Group) error { return g.AddListItem("colors") }))
	setItem(t, w, products.StepColors, "colors", 0, map[string]string{"name": "white", "code": "#ffffff", "stock": "5"})
	setItem(t, w, products.StepColors, "colors", 1, map[string]string{"name": "grey", "code": "#808080", "stock": "2"})
	k0 := stage(t, w, 0, "white-png")
	stage(t, w, 1, "grey-png")
	require.NoError(t, w.Controller().Submit(ctx))
	assert.Equal(t, "c-white,c-grey", w.Controller().Token(products.TokenColors))
	assert.Equal(t, []string{"white-png", "grey-png"}, api.images)
	assert.Equal(t, []string{"white.png", "grey.png"}, api.filenames)

	setItem(t, w, products.StepFeatures, "features", 0, map[string]string{"icon": "wifi", "label": "Wireless"})
	require.NoError(t, w.Controller().Submit(ctx))
	assert.True(t, w.Controller().Completed())
	assert.Equal(t, []backend.Feature{{Icon: "wifi", Label: "Wireless"}}, api.features)

	_, err := images.Open(ctx, k0)
	assert.ErrorIs(t, err, storage.ErrNotFound, "staged images are dropped on completion")
}

func TestProductWizardValidation(t *testing.T) {
	w := products.NewWizard(&fakeAPI{}, storage.NewLocal(t.TempDir(), ""), nil)

	err := w.Controller().Submit(context.Background())
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Invalid, ae.Kind)
	assert.Contains(t, ae.Fields, "title")
	assert.Contains(t, ae.Fields, "category")
	assert.Equal(t, products.StepBasic, w.Controller().Active())

	set(t, w, products.StepBasic, map[string]string{"title": "X", "category": "c"})
	require.NoError(t, w.Controller().Submit(context.Background()))

	set(t, w, products.StepModel, map[string]string{"name": "M", "price": "100", "discountPrice": "150"})
	err = w.Controller().Submit(context.Background())
	ae, ok = apperr.As(err)
	require.True(t, ok)
	assert.Contains(t, ae.Fields, "discountPrice")
	assert.Contains(t, ae.Fields, "specifications[0].key")
	assert.Contains(t, ae.Fields, "warranty[0]")
}

func TestFailedColorKeepsDraftAndRetriesRemaining(t *testing.T) {
	api := &fakeAPI{failColor: "grey"}
	w := products.NewWizard(api, storage.NewLocal(t.TempDir(), ""), nil)
	fillUpToColors(t, w)

	require.NoError(t, w.Edit(products.StepColors, func(g *form.Group) error { return g.AddListItem("colors") }))
	setItem(t, w, products.StepColors, "colors", 0, map[string]string{"name": "white", "code": "#fff"})
	setItem(t, w, products.StepColors, "colors", 1, map[string]string{"name": "grey", "code": "#888"})
	stage(t, w, 0, "a")
	stage(t, w, 1, "b")

	err := w.Controller().Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, 422, backend.StatusCode(err))
	assert.Equal(t, products.StepColors, w.Controller().Active())
	assert.Len(t, w.Draft(products.StepColors).(products.ColorsDraft).Colors, 2, "draft kept for retry")

	api.failColor = ""
	require.NoError(t, w.Controller().Submit(context.Background()))
	assert.Equal(t, []string{"white", "grey"}, api.colors, "white is not created twice")
}

// failWhiteThenGrey creates white, fails on grey and returns with the
// colors step still active.
func failWhiteThenGrey(t *testing.T) (*fakeAPI, *products.Wizard) {
	t.Helper()
	api := &fakeAPI{failColor: "grey"}
	w := products.NewWizard(api, storage.NewLocal(t.TempDir(), ""), nil)
	fillUpToColors(t, w)
	require.NoError(t, w.Edit(products.StepColors, func(g *form.Group) error { return g.AddListItem("colors") }))
	setItem(t, w, products.StepColors, "colors", 0, map[string]string{"name": "white", "code": "#fff"})
	setItem(t, w, products.StepColors, "colors", 1, map[string]string{"name": "grey", "code": "#888"})
	stage(t, w, 0, "a")
	stage(t, w, 1, "b")
	require.Error(t, w.Controller().Submit(context.Background()))
	require.Equal(t, []string{"white"}, api.colors)
	api.failColor = ""
	return api, w
}

func TestRemovingCreatedColorStillCreatesTheRest(t *testing.T) {
	api, w := failWhiteThenGrey(t)

	colors := w.Draft(products.StepColors).(products.ColorsDraft).Colors
	assert.True(t, colors[0].Created())
	assert.False(t, colors[1].Created())

	require.NoError(t, w.Edit(products.StepColors, func(g *form.Group) error { return g.RemoveListItem("colors", 0) }))
	require.NoError(t, w.Controller().Submit(context.Background()))

	assert.Equal(t, []string{"white", "grey"}, api.colors, "grey reaches the backend")
	assert.Equal(t, []string{"c-white"}, api.deleted, "the removed row's color is deleted")
	assert.Equal(t, "c-grey", w.Controller().Token(products.TokenColors))
	assert.Equal(t, products.StepFeatures, w.Controller().Active())
}

func TestEditingCreatedColorSendsUpdate(t *testing.T) {
	api, w := failWhiteThenGrey(t)
	ctx := context.Background()

	setItem(t, w, products.StepColors, "colors", 0, map[string]string{"name": "snow"})
	require.NoError(t, w.Controller().Submit(ctx))
	assert.Equal(t, []string{"white", "grey"}, api.colors, "nothing created twice")
	assert.Equal(t, []string{"c-white:snow:"}, api.colorUpdates, "image unchanged, not resent")
	assert.Equal(t, "c-white,c-grey", w.Controller().Token(products.TokenColors))

	require.NoError(t, w.Controller().Retreat())
	stage(t, w, 1, "grey-v2")
	require.NoError(t, w.Controller().Submit(ctx))
	assert.Equal(t, []string{"c-white:snow:", "c-grey:grey:grey-v2"}, api.colorUpdates)

	require.NoError(t, w.Controller().Retreat())
	require.NoError(t, w.Controller().Submit(ctx))
	assert.Len(t, api.colorUpdates, 2, "unchanged rows make no calls")
	assert.Empty(t, api.deleted)
}

func TestRetreatAndResubmitUpdates(t *testing.T) {
	api := &fakeAPI{}
	w := products.NewWizard(api, storage.NewLocal(t.TempDir(), ""), nil)
	fillUpToColors(t, w)

	require.NoError(t, w.Controller().Retreat())
	require.NoError(t, w.Controller().Retreat())
	set(t, w, products.StepBasic, map[string]string{"title": "Patient Monitor Pro"})
	require.NoError(t, w.Controller().Submit(context.Background()))

	assert.Len(t, api.products, 1)
	assert.Equal(t, 1, api.updates)
	assert.Equal(t, "m1", w.Controller().Token(products.TokenModel))
	assert.True(t, w.Controller().IsStepEnabled(products.StepColors))
}

func TestRequiredListsKeepOneRow(t *testing.T) {
	w := products.NewWizard(&fakeAPI{}, storage.NewLocal(t.TempDir(), ""), nil)
	for _, tc := range []struct {
		step int
		list string
	}{
		{products.StepModel, "specifications"},
		{products.StepModel, "warranty"},
		{products.StepColors, "colors"},
		{products.StepFeatures, "features"},
	} {
		err := w.Edit(tc.step, func(g *form.Group) error { return g.RemoveListItem(tc.list, 0) })
		assert.ErrorIs(t, err, form.ErrMinItems, tc.list)
	}
}

func TestStageImageRejects(t *testing.T) {
	w := products.NewWizard(&fakeAPI{}, storage.NewLocal(t.TempDir(), ""), nil)
	_, err := w.StageImage(context.Background(), 0, strings.NewReader("x"), storage.PutInput{Filename: "a.exe"})
	assert.ErrorIs(t, err, products.ErrNotImage)
	_, err = w.StageImage(context.Background(), 3, strings.NewReader("x"), storage.PutInput{Filename: "a.png"})
	assert.ErrorIs(t, err, form.ErrIndexRange)
}

func TestCloseDropsStagedImages(t *testing.T) {
	images := storage.NewLocal(t.TempDir(), "")
	w := products.NewWizard(&fakeAPI{}, images, nil)
	k := stage(t, w, 0, "x")
	w.Controller().Close()
	_, err := images.Open(context.Background(), k)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
