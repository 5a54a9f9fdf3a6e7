package products

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"silicon.com/app/internal/backend"
	"silicon.com/app/internal/form"
	"silicon.com/app/internal/http/validation"
	"silicon.com/app/internal/shared/slug"
	"silicon.com/app/internal/storage"
	"silicon.com/app/internal/wizard"
)

const Kind = "product"

// Tokens produced by the product wizard.
const (
	TokenProduct = "productId"
	TokenModel   = "modelId"
	TokenColors  = "colorIds"
)

// WizardAPI is the part of the backend client the product wizard calls.
type WizardAPI interface {
	CreateProduct(ctx context.Context, in backend.ProductInput) (backend.Created, error)
	UpdateProduct(ctx context.Context, id string, in backend.ProductInput) (backend.Created, error)
	CreateModel(ctx context.Context, productID string, in backend.ModelInput) (backend.Created, error)
	UpdateModel(ctx context.Context, productID, modelID string, in backend.ModelInput) (backend.Created, error)
	CreateColor(ctx context.Context, productID, modelID string, in backend.ColorInput) (backend.Created, error)
	UpdateColor(ctx context.Context, productID, modelID, colorID string, in backend.ColorInput) error
	DeleteColor(ctx context.Context, productID, modelID, colorID string) error
	SetFeatures(ctx context.Context, productID, modelID string, features []backend.Feature) error
}

// Wizard walks an admin through basic info, model details, color variants
// and feature icons. Every step needs the ids returned by the ones before.
type Wizard struct {
	api    WizardAPI
	images storage.Storage
	log    *zap.Logger
	ctrl   *wizard.Controller

	mu       sync.Mutex
	basic    BasicDraft
	model    ModelDraft
	colors   ColorsDraft
	features FeaturesDraft
	forms    [4]*form.Group
	// colorIDs holds every color the backend has for this model. Ids no
	// row carries any more are deleted on the next colors submit.
	colorIDs map[string]struct{}
	nextRef  int
	staged   map[string]struct{}
}

func NewWizard(api WizardAPI, images storage.Storage, log *zap.Logger) *Wizard {
	if log == nil {
		log = zap.NewNop()
	}
	w := &Wizard{
		api:      api,
		images:   images,
		log:      log,
		colorIDs: map[string]struct{}{},
		staged:   map[string]struct{}{},
	}
	w.forms = [4]*form.Group{
		bindBasic(&w.basic),
		bindModel(&w.model),
		bindColors(&w.colors),
		bindFeatures(&w.features),
	}

	w.ctrl = wizard.New(
		wizard.NewStep(wizard.Spec[backend.Created]{
			Name:     "basic",
			Produces: []string{TokenProduct},
			Validate: func(wizard.Tokens) error { return validation.Check(w.basicDraft(), "Check the product details.") },
			Submit: func(ctx context.Context, _ wizard.Tokens) (backend.Created, error) {
				return w.api.CreateProduct(ctx, w.productInput())
			},
			Update: func(ctx context.Context, t wizard.Tokens) (backend.Created, error) {
				return w.api.UpdateProduct(ctx, t[TokenProduct], w.productInput())
			},
			Extract: func(r backend.Created) wizard.Tokens { return wizard.Tokens{TokenProduct: r.ID} },
		}),
		wizard.NewStep(wizard.Spec[backend.Created]{
			Name:     "model",
			Requires: []string{TokenProduct},
			Produces: []string{TokenModel},
			Validate: func(wizard.Tokens) error { return validation.Check(w.modelDraft(), "Check the model details.") },
			Submit: func(ctx context.Context, t wizard.Tokens) (backend.Created, error) {
				return w.api.CreateModel(ctx, t[TokenProduct], w.modelInput())
			},
			Update: func(ctx context.Context, t wizard.Tokens) (backend.Created, error) {
				return w.api.UpdateModel(ctx, t[TokenProduct], t[TokenModel], w.modelInput())
			},
			Extract: func(r backend.Created) wizard.Tokens { return wizard.Tokens{TokenModel: r.ID} },
		}),
		wizard.NewStep(wizard.Spec[[]string]{
			Name:     "colors",
			Requires: []string{TokenProduct, TokenModel},
			Produces: []string{TokenColors},
			Validate: func(wizard.Tokens) error { return validation.Check(w.colorsDraft(), "Check the color variants.") },
			Submit:   w.createColors,
			// Resubmitting creates new rows, updates edited ones and
			// deletes removed ones.
			Update:  w.createColors,
			Extract: func(ids []string) wizard.Tokens { return wizard.Tokens{TokenColors: strings.Join(ids, ",")} },
		}),
		wizard.NewStep(wizard.Spec[struct{}]{
			Name:     "features",
			Requires: []string{TokenProduct, TokenModel},
			Validate: func(wizard.Tokens) error { return validation.Check(w.featuresDraft(), "Check the feature icons.") },
			Submit: func(ctx context.Context, t wizard.Tokens) (struct{}, error) {
				return struct{}{}, w.api.SetFeatures(ctx, t[TokenProduct], t[TokenModel], w.featureInput())
			},
		}),
	)
	w.ctrl.OnTeardown(w.dropStaged)
	return w
}

func (w *Wizard) Kind() string                   { return Kind }
func (w *Wizard) Controller() *wizard.Controller { return w.ctrl }

func (w *Wizard) Edit(step int, fn func(g *form.Group) error) error {
	if step < 0 || step >= len(w.forms) {
		return wizard.ErrNoSuchStep
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return fn(w.forms[step])
}

func (w *Wizard) Draft(step int) any {
	switch step {
	case StepBasic:
		return w.basicDraft()
	case StepModel:
		return w.modelDraft()
	case StepColors:
		return w.colorsDraft()
	case StepFeatures:
		return w.featuresDraft()
	}
	return nil
}

// StageImage stores an uploaded color image and points the color at index
// to it. Staged images are removed once the wizard is done with them.
func (w *Wizard) StageImage(ctx context.Context, index int, r io.Reader, in storage.PutInput) (storage.PutResult, error) {
	if !storage.IsImage(in.Filename) {
		return storage.PutResult{}, fmt.Errorf("%s: %w", in.Filename, ErrNotImage)
	}
	if n, _ := w.colorCount(); index < 0 || index >= n {
		return storage.PutResult{}, fmt.Errorf("colors[%d]: %w", index, form.ErrIndexRange)
	}
	res, err := w.images.Put(ctx, r, in)
	if err != nil {
		return storage.PutResult{}, err
	}

	w.mu.Lock()
	w.staged[res.Key] = struct{}{}
	err = w.forms[StepColors].SetListItem("colors", index, "image", res.Key)
	w.mu.Unlock()
	return res, err
}

func (w *Wizard) colorCount() (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.forms[StepColors].ListLen("colors")
}

// createColors brings the backend in line with the colors draft. Each row
// remembers its backend id, so a retry after a partial failure touches
// only rows that were never created or changed since.
func (w *Wizard) createColors(ctx context.Context, t wizard.Tokens) ([]string, error) {
	productID, modelID := t[TokenProduct], t[TokenModel]
	rows, gone := w.colorPlan()

	for _, id := range gone {
		err := backend.IgnoreStatusCodes(w.api.DeleteColor(ctx, productID, modelID, id), http.StatusNotFound)
		if err != nil {
			return nil, fmt.Errorf("remove color %s: %w", id, err)
		}
		w.mu.Lock()
		delete(w.colorIDs, id)
		w.mu.Unlock()
	}

	ids := make([]string, 0, len(rows))
	for _, c := range rows {
		switch {
		case c.id == "":
			id, err := w.createColor(ctx, productID, modelID, c)
			if err != nil {
				return nil, fmt.Errorf("color %q: %w", c.Name, err)
			}
			c.id = id
			w.synced(c)
		case c.fields() != c.sent:
			if err := w.updateColor(ctx, productID, modelID, c); err != nil {
				return nil, fmt.Errorf("color %q: %w", c.Name, err)
			}
			w.synced(c)
		}
		ids = append(ids, c.id)
	}
	return ids, nil
}

// colorPlan snapshots the rows, naming any new ones, and lists backend
// colors no row refers to.
func (w *Wizard) colorPlan() ([]ColorDraft, []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	live := map[string]bool{}
	for i := range w.colors.Colors {
		c := &w.colors.Colors[i]
		if c.ref == 0 {
			w.nextRef++
			c.ref = w.nextRef
		}
		if c.id != "" {
			live[c.id] = true
		}
	}
	var gone []string
	for id := range w.colorIDs {
		if !live[id] {
			gone = append(gone, id)
		}
	}
	sort.Strings(gone)
	return append([]ColorDraft(nil), w.colors.Colors...), gone
}

// synced records that the backend now holds c. A row removed while the
// call was in flight keeps its id in colorIDs only, and is deleted on the
// next submit.
func (w *Wizard) synced(c ColorDraft) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.colorIDs[c.id] = struct{}{}
	for i := range w.colors.Colors {
		if r := &w.colors.Colors[i]; r.ref == c.ref {
			r.id = c.id
			r.sent = c.fields()
			return
		}
	}
}

func (w *Wizard) createColor(ctx context.Context, productID, modelID string, c ColorDraft) (string, error) {
	img, err := w.colorImage(ctx, c)
	if err != nil {
		return "", err
	}
	defer img.close()

	res, err := w.api.CreateColor(ctx, productID, modelID, backend.ColorInput{
		Name:  c.Name,
		Code:  c.Code,
		Stock: c.Stock,
		Image: img.part,
	})
	if err != nil {
		return "", err
	}
	return res.ID, nil
}

// updateColor resends the row, with its image only when that changed.
func (w *Wizard) updateColor(ctx context.Context, productID, modelID string, c ColorDraft) error {
	in := backend.ColorInput{Name: c.Name, Code: c.Code, Stock: c.Stock}
	if c.Image != c.sent.Image {
		img, err := w.colorImage(ctx, c)
		if err != nil {
			return err
		}
		defer img.close()
		in.Image = img.part
	}
	return w.api.UpdateColor(ctx, productID, modelID, c.id, in)
}

type openedImage struct {
	part  *backend.FilePart
	close func() error
}

func (w *Wizard) colorImage(ctx context.Context, c ColorDraft) (openedImage, error) {
	obj, err := w.images.Open(ctx, c.Image)
	if err != nil {
		return openedImage{}, err
	}
	return openedImage{
		part: &backend.FilePart{
			Field:       "image",
			Filename:    slug.Filename(c.Name, "color", obj.Key),
			ContentType: obj.ContentType,
			Body:        obj.Body,
		},
		close: obj.Body.Close,
	}, nil
}

func (w *Wizard) dropStaged() {
	w.mu.Lock()
	keys := make([]string, 0, len(w.staged))
	for k := range w.staged {
		keys = append(keys, k)
	}
	w.staged = map[string]struct{}{}
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, k := range keys {
		if err := w.images.Delete(ctx, k); err != nil {
			w.log.Warn("staged_image_delete_failed", zap.String("key", k), zap.Error(err))
		}
	}
}

func (w *Wizard) basicDraft() BasicDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.basic
}

func (w *Wizard) modelDraft() ModelDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.model.clone()
}

func (w *Wizard) colorsDraft() ColorsDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.colors.clone()
}

func (w *Wizard) featuresDraft() FeaturesDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.features.clone()
}

func (w *Wizard) productInput() backend.ProductInput {
	d := w.basicDraft()
	return backend.ProductInput{Title: d.Title, Category: d.Category, Description: d.Description}
}

func (w *Wizard) modelInput() backend.ModelInput {
	d := w.modelDraft()
	specs := make([]backend.Pair, len(d.Specifications))
	for i, p := range d.Specifications {
		specs[i] = backend.Pair{Key: p.Key, Value: p.Value}
	}
	return backend.ModelInput{
		Name:           d.Name,
		Description:    d.Description,
		Specifications: specs,
		Warranty:       d.Warranty,
		Price:          d.Price,
		DiscountPrice:  d.DiscountPrice,
	}
}

func (w *Wizard) featureInput() []backend.Feature {
	d := w.featuresDraft()
	out := make([]backend.Feature, len(d.Features))
	for i, f := range d.Features {
		out[i] = backend.Feature{Icon: f.Icon, Label: f.Label}
	}
	return out
}
