package accessories

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"silicon.com/app/internal/backend"
	"silicon.com/app/internal/form"
	"silicon.com/app/internal/http/validation"
	"silicon.com/app/internal/wizard"
)

const (
	Kind           = "accessory"
	TokenAccessory = "accessoryId"
)

const (
	StepBasic = iota
	StepFeatures
)

var ErrInvalidStatus = errors.New("invalid accessory status")

type BasicDraft struct {
	Title          string      `json:"title" validate:"required,max=200"`
	Category       string      `json:"category" validate:"required"`
	Price          float64     `json:"price" validate:"gt=0"`
	Description    string      `json:"description" validate:"max=5000"`
	Specifications []form.Pair `json:"specifications" validate:"min=1,dive"`
	Warranty       []string    `json:"warranty" validate:"min=1,dive,required"`
}

type FeaturesDraft struct {
	Features []form.Pair `json:"features" validate:"min=1,dive"`
}

type WizardAPI interface {
	CreateAccessory(ctx context.Context, in backend.AccessoryInput) (backend.Created, error)
	UpdateAccessory(ctx context.Context, id string, in backend.AccessoryInput) (backend.Created, error)
	SetAccessoryFeatures(ctx context.Context, id string, features []backend.Pair) error
}

// Wizard creates an accessory listing, then attaches its feature pairs.
type Wizard struct {
	api  WizardAPI
	ctrl *wizard.Controller

	mu       sync.Mutex
	basic    BasicDraft
	features FeaturesDraft
	forms    [2]*form.Group
}

func NewWizard(api WizardAPI) *Wizard {
	w := &Wizard{api: api}

	basic := form.NewGroup()
	form.String(basic, "title", &w.basic.Title)
	form.String(basic, "category", &w.basic.Category)
	form.Float(basic, "price", &w.basic.Price)
	form.String(basic, "description", &w.basic.Description)
	form.Pairs(basic, "specifications", &w.basic.Specifications, 1)
	form.Strings(basic, "warranty", &w.basic.Warranty, 1)

	features := form.NewGroup()
	form.Pairs(features, "features", &w.features.Features, 1)
	w.forms = [2]*form.Group{basic, features}

	w.ctrl = wizard.New(
		wizard.NewStep(wizard.Spec[backend.Created]{
			Name:     "basic",
			Produces: []string{TokenAccessory},
			Validate: func(wizard.Tokens) error { return validation.Check(w.basicDraft(), "Check the accessory details.") },
			Submit: func(ctx context.Context, _ wizard.Tokens) (backend.Created, error) {
				return w.api.CreateAccessory(ctx, w.input())
			},
			Update: func(ctx context.Context, t wizard.Tokens) (backend.Created, error) {
				return w.api.UpdateAccessory(ctx, t[TokenAccessory], w.input())
			},
			Extract: func(r backend.Created) wizard.Tokens { return wizard.Tokens{TokenAccessory: r.ID} },
		}),
		wizard.NewStep(wizard.Spec[struct{}]{
			Name:     "features",
			Requires: []string{TokenAccessory},
			Validate: func(wizard.Tokens) error { return validation.Check(w.featuresDraft(), "Check the features.") },
			Submit: func(ctx context.Context, t wizard.Tokens) (struct{}, error) {
				return struct{}{}, w.api.SetAccessoryFeatures(ctx, t[TokenAccessory], toPairs(w.featuresDraft().Features))
			},
		}),
	)
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
	case StepFeatures:
		return w.featuresDraft()
	}
	return nil
}

func (w *Wizard) basicDraft() BasicDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	d := w.basic
	d.Specifications = append([]form.Pair(nil), d.Specifications...)
	d.Warranty = append([]string(nil), d.Warranty...)
	return d
}

func (w *Wizard) featuresDraft() FeaturesDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return FeaturesDraft{Features: append([]form.Pair(nil), w.features.Features...)}
}

func (w *Wizard) input() backend.AccessoryInput {
	d := w.basicDraft()
	return backend.AccessoryInput{
		Title:          d.Title,
		Category:       d.Category,
		Description:    d.Description,
		Price:          d.Price,
		Specifications: toPairs(d.Specifications),
		Warranty:       d.Warranty,
	}
}

func toPairs(in []form.Pair) []backend.Pair {
	out := make([]backend.Pair, len(in))
	for i, p := range in {
		out[i] = backend.Pair{Key: p.Key, Value: p.Value}
	}
	return out
}

type CatalogAPI interface {
	Accessories(ctx context.Context, p backend.ListParams) ([]backend.Accessory, error)
	Accessory(ctx context.Context, id string) (backend.Accessory, error)
	SetAccessoryStatus(ctx context.Context, id, status string) error
}

type Service struct {
	api CatalogAPI
}

func NewService(api CatalogAPI) *Service { return &Service{api: api} }

func (s *Service) List(ctx context.Context, p backend.ListParams) ([]backend.Accessory, error) {
	return s.api.Accessories(ctx, p)
}

func (s *Service) Get(ctx context.Context, id string) (backend.Accessory, error) {
	return s.api.Accessory(ctx, id)
}

func (s *Service) SetStatus(ctx context.Context, id, status string) error {
	if status != "active" && status != "inactive" {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.api.SetAccessoryStatus(ctx, id, status)
}
