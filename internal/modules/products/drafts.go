package products

import (
	"strings"

	"silicon.com/app/internal/form"
)

// Step indexes of the product wizard.
const (
	StepBasic = iota
	StepModel
	StepColors
	StepFeatures
)

type BasicDraft struct {
	Title       string `json:"title" validate:"required,max=200"`
	Category    string `json:"category" validate:"required"`
	Description string `json:"description" validate:"max=5000"`
}

type ModelDraft struct {
	Name           string      `json:"name" validate:"required,max=200"`
	Description    string      `json:"description" validate:"max=5000"`
	Specifications []form.Pair `json:"specifications" validate:"min=1,dive"`
	Warranty       []string    `json:"warranty" validate:"min=1,dive,required"`
	Price          float64     `json:"price" validate:"gt=0"`
	DiscountPrice  float64     `json:"discountPrice" validate:"gte=0,ltefield=Price"`
}

type ColorDraft struct {
	Name  string `json:"name" validate:"required,max=100"`
	Code  string `json:"code" validate:"required,hexcolor"`
	Image string `json:"image" validate:"required"` // staged storage key
	Stock int    `json:"stock" validate:"gte=0"`

	// ref names the row across edits; id is its backend color once
	// created and sent is what the backend last received for it.
	ref  int
	id   string
	sent colorFields
}

type colorFields struct {
	Name, Code, Image string
	Stock             int
}

func (c ColorDraft) fields() colorFields {
	return colorFields{Name: c.Name, Code: c.Code, Image: c.Image, Stock: c.Stock}
}

// Created reports whether the row already exists in the backend.
func (c ColorDraft) Created() bool { return c.id != "" }

// ID is the backend color id, empty until the row is created.
func (c ColorDraft) ID() string { return c.id }

type ColorsDraft struct {
	Colors []ColorDraft `json:"colors" validate:"min=1,dive"`
}

type FeatureDraft struct {
	Icon  string `json:"icon" validate:"required"`
	Label string `json:"label" validate:"required,max=100"`
}

type FeaturesDraft struct {
	Features []FeatureDraft `json:"features" validate:"min=1,dive"`
}

func (d ModelDraft) clone() ModelDraft {
	d.Specifications = append([]form.Pair(nil), d.Specifications...)
	d.Warranty = append([]string(nil), d.Warranty...)
	return d
}

func (d ColorsDraft) clone() ColorsDraft {
	d.Colors = append([]ColorDraft(nil), d.Colors...)
	return d
}

func (d FeaturesDraft) clone() FeaturesDraft {
	d.Features = append([]FeatureDraft(nil), d.Features...)
	return d
}

func bindBasic(d *BasicDraft) *form.Group {
	g := form.NewGroup()
	form.String(g, "title", &d.Title)
	form.String(g, "category", &d.Category)
	form.String(g, "description", &d.Description)
	return g
}

func bindModel(d *ModelDraft) *form.Group {
	g := form.NewGroup()
	form.String(g, "name", &d.Name)
	form.String(g, "description", &d.Description)
	form.Float(g, "price", &d.Price)
	form.Float(g, "discountPrice", &d.DiscountPrice)
	form.Pairs(g, "specifications", &d.Specifications, 1)
	form.Strings(g, "warranty", &d.Warranty, 1)
	return g
}

func bindColors(d *ColorsDraft) *form.Group {
	g := form.NewGroup()
	form.List(g, "colors", &d.Colors, 1, setColor, "name", "code", "image", "stock")
	return g
}

func bindFeatures(d *FeaturesDraft) *form.Group {
	g := form.NewGroup()
	form.List(g, "features", &d.Features, 1, setFeature, "icon", "label")
	return g
}

func setColor(c *ColorDraft, part, value string) error {
	value = strings.TrimSpace(value)
	switch part {
	case "name":
		c.Name = value
	case "code":
		c.Code = value
	case "image":
		c.Image = value
	case "stock":
		return form.ParseInt(value, &c.Stock)
	default:
		return form.UnknownPart(part)
	}
	return nil
}

func setFeature(f *FeatureDraft, part, value string) error {
	value = strings.TrimSpace(value)
	switch part {
	case "icon":
		f.Icon = value
	case "label":
		f.Label = value
	default:
		return form.UnknownPart(part)
	}
	return nil
}
