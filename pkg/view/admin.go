package view

import (
	"strconv"
	"strings"

	"silicon.com/app/internal/backend"
)

type AdminProductRow struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Models   int    `json:"models"`
	From     string `json:"from"`
	Status   string `json:"status"`
	Created  string `json:"created"`
}

func ProductRow(p backend.Product) AdminProductRow {
	row := AdminProductRow{
		ID:       p.ID,
		Title:    p.Title,
		Category: p.Category,
		Models:   len(p.Models),
		From:     "-",
		Status:   p.Status,
		Created:  DateTime(p.CreatedAt),
	}
	if len(p.Models) > 0 {
		low := p.Models[0].Price
		for _, m := range p.Models[1:] {
			if m.Price < low {
				low = m.Price
			}
		}
		row.From = Money(low, DefaultCurrency)
	}
	return row
}

type AdminAccessoryRow struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Status   string `json:"status"`
	Created  string `json:"created"`
}

func AccessoryRow(a backend.Accessory) AdminAccessoryRow {
	return AdminAccessoryRow{
		ID:       a.ID,
		Title:    a.Title,
		Category: a.Category,
		Price:    Money(a.Price, DefaultCurrency),
		Status:   a.Status,
		Created:  DateTime(a.CreatedAt),
	}
}

type AdminContactRow struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Status  string `json:"status"`
	Created string `json:"created"`
}

func ContactRow(c backend.Contact) AdminContactRow {
	return AdminContactRow{
		ID:      c.ID,
		Name:    c.Name,
		Email:   c.Email,
		Subject: c.Subject,
		Message: Truncate(c.Message, 60),
		Status:  c.Status,
		Created: DateTime(c.CreatedAt),
	}
}

type AdminSchemeRow struct {
	ProductID  string `json:"productId"`
	Title      string `json:"title"`
	OnSale     string `json:"onSale"`
	BestSeller string `json:"bestSeller"`
	NewArrival string `json:"newArrival"`
	Featured   string `json:"featured"`
}

func SchemeRow(s backend.ProductSchemes) AdminSchemeRow {
	return AdminSchemeRow{
		ProductID:  s.ProductID,
		Title:      s.Title,
		OnSale:     yesNo(s.Schemes.OnSale),
		BestSeller: yesNo(s.Schemes.BestSeller),
		NewArrival: yesNo(s.Schemes.NewArrival),
		Featured:   yesNo(s.Schemes.Featured),
	}
}

// DetailLine is one label/value line of a detail dialog.
type DetailLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func ProductDetail(p backend.Product) []DetailLine {
	lines := []DetailLine{
		{"ID", p.ID},
		{"Title", p.Title},
		{"Category", p.Category},
		{"Status", p.Status},
		{"Description", p.Description},
	}
	for i, m := range p.Models {
		prefix := "Model " + strconv.Itoa(i+1)
		price := Money(m.Price, DefaultCurrency)
		if m.DiscountPrice > 0 {
			price += " (offer " + Money(m.DiscountPrice, DefaultCurrency) + ")"
		}
		lines = append(lines, DetailLine{prefix, m.Name + ", " + price})
		for _, s := range m.Specifications {
			lines = append(lines, DetailLine{prefix + " / " + s.Key, s.Value})
		}
		if len(m.Warranty) > 0 {
			lines = append(lines, DetailLine{prefix + " / warranty", strings.Join(m.Warranty, "; ")})
		}
		colors := make([]string, 0, len(m.Colors))
		for _, c := range m.Colors {
			colors = append(colors, c.Name+" ("+strconv.Itoa(c.Stock)+")")
		}
		if len(colors) > 0 {
			lines = append(lines, DetailLine{prefix + " / colors", strings.Join(colors, ", ")})
		}
	}
	return lines
}

func AccessoryDetail(a backend.Accessory) []DetailLine {
	lines := []DetailLine{
		{"ID", a.ID},
		{"Title", a.Title},
		{"Category", a.Category},
		{"Price", Money(a.Price, DefaultCurrency)},
		{"Status", a.Status},
		{"Description", a.Description},
	}
	for _, s := range a.Specifications {
		lines = append(lines, DetailLine{"Spec / " + s.Key, s.Value})
	}
	for _, f := range a.Features {
		lines = append(lines, DetailLine{"Feature / " + f.Key, f.Value})
	}
	if len(a.Warranty) > 0 {
		lines = append(lines, DetailLine{"Warranty", strings.Join(a.Warranty, "; ")})
	}
	return lines
}

func ContactDetail(c backend.Contact) []DetailLine {
	return []DetailLine{
		{"ID", c.ID},
		{"From", c.Name + " <" + c.Email + ">"},
		{"Phone", c.Phone},
		{"Subject", c.Subject},
		{"Message", c.Message},
		{"Reply", c.Reply},
		{"Status", c.Status},
		{"Received", DateTime(c.CreatedAt)},
	}
}
