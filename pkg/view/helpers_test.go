package view_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"silicon.com/app/internal/backend"
	"silicon.com/app/pkg/view"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "₹0.00", view.Money(0, "INR"))
	assert.Equal(t, "₹999.00", view.Money(999, ""))
	assert.Equal(t, "₹12,500.50", view.Money(12500.5, "INR"))
	assert.Equal(t, "$1,234,567.89", view.Money(1234567.89, "USD"))
	assert.Equal(t, "-€1,000.00", view.Money(-1000, "EUR"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", view.Truncate("  short ", 10))
	assert.Equal(t, "abcdefg...", view.Truncate("abcdefghijklmnop", 10))
}

func TestProductRowLowestPrice(t *testing.T) {
	row := view.ProductRow(backend.Product{
		ID:        "p1",
		Title:     "Infusion pump",
		Status:    "active",
		CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Models:    []backend.Model{{Price: 52000}, {Price: 48000}},
	})
	assert.Equal(t, 2, row.Models)
	assert.Equal(t, "₹48,000.00", row.From)
	assert.Equal(t, "2026-03-01 09:30", row.Created)

	assert.Equal(t, "-", view.ProductRow(backend.Product{}).From)
}
