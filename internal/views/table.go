package views

import (
	"fmt"
	"strings"

	"github.com/bndr/gotabulate"

	"silicon.com/app/pkg/view"
)

// Column picks one cell of a row.
type Column[T any] struct {
	Header string
	Cell   func(T) string
}

// Table renders rows as a grid for the admin CLI.
func Table[T any](rows []T, cols []Column[T]) string {
	if len(rows) == 0 {
		return "(no rows)\n"
	}
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Header
	}
	data := make([][]string, len(rows))
	for i, r := range rows {
		line := make([]string, len(cols))
		for j, c := range cols {
			line[j] = c.Cell(r)
		}
		data[i] = line
	}

	t := gotabulate.Create(data)
	t.SetHeaders(headers)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(60)
	return t.Render("grid")
}

// Detail renders label/value lines as a two-column grid, titled. Empty
// values are skipped.
func Detail(title string, lines []view.DetailLine) string {
	data := make([][]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l.Value) == "" {
			continue
		}
		data = append(data, []string{l.Label, l.Value})
	}
	if len(data) == 0 {
		return title + ": (empty)\n"
	}
	t := gotabulate.Create(data)
	t.SetHeaders([]string{"field", "value"})
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(85)
	return fmt.Sprintf("%s:\n%s", title, t.Render("grid"))
}
