package backend

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) Schemes(ctx context.Context) ([]ProductSchemes, error) {
	var out []ProductSchemes
	err := c.getJSON(ctx, "/api/products/schemes", &out)
	return out, err
}

// SetScheme switches one sales-scheme flag of a product.
func (c *Client) SetScheme(ctx context.Context, productID, scheme string, enabled bool) error {
	body := struct {
		Scheme  string `json:"scheme"`
		Enabled bool   `json:"enabled"`
	}{scheme, enabled}
	return c.doJSON(ctx, http.MethodPatch, "/api/products/"+url.PathEscape(productID)+"/schemes", body, nil)
}
