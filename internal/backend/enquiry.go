package backend

import (
	"context"
	"net/http"
)

// ForwardEnquiry posts a product-enquiry JSON body without touching it.
func (c *Client) ForwardEnquiry(ctx context.Context, body []byte) (*RawResponse, error) {
	return c.Raw(ctx, http.MethodPost, "/api/product-enquiry", body, "application/json")
}
