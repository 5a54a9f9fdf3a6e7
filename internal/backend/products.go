package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	err := c.getJSON(ctx, "/api/categories", &out)
	return out, err
}

// ListParams filters list calls; zero values are omitted.
type ListParams struct {
	Category string
	Status   string
	Query    string
	Limit    int
}

func (p ListParams) encode() string {
	q := url.Values{}
	if p.Category != "" {
		q.Set("category", p.Category)
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.Query != "" {
		q.Set("q", p.Query)
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *Client) Products(ctx context.Context, p ListParams) ([]Product, error) {
	var out []Product
	err := c.getJSON(ctx, "/api/products"+p.encode(), &out)
	return out, err
}

func (c *Client) Product(ctx context.Context, id string) (Product, error) {
	var out Product
	err := c.getJSON(ctx, "/api/products/"+url.PathEscape(id), &out)
	return out, err
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (Created, error) {
	var out Created
	err := c.doJSON(ctx, http.MethodPost, "/api/products", in, &out)
	return out, err
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) (Created, error) {
	out := Created{ID: id}
	err := c.doJSON(ctx, http.MethodPut, "/api/products/"+url.PathEscape(id), in, nil)
	return out, err
}

func modelsPath(productID string) string {
	return "/api/products/" + url.PathEscape(productID) + "/models"
}

func modelPath(productID, modelID string) string {
	return modelsPath(productID) + "/" + url.PathEscape(modelID)
}

func (c *Client) CreateModel(ctx context.Context, productID string, in ModelInput) (Created, error) {
	var out Created
	err := c.doJSON(ctx, http.MethodPost, modelsPath(productID), in, &out)
	return out, err
}

func (c *Client) UpdateModel(ctx context.Context, productID, modelID string, in ModelInput) (Created, error) {
	out := Created{ID: modelID}
	err := c.doJSON(ctx, http.MethodPut, modelPath(productID, modelID), in, nil)
	return out, err
}

// CreateColor uploads one color variant with its image as multipart form data.
func (c *Client) CreateColor(ctx context.Context, productID, modelID string, in ColorInput) (Created, error) {
	fields := map[string]string{
		"name":  in.Name,
		"code":  in.Code,
		"stock": strconv.Itoa(in.Stock),
	}
	var out Created
	err := c.doMultipart(ctx, http.MethodPost, modelPath(productID, modelID)+"/colors", fields, in.Image, &out)
	return out, err
}

// UpdateColor rewrites a color variant. The image part is optional and is
// sent only when the image changed.
func (c *Client) UpdateColor(ctx context.Context, productID, modelID, colorID string, in ColorInput) error {
	fields := map[string]string{
		"name":  in.Name,
		"code":  in.Code,
		"stock": strconv.Itoa(in.Stock),
	}
	return c.doMultipart(ctx, http.MethodPut, colorPath(productID, modelID, colorID), fields, in.Image, nil)
}

func (c *Client) DeleteColor(ctx context.Context, productID, modelID, colorID string) error {
	return c.doJSON(ctx, http.MethodDelete, colorPath(productID, modelID, colorID), nil, nil)
}

func colorPath(productID, modelID, colorID string) string {
	return modelPath(productID, modelID) + "/colors/" + url.PathEscape(colorID)
}

func (c *Client) SetFeatures(ctx context.Context, productID, modelID string, features []Feature) error {
	body := struct {
		Features []Feature `json:"features"`
	}{features}
	return c.doJSON(ctx, http.MethodPut, modelPath(productID, modelID)+"/features", body, nil)
}

type statusInput struct {
	Status string `json:"status"`
}

func (c *Client) SetProductStatus(ctx context.Context, id, status string) error {
	return c.doJSON(ctx, http.MethodPatch, "/api/products/"+url.PathEscape(id)+"/status", statusInput{status}, nil)
}
