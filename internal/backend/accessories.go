package backend

import (
	"context"
	"net/http"
	"net/url"
)

func accessoryPath(id string) string { return "/api/accessories/" + url.PathEscape(id) }

func (c *Client) Accessories(ctx context.Context, p ListParams) ([]Accessory, error) {
	var out []Accessory
	err := c.getJSON(ctx, "/api/accessories"+p.encode(), &out)
	return out, err
}

func (c *Client) Accessory(ctx context.Context, id string) (Accessory, error) {
	var out Accessory
	err := c.getJSON(ctx, accessoryPath(id), &out)
	return out, err
}

func (c *Client) CreateAccessory(ctx context.Context, in AccessoryInput) (Created, error) {
	var out Created
	err := c.doJSON(ctx, http.MethodPost, "/api/accessories", in, &out)
	return out, err
}

func (c *Client) UpdateAccessory(ctx context.Context, id string, in AccessoryInput) (Created, error) {
	out := Created{ID: id}
	err := c.doJSON(ctx, http.MethodPut, accessoryPath(id), in, nil)
	return out, err
}

func (c *Client) SetAccessoryFeatures(ctx context.Context, id string, features []Pair) error {
	body := struct {
		Features []Pair `json:"features"`
	}{features}
	return c.doJSON(ctx, http.MethodPut, accessoryPath(id)+"/features", body, nil)
}

func (c *Client) SetAccessoryStatus(ctx context.Context, id, status string) error {
	return c.doJSON(ctx, http.MethodPatch, accessoryPath(id)+"/status", statusInput{status}, nil)
}
