package kroger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// CartItem is the item shape the cart endpoints expect.
type CartItem struct {
	UPC                 string `json:"upc"`
	Quantity            int    `json:"quantity"`
	Modality            string `json:"modality,omitempty"`
	AllowSubstitutes    bool   `json:"allowSubstitutes,omitempty"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

// Cart is a user's cart as returned by GET /v1/cart.
type Cart struct {
	ID    string     `json:"id"`
	Items []CartItem `json:"items,omitempty"`
}

// GetCart returns the caller's carts. Requires a delegated (auth-code)
// token with cart scope.
func (c *Client) GetCart(ctx context.Context, token string) ([]Cart, error) {
	body, err := c.get(ctx, token, c.baseURL+"/v1/cart")
	if err != nil {
		return nil, err
	}
	var env dataEnvelope[Cart]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode cart response: %w", err)
	}
	return env.Data, nil
}

// AddToCart adds items via PUT /v1/cart/add. The vendor answers 204 on
// success with an empty body.
func (c *Client) AddToCart(ctx context.Context, token string, items []CartItem) error {
	return c.send(ctx, token, http.MethodPut, c.baseURL+"/v1/cart/add", map[string]any{"items": items})
}

// CreateCart creates a new cart seeded with items.
func (c *Client) CreateCart(ctx context.Context, token string, items []CartItem) error {
	return c.send(ctx, token, http.MethodPost, c.baseURL+"/v1/cart", map[string]any{"items": items})
}

// RemoveFromCart deletes one UPC from a cart.
func (c *Client) RemoveFromCart(ctx context.Context, token, cartID, upc string) error {
	return c.send(ctx, token, http.MethodDelete, c.baseURL+"/v1/cart/"+cartID+"/items/"+upc, nil)
}

func (c *Client) send(ctx context.Context, token, method, rawurl string, payload any) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode cart payload: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawurl, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("cart request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	raw, _ := io.ReadAll(resp.Body)
	return newAPIError(resp.StatusCode, raw)
}
