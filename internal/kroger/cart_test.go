package kroger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCart(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/cart", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer user-tok", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"data":[{"id":"cart-1","items":[{"upc":"0001111041700","quantity":2}]}]}`)
	})
	c, _ := testClient(t, mux)

	carts, err := c.GetCart(context.Background(), "user-tok")
	require.NoError(t, err)
	require.Len(t, carts, 1)
	assert.Equal(t, "cart-1", carts[0].ID)
	require.Len(t, carts[0].Items, 1)
	assert.Equal(t, 2, carts[0].Items[0].Quantity)
}

func TestAddToCart(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/cart/add", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		var body struct {
			Items []CartItem `json:"items"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Items, 1)
		assert.Equal(t, "0001111041700", body.Items[0].UPC)
		assert.Equal(t, "PICKUP", body.Items[0].Modality)
		w.WriteHeader(http.StatusNoContent)
	})
	c, _ := testClient(t, mux)

	err := c.AddToCart(context.Background(), "user-tok", []CartItem{
		{UPC: "0001111041700", Quantity: 1, Modality: "PICKUP"},
	})
	assert.NoError(t, err)
}

func TestAddToCartForbidden(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/cart/add", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"reason":"missing cart.basic scope"}`)
	})
	c, _ := testClient(t, mux)

	err := c.AddToCart(context.Background(), "user-tok", []CartItem{{UPC: "x", Quantity: 1}})
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestRemoveFromCart(t *testing.T) {
	var gotPath string
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/cart/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})
	c, _ := testClient(t, mux)

	err := c.RemoveFromCart(context.Background(), "user-tok", "cart-1", "0001111041700")
	require.NoError(t, err)
	assert.Equal(t, "/v1/cart/cart-1/items/0001111041700", gotPath)
}

func TestRemoveFromCartNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/cart/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"reason":"cart not found"}`)
	})
	c, _ := testClient(t, mux)

	err := c.RemoveFromCart(context.Background(), "user-tok", "nope", "x")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}
