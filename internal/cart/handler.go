package cart

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zenday/pricewatch/internal/kroger"
)

const defaultModality = "PICKUP"

// Vendor is the slice of the catalog client the cart proxy uses.
type Vendor interface {
	GetCart(ctx context.Context, token string) ([]kroger.Cart, error)
	AddToCart(ctx context.Context, token string, items []kroger.CartItem) error
	RemoveFromCart(ctx context.Context, token, cartID, upc string) error
}

// TokenStore yields the delegated cart token, empty when the user has not
// authenticated yet.
type TokenStore interface {
	Load() (string, error)
}

// Handler proxies cart operations to the vendor API. No business logic
// lives here; vendor error kinds are switched into HTTP statuses.
type Handler struct {
	vendor Vendor
	tokens TokenStore
	log    *zap.Logger
}

func NewHandler(vendor Vendor, tokens TokenStore, log *zap.Logger) *Handler {
	return &Handler{vendor: vendor, tokens: tokens, log: log.Named("cart")}
}

func (h *Handler) token(c *gin.Context) (string, bool) {
	tok, err := h.tokens.Load()
	if err != nil || tok == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "please authenticate first at /auth/login"})
		return "", false
	}
	return tok, true
}

func (h *Handler) ViewCart(c *gin.Context) {
	tok, ok := h.token(c)
	if !ok {
		return
	}
	carts, err := h.vendor.GetCart(c.Request.Context(), tok)
	if err != nil {
		h.fail(c, "get cart", err)
		return
	}
	if carts == nil {
		carts = []kroger.Cart{}
	}
	c.JSON(http.StatusOK, gin.H{"data": carts})
}

type addItemRequest struct {
	UPC      string `json:"upc"`
	Quantity int    `json:"quantity"`
	Modality string `json:"modality"`
}

func (h *Handler) AddItem(c *gin.Context) {
	tok, ok := h.token(c)
	if !ok {
		return
	}
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UPC == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing upc"})
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	if req.Modality == "" {
		req.Modality = defaultModality
	}

	item := kroger.CartItem{UPC: req.UPC, Quantity: req.Quantity, Modality: req.Modality}
	if err := h.vendor.AddToCart(c.Request.Context(), tok, []kroger.CartItem{item}); err != nil {
		h.fail(c, "add to cart", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "item(s) added to cart"})
}

type removeItemRequest struct {
	ProductID string `json:"product_id"`
}

func (h *Handler) RemoveItem(c *gin.Context) {
	tok, ok := h.token(c)
	if !ok {
		return
	}
	var req removeItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing product_id"})
		return
	}

	carts, err := h.vendor.GetCart(c.Request.Context(), tok)
	if err != nil || len(carts) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no cart found"})
		return
	}

	if err := h.vendor.RemoveFromCart(c.Request.Context(), tok, carts[0].ID, req.ProductID); err != nil {
		h.fail(c, "remove from cart", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "item " + req.ProductID + " removed"})
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	h.log.Error(op+" failed", zap.Error(err))
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// statusFor maps vendor error kinds onto proxy response codes.
func statusFor(err error) int {
	switch kroger.KindOf(err) {
	case kroger.KindUnauthorized:
		return http.StatusUnauthorized
	case kroger.KindForbidden:
		return http.StatusForbidden
	case kroger.KindBadRequest:
		return http.StatusBadRequest
	case kroger.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
