package products

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenProvider is the slice of the vendor client the watch endpoint
// needs: proof that a catalog credential is available.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// Processor runs one mapped product through the price pipeline.
type Processor interface {
	Process(ctx context.Context, p Product) (PollResult, error)
}

type Handler struct {
	store    Store
	pipeline Processor
	tokens   TokenProvider
	log      *zap.Logger
}

func NewHandler(store Store, pipeline Processor, tokens TokenProvider, log *zap.Logger) *Handler {
	return &Handler{store: store, pipeline: pipeline, tokens: tokens, log: log.Named("products")}
}

type watchRequest struct {
	Product *Product `json:"product"`
}

// WatchProduct manually pushes one mapped product document through the
// pipeline. Requires a vendor credential; validation failures never reach
// the pipeline.
func (h *Handler) WatchProduct(c *gin.Context) {
	if _, err := h.tokens.AccessToken(c.Request.Context()); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized"})
		return
	}

	var req watchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Product == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'product' object"})
		return
	}
	if req.Product.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing product id"})
		return
	}

	result, err := h.pipeline.Process(c.Request.Context(), *req.Product)
	if err != nil {
		h.log.Error("pipeline failed", zap.String("id", req.Product.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process product"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ListProducts(c *gin.Context) {
	list, err := h.store.ListProducts(c.Request.Context())
	if err != nil {
		h.log.Error("list products failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products"})
		return
	}
	if list == nil {
		list = []ProductSummary{}
	}
	c.JSON(http.StatusOK, list)
}

// GetPriceHistory returns history entries for one product, newest first.
func (h *Handler) GetPriceHistory(c *gin.Context) {
	id := c.Param("id")
	hist, err := h.store.PriceHistory(c.Request.Context(), id)
	if err != nil {
		h.log.Error("fetch history failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}
	if hist == nil {
		hist = []PriceHistory{}
	}
	c.JSON(http.StatusOK, hist)
}
