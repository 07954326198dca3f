package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/zenday/pricewatch/internal/config"
)

const cartScope = "cart.basic:write"

// Handler drives the authorization-code flow that grants cart access on
// behalf of a user.
type Handler struct {
	oauth  *oauth2.Config
	tokens *FileTokenStore
	log    *zap.Logger
}

func NewHandler(cfg config.KrogerConfig, tokens *FileTokenStore, log *zap.Logger) *Handler {
	base := strings.TrimRight(cfg.BaseURL, "/")
	return &Handler{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{cartScope},
			Endpoint: oauth2.Endpoint{
				AuthURL:   base + "/v1/connect/oauth2/authorize",
				TokenURL:  base + "/v1/connect/oauth2/token",
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		tokens: tokens,
		log:    log.Named("auth"),
	}
}

// Login hands the client the vendor authorization URL to visit.
func (h *Handler) Login(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"auth_url": h.oauth.AuthCodeURL("")})
}

// Callback exchanges the authorization code for a token and persists it
// for the cart proxy.
func (h *Handler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no authorization code received"})
		return
	}

	tok, err := h.oauth.Exchange(c.Request.Context(), code)
	if err != nil {
		h.log.Error("token exchange failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token exchange failed"})
		return
	}

	if err := h.tokens.Save(tok.AccessToken); err != nil {
		h.log.Error("persist token failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store token"})
		return
	}

	h.log.Info("authenticated for cart access")
	c.JSON(http.StatusOK, gin.H{"message": "successfully authenticated"})
}
