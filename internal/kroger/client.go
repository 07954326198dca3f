package kroger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/zenday/pricewatch/internal/config"
)

const productScope = "product.compact"

// Client talks to the Kroger public API: token endpoint, store locator,
// product search and cart. One instance is shared by the scheduler and the
// HTTP surface.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  oauth2.TokenSource
	log     *zap.Logger
}

func NewClient(cfg config.KrogerConfig, log *zap.Logger) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     base + "/v1/connect/oauth2/token",
		Scopes:       []string{productScope},
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: 20 * time.Second},
		tokens:  creds.TokenSource(context.Background()),
		log:     log.Named("kroger"),
	}
}

// AccessToken returns a valid client-credentials bearer token, refreshing
// through the token source when the cached one expired.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	tok, err := c.tokens.Token()
	if err != nil {
		return "", fmt.Errorf("obtain access token: %w", err)
	}
	return tok.AccessToken, nil
}

// NearestLocation resolves the closest store to a ZIP code. Returns nil
// without error when the locator has no match.
func (c *Client) NearestLocation(ctx context.Context, token, zip string) (*Location, error) {
	q := url.Values{}
	q.Set("filter.zipCode.near", zip)
	q.Set("filter.limit", "1")

	body, err := c.get(ctx, token, c.baseURL+"/v1/locations?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var env dataEnvelope[Location]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode locations response: %w", err)
	}
	if len(env.Data) == 0 {
		return nil, nil
	}
	return &env.Data[0], nil
}

// SearchProducts fetches product search results for a term, following
// Link rel="next" headers across pages. Query params are only sent on the
// first request; next-page URLs already carry their own.
func (c *Client) SearchProducts(ctx context.Context, token, term string, limit int, locationID string) ([]Product, error) {
	q := url.Values{}
	q.Set("filter.term", term)
	q.Set("filter.limit", strconv.Itoa(limit))
	if locationID != "" {
		q.Set("filter.locationId", locationID)
	}

	next := c.baseURL + "/v1/products?" + q.Encode()

	var products []Product
	for next != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, next, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch products: %w", err)
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("read products response: %w", readErr)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, newAPIError(resp.StatusCode, body)
		}

		var env dataEnvelope[Product]
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("decode products response: %w", err)
		}
		products = append(products, env.Data...)
		c.log.Debug("fetched product page", zap.Int("count", len(env.Data)))

		next = nextLink(resp.Header.Get("Link"))
	}
	return products, nil
}

// get performs an authorized GET and returns the body, mapping non-200
// statuses to typed APIErrors.
func (c *Client) get(ctx context.Context, token, rawurl string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kroger request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp.StatusCode, body)
	}
	return body, nil
}

// nextLink extracts the rel="next" URL from a Link header, empty string
// when there is no next page.
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		if !strings.Contains(part, `rel="next"`) {
			continue
		}
		ref := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		return strings.Trim(ref, "<>")
	}
	return ""
}
