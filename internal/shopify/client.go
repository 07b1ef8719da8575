package shopify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// API paths on the shop domain. The catalog query still goes through the
// unversioned endpoint; orderCreate requires the versioned one.
const (
	EndpointCatalog = "/admin/api/graphql.json"
	EndpointOrders  = "/admin/api/2025-01/graphql.json"
)

// Client is a minimal Admin GraphQL client for the commerce backend.
type Client struct {
	shopURL     string
	accessToken string
	httpClient  *http.Client
}

// Response is the GraphQL envelope. Data is left raw so each caller can
// unmarshal into its own result shape.
type Response struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError is a query-level error reported by the backend.
type GraphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// UserError is a mutation-level validation error.
type UserError struct {
	Field   []string `json:"field,omitempty"`
	Message string   `json:"message"`
}

// NewClient creates a new Admin API client. Missing shop URL or access
// token is a configuration error: no backend call can succeed without
// them, so it is reported immediately rather than on the wire.
func NewClient(shopURL, accessToken string) (*Client, error) {
	if shopURL == "" || accessToken == "" {
		return nil, fmt.Errorf("shopify client requires SHOP_URL and SHOPIFY_ACCESS_TOKEN to be configured")
	}
	return &Client{
		shopURL:     strings.TrimSuffix(shopURL, "/"),
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Execute posts a GraphQL document to the given API endpoint and returns
// the decoded envelope. A non-2xx status or network failure is a transport
// error; GraphQL-level errors are returned inside the envelope for the
// caller to classify.
func (c *Client) Execute(endpoint, query string, variables map[string]interface{}) (*Response, error) {
	payload := map[string]interface{}{
		"query": query,
	}
	if variables != nil {
		payload["variables"] = variables
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GraphQL request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.shopURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GraphQL request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read GraphQL response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GraphQL request returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var envelope Response
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode GraphQL response: %w", err)
	}

	return &envelope, nil
}
