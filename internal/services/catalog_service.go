package services

import (
	"encoding/json"
	"fmt"

	"tienda/internal/models"
	"tienda/internal/shopify"
)

// GraphQLExecutor is the slice of the backend client the services need.
// Declared here so services can be tested against a mock executor.
type GraphQLExecutor interface {
	Execute(endpoint, query string, variables map[string]interface{}) (*shopify.Response, error)
}

// CatalogService fetches and normalizes the product catalog from the
// commerce backend.
type CatalogService struct {
	executor GraphQLExecutor
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(executor GraphQLExecutor) *CatalogService {
	return &CatalogService{
		executor: executor,
	}
}

// FetchCatalog retrieves the active products from the backend. Every
// returned product is normalized so Image.Src is present: the first
// image's URL, or the empty string when the product has no images.
// Transport failures and GraphQL-level errors are both surfaced to the
// caller; nothing is swallowed.
func (s *CatalogService) FetchCatalog() ([]models.Product, error) {
	resp, err := s.executor.Execute(shopify.EndpointCatalog, shopify.CatalogQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog fetch failed: %w", err)
	}

	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("catalog query rejected by backend: %s", resp.Errors[0].Message)
	}

	var data shopify.ProductsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse catalog response: %w", err)
	}

	products := make([]models.Product, 0, len(data.Products.Edges))
	for _, edge := range data.Products.Edges {
		products = append(products, normalizeProduct(edge.Node))
	}
	return products, nil
}

// normalizeProduct flattens a backend product node into the storefront's
// product shape, guaranteeing the image field.
func normalizeProduct(node shopify.ProductNode) models.Product {
	product := models.Product{
		ID:          node.ID,
		Title:       node.Title,
		Handle:      node.Handle,
		Description: node.Description,
		Image:       models.Image{Src: ""},
	}

	if len(node.Images.Edges) > 0 {
		product.Image.Src = node.Images.Edges[0].Node.URL
	}

	product.Variants = make([]models.Variant, 0, len(node.Variants.Edges))
	for _, v := range node.Variants.Edges {
		product.Variants = append(product.Variants, models.Variant{
			ID:                v.Node.ID,
			Title:             v.Node.Title,
			Price:             v.Node.Price,
			InventoryQuantity: v.Node.InventoryQuantity,
		})
	}
	return product
}
