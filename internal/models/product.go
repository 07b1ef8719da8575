package models

// Image is the single representative image of a product. Src is always
// present after normalization; it is the empty string when the product
// has no images on the backend.
type Image struct {
	Src string `json:"src"`
}

// Variant is a purchasable SKU of a product with its own price and stock.
// Price arrives from the backend as decimal text and is kept that way.
type Variant struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

// Product represents a catalog product fetched fresh from the commerce
// backend on every catalog request. Products are never persisted locally.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Handle      string    `json:"handle"`
	Description string    `json:"description"`
	Image       Image     `json:"image"`
	Variants    []Variant `json:"variants"`
}
