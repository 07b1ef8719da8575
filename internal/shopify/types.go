package shopify

// Connection shapes for the catalog query response. Only the fields the
// storefront needs are declared; everything else the backend returns is
// ignored during decoding.

type ProductsData struct {
	Products ProductConnection `json:"products"`
}

type ProductConnection struct {
	Edges []ProductEdge `json:"edges"`
}

type ProductEdge struct {
	Node ProductNode `json:"node"`
}

type ProductNode struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Handle      string            `json:"handle"`
	Description string            `json:"description"`
	Images      ImageConnection   `json:"images"`
	Variants    VariantConnection `json:"variants"`
}

type ImageConnection struct {
	Edges []ImageEdge `json:"edges"`
}

type ImageEdge struct {
	Node ImageNode `json:"node"`
}

type ImageNode struct {
	URL string `json:"url"`
}

type VariantConnection struct {
	Edges []VariantEdge `json:"edges"`
}

type VariantEdge struct {
	Node VariantNode `json:"node"`
}

type VariantNode struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventoryQuantity"`
}

// OrderCreateData is the result shape of the orderCreate mutation.
type OrderCreateData struct {
	OrderCreate OrderCreatePayload `json:"orderCreate"`
}

type OrderCreatePayload struct {
	Order      *CreatedOrderNode `json:"order"`
	UserErrors []UserError       `json:"userErrors"`
}

type CreatedOrderNode struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
