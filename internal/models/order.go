package models

// CartLine is a single (variant, quantity) selection in a cart. The
// InventoryQuantity and Price fields are the client's snapshot from the
// last catalog fetch; the backend remains authoritative at order time.
type CartLine struct {
	ProductID         string `json:"product_id" validate:"required"`
	VariantID         string `json:"variant_id" validate:"required"`
	Quantity          int    `json:"quantity" validate:"required,gt=0"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

// OrderInput is the locally-collected order form: contact details, a
// shipping address and one or more line item selections.
type OrderInput struct {
	FirstName  string     `json:"first_name" validate:"required"`
	LastName   string     `json:"last_name" validate:"required"`
	Email      string     `json:"email" validate:"required,email"`
	Phone      string     `json:"phone" validate:"omitempty,min=6"`
	Address    string     `json:"address" validate:"required"`
	City       string     `json:"city" validate:"required"`
	PostalCode string     `json:"postal_code" validate:"required"`
	Lines      []CartLine `json:"lines" validate:"required,min=1,dive"`
}

// CreatedOrder carries the backend-assigned fields of a created order.
type CreatedOrder struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderError is a backend-provided validation message, either a GraphQL
// error or a mutation userError.
type OrderError struct {
	Field   []string `json:"field,omitempty"`
	Message string   `json:"message"`
}

// OrderResult is the classified outcome of an order submission. Backend
// validation failures are values here, not Go errors; only transport and
// configuration problems surface as errors from the submitter.
type OrderResult struct {
	Success bool          `json:"success"`
	Data    *CreatedOrder `json:"data,omitempty"`
	Errors  []OrderError  `json:"errors,omitempty"`
}
