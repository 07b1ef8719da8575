package models

// Cart session lifecycle. A cart starts out editing, moves to submitting
// while an order submission is in flight, and ends up succeeded or failed.
// A failed cart returns to editing on its next modification.
const (
	CartStatusEditing    = "editing"
	CartStatusSubmitting = "submitting"
	CartStatusSucceeded  = "succeeded"
	CartStatusFailed     = "failed"
)

// CartSession is the transient server-side cart state for one visitor.
// It lives only in memory for the duration of a session.
type CartSession struct {
	ID     string     `json:"id"`
	Status string     `json:"status"`
	Lines  []CartLine `json:"lines"`
}

// CartTotals are derived values recomputed from the current cart state on
// every read; nothing here is stored.
type CartTotals struct {
	ItemCount int    `json:"item_count"`
	Subtotal  string `json:"subtotal"`
	Shipping  string `json:"shipping"`
	Total     string `json:"total"`
}
