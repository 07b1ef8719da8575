package services

import (
	"fmt"
	"sync"

	"tienda/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderSubmitter is the slice of OrderService the cart needs at checkout.
type OrderSubmitter interface {
	SubmitOrder(input models.OrderInput) (*models.OrderResult, error)
}

// CartService holds the transient per-session cart state. Carts live only
// in memory: a session that is never checked out simply disappears with
// the process.
type CartService struct {
	submitter OrderSubmitter
	sessions  map[string]*models.CartSession
	mu        sync.RWMutex
}

// NewCartService creates a new CartService.
func NewCartService(submitter OrderSubmitter) *CartService {
	return &CartService{
		submitter: submitter,
		sessions:  make(map[string]*models.CartSession),
	}
}

// NewSession creates an empty cart session and returns it.
func (s *CartService) NewSession() *models.CartSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := &models.CartSession{
		ID:     uuid.New().String(),
		Status: models.CartStatusEditing,
		Lines:  []models.CartLine{},
	}
	s.sessions[session.ID] = session
	return session
}

// GetSession returns a cart session by its ID.
func (s *CartService) GetSession(id string) (*models.CartSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("cart session %s not found", id)
	}
	snapshot := *session
	snapshot.Lines = append([]models.CartLine{}, session.Lines...)
	return &snapshot, nil
}

// AddLine adds the given quantity of a variant to the cart. The resulting
// quantity for that variant may never exceed the variant's last-known
// inventory count; a violating add is rejected and leaves the cart
// unchanged. This is a client-snapshot guard only: the backend's inventory
// policy remains authoritative at order-creation time.
func (s *CartService) AddLine(sessionID string, line models.CartLine) (*models.CartSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("cart session %s not found", sessionID)
	}
	if session.Status == models.CartStatusSubmitting {
		return nil, fmt.Errorf("cart session %s is being submitted", sessionID)
	}
	if line.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	for i, existing := range session.Lines {
		if existing.VariantID != line.VariantID {
			continue
		}
		newQuantity := existing.Quantity + line.Quantity
		if newQuantity > existing.InventoryQuantity {
			return nil, fmt.Errorf("insufficient stock for variant %s (requested: %d, available: %d)",
				line.VariantID, newQuantity, existing.InventoryQuantity)
		}
		session.Lines[i].Quantity = newQuantity
		session.Status = models.CartStatusEditing
		snapshot := s.snapshotLocked(session)
		return snapshot, nil
	}

	if line.Quantity > line.InventoryQuantity {
		return nil, fmt.Errorf("insufficient stock for variant %s (requested: %d, available: %d)",
			line.VariantID, line.Quantity, line.InventoryQuantity)
	}
	session.Lines = append(session.Lines, line)
	session.Status = models.CartStatusEditing
	return s.snapshotLocked(session), nil
}

// RemoveLine removes a variant from the cart entirely.
func (s *CartService) RemoveLine(sessionID, variantID string) (*models.CartSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("cart session %s not found", sessionID)
	}
	if session.Status == models.CartStatusSubmitting {
		return nil, fmt.Errorf("cart session %s is being submitted", sessionID)
	}

	for i, existing := range session.Lines {
		if existing.VariantID == variantID {
			session.Lines = append(session.Lines[:i], session.Lines[i+1:]...)
			session.Status = models.CartStatusEditing
			return s.snapshotLocked(session), nil
		}
	}
	return nil, fmt.Errorf("variant %s not in cart session %s", variantID, sessionID)
}

// Totals derives the current cart totals: line subtotal, the fixed
// shipping add-on and the grand total. Nothing is cached; every call
// recomputes from the current lines.
func (s *CartService) Totals(sessionID string) (*models.CartTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("cart session %s not found", sessionID)
	}

	subtotal := decimal.Zero
	for _, line := range session.Lines {
		price, err := decimal.NewFromString(line.Price)
		if err != nil {
			continue
		}
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	shipping := decimal.RequireFromString(shippingPrice)

	return &models.CartTotals{
		ItemCount: countItems(session.Lines),
		Subtotal:  subtotal.StringFixed(2),
		Shipping:  shipping.StringFixed(2),
		Total:     subtotal.Add(shipping).StringFixed(2),
	}, nil
}

// Checkout submits the cart through the order submitter exactly once per
// confirm. The session moves to submitting for the duration of the call
// and ends up succeeded or failed; a concurrent confirm on a submitting
// cart is rejected rather than firing a second mutation.
func (s *CartService) Checkout(sessionID string, form models.OrderInput) (*models.OrderResult, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("cart session %s not found", sessionID)
	}
	if session.Status == models.CartStatusSubmitting {
		s.mu.Unlock()
		return nil, fmt.Errorf("cart session %s is already being submitted", sessionID)
	}
	if session.Status == models.CartStatusSucceeded {
		s.mu.Unlock()
		return nil, fmt.Errorf("cart session %s was already submitted successfully", sessionID)
	}
	if len(session.Lines) == 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("cart session %s is empty", sessionID)
	}

	form.Lines = append([]models.CartLine{}, session.Lines...)
	session.Status = models.CartStatusSubmitting
	s.mu.Unlock()

	// The submission itself runs outside the lock: other sessions keep
	// working while this one waits on the backend.
	result, err := s.submitter.SubmitOrder(form)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case err != nil:
		session.Status = models.CartStatusFailed
		return nil, err
	case result.Success:
		session.Status = models.CartStatusSucceeded
	default:
		session.Status = models.CartStatusFailed
	}
	return result, nil
}

// snapshotLocked copies a session for return to callers. Callers must hold
// the service mutex.
func (s *CartService) snapshotLocked(session *models.CartSession) *models.CartSession {
	snapshot := *session
	snapshot.Lines = append([]models.CartLine{}, session.Lines...)
	return &snapshot
}
