package services_test

import (
	"fmt"
	"testing"

	"tienda/internal/models"
	"tienda/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockSubmitter is a mock implementation of services.OrderSubmitter.
type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) SubmitOrder(input models.OrderInput) (*models.OrderResult, error) {
	args := m.Called(input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderResult), args.Error(1)
}

func testLine(quantity, inventory int) models.CartLine {
	return models.CartLine{
		ProductID:         "gid://shopify/Product/1",
		VariantID:         "gid://shopify/ProductVariant/11",
		Quantity:          quantity,
		Price:             "19.90",
		InventoryQuantity: inventory,
	}
}

func checkoutForm() models.OrderInput {
	return models.OrderInput{
		FirstName:  "Ana",
		LastName:   "García",
		Email:      "ana@example.com",
		Address:    "Calle Mayor 1",
		City:       "Madrid",
		PostalCode: "28013",
	}
}

func TestCartService_AddLineWithinStock(t *testing.T) {
	service := services.NewCartService(new(MockSubmitter))
	session := service.NewSession()

	updated, err := service.AddLine(session.ID, testLine(2, 3))

	assert.NoError(t, err)
	assert.Len(t, updated.Lines, 1)
	assert.Equal(t, 2, updated.Lines[0].Quantity)
	assert.Equal(t, models.CartStatusEditing, updated.Status)
}

func TestCartService_StockCeilingLeavesCartUnchanged(t *testing.T) {
	service := services.NewCartService(new(MockSubmitter))
	session := service.NewSession()

	_, err := service.AddLine(session.ID, testLine(2, 3))
	assert.NoError(t, err)

	// Adding 2 more would exceed the variant's last-known inventory of 3.
	_, err = service.AddLine(session.ID, testLine(2, 3))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient stock")

	current, err := service.GetSession(session.ID)
	assert.NoError(t, err)
	assert.Len(t, current.Lines, 1)
	assert.Equal(t, 2, current.Lines[0].Quantity)
}

func TestCartService_FirstAddOverStockRejected(t *testing.T) {
	service := services.NewCartService(new(MockSubmitter))
	session := service.NewSession()

	_, err := service.AddLine(session.ID, testLine(5, 3))
	assert.Error(t, err)

	current, _ := service.GetSession(session.ID)
	assert.Empty(t, current.Lines)
}

func TestCartService_Totals(t *testing.T) {
	service := services.NewCartService(new(MockSubmitter))
	session := service.NewSession()

	_, err := service.AddLine(session.ID, testLine(2, 3))
	assert.NoError(t, err)

	totals, err := service.Totals(session.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, totals.ItemCount)
	assert.Equal(t, "39.80", totals.Subtotal)
	assert.Equal(t, "4.00", totals.Shipping)
	assert.Equal(t, "43.80", totals.Total)
}

func TestCartService_RemoveLine(t *testing.T) {
	service := services.NewCartService(new(MockSubmitter))
	session := service.NewSession()

	_, err := service.AddLine(session.ID, testLine(1, 3))
	assert.NoError(t, err)

	updated, err := service.RemoveLine(session.ID, "gid://shopify/ProductVariant/11")
	assert.NoError(t, err)
	assert.Empty(t, updated.Lines)

	_, err = service.RemoveLine(session.ID, "gid://shopify/ProductVariant/11")
	assert.Error(t, err)
}

func TestCartService_CheckoutEmptyCartRejected(t *testing.T) {
	mockSubmitter := new(MockSubmitter)
	service := services.NewCartService(mockSubmitter)
	session := service.NewSession()

	_, err := service.Checkout(session.ID, checkoutForm())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
	mockSubmitter.AssertNotCalled(t, "SubmitOrder", mock.Anything)
}

func TestCartService_CheckoutFailureMarksCartFailed(t *testing.T) {
	mockSubmitter := new(MockSubmitter)
	service := services.NewCartService(mockSubmitter)
	session := service.NewSession()

	_, err := service.AddLine(session.ID, testLine(1, 3))
	assert.NoError(t, err)

	mockSubmitter.On("SubmitOrder", mock.Anything).Return(&models.OrderResult{
		Success: false,
		Errors:  []models.OrderError{{Message: "Variant is out of stock"}},
	}, nil).Once()

	result, err := service.Checkout(session.ID, checkoutForm())
	assert.NoError(t, err)
	assert.False(t, result.Success)

	current, _ := service.GetSession(session.ID)
	assert.Equal(t, models.CartStatusFailed, current.Status)

	// A failed cart can be edited and confirmed again.
	_, err = service.AddLine(session.ID, testLine(1, 3))
	assert.NoError(t, err)
	mockSubmitter.AssertExpectations(t)
}

func TestCartService_CheckoutTransportErrorPropagates(t *testing.T) {
	mockSubmitter := new(MockSubmitter)
	service := services.NewCartService(mockSubmitter)
	session := service.NewSession()

	_, err := service.AddLine(session.ID, testLine(1, 3))
	assert.NoError(t, err)

	mockSubmitter.On("SubmitOrder", mock.Anything).Return(nil, fmt.Errorf("network unreachable")).Once()

	result, err := service.Checkout(session.ID, checkoutForm())
	assert.Error(t, err)
	assert.Nil(t, result)

	current, _ := service.GetSession(session.ID)
	assert.Equal(t, models.CartStatusFailed, current.Status)
	mockSubmitter.AssertExpectations(t)
}

func TestCartService_SucceededCartCannotResubmit(t *testing.T) {
	mockSubmitter := new(MockSubmitter)
	service := services.NewCartService(mockSubmitter)
	session := service.NewSession()

	_, err := service.AddLine(session.ID, testLine(1, 3))
	assert.NoError(t, err)

	mockSubmitter.On("SubmitOrder", mock.Anything).Return(&models.OrderResult{
		Success: true,
		Data:    &models.CreatedOrder{ID: "gid://shopify/Order/1", Name: "#1"},
	}, nil).Once()

	result, err := service.Checkout(session.ID, checkoutForm())
	assert.NoError(t, err)
	assert.True(t, result.Success)

	_, err = service.Checkout(session.ID, checkoutForm())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already submitted")
	mockSubmitter.AssertExpectations(t)
}

// TestCartService_StockScenario walks the full storefront scenario: one
// variant with inventory 3, add 2, a further add of 2 is rejected and the
// cart stays at 2, and checkout fires the mutation exactly once with
// quantity 2.
func TestCartService_StockScenario(t *testing.T) {
	mockSubmitter := new(MockSubmitter)
	service := services.NewCartService(mockSubmitter)
	session := service.NewSession()

	_, err := service.AddLine(session.ID, testLine(2, 3))
	assert.NoError(t, err)

	totals, err := service.Totals(session.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, totals.ItemCount)

	_, err = service.AddLine(session.ID, testLine(2, 3))
	assert.Error(t, err)

	totals, err = service.Totals(session.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, totals.ItemCount)

	mockSubmitter.On("SubmitOrder", mock.MatchedBy(func(input models.OrderInput) bool {
		return len(input.Lines) == 1 && input.Lines[0].Quantity == 2
	})).Return(&models.OrderResult{
		Success: true,
		Data:    &models.CreatedOrder{ID: "gid://shopify/Order/1", Name: "#1"},
	}, nil).Once()

	result, err := service.Checkout(session.ID, checkoutForm())
	assert.NoError(t, err)
	assert.True(t, result.Success)

	mockSubmitter.AssertExpectations(t)
	mockSubmitter.AssertNumberOfCalls(t, "SubmitOrder", 1)
}
