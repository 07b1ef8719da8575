package services

import (
	"encoding/json"
	"fmt"
	"log"

	"tienda/internal/models"
	"tienda/internal/repositories"
	"tienda/internal/shopify"

	"github.com/shopspring/decimal"
)

// Fixed order parameters. The storefront sells one event's merchandise in
// one country, so these never vary per order.
const (
	orderCurrency      = "EUR"
	orderCountry       = "Spain"
	orderTag           = "tienda-evento"
	shippingTitle      = "Envío estándar"
	shippingPrice      = "4.00"
	transactionAmount  = "0.01"
	transactionGateway = "manual"
)

// EventPublisher publishes order lifecycle events. It matches the
// RabbitMQ client so the service can be tested without a broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// OrderService maps a locally-collected order form into the backend's
// order-creation mutation and classifies the response.
type OrderService struct {
	executor  GraphQLExecutor
	journal   repositories.SubmissionJournal
	publisher EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(executor GraphQLExecutor, journal repositories.SubmissionJournal, publisher EventPublisher) *OrderService {
	return &OrderService{
		executor:  executor,
		journal:   journal,
		publisher: publisher,
	}
}

// SubmitOrder submits one order to the commerce backend.
//
// Result classification: a transport or HTTP failure is returned as an
// error; backend-level errors, non-empty userErrors and a success envelope
// that is missing the order object all yield a structured failure result
// (not an error); anything else is a success result carrying the created
// order. Inventory is decremented by the backend per its own policy; this
// is optimistic and two racing submissions for the same variant can
// overshoot stock.
func (s *OrderService) SubmitOrder(input models.OrderInput) (*models.OrderResult, error) {
	variables := s.buildOrderVariables(input)

	resp, err := s.executor.Execute(shopify.EndpointOrders, shopify.OrderCreateMutation, variables)
	if err != nil {
		s.journalAttempt(input, &models.OrderResult{
			Success: false,
			Errors:  []models.OrderError{{Message: err.Error()}},
		})
		return nil, fmt.Errorf("order submission failed: %w", err)
	}

	result := classifyOrderResponse(resp)
	s.journalAttempt(input, result)

	if result.Success {
		s.publishOrderCreated(input, result.Data)
	}
	return result, nil
}

// buildOrderVariables constructs the orderCreate mutation variables:
// billing address mirrors the shipping address, shipping is a fixed
// standard charge, and the transaction is a nominal pre-paid marker, not
// a real payment capture.
func (s *OrderService) buildOrderVariables(input models.OrderInput) map[string]interface{} {
	address := map[string]interface{}{
		"firstName":    input.FirstName,
		"lastName":     input.LastName,
		"address1":     input.Address,
		"city":         input.City,
		"zip":          input.PostalCode,
		"provinceCode": GetProvinceCode(input.City),
		"country":      orderCountry,
		"phone":        input.Phone,
	}

	lineItems := make([]map[string]interface{}, 0, len(input.Lines))
	for _, line := range input.Lines {
		lineItems = append(lineItems, map[string]interface{}{
			"variantId": line.VariantID,
			"quantity":  line.Quantity,
		})
	}

	return map[string]interface{}{
		"options": map[string]interface{}{
			"inventoryBehaviour":     "DECREMENT_OBEYING_POLICY",
			"sendReceipt":            false,
			"sendFulfillmentReceipt": false,
		},
		"order": map[string]interface{}{
			"currency":              orderCurrency,
			"email":                 input.Email,
			"phone":                 input.Phone,
			"buyerAcceptsMarketing": true,
			"taxesIncluded":         true,
			"test":                  false,
			"tags":                  []string{orderTag},
			"billingAddress":        address,
			"shippingAddress":       address,
			"lineItems":             lineItems,
			"shippingLines": []map[string]interface{}{
				{
					"title": shippingTitle,
					"priceSet": map[string]interface{}{
						"shopMoney": map[string]interface{}{
							"amount":       shippingPrice,
							"currencyCode": orderCurrency,
						},
					},
				},
			},
			"transactions": []map[string]interface{}{
				{
					"kind":    "SALE",
					"status":  "SUCCESS",
					"gateway": transactionGateway,
					"amountSet": map[string]interface{}{
						"shopMoney": map[string]interface{}{
							"amount":       transactionAmount,
							"currencyCode": orderCurrency,
						},
					},
				},
			},
		},
	}
}

// classifyOrderResponse turns the backend envelope into the structured
// success/failure result the form boundary expects.
func classifyOrderResponse(resp *shopify.Response) *models.OrderResult {
	if len(resp.Errors) > 0 {
		errors := make([]models.OrderError, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			errors = append(errors, models.OrderError{Message: e.Message})
		}
		return &models.OrderResult{Success: false, Errors: errors}
	}

	var data shopify.OrderCreateData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return &models.OrderResult{
			Success: false,
			Errors:  []models.OrderError{{Message: fmt.Sprintf("failed to parse order response: %v", err)}},
		}
	}

	if len(data.OrderCreate.UserErrors) > 0 {
		errors := make([]models.OrderError, 0, len(data.OrderCreate.UserErrors))
		for _, e := range data.OrderCreate.UserErrors {
			errors = append(errors, models.OrderError{Field: e.Field, Message: e.Message})
		}
		return &models.OrderResult{Success: false, Errors: errors}
	}

	if data.OrderCreate.Order == nil || data.OrderCreate.Order.ID == "" {
		return &models.OrderResult{
			Success: false,
			Errors:  []models.OrderError{{Message: "order missing from backend response"}},
		}
	}

	return &models.OrderResult{
		Success: true,
		Data: &models.CreatedOrder{
			ID:    data.OrderCreate.Order.ID,
			Name:  data.OrderCreate.Order.Name,
			Email: data.OrderCreate.Order.Email,
		},
	}
}

// journalAttempt records the submission attempt and its outcome. Journal
// failures are logged, never propagated: the journal is an audit trail,
// not part of the order path.
func (s *OrderService) journalAttempt(input models.OrderInput, result *models.OrderResult) {
	if s.journal == nil {
		return
	}

	record := &models.SubmissionRecord{
		Email:       input.Email,
		City:        input.City,
		ItemCount:   countItems(input.Lines),
		TotalAmount: OrderTotal(input.Lines).StringFixed(2),
		Succeeded:   result.Success,
	}
	if result.Success && result.Data != nil {
		record.OrderID = result.Data.ID
		record.OrderName = result.Data.Name
	} else if len(result.Errors) > 0 {
		record.ErrorDetail = result.Errors[0].Message
	}

	if err := s.journal.Record(record); err != nil {
		log.Printf("Warning: failed to journal submission for %s: %v", input.Email, err)
	}
}

// publishOrderCreated emits an order.created event. Publish failures are
// logged, never fail the order.
func (s *OrderService) publishOrderCreated(input models.OrderInput, order *models.CreatedOrder) {
	if s.publisher == nil {
		log.Println("Event publisher is not initialized. Skipping order.created publication.")
		return
	}

	event := map[string]interface{}{
		"orderID":   order.ID,
		"orderName": order.Name,
		"email":     input.Email,
		"itemCount": countItems(input.Lines),
		"total":     OrderTotal(input.Lines).StringFixed(2),
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal order event to JSON: %v", err)
		return
	}
	if err := s.publisher.Publish("order", "order.created", body); err != nil {
		log.Printf("Warning: failed to publish order created event for order %s: %v", order.ID, err)
	} else {
		log.Printf("Successfully published order created event for order %s", order.ID)
	}
}

// countItems sums the quantities across all lines.
func countItems(lines []models.CartLine) int {
	total := 0
	for _, line := range lines {
		total += line.Quantity
	}
	return total
}

// OrderTotal derives the grand total of a set of lines: line prices times
// quantities plus the fixed shipping charge. Prices are decimal text; a
// line price that fails to parse counts as zero.
func OrderTotal(lines []models.CartLine) decimal.Decimal {
	total := decimal.RequireFromString(shippingPrice)
	for _, line := range lines {
		price, err := decimal.NewFromString(line.Price)
		if err != nil {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}
