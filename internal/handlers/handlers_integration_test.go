package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"tienda/internal/handlers"
	"tienda/internal/middleware"
	"tienda/internal/models"
	"tienda/internal/repositories"
	"tienda/internal/services"
	"tienda/internal/shopify"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newBackendStub serves the two Admin API endpoints the storefront uses:
// a one-product catalog (inventory 3) and an always-successful orderCreate.
// It records how many order mutations it received.
func newBackendStub(orderCalls *int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Shopify-Access-Token") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"errors":[{"message":"Invalid API key or access token"}]}`)
			return
		}
		switch r.URL.Path {
		case shopify.EndpointCatalog:
			fmt.Fprint(w, `{"data":{"products":{"edges":[
				{"node":{"id":"gid://shopify/Product/1","title":"Camiseta del evento","handle":"camiseta","description":"Edición limitada",
					"images":{"edges":[{"node":{"url":"https://cdn.example.com/camiseta.jpg"}}]},
					"variants":{"edges":[{"node":{"id":"gid://shopify/ProductVariant/11","title":"M","price":"19.90","inventoryQuantity":3}}]}}}
			]}}}`)
		case shopify.EndpointOrders:
			*orderCalls++
			fmt.Fprint(w, `{"data":{"orderCreate":{
				"order":{"id":"gid://shopify/Order/1001","name":"#1001","email":"ana@example.com"},
				"userErrors":[]}}}`)
		default:
			http.NotFound(w, r)
		}
	}))
}

// setupApp builds the full Fiber app over an in-memory sqlite journal and
// the given backend stub, mirroring the wiring in main.
func setupApp(t *testing.T, backendURL string) (*fiber.App, repositories.SubmissionJournal) {
	t.Helper()

	// Each app gets its own named in-memory database; cache=shared keeps
	// it alive across GORM's pooled connections without leaking journal
	// rows between tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.SubmissionRecord{}))
	journal := repositories.NewGORMSubmissionJournal(db)

	shopifyClient, err := shopify.NewClient(backendURL, "test-token")
	assert.NoError(t, err)

	catalogService := services.NewCatalogService(shopifyClient)
	orderService := services.NewOrderService(shopifyClient, journal, nil) // nil publisher: no broker in tests
	cartService := services.NewCartService(orderService)

	hash, err := bcrypt.GenerateFromPassword([]byte("adminpass"), bcrypt.MinCost)
	assert.NoError(t, err)
	authService := services.NewAuthService("admin", string(hash), "test_jwt_secret")

	app := fiber.New()
	apiV1 := app.Group("/api/v1")

	handlers.NewCatalogHandler(catalogService).RegisterRoutes(apiV1)
	handlers.NewCartHandler(cartService).RegisterRoutes(apiV1)
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)

	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	handlers.NewAdminHandler(journal).RegisterRoutes(protectedRoutes)

	return app, journal
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}, headers map[string]string) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1) // -1 for no timeout
	assert.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestCatalogEndpoint(t *testing.T) {
	orderCalls := 0
	backend := newBackendStub(&orderCalls)
	defer backend.Close()
	app, _ := setupApp(t, backend.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var products []models.Product
	decodeBody(t, resp, &products)
	assert.Len(t, products, 1)
	assert.Equal(t, "Camiseta del evento", products[0].Title)
	assert.Equal(t, "https://cdn.example.com/camiseta.jpg", products[0].Image.Src)
	assert.Equal(t, 3, products[0].Variants[0].InventoryQuantity)
}

func TestCatalogEndpointBackendDown(t *testing.T) {
	orderCalls := 0
	backend := newBackendStub(&orderCalls)
	app, _ := setupApp(t, backend.URL)
	backend.Close() // Backend unreachable: no catalog is rendered.

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestCartCheckoutFlow(t *testing.T) {
	orderCalls := 0
	backend := newBackendStub(&orderCalls)
	defer backend.Close()
	app, journal := setupApp(t, backend.URL)

	// Start a session.
	resp := postJSON(t, app, "/api/v1/cart/", nil, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var session models.CartSession
	decodeBody(t, resp, &session)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, models.CartStatusEditing, session.Status)

	line := models.CartLine{
		ProductID:         "gid://shopify/Product/1",
		VariantID:         "gid://shopify/ProductVariant/11",
		Quantity:          2,
		Price:             "19.90",
		InventoryQuantity: 3,
	}

	// Add 2 of the variant with inventory 3.
	resp = postJSON(t, app, "/api/v1/cart/"+session.ID+"/items", line, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Adding 2 more would exceed stock: rejected, cart unchanged.
	resp = postJSON(t, app, "/api/v1/cart/"+session.ID+"/items", line, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/"+session.ID+"/totals", nil)
	totalsResp, err := app.Test(req, -1)
	assert.NoError(t, err)
	var totals models.CartTotals
	decodeBody(t, totalsResp, &totals)
	assert.Equal(t, 2, totals.ItemCount)
	assert.Equal(t, "43.80", totals.Total)

	// Confirm: the mutation fires exactly once with quantity 2.
	checkout := map[string]string{
		"first_name":  "Ana",
		"last_name":   "García",
		"email":       "ana@example.com",
		"address":     "Calle Mayor 1",
		"city":        "Madrid",
		"postal_code": "28013",
	}
	resp = postJSON(t, app, "/api/v1/cart/"+session.ID+"/checkout", checkout, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var result models.OrderResult
	decodeBody(t, resp, &result)
	assert.True(t, result.Success)
	assert.Equal(t, "#1001", result.Data.Name)
	assert.Equal(t, 1, orderCalls)

	// The attempt landed in the journal.
	records, err := journal.GetAll()
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.True(t, records[0].Succeeded)
	assert.Equal(t, "gid://shopify/Order/1001", records[0].OrderID)

	// A second confirm on the succeeded cart is rejected, not re-fired.
	resp = postJSON(t, app, "/api/v1/cart/"+session.ID+"/checkout", checkout, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 1, orderCalls)
}

func TestCheckoutValidation(t *testing.T) {
	orderCalls := 0
	backend := newBackendStub(&orderCalls)
	defer backend.Close()
	app, _ := setupApp(t, backend.URL)

	resp := postJSON(t, app, "/api/v1/cart/", nil, nil)
	var session models.CartSession
	decodeBody(t, resp, &session)

	line := models.CartLine{
		ProductID:         "gid://shopify/Product/1",
		VariantID:         "gid://shopify/ProductVariant/11",
		Quantity:          1,
		Price:             "19.90",
		InventoryQuantity: 3,
	}
	resp = postJSON(t, app, "/api/v1/cart/"+session.ID+"/items", line, nil)
	resp.Body.Close()

	// Missing email: rejected at the form boundary, mutation never fires.
	checkout := map[string]string{
		"first_name":  "Ana",
		"last_name":   "García",
		"address":     "Calle Mayor 1",
		"city":        "Madrid",
		"postal_code": "28013",
	}
	resp = postJSON(t, app, "/api/v1/cart/"+session.ID+"/checkout", checkout, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 0, orderCalls)
}

func TestAdminSubmissionsRequiresAuth(t *testing.T) {
	orderCalls := 0
	backend := newBackendStub(&orderCalls)
	defer backend.Close()
	app, _ := setupApp(t, backend.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminLoginAndSubmissions(t *testing.T) {
	orderCalls := 0
	backend := newBackendStub(&orderCalls)
	defer backend.Close()
	app, journal := setupApp(t, backend.URL)

	// Seed one journal entry.
	assert.NoError(t, journal.Record(&models.SubmissionRecord{
		Email:       "ana@example.com",
		City:        "Madrid",
		ItemCount:   2,
		TotalAmount: "43.80",
		Succeeded:   true,
		OrderID:     "gid://shopify/Order/1001",
		OrderName:   "#1001",
	}))

	resp := postJSON(t, app, "/api/v1/auth/login", map[string]string{
		"username": "admin",
		"password": "adminpass",
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &login)
	assert.NotEmpty(t, login.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	listResp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, listResp.StatusCode)

	var records []models.SubmissionRecord
	decodeBody(t, listResp, &records)
	assert.Len(t, records, 1)
	assert.Equal(t, "#1001", records[0].OrderName)
}

func TestAdminLoginBadPassword(t *testing.T) {
	orderCalls := 0
	backend := newBackendStub(&orderCalls)
	defer backend.Close()
	app, _ := setupApp(t, backend.URL)

	resp := postJSON(t, app, "/api/v1/auth/login", map[string]string{
		"username": "admin",
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
