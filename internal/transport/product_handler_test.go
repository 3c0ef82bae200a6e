package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crowthreads/storefront/internal/domain"
	"github.com/crowthreads/storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newProductRouter(t *testing.T, role string) (*chi.Mux, *mockProductRepository) {
	t.Helper()

	productRepo := newMockProductRepository()
	catalogService := service.NewCatalogService(productRepo)
	router := chi.NewRouter()
	NewProductHandler(catalogService, zap.NewNop()).RegisterRoutes(router, fakeAuth(uuid.New(), role))
	return router, productRepo
}

func doJSON(t *testing.T, router *chi.Mux, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateProductAsAdmin(t *testing.T) {
	router, _ := newProductRouter(t, "admin")

	rec := doJSON(t, router, http.MethodPost, "/api/products", CreateProductRequest{
		Name:       "Raven Tee",
		PriceCents: 1999,
		Sizes:      []string{"S", "M", " M ", ""},
		Colors:     []string{"black"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var product domain.Product
	if err := json.NewDecoder(rec.Body).Decode(&product); err != nil {
		t.Fatalf("failed to decode product: %v", err)
	}
	if product.PriceCents != 1999 {
		t.Errorf("expected price 1999 cents, got %d", product.PriceCents)
	}
	if len(product.Sizes) != 2 {
		t.Errorf("sizes should be trimmed and deduplicated, got %v", product.Sizes)
	}
}

func TestCreateProductRejectsNonAdmin(t *testing.T) {
	router, _ := newProductRouter(t, "user")

	rec := doJSON(t, router, http.MethodPost, "/api/products", CreateProductRequest{
		Name:       "Raven Tee",
		PriceCents: 1999,
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a non-admin, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateProductValidation(t *testing.T) {
	router, _ := newProductRouter(t, "admin")

	rec := doJSON(t, router, http.MethodPost, "/api/products", CreateProductRequest{
		Name:       "",
		PriceCents: 1999,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing name: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/products", CreateProductRequest{
		Name:       "Raven Tee",
		PriceCents: -1,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative price: expected 400, got %d", rec.Code)
	}
}

func TestListAndGetProductArePublic(t *testing.T) {
	productRepo := newMockProductRepository()
	catalogService := service.NewCatalogService(productRepo)
	router := chi.NewRouter()

	// No authenticated user at all on the public routes
	passthrough := func(next http.Handler) http.Handler { return next }
	NewProductHandler(catalogService, zap.NewNop()).RegisterRoutes(router, passthrough)

	product := &domain.Product{ID: uuid.New(), Name: "Raven Tee", PriceCents: 1999}
	productRepo.products[product.ID] = product

	rec := doJSON(t, router, http.MethodGet, "/api/products", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	var products []domain.Product
	if err := json.NewDecoder(rec.Body).Decode(&products); err != nil {
		t.Fatalf("failed to decode product list: %v", err)
	}
	if len(products) != 1 {
		t.Errorf("expected 1 product, got %d", len(products))
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/products/%s", product.ID), nil)
	if rec.Code != http.StatusOK {
		t.Errorf("get: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/products/%s", uuid.New()), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get missing: expected 404, got %d", rec.Code)
	}
}

func TestDeleteProduct(t *testing.T) {
	router, productRepo := newProductRouter(t, "admin")

	product := &domain.Product{ID: uuid.New(), Name: "Raven Tee", PriceCents: 1999}
	productRepo.products[product.ID] = product

	rec := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/products/%s", product.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, exists := productRepo.products[product.ID]; exists {
		t.Error("product should be gone after delete")
	}

	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/products/%s", product.ID), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("deleting twice: expected 404, got %d", rec.Code)
	}
}
