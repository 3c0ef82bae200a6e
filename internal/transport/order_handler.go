package transport

import (
	"net/http"
	"time"

	"github.com/crowthreads/storefront/internal/domain"
	"github.com/crowthreads/storefront/internal/middleware"
	"github.com/crowthreads/storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderItemResponse is one frozen order line
type OrderItemResponse struct {
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
	Size       string `json:"size"`
	Color      string `json:"color"`
}

// OrderResponse represents a placed order
type OrderResponse struct {
	ID                   string              `json:"id"`
	UserID               string              `json:"user_id"`
	Items                []OrderItemResponse `json:"items"`
	TotalCents           int64               `json:"total_cents"`
	DiscountedTotalCents int64               `json:"discounted_total_cents"`
	Discount             float64             `json:"discount"`
	PromoCode            string              `json:"promo_code,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
}

// OrderHandler handles HTTP requests for checkout and order history
type OrderHandler struct {
	checkoutService service.CheckoutService
	logger          *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(checkoutService service.CheckoutService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// RegisterRoutes registers all order routes; every route requires auth
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Checkout)
		r.Get("/", h.ListOrders)
	})
}

// Checkout handles placing an order from the user's cart
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	order, err := h.checkoutService.Checkout(r.Context(), userID)
	if err != nil {
		h.logger.Warn("Checkout failed", zap.String("user_id", userID.String()), zap.Error(err))
		middleware.RespondWithAppError(w, err)
		return
	}

	h.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int64("total_cents", order.DiscountedTotalCents))

	middleware.RespondWithJSON(w, http.StatusCreated, toOrderResponse(order))
}

// ListOrders handles fetching the user's order history, newest first
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orders, err := h.checkoutService.ListOrders(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithAppError(w, err)
		return
	}

	responses := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, toOrderResponse(order))
	}

	middleware.RespondWithJSON(w, http.StatusOK, responses)
}

func toOrderResponse(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ProductID:  item.ProductID.String(),
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
			Size:       item.Size,
			Color:      item.Color,
		})
	}

	return OrderResponse{
		ID:                   order.ID.String(),
		UserID:               order.UserID.String(),
		Items:                items,
		TotalCents:           order.TotalCents,
		DiscountedTotalCents: order.DiscountedTotalCents,
		Discount:             order.Discount,
		PromoCode:            order.PromoCode,
		CreatedAt:            order.CreatedAt,
	}
}
