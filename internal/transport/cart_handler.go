package transport

import (
	"net/http"

	"github.com/crowthreads/storefront/internal/domain"
	"github.com/crowthreads/storefront/internal/middleware"
	"github.com/crowthreads/storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddItemRequest represents the add-to-cart payload
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// PromoRequest represents the apply-promo-code payload
type PromoRequest struct {
	PromoCode string `json:"promo_code"`
}

// CartItemResponse is one cart line with its product resolved. Product is
// null when the referenced product no longer exists.
type CartItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Product   *domain.Product `json:"product"`
}

// CartResponse represents a cart prepared for display
type CartResponse struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	Items     []CartItemResponse `json:"items"`
	PromoCode string             `json:"promo_code"`
}

// CartHandler handles HTTP requests for cart operations
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers all cart routes; every route requires auth
func (h *CartHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.GetCart)
		r.Post("/", h.AddItem)
		r.Delete("/items/{productID}", h.RemoveItem)
		r.Patch("/promo", h.SetPromoCode)
	})
}

// GetCart handles fetching the authenticated user's cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	cart, err := h.cartService.GetCart(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to fetch cart", zap.Error(err))
		middleware.RespondWithAppError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toCartResponse(cart))
}

// AddItem handles adding a product selection to the cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req AddItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Add item validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	cart, err := h.cartService.AddItem(r.Context(), userID, productID, req.Quantity, req.Size, req.Color)
	if err != nil {
		h.logger.Error("Failed to add cart item", zap.Error(err))
		middleware.RespondWithAppError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toCartResponse(cart))
}

// RemoveItem handles deleting one cart line. Size and color arrive as
// query parameters so the full merge key is addressed.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	size := r.URL.Query().Get("size")
	color := r.URL.Query().Get("color")

	cart, err := h.cartService.RemoveItem(r.Context(), userID, productID, size, color)
	if err != nil {
		h.logger.Error("Failed to remove cart item", zap.Error(err))
		middleware.RespondWithAppError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toCartResponse(cart))
}

// SetPromoCode handles applying a promo code to the cart
func (h *CartHandler) SetPromoCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req PromoRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Promo validation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart, err := h.cartService.SetPromoCode(r.Context(), userID, req.PromoCode)
	if err != nil {
		h.logger.Error("Failed to set promo code", zap.Error(err))
		middleware.RespondWithAppError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toCartResponse(cart))
}

func toCartResponse(cart *service.ResolvedCart) CartResponse {
	items := make([]CartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, CartItemResponse{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
			Product:   item.Product,
		})
	}

	return CartResponse{
		ID:        cart.ID.String(),
		UserID:    cart.UserID.String(),
		Items:     items,
		PromoCode: cart.PromoCode,
	}
}
