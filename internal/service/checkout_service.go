package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/crowthreads/storefront/internal/apperror"
	"github.com/crowthreads/storefront/internal/domain"
	"github.com/crowthreads/storefront/internal/promo"
	"github.com/crowthreads/storefront/internal/repository"

	"github.com/google/uuid"
)

// CheckoutService converts a cart into an order and lists order history
type CheckoutService interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
}

type checkoutService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

// NewCheckoutService creates a new instance of CheckoutService
func NewCheckoutService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) CheckoutService {
	return &checkoutService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// Checkout turns the user's cart into an order.
//
// Lines whose product has been deleted since they were added are dropped.
// Prices are read fresh from the catalog and frozen onto the order; the
// order insert and the cart reset commit in one transaction, so a failure
// leaves the cart intact and no order behind.
func (s *checkoutService) Checkout(ctx context.Context, userID uuid.UUID) (*domain.Order, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, apperror.New(apperror.NotFound, "cart not found")
		}
		return nil, apperror.Wrap(apperror.Unexpected, err, "failed to load cart")
	}

	if len(cart.Items) == 0 {
		return nil, apperror.New(apperror.InvalidState, "cannot create an order with an empty cart")
	}

	orderID := uuid.New()
	var items []domain.OrderItem
	var totalCents int64

	for _, line := range cart.Items {
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				// Product deleted after it was added to the cart.
				continue
			}
			return nil, apperror.Wrap(apperror.Unexpected, err, "failed to resolve product")
		}

		items = append(items, domain.OrderItem{
			ID:         uuid.New(),
			OrderID:    orderID,
			ProductID:  product.ID,
			Quantity:   line.Quantity,
			PriceCents: product.PriceCents,
			Size:       line.Size,
			Color:      line.Color,
		})
		totalCents += int64(line.Quantity) * product.PriceCents
	}

	if len(items) == 0 {
		return nil, apperror.New(apperror.InvalidState, "cart contains no valid items to order")
	}

	discount := promo.Evaluate(cart.PromoCode)

	order := &domain.Order{
		ID:                   orderID,
		UserID:               userID,
		Items:                items,
		TotalCents:           totalCents,
		DiscountedTotalCents: applyDiscount(totalCents, discount),
		Discount:             discount,
		PromoCode:            cart.PromoCode,
		CreatedAt:            time.Now(),
	}

	if err := s.orderRepo.CreateFromCart(ctx, order, cart.ID); err != nil {
		return nil, apperror.Wrap(apperror.Unexpected, err, "failed to create order")
	}

	return order, nil
}

// ListOrders retrieves the user's order history, newest first
func (s *checkoutService) ListOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	orders, err := s.orderRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(apperror.Unexpected, err, "failed to list orders")
	}
	return orders, nil
}

// applyDiscount computes total * (1 - rate) in cents, rounded half up.
func applyDiscount(totalCents int64, rate float64) int64 {
	return int64(math.Round(float64(totalCents) * (1 - rate)))
}
