package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/crowthreads/storefront/internal/apperror"
	"github.com/crowthreads/storefront/internal/domain"
	"github.com/crowthreads/storefront/internal/repository"

	"github.com/google/uuid"
)

// ResolvedCartItem is a cart line joined with its current product record.
// Product is nil when the referenced product has been deleted.
type ResolvedCartItem struct {
	domain.CartItem
	Product *domain.Product
}

// ResolvedCart is a cart prepared for display, with product details
// resolved for every line.
type ResolvedCart struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	PromoCode string
	Items     []ResolvedCartItem
}

// CartService defines the interface for cart business logic
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*ResolvedCart, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int, size, color string) (*ResolvedCart, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID, size, color string) (*ResolvedCart, error)
	SetPromoCode(ctx context.Context, userID uuid.UUID, code string) (*ResolvedCart, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the user's cart with product details resolved. A user
// without a cart gets a fresh empty one.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*ResolvedCart, error) {
	cart, err := s.findOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, cart)
}

// AddItem adds a product selection to the cart. A line with the same
// (product, size, color) key absorbs the quantity instead of duplicating
// the row.
func (s *cartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int, size, color string) (*ResolvedCart, error) {
	if quantity <= 0 {
		return nil, apperror.New(apperror.Validation, "quantity must be a positive integer")
	}

	cart, err := s.findOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	var existing *domain.CartItem
	for i := range cart.Items {
		if cart.Items[i].MatchesKey(productID, size, color) {
			existing = &cart.Items[i]
			break
		}
	}

	if existing != nil {
		if err := s.cartRepo.UpdateItemQuantity(ctx, existing.ID, existing.Quantity+quantity); err != nil {
			return nil, apperror.Wrap(apperror.Unexpected, err, "failed to update cart item")
		}
	} else {
		item := &domain.CartItem{
			ID:        uuid.New(),
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			Size:      size,
			Color:     color,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := s.cartRepo.InsertItem(ctx, item); err != nil {
			return nil, apperror.Wrap(apperror.Unexpected, err, "failed to add cart item")
		}
	}

	return s.reload(ctx, userID)
}

// RemoveItem deletes the line matching the full (product, size, color)
// key. Removing a line that is not there leaves the cart unchanged.
func (s *cartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID, size, color string) (*ResolvedCart, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, apperror.New(apperror.NotFound, "cart not found")
		}
		return nil, apperror.Wrap(apperror.Unexpected, err, "failed to load cart")
	}

	if err := s.cartRepo.DeleteItem(ctx, cart.ID, productID, size, color); err != nil {
		return nil, apperror.Wrap(apperror.Unexpected, err, "failed to remove cart item")
	}

	return s.reload(ctx, userID)
}

// SetPromoCode stores the upper-cased code on the cart. Codes are not
// checked against the rule table here; an unrecognized code simply
// evaluates to zero discount later.
func (s *cartService) SetPromoCode(ctx context.Context, userID uuid.UUID, code string) (*ResolvedCart, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, apperror.New(apperror.NotFound, "cart not found")
		}
		return nil, apperror.Wrap(apperror.Unexpected, err, "failed to load cart")
	}

	if err := s.cartRepo.SetPromoCode(ctx, cart.ID, strings.ToUpper(code)); err != nil {
		return nil, apperror.Wrap(apperror.Unexpected, err, "failed to set promo code")
	}

	return s.reload(ctx, userID)
}

func (s *cartService) findOrCreateCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrCartNotFound) {
		return nil, apperror.Wrap(apperror.Unexpected, err, "failed to load cart")
	}

	cart = &domain.Cart{
		ID:        uuid.New(),
		UserID:    userID,
		Items:     []domain.CartItem{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.cartRepo.Create(ctx, cart); err != nil {
		return nil, apperror.Wrap(apperror.Unexpected, err, "failed to create cart")
	}

	return cart, nil
}

func (s *cartService) reload(ctx context.Context, userID uuid.UUID) (*ResolvedCart, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(apperror.Unexpected, err, "failed to reload cart")
	}
	return s.resolve(ctx, cart)
}

// resolve joins each line with the current product record. Lines whose
// product is gone keep a nil Product; display shows them as unavailable
// and checkout drops them.
func (s *cartService) resolve(ctx context.Context, cart *domain.Cart) (*ResolvedCart, error) {
	resolved := &ResolvedCart{
		ID:        cart.ID,
		UserID:    cart.UserID,
		PromoCode: cart.PromoCode,
		Items:     make([]ResolvedCartItem, 0, len(cart.Items)),
	}

	for _, item := range cart.Items {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil && !errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperror.Wrap(apperror.Unexpected, err, "failed to resolve product")
		}
		resolved.Items = append(resolved.Items, ResolvedCartItem{
			CartItem: item,
			Product:  product,
		})
	}

	return resolved, nil
}
