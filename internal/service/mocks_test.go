package service

import (
	"context"
	"sort"

	"github.com/crowthreads/storefront/internal/domain"
	"github.com/crowthreads/storefront/internal/repository"

	"github.com/google/uuid"
)

// Mock repositories for testing

type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; !exists {
		return repository.ErrUserNotFound
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{
		tokens: make(map[string]*domain.RefreshToken),
	}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		products: make(map[uuid.UUID]*domain.Product),
	}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.products[id]; !exists {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (m *mockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	products := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

type mockCartRepository struct {
	carts map[uuid.UUID]*domain.Cart // keyed by user ID
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{
		carts: make(map[uuid.UUID]*domain.Cart),
	}
}

func (m *mockCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	cart, exists := m.carts[userID]
	if !exists {
		return nil, repository.ErrCartNotFound
	}
	return cart, nil
}

func (m *mockCartRepository) Create(ctx context.Context, cart *domain.Cart) error {
	m.carts[cart.UserID] = cart
	return nil
}

func (m *mockCartRepository) findByID(cartID uuid.UUID) *domain.Cart {
	for _, cart := range m.carts {
		if cart.ID == cartID {
			return cart
		}
	}
	return nil
}

func (m *mockCartRepository) InsertItem(ctx context.Context, item *domain.CartItem) error {
	cart := m.findByID(item.CartID)
	if cart == nil {
		return repository.ErrCartNotFound
	}
	cart.Items = append(cart.Items, *item)
	return nil
}

func (m *mockCartRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	for _, cart := range m.carts {
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				cart.Items[i].Quantity = quantity
				return nil
			}
		}
	}
	return repository.ErrCartNotFound
}

func (m *mockCartRepository) DeleteItem(ctx context.Context, cartID, productID uuid.UUID, size, color string) error {
	cart := m.findByID(cartID)
	if cart == nil {
		return repository.ErrCartNotFound
	}
	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if !item.MatchesKey(productID, size, color) {
			kept = append(kept, item)
		}
	}
	cart.Items = kept
	return nil
}

func (m *mockCartRepository) SetPromoCode(ctx context.Context, cartID uuid.UUID, code string) error {
	cart := m.findByID(cartID)
	if cart == nil {
		return repository.ErrCartNotFound
	}
	cart.PromoCode = code
	return nil
}

// mockOrderRepository mimics the transactional contract of the real
// repository: a successful CreateFromCart stores the order and empties the
// cart; a failure stores nothing and leaves the cart alone.
type mockOrderRepository struct {
	cartRepo *mockCartRepository
	orders   []*domain.Order
	failErr  error
}

func newMockOrderRepository(cartRepo *mockCartRepository) *mockOrderRepository {
	return &mockOrderRepository{cartRepo: cartRepo}
}

func (m *mockOrderRepository) CreateFromCart(ctx context.Context, order *domain.Order, cartID uuid.UUID) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.orders = append(m.orders, order)
	if cart := m.cartRepo.findByID(cartID); cart != nil {
		cart.Items = nil
		cart.PromoCode = ""
	}
	return nil
}

func (m *mockOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	var orders []*domain.Order
	for _, order := range m.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// noopCodeSender records sent codes without delivering anything
type noopCodeSender struct {
	sent map[string]string // email -> last code
}

func newNoopCodeSender() *noopCodeSender {
	return &noopCodeSender{sent: make(map[string]string)}
}

func (s *noopCodeSender) SendVerificationCode(ctx context.Context, email, code string) error {
	s.sent[email] = code
	return nil
}
