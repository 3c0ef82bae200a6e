package repository

import (
	"context"
	"testing"
	"time"

	"github.com/crowthreads/storefront/internal/domain"

	"github.com/google/uuid"
)

func buildOrder(userID uuid.UUID, createdAt time.Time, lines int) *domain.Order {
	order := &domain.Order{
		ID:                   uuid.New(),
		UserID:               userID,
		TotalCents:           2500,
		DiscountedTotalCents: 2250,
		Discount:             0.10,
		PromoCode:            "CROW10",
		CreatedAt:            createdAt,
	}
	for i := 0; i < lines; i++ {
		order.Items = append(order.Items, domain.OrderItem{
			ID:         uuid.New(),
			OrderID:    order.ID,
			ProductID:  uuid.New(),
			Quantity:   1 + i,
			PriceCents: 1000,
			Size:       "M",
			Color:      "black",
		})
	}
	return order
}

func TestCreateFromCartCommitsBothWrites(t *testing.T) {
	orderRepo := NewOrderRepository(testDB)
	cartRepo := NewCartRepository(testDB)
	ctx := context.Background()
	user := createTestUser(t)
	cart := createTestCart(t, user.ID)
	insertTestItem(t, cart.ID, 2, "M", "black")
	if err := cartRepo.SetPromoCode(ctx, cart.ID, "CROW10"); err != nil {
		t.Fatalf("SetPromoCode failed: %v", err)
	}

	order := buildOrder(user.ID, time.Now(), 2)
	if err := orderRepo.CreateFromCart(ctx, order, cart.ID); err != nil {
		t.Fatalf("CreateFromCart failed: %v", err)
	}

	// The order landed with its items
	orders, err := orderRepo.FindByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByUser failed: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	if len(orders[0].Items) != 2 {
		t.Errorf("expected 2 order items, got %d", len(orders[0].Items))
	}
	if orders[0].TotalCents != 2500 || orders[0].DiscountedTotalCents != 2250 {
		t.Errorf("totals not persisted: %d / %d", orders[0].TotalCents, orders[0].DiscountedTotalCents)
	}
	if orders[0].Discount != 0.10 {
		t.Errorf("discount not persisted: %v", orders[0].Discount)
	}

	// And the cart is empty with the promo cleared
	emptied, err := cartRepo.FindByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByUser failed: %v", err)
	}
	if len(emptied.Items) != 0 {
		t.Errorf("cart should be empty after checkout, got %d items", len(emptied.Items))
	}
	if emptied.PromoCode != "" {
		t.Errorf("promo code should be cleared, got %q", emptied.PromoCode)
	}
}

func TestCreateFromCartRollsBackOnFailure(t *testing.T) {
	orderRepo := NewOrderRepository(testDB)
	cartRepo := NewCartRepository(testDB)
	ctx := context.Background()
	user := createTestUser(t)
	cart := createTestCart(t, user.ID)
	insertTestItem(t, cart.ID, 1, "M", "black")

	// The negative quantity violates the order_items check constraint,
	// failing the transaction after the order row was written.
	order := buildOrder(user.ID, time.Now(), 0)
	order.Items = append(order.Items, domain.OrderItem{
		ID:         uuid.New(),
		OrderID:    order.ID,
		ProductID:  uuid.New(),
		Quantity:   -1,
		PriceCents: 1000,
	})

	if err := orderRepo.CreateFromCart(ctx, order, cart.ID); err == nil {
		t.Fatal("expected CreateFromCart to fail")
	}

	// Nothing committed: no order, cart untouched
	orders, err := orderRepo.FindByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByUser failed: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("failed checkout must not leave an order behind, got %d", len(orders))
	}

	found, err := cartRepo.FindByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByUser failed: %v", err)
	}
	if len(found.Items) != 1 {
		t.Errorf("failed checkout must leave the cart intact, got %d items", len(found.Items))
	}
}

func TestOrdersNewestFirst(t *testing.T) {
	orderRepo := NewOrderRepository(testDB)
	ctx := context.Background()
	user := createTestUser(t)
	cart := createTestCart(t, user.ID)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		order := buildOrder(user.ID, base.Add(time.Duration(i)*time.Minute), 1)
		if err := orderRepo.CreateFromCart(ctx, order, cart.ID); err != nil {
			t.Fatalf("CreateFromCart %d failed: %v", i, err)
		}
	}

	orders, err := orderRepo.FindByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByUser failed: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}
	for i := 1; i < len(orders); i++ {
		if orders[i].CreatedAt.After(orders[i-1].CreatedAt) {
			t.Error("orders are not sorted newest first")
		}
	}
}

func TestOrderItemsSurviveProductDeletion(t *testing.T) {
	orderRepo := NewOrderRepository(testDB)
	productRepo := NewProductRepository(testDB)
	ctx := context.Background()
	user := createTestUser(t)
	cart := createTestCart(t, user.ID)

	product := &domain.Product{
		ID:         uuid.New(),
		Name:       "Retired Tee",
		PriceCents: 1500,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := productRepo.Create(ctx, product); err != nil {
		t.Fatalf("Create product failed: %v", err)
	}

	order := buildOrder(user.ID, time.Now(), 0)
	order.Items = []domain.OrderItem{{
		ID:         uuid.New(),
		OrderID:    order.ID,
		ProductID:  product.ID,
		Quantity:   1,
		PriceCents: product.PriceCents,
	}}
	if err := orderRepo.CreateFromCart(ctx, order, cart.ID); err != nil {
		t.Fatalf("CreateFromCart failed: %v", err)
	}

	if err := productRepo.Delete(ctx, product.ID); err != nil {
		t.Fatalf("Delete product failed: %v", err)
	}

	orders, err := orderRepo.FindByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByUser failed: %v", err)
	}
	if len(orders[0].Items) != 1 {
		t.Fatalf("order line should outlive its product")
	}
	if orders[0].Items[0].PriceCents != 1500 {
		t.Errorf("frozen price changed: %d", orders[0].Items[0].PriceCents)
	}
}
