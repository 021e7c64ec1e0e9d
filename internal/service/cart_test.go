package service

import (
	"testing"
	"time"

	"github.com/toorogadgets/toorogadgets-storefront-service/internal/models"
)

func testProduct(id string, price int64) models.Product {
	return models.Product{ID: id, Name: "Product " + id, Price: price, Category: models.CategoryAccessories}
}

func TestCartService_AddSameProductTwice(t *testing.T) {
	svc := NewCartService()
	p := testProduct("p1", 100000)

	svc.Add("sess", p)
	cart := svc.Add("sess", p)

	if len(cart.Lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(cart.Lines))
	}
	if cart.Lines[0].Quantity != 2 {
		t.Errorf("Quantity = %d, want 2", cart.Lines[0].Quantity)
	}
	if cart.Count() != 2 {
		t.Errorf("Count() = %d, want 2", cart.Count())
	}
}

func TestCartService_UpdateQuantityBelowOneIsNoop(t *testing.T) {
	svc := NewCartService()
	svc.Add("sess", testProduct("p1", 100000))

	cart := svc.UpdateQuantity("sess", "p1", 0)
	if cart.Lines[0].Quantity != 1 {
		t.Errorf("Quantity after update to 0 = %d, want 1 (no-op)", cart.Lines[0].Quantity)
	}

	cart = svc.UpdateQuantity("sess", "p1", -3)
	if cart.Lines[0].Quantity != 1 {
		t.Errorf("Quantity after update to -3 = %d, want 1 (no-op)", cart.Lines[0].Quantity)
	}

	cart = svc.UpdateQuantity("sess", "p1", 5)
	if cart.Lines[0].Quantity != 5 {
		t.Errorf("Quantity after update to 5 = %d, want 5", cart.Lines[0].Quantity)
	}
}

func TestCartService_RemoveEliminatesLine(t *testing.T) {
	svc := NewCartService()
	svc.Add("sess", testProduct("p1", 100000))
	svc.Add("sess", testProduct("p2", 200000))

	cart := svc.Remove("sess", "p1")
	if len(cart.Lines) != 1 {
		t.Fatalf("Expected 1 line after removal, got %d", len(cart.Lines))
	}
	if cart.Lines[0].Product.ID != "p2" {
		t.Errorf("Wrong line removed: remaining is %q", cart.Lines[0].Product.ID)
	}
}

func TestCartService_Subtotal(t *testing.T) {
	svc := NewCartService()
	svc.Add("sess", testProduct("p1", 100000))
	svc.Add("sess", testProduct("p1", 100000))
	svc.Add("sess", testProduct("p2", 250000))

	cart := svc.Get("sess")
	if got := cart.Subtotal(); got != 450000 {
		t.Errorf("Subtotal() = %d, want 450000", got)
	}
}

func TestCartService_SessionsAreIsolated(t *testing.T) {
	svc := NewCartService()
	svc.Add("sess_a", testProduct("p1", 100000))

	if !svc.Get("sess_b").Empty() {
		t.Error("Another session's cart is not empty")
	}
}

func TestCartService_ClearEmptiesCart(t *testing.T) {
	svc := NewCartService()
	svc.Add("sess", testProduct("p1", 100000))

	svc.Clear("sess")
	if !svc.Get("sess").Empty() {
		t.Error("Cart not empty after Clear")
	}
}

func TestCartService_ToastsExpire(t *testing.T) {
	svc := NewCartService()
	current := time.Now()
	svc.now = func() time.Time { return current }

	svc.Add("sess", testProduct("p1", 100000))
	if got := len(svc.Toasts("sess")); got != 1 {
		t.Fatalf("Expected 1 live toast, got %d", got)
	}

	current = current.Add(toastDuration + time.Second)
	if got := len(svc.Toasts("sess")); got != 0 {
		t.Errorf("Expected toasts to expire, got %d", got)
	}
}

func TestCartService_SnapshotIsDetached(t *testing.T) {
	svc := NewCartService()
	svc.Add("sess", testProduct("p1", 100000))

	snapshot := svc.Get("sess")
	snapshot.Lines[0].Quantity = 99

	if svc.Get("sess").Lines[0].Quantity != 1 {
		t.Error("Mutating a snapshot changed the stored cart")
	}
}
