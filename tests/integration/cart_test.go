//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func createCartSession(t *testing.T, query string) cartResponse {
	t.Helper()

	resp := doPost(t, "/api/v1/cart"+query, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create cart: expected 201, got %d", resp.StatusCode)
	}

	c := decodeJSON[cartResponse](t, resp)
	if c.ID == "" {
		t.Fatal("create cart: empty session id")
	}
	return c
}

func TestCreateCart_FromDistributorRoute(t *testing.T) {
	c := createCartSession(t, "?store=DISTRIBUIDORA+NORTE&weight=13+kg")

	if c.Store != "DISTRIBUIDORA NORTE" {
		t.Errorf("store: got %q, want DISTRIBUIDORA NORTE", c.Store)
	}
	if c.Mode != "delivery" {
		t.Errorf("mode: got %q, want delivery", c.Mode)
	}
	if c.Payment != "cash" {
		t.Errorf("payment: got %q, want cash", c.Payment)
	}
	if len(c.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(c.Items))
	}
	if c.Summary.Total != 159.50 {
		t.Errorf("total: got %.2f, want 159.50", c.Summary.Total)
	}
	if !c.CanCheckout {
		t.Error("seeded cart with a store should be checkout-ready")
	}
}

func TestGetCart_UnknownSession(t *testing.T) {
	resp := doGet(t, "/api/v1/cart/no-such-session")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Code != http.StatusNotFound {
		t.Errorf("error code: got %d, want 404", body.Code)
	}
}

func TestCartFlow_AddMutateCheckout(t *testing.T) {
	c := createCartSession(t, "?store=DISTRIBUIDORA+NORTE&weight=13+kg")
	base := "/api/v1/cart/" + c.ID

	// Add a second bottle line.
	resp := doPost(t, base+"/items", map[string]string{"weight": "5 kg"})
	c = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(c.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(c.Items))
	}
	if c.Summary.Total != 248.31 {
		t.Errorf("total after add: got %.2f, want 248.31", c.Summary.Total)
	}

	// Increment the new line, then remove it again.
	resp = doPost(t, base+"/items/1/increment", nil)
	c = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if c.Items[1].Quantity != 2 {
		t.Errorf("quantity after increment: got %d, want 2", c.Items[1].Quantity)
	}

	resp = doJSON(t, http.MethodDelete, base+"/items/1", nil)
	c = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(c.Items) != 1 {
		t.Fatalf("expected 1 item after delete, got %d", len(c.Items))
	}

	// PIX knocks 0.50 off the total.
	resp = doJSON(t, http.MethodPut, base+"/payment", map[string]string{"payment": "pix"})
	c = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if c.Summary.Total != 159.00 {
		t.Errorf("total with pix: got %.2f, want 159.00", c.Summary.Total)
	}

	resp = doPost(t, base+"/checkout", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("checkout: expected 200, got %d", resp.StatusCode)
	}

	order := decodeJSON[checkoutResponse](t, resp)
	if order.Store != "DISTRIBUIDORA NORTE" {
		t.Errorf("order store: got %q, want DISTRIBUIDORA NORTE", order.Store)
	}
	if order.Payment != "pix" {
		t.Errorf("order payment: got %q, want pix", order.Payment)
	}
	if order.Total != 159.00 {
		t.Errorf("order total: got %.2f, want 159.00", order.Total)
	}
}

func TestCartDecrement_ClampsAtOne(t *testing.T) {
	c := createCartSession(t, "?weight=10+kg")
	base := "/api/v1/cart/" + c.ID

	resp := doPost(t, base+"/items/0/decrement", nil)
	c = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()

	if c.Items[0].Quantity != 1 {
		t.Errorf("quantity: got %d, want 1", c.Items[0].Quantity)
	}
	if c.Summary.Subtotal != 136.25 {
		t.Errorf("subtotal: got %.2f, want 136.25", c.Summary.Subtotal)
	}
}

func TestCartItemIndex_OutOfRange(t *testing.T) {
	c := createCartSession(t, "?weight=13+kg")

	resp := doPost(t, "/api/v1/cart/"+c.ID+"/items/5/increment", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestSetMode_Pickup(t *testing.T) {
	c := createCartSession(t, "?store=SEU+G%C3%81S&weight=13+kg")

	resp := doJSON(t, http.MethodPut, "/api/v1/cart/"+c.ID+"/mode", map[string]string{"mode": "pickup"})
	c = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()

	if c.Mode != "pickup" {
		t.Errorf("mode: got %q, want pickup", c.Mode)
	}
	if c.Summary.Total != 145.00 {
		t.Errorf("pickup total: got %.2f, want 145.00", c.Summary.Total)
	}
}

func TestSetPayment_EmptyCartConflict(t *testing.T) {
	c := createCartSession(t, "")
	if len(c.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(c.Items))
	}

	resp := doJSON(t, http.MethodPut, "/api/v1/cart/"+c.ID+"/payment", map[string]string{"payment": "credit"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestCheckout_WithoutStoreConflict(t *testing.T) {
	c := createCartSession(t, "?weight=13+kg")
	if c.CanCheckout {
		t.Fatal("cart without a store should not be checkout-ready")
	}

	resp := doPost(t, "/api/v1/cart/"+c.ID+"/checkout", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestSetPayment_UnknownMethod(t *testing.T) {
	c := createCartSession(t, "?weight=13+kg")

	resp := doJSON(t, http.MethodPut, "/api/v1/cart/"+c.ID+"/payment", map[string]string{"payment": "barter"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}
