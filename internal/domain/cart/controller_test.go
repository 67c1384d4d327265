package cart

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nossoguia/guia-compras/internal/domain/pricing"
)

type mockSubmitter struct {
	last *Submission
	err  error
}

func (m *mockSubmitter) Submit(_ context.Context, sub Submission) error {
	m.last = &sub
	return m.err
}

func TestControllerInitFromRoute(t *testing.T) {
	t.Run("seeds empty cart with store and weight", func(t *testing.T) {
		c := NewController(&mockSubmitter{})
		c.InitFromRoute("DISTRIBUIDORA NORTE", pricing.Weight13)

		assert.Equal(t, "DISTRIBUIDORA NORTE", c.Store())
		require.Equal(t, 1, c.Len())
		assert.Equal(t, pricing.Weight13, c.Items()[0].Weight)
	})

	t.Run("seeding is idempotent on non-empty cart", func(t *testing.T) {
		c := NewController(&mockSubmitter{})
		c.InitFromRoute("DISTRIBUIDORA NORTE", pricing.Weight13)
		c.InitFromRoute("DISTRIBUIDORA NORTE", pricing.Weight13)

		assert.Equal(t, 1, c.Len())
	})

	t.Run("store only selects without seeding", func(t *testing.T) {
		c := NewController(&mockSubmitter{})
		c.InitFromRoute("AMAZONAS DISTRIBUIDORA", "")

		assert.Equal(t, "AMAZONAS DISTRIBUIDORA", c.Store())
		assert.Equal(t, 0, c.Len())
	})
}

func TestControllerQuantityMutations(t *testing.T) {
	c := NewController(&mockSubmitter{})
	c.AddItem(pricing.Weight8)

	c.Increment(0)
	c.Increment(0)
	assert.Equal(t, 3, c.Items()[0].Quantity)

	c.Decrement(0)
	assert.Equal(t, 2, c.Items()[0].Quantity)

	// Decrement clamps at 1 and never removes the line.
	c.Decrement(0)
	c.Decrement(0)
	c.Decrement(0)
	assert.Equal(t, 1, c.Items()[0].Quantity)
	assert.Equal(t, 1, c.Len())
}

func TestControllerIndexContract(t *testing.T) {
	c := NewController(&mockSubmitter{})

	assert.Panics(t, func() { c.Increment(0) })
	assert.Panics(t, func() { c.Decrement(-1) })
	assert.Panics(t, func() { c.Remove(2) })
}

func TestControllerRemoveResetsPayment(t *testing.T) {
	c := NewController(&mockSubmitter{})
	c.AddItem(pricing.Weight13)
	require.NoError(t, c.SetPayment(PaymentPix))

	c.Remove(0)

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, PaymentCash, c.Payment())
}

func TestControllerSetPaymentOnEmptyCart(t *testing.T) {
	c := NewController(&mockSubmitter{})

	err := c.SetPayment(PaymentCredit)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, PaymentCash, c.Payment())

	// Cash is always acceptable.
	assert.NoError(t, c.SetPayment(PaymentCash))

	c.AddItem(pricing.Weight5)
	assert.NoError(t, c.SetPayment(PaymentCredit))
	assert.Equal(t, PaymentCredit, c.Payment())
}

func TestControllerSummaryTracksMutations(t *testing.T) {
	c := NewController(&mockSubmitter{})
	c.AddItem(pricing.Weight5)
	require.NoError(t, c.SetPayment(PaymentPix))

	s := c.Summary()
	assertDecimal(t, "88.81", s.Subtotal)
	assertDecimal(t, "88.31", s.Total)

	c.SetMode(ModePickup)
	s = c.Summary()
	assertDecimal(t, "83.00", s.Subtotal)
	assertDecimal(t, "82.50", s.Total)
}

func TestControllerCanCheckout(t *testing.T) {
	c := NewController(&mockSubmitter{})

	// Neither store nor items.
	assert.False(t, c.CanCheckout())

	// Store set but nothing priced.
	c.SetStore("DISTRIBUIDORA NORTE")
	assert.False(t, c.CanCheckout())

	// Items but store cleared is unreachable through the API, so only the
	// item-less branch is checked the other way around.
	c2 := NewController(&mockSubmitter{})
	c2.AddItem(pricing.Weight13)
	assert.False(t, c2.CanCheckout())

	c.AddItem(pricing.Weight13)
	assert.True(t, c.CanCheckout())
}

func TestControllerCheckout(t *testing.T) {
	t.Run("hands off the full order", func(t *testing.T) {
		sub := &mockSubmitter{}
		c := NewController(sub)
		c.SetStore("AMAZONAS DISTRIBUIDORA")
		c.AddItem(pricing.Weight13)
		require.NoError(t, c.SetPayment(PaymentDebit))

		got, err := c.Checkout(context.Background())
		require.NoError(t, err)
		require.NotNil(t, sub.last)

		assert.Equal(t, "AMAZONAS DISTRIBUIDORA", got.Store)
		assert.Equal(t, ModeDelivery, got.Mode)
		assert.Equal(t, PaymentDebit, got.Payment)
		assertDecimal(t, "162.69", got.Total) // 159.50 + 2%
	})

	t.Run("refuses when not ready", func(t *testing.T) {
		c := NewController(&mockSubmitter{})
		_, err := c.Checkout(context.Background())
		assert.ErrorIs(t, err, ErrCheckoutNotReady)
	})

	t.Run("propagates submitter failure", func(t *testing.T) {
		sub := &mockSubmitter{err: errors.New("backend down")}
		c := NewController(sub)
		c.SetStore("DISTRIBUIDORA NORTE")
		c.AddItem(pricing.Weight5)

		_, err := c.Checkout(context.Background())
		assert.Error(t, err)
	})
}
