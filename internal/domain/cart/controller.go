package cart

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/nossoguia/guia-compras/internal/domain/pricing"
)

var (
	// ErrEmptyCart is returned when a payment method other than cash is
	// requested while the cart has no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrCheckoutNotReady is returned by Checkout when no store is selected
	// or the cart has no priced items.
	ErrCheckoutNotReady = errors.New("store not selected or cart is empty")
)

// Submission is the checkout hand-off payload passed to the order-submission
// collaborator.
type Submission struct {
	Store   string
	Items   []Item
	Mode    FulfillmentMode
	Payment PaymentMethod
	Total   decimal.Decimal
}

// Submitter delivers a completed order to whatever processes it. The engine
// does not care what happens on the other side.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) error
}

// Controller owns the mutable cart state for a single session. It is not safe
// for concurrent use; callers serialize access so the summary observed after
// a mutation always reflects that mutation.
type Controller struct {
	items     []Item
	mode      FulfillmentMode
	payment   PaymentMethod
	store     string
	submitter Submitter
}

// NewController returns an empty cart in delivery mode. Payment starts as
// cash, the only method allowed on an empty cart.
func NewController(submitter Submitter) *Controller {
	return &Controller{
		mode:      ModeDelivery,
		payment:   PaymentCash,
		submitter: submitter,
	}
}

// InitFromRoute applies the optional route entry parameters. The store is
// selected whenever given; a weight class seeds a single quantity-1 line, but
// only into an empty cart, so re-entering the route never duplicates the seed.
func (c *Controller) InitFromRoute(store string, w pricing.WeightClass) {
	if store != "" {
		c.store = store
	}
	if w != "" && len(c.items) == 0 {
		c.items = append(c.items, NewItem(w))
	}
}

// AddItem appends a new quantity-1 line priced from the current table.
func (c *Controller) AddItem(w pricing.WeightClass) {
	c.items = append(c.items, NewItem(w))
}

// Increment raises the quantity of the line at index by one.
// An out-of-range index is a caller bug and panics.
func (c *Controller) Increment(index int) {
	c.mustIndex(index)
	c.items[index].Quantity++
}

// Decrement lowers the quantity of the line at index by one, clamped at 1.
// Removal is a distinct operation; decrement never deletes a line.
func (c *Controller) Decrement(index int) {
	c.mustIndex(index)
	if c.items[index].Quantity > 1 {
		c.items[index].Quantity--
	}
}

// Remove deletes the line at index. If the cart becomes empty the payment
// method resets to cash.
func (c *Controller) Remove(index int) {
	c.mustIndex(index)
	c.items = append(c.items[:index], c.items[index+1:]...)
	c.normalize()
}

// SetMode switches between pickup and delivery.
func (c *Controller) SetMode(mode FulfillmentMode) {
	c.mode = mode
}

// SetPayment selects the payment method. While the cart is empty, any method
// other than cash is rejected with ErrEmptyCart and the state is unchanged —
// the engine enforces the invariant rather than trusting the caller.
func (c *Controller) SetPayment(method PaymentMethod) error {
	if len(c.items) == 0 && method != PaymentCash {
		return ErrEmptyCart
	}
	c.payment = method
	return nil
}

// SetStore selects the store the order will be placed with.
func (c *Controller) SetStore(name string) {
	c.store = name
}

// Items returns a copy of the current lines.
func (c *Controller) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of lines in the cart.
func (c *Controller) Len() int { return len(c.items) }

// Mode returns the current fulfillment mode.
func (c *Controller) Mode() FulfillmentMode { return c.mode }

// Payment returns the current payment method.
func (c *Controller) Payment() PaymentMethod { return c.payment }

// Store returns the selected store name, or "" if none is selected.
func (c *Controller) Store() string { return c.store }

// Summary recomputes the pricing breakdown from the current state.
func (c *Controller) Summary() Summary {
	return Summarize(c.items, c.mode, c.payment)
}

// CanCheckout reports whether an order can be placed: a store must be
// selected and the subtotal must be positive.
func (c *Controller) CanCheckout() bool {
	return c.store != "" && Subtotal(c.items, c.mode).Sign() > 0
}

// Checkout hands the order off to the submitter. The cart itself is left
// untouched; whether to clear it is the caller's decision.
func (c *Controller) Checkout(ctx context.Context) (Submission, error) {
	if !c.CanCheckout() {
		return Submission{}, ErrCheckoutNotReady
	}

	sub := Submission{
		Store:   c.store,
		Items:   c.Items(),
		Mode:    c.mode,
		Payment: c.payment,
		Total:   c.Summary().Total,
	}
	if err := c.submitter.Submit(ctx, sub); err != nil {
		return Submission{}, errors.Wrap(err, "submit order")
	}
	return sub, nil
}

// normalize re-establishes the empty-cart invariant after a mutation: with no
// items there is nothing to discount or surcharge, so payment is forced back
// to cash.
func (c *Controller) normalize() {
	if len(c.items) == 0 {
		c.payment = PaymentCash
	}
}

// mustIndex asserts the index refers to an existing line. Callers are
// expected to bounds-check user input before reaching the controller.
func (c *Controller) mustIndex(index int) {
	if index < 0 || index >= len(c.items) {
		panic(fmt.Sprintf("cart: line index %d out of range (%d lines)", index, len(c.items)))
	}
}
