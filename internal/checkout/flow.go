package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/kartikmehra/shopkart-backend/internal/clientstate"
	"github.com/kartikmehra/shopkart-backend/pkg/enums"
	pkgerrors "github.com/kartikmehra/shopkart-backend/pkg/errors"
	"github.com/kartikmehra/shopkart-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// Redirect names the page a flow outcome sends the shopper to.
type Redirect string

const (
	RedirectNone   Redirect = ""
	RedirectLogin  Redirect = "login"
	RedirectCart   Redirect = "cart"
	RedirectOrders Redirect = "orders"
)

// User-visible messages. The texts are part of the UI contract.
const (
	MsgFillShipping      = "Please fill in all shipping details"
	MsgEmptyCart         = "Your cart is empty"
	MsgInvalidCartItems  = "Some items in your cart are invalid. Please try clearing your cart and adding the items again."
	MsgBadResponseFormat = "Server returned invalid response format"
	MsgPlaceOrderFailed  = "Failed to place order"
	MsgCartLoadFailed    = "Error loading cart data. Please try refreshing the page."
)

// ErrSubmitInFlight is returned when PlaceOrder is called while an earlier
// submission has not finished. The second call has no side effects.
var ErrSubmitInFlight = errors.New("checkout: submission already in flight")

// Abort tells the caller to leave checkout and where to send the shopper.
type Abort struct {
	Redirect Redirect
	Message  string
}

func (a *Abort) Error() string {
	if a.Message == "" {
		return fmt.Sprintf("checkout aborted, redirect to %s", a.Redirect)
	}
	return a.Message
}

// Submitter delivers an order payload to the order submission endpoint.
type Submitter interface {
	Submit(ctx context.Context, payload OrderPayload) (*PlacedOrder, error)
}

// Controller wires the checkout flow's collaborators: the shopper's client
// state store and the order submission client.
type Controller struct {
	state     *clientstate.Store
	submitter Submitter
	logg      *logger.Logger
}

// NewController builds a checkout controller.
func NewController(state *clientstate.Store, submitter Submitter, logg *logger.Logger) (*Controller, error) {
	if state == nil {
		return nil, fmt.Errorf("client state store required")
	}
	if submitter == nil {
		return nil, fmt.Errorf("order submitter required")
	}
	return &Controller{state: state, submitter: submitter, logg: logg}, nil
}

// Begin loads and validates the stored profile and cart. It returns a live
// Flow, or an *Abort error naming the page to redirect to. Malformed stored
// cart data is cleared before redirecting: consistency over preservation.
func (c *Controller) Begin(ctx context.Context) (*Flow, error) {
	profile, err := c.state.Profile(ctx)
	if err != nil {
		if errors.Is(err, clientstate.ErrNotFound) {
			return nil, &Abort{Redirect: RedirectLogin}
		}
		return nil, c.abortWithCartReset(ctx, err)
	}

	rawCart, err := c.state.Cart(ctx)
	if err != nil {
		if errors.Is(err, clientstate.ErrNotFound) {
			return nil, &Abort{Redirect: RedirectCart}
		}
		return nil, c.abortWithCartReset(ctx, err)
	}

	items, violations := ValidateItems(rawCart)
	if len(violations) > 0 && c.logg != nil {
		vctx := c.logg.WithField(ctx, "dropped_items", len(violations))
		c.logg.Warn(vctx, "cart entries failed validation")
	}
	if len(items) == 0 {
		return nil, c.abortWithCartReset(ctx, errors.New("no valid items in cart"))
	}

	return &Flow{
		ctrl:  c,
		items: items,
		shipping: ShippingDetails{
			Name:    profile.Username,
			Email:   profile.Email,
			Phone:   profile.Phone,
			Address: profile.Address,
		},
		payment: enums.PaymentMethodCOD,
	}, nil
}

func (c *Controller) abortWithCartReset(ctx context.Context, cause error) error {
	if c.logg != nil {
		c.logg.Error(ctx, "failed to load checkout state", cause)
	}
	if err := c.state.ClearCart(ctx); err != nil && c.logg != nil {
		c.logg.Error(ctx, "failed to clear invalid cart", err)
	}
	return &Abort{Redirect: RedirectCart, Message: MsgCartLoadFailed}
}

// Placement is the successful outcome of PlaceOrder.
type Placement struct {
	Order    *PlacedOrder
	Redirect Redirect
}

// Flow owns the transient checkout state for one shopper session: the
// validated items, the shipping form, and the submission guard.
type Flow struct {
	ctrl     *Controller
	items    []CartItem
	shipping ShippingDetails
	payment  enums.PaymentMethod

	errMsg     string
	submitting atomic.Bool
}

// Items returns the validated cart lines.
func (f *Flow) Items() []CartItem {
	return f.items
}

// Shipping returns the current form state.
func (f *Flow) Shipping() ShippingDetails {
	return f.shipping
}

// Total is the displayed order total over the surviving items.
func (f *Flow) Total() decimal.Decimal {
	return SumTotal(f.items)
}

// VisibleError is the inline message shown to the shopper, empty when none.
func (f *Flow) VisibleError() string {
	return f.errMsg
}

// Submitting reports whether a PlaceOrder call is in flight.
func (f *Flow) Submitting() bool {
	return f.submitting.Load()
}

// PaymentMethod returns the currently selected payment method.
func (f *Flow) PaymentMethod() enums.PaymentMethod {
	return f.payment
}

// SetPaymentMethod selects one of the allowed payment methods.
func (f *Flow) SetPaymentMethod(method enums.PaymentMethod) error {
	if !method.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", method))
	}
	f.payment = method
	return nil
}

// SetField updates a single shipping field, leaving the others untouched.
// Field names match the form input names.
func (f *Flow) SetField(field, value string) error {
	switch field {
	case "name":
		f.shipping.Name = value
	case "email":
		f.shipping.Email = value
	case "phone":
		f.shipping.Phone = value
	case "address":
		f.shipping.Address = value
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown shipping field %q", field))
	}
	return nil
}

// PlaceOrder validates the form and cart, builds the order payload, submits
// it, and finalizes the shopper's client state on success. Failures set the
// visible error and leave cart and profile untouched so the shopper can
// retry.
func (f *Flow) PlaceOrder(ctx context.Context) (*Placement, error) {
	if !f.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer f.submitting.Store(false)
	f.errMsg = ""

	if f.shipping.Name == "" || f.shipping.Email == "" || f.shipping.Phone == "" || f.shipping.Address == "" {
		return nil, f.fail(pkgerrors.New(pkgerrors.CodeValidation, MsgFillShipping))
	}
	if len(f.items) == 0 {
		return nil, f.fail(pkgerrors.New(pkgerrors.CodeValidation, MsgEmptyCart))
	}

	// Items may have been tampered with between load and submit.
	for _, item := range f.items {
		if item.ID == "" {
			if err := f.ctrl.state.ClearCart(ctx); err != nil && f.ctrl.logg != nil {
				f.ctrl.logg.Error(ctx, "failed to clear tampered cart", err)
			}
			return nil, f.fail(pkgerrors.New(pkgerrors.CodeValidation, MsgInvalidCartItems))
		}
	}

	payload := f.buildPayload()
	placed, err := f.ctrl.submitter.Submit(ctx, payload)
	if err != nil {
		if f.ctrl.logg != nil {
			f.ctrl.logg.Error(ctx, "order submission failed", err)
		}
		return nil, f.fail(err)
	}

	if err := f.ctrl.state.ClearCart(ctx); err != nil && f.ctrl.logg != nil {
		f.ctrl.logg.Error(ctx, "failed to clear cart after order", err)
	}
	if err := f.ctrl.state.MergeContact(ctx, f.shipping.Address, f.shipping.Phone); err != nil && f.ctrl.logg != nil {
		f.ctrl.logg.Error(ctx, "failed to merge contact into profile", err)
	}

	return &Placement{Order: placed, Redirect: RedirectOrders}, nil
}

func (f *Flow) buildPayload() OrderPayload {
	lines := make([]LineItem, 0, len(f.items))
	for _, item := range f.items {
		lines = append(lines, LineItem{
			ProductID: item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	return OrderPayload{
		User: Contact{
			Name:    f.shipping.Name,
			Email:   f.shipping.Email,
			Address: f.shipping.Address,
			Phone:   f.shipping.Phone,
		},
		Products:       lines,
		TotalAmount:    SumTotal(f.items),
		Status:         enums.OrderStatusPending,
		OrderDate:      time.Now().UTC(),
		PaymentMethod:  f.payment,
		PaymentStatus:  enums.DerivePaymentStatus(f.payment),
		IdempotencyKey: uuid.NewString(),
	}
}

// fail records the user-visible message for err and passes it through.
func (f *Flow) fail(err error) error {
	f.errMsg = visibleMessage(err)
	return err
}

func visibleMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrInvalidResponseFormat) {
		return MsgBadResponseFormat
	}
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return srvErr.Message
	}
	if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
		return typed.Message()
	}
	return err.Error()
}
