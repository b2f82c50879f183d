package checkout

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ArslanEjaz61/carzar-backend/internal/cart"
	"github.com/ArslanEjaz61/carzar-backend/internal/notify"
	"github.com/ArslanEjaz61/carzar-backend/internal/order"
)

const orderNumberPartition = "orders"

// NumberSource hands out the next value for order-number generation.
// Satisfied by sequence.Repository.
type NumberSource interface {
	NextSequence(ctx context.Context, partitionKey string) (int64, error)
}

// EventPublisher pushes the order-placed event. Best-effort only.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, o *order.Order) error
}

// Result is what a successful placement hands back to the caller: the
// persisted order plus the composed notification for manual dispatch.
type Result struct {
	Order        *order.Order
	Notification notify.Payload
}

// Orchestrator owns order placement: it snapshots the cart, prices the order,
// persists it and fires the best-effort side effects. Validation happens
// before any I/O; persistence failures leave the cart untouched so the
// shopper can retry.
type Orchestrator struct {
	orders    order.Repository
	carts     *cart.Service
	numbers   NumberSource
	publisher EventPublisher
	pricing   Pricing
	logger    *log.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewOrchestrator(orders order.Repository, carts *cart.Service, numbers NumberSource, publisher EventPublisher, pricing Pricing, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		orders:    orders,
		carts:     carts,
		numbers:   numbers,
		publisher: publisher,
		pricing:   pricing,
		logger:    logger,
		inFlight:  make(map[string]struct{}),
	}
}

// PlaceOrder runs the final transition of the checkout session. The
// per-session in-flight guard means an impatient double submit cannot create
// two orders from the same cart.
func (o *Orchestrator) PlaceOrder(ctx context.Context, s *Session) (*Result, error) {
	if !s.ReadyToPlace() {
		return nil, ErrNotReady
	}

	if !o.acquire(s.SessionID) {
		return nil, ErrPlacementInFlight
	}
	defer o.release(s.SessionID)

	ord, err := o.buildOrder(s)
	if err != nil {
		return nil, err
	}

	seq, err := o.numbers.NextSequence(ctx, orderNumberPartition)
	if err != nil {
		return nil, &PersistenceError{Op: "order number generation", Err: err}
	}
	ord.Number = fmt.Sprintf("CZ-%06d", seq)

	if err := ord.Validate(); err != nil {
		return nil, err
	}

	if err := o.orders.Create(ctx, ord); err != nil {
		return nil, &PersistenceError{Op: "order create", Err: err}
	}
	s.complete()

	payload := notify.Compose(ord)

	if o.publisher != nil {
		if err := o.publisher.PublishOrderPlaced(ctx, ord); err != nil {
			o.logger.Printf("publish OrderPlaced for %s: %v", ord.Number, err)
		}
	}

	if err := o.carts.Clear(ctx, s.SessionID); err != nil {
		o.logger.Printf("clear cart for session %s: %v", s.SessionID, err)
	}

	return &Result{Order: ord, Notification: payload}, nil
}

func (o *Orchestrator) buildOrder(s *Session) (*order.Order, error) {
	if s.Cart == nil || s.Cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	lines := make([]order.Line, 0, len(s.Cart.Lines))
	for _, l := range s.Cart.Lines {
		lines = append(lines, order.Line{
			ProductID: l.ProductID,
			Title:     l.Title,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			ImageRef:  l.ImageRef,
		})
	}

	subtotal := Subtotal(lines)
	shipping := o.pricing.ShippingFor(subtotal)
	now := time.Now().UTC()

	ord := &order.Order{
		Customer:      s.Customer,
		Lines:         lines,
		Subtotal:      subtotal,
		Shipping:      shipping,
		Total:         subtotal + shipping,
		PaymentMethod: s.method,
		PaymentStatus: order.PaymentPending,
		Status:        order.StatusPending,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if s.method == order.PaymentWalletTransfer {
		ref := s.transactionRef
		ord.TransactionRef = &ref
	}
	return ord, nil
}

func (o *Orchestrator) acquire(sessionID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inFlight[sessionID]; busy {
		return false
	}
	o.inFlight[sessionID] = struct{}{}
	return true
}

func (o *Orchestrator) release(sessionID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inFlight, sessionID)
}
