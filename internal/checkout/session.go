package checkout

import (
	"errors"
	"strings"

	"github.com/ArslanEjaz61/carzar-backend/internal/cart"
	"github.com/ArslanEjaz61/carzar-backend/internal/order"
)

type Stage int

const (
	StageAddress Stage = iota + 1
	StagePaymentMethod
	StagePaymentProof
	StageConfirmation
)

func (s Stage) String() string {
	switch s {
	case StageAddress:
		return "address"
	case StagePaymentMethod:
		return "payment_method"
	case StagePaymentProof:
		return "payment_proof"
	case StageConfirmation:
		return "confirmation"
	default:
		return "unknown"
	}
}

var errSessionComplete = errors.New("checkout already completed")

// Session is one checkout attempt: a linear, back-navigable walk through
// address, payment method and (for wallet transfers) payment proof. Each
// stage's gate is checked before the next stage is admitted.
type Session struct {
	SessionID string
	Cart      *cart.Cart
	Customer  order.Customer

	stage          Stage
	method         order.PaymentMethod
	transactionRef string
	methodChosen   bool
	proofAccepted  bool
}

// NewSession starts a checkout for a non-empty cart.
func NewSession(sessionID string, c *cart.Cart) (*Session, error) {
	if c == nil || c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	return &Session{
		SessionID: sessionID,
		Cart:      c,
		stage:     StageAddress,
	}, nil
}

func (s *Session) Stage() Stage {
	return s.stage
}

// SubmitAddress validates the stage-1 gate and advances to payment method.
func (s *Session) SubmitAddress(c order.Customer) error {
	if s.stage == StageConfirmation {
		return errSessionComplete
	}
	if s.stage != StageAddress {
		return &order.ValidationError{Field: "stage", Reason: "address already submitted, navigate back first"}
	}
	if strings.TrimSpace(c.FullName) == "" {
		return &order.ValidationError{Field: "fullName", Reason: "required"}
	}
	if strings.TrimSpace(c.Phone) == "" {
		return &order.ValidationError{Field: "phone", Reason: "required"}
	}
	if strings.TrimSpace(c.Address) == "" {
		return &order.ValidationError{Field: "address", Reason: "required"}
	}
	if strings.TrimSpace(c.City) == "" {
		return &order.ValidationError{Field: "city", Reason: "required"}
	}

	s.Customer = c
	s.stage = StagePaymentMethod
	return nil
}

// SelectPaymentMethod validates the stage-2 gate. Cash on delivery is ready
// to place immediately; wallet transfer requires the payment-proof stage.
// Switching back to cash on delivery wipes any previously entered reference,
// keeping the "COD carries no reference" invariant.
func (s *Session) SelectPaymentMethod(m order.PaymentMethod) error {
	if s.stage == StageConfirmation {
		return errSessionComplete
	}
	if s.stage < StagePaymentMethod {
		return &order.ValidationError{Field: "stage", Reason: "address must be submitted first"}
	}
	if !m.IsValid() {
		return &order.ValidationError{Field: "paymentMethod", Reason: "unknown payment method"}
	}

	s.method = m
	s.methodChosen = true
	if m == order.PaymentCashOnDelivery {
		s.transactionRef = ""
		s.proofAccepted = false
		s.stage = StagePaymentMethod
		return nil
	}
	s.stage = StagePaymentProof
	return nil
}

// SubmitTransactionRef validates the stage-3 gate for wallet transfers.
func (s *Session) SubmitTransactionRef(ref string) error {
	if s.stage == StageConfirmation {
		return errSessionComplete
	}
	if s.stage != StagePaymentProof {
		return &order.ValidationError{Field: "stage", Reason: "payment proof only applies to wallet transfer"}
	}
	ref = strings.TrimSpace(ref)
	if len(ref) < order.MinTransactionRefLen {
		return &order.ValidationError{Field: "transactionRef", Reason: "transaction reference must be at least 5 characters"}
	}

	s.transactionRef = ref
	s.proofAccepted = true
	return nil
}

// Back moves one stage backwards. Confirmation is terminal and the address
// stage has nowhere to go.
func (s *Session) Back() error {
	switch s.stage {
	case StagePaymentMethod:
		s.stage = StageAddress
	case StagePaymentProof:
		s.stage = StagePaymentMethod
		s.proofAccepted = false
	default:
		return &order.ValidationError{Field: "stage", Reason: "cannot navigate back from " + s.stage.String()}
	}
	return nil
}

// ReadyToPlace reports whether every required gate has been passed.
func (s *Session) ReadyToPlace() bool {
	if s.stage == StageConfirmation || !s.methodChosen {
		return false
	}
	if s.method == order.PaymentWalletTransfer {
		return s.proofAccepted
	}
	return s.stage >= StagePaymentMethod
}

func (s *Session) complete() {
	s.stage = StageConfirmation
}
