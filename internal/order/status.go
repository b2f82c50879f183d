package order

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo encodes the normal forward progression of fulfillment.
// Cancellation is reachable from any non-terminal state. Administrators who
// need to jump elsewhere use the force path instead.
func (s Status) CanTransitionTo(to Status) bool {
	if to == StatusCancelled {
		return !s.IsTerminal()
	}
	switch s {
	case StatusPending:
		return to == StatusConfirmed
	case StatusConfirmed:
		return to == StatusProcessing
	case StatusProcessing:
		return to == StatusShipped
	case StatusShipped:
		return to == StatusDelivered
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentVerified PaymentStatus = "verified"
	PaymentFailed   PaymentStatus = "failed"
)

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentPending, PaymentVerified, PaymentFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the payment verdict has been settled. A
// cash-on-delivery order may stay pending for its entire life.
func (p PaymentStatus) IsTerminal() bool {
	return p == PaymentVerified || p == PaymentFailed
}

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentWalletTransfer PaymentMethod = "wallet_transfer"
)

func (m PaymentMethod) IsValid() bool {
	return m == PaymentCashOnDelivery || m == PaymentWalletTransfer
}
