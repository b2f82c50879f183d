package order

import (
	"strings"
	"time"
)

// MinTransactionRefLen is the shortest accepted wallet transaction reference.
// Bank apps emit references of at least this length; anything shorter is a typo.
const MinTransactionRefLen = 5

// Customer is a point-in-time snapshot of the buyer's delivery details.
// It is copied onto the order at placement and never refers back to an account.
type Customer struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// Line is an immutable snapshot of a cart line at placement time. Catalog
// prices change; the order keeps the price the customer actually saw.
type Line struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	ImageRef  string  `json:"imageRef,omitempty"`
}

type Order struct {
	ID             string        `json:"orderId"`
	Number         string        `json:"orderNumber"`
	Customer       Customer      `json:"customer"`
	Lines          []Line        `json:"lines"`
	Subtotal       float64       `json:"subtotal"`
	Shipping       float64       `json:"shipping"`
	Total          float64       `json:"total"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	TransactionRef *string       `json:"transactionRef"`
	PaymentStatus  PaymentStatus `json:"paymentStatus"`
	Status         Status        `json:"orderStatus"`
	Version        int64         `json:"version"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// Validate checks the placement invariants before the order touches storage.
func (o *Order) Validate() error {
	if o.Number == "" {
		return &ValidationError{Field: "orderNumber", Reason: "required"}
	}
	if len(o.Lines) == 0 {
		return &ValidationError{Field: "lines", Reason: "order must contain at least one line"}
	}
	for _, l := range o.Lines {
		if l.Quantity < 1 {
			return &ValidationError{Field: "lines", Reason: "line quantity must be at least 1"}
		}
	}
	if strings.TrimSpace(o.Customer.FullName) == "" {
		return &ValidationError{Field: "fullName", Reason: "required"}
	}
	if strings.TrimSpace(o.Customer.Phone) == "" {
		return &ValidationError{Field: "phone", Reason: "required"}
	}
	if strings.TrimSpace(o.Customer.Address) == "" {
		return &ValidationError{Field: "address", Reason: "required"}
	}
	if strings.TrimSpace(o.Customer.City) == "" {
		return &ValidationError{Field: "city", Reason: "required"}
	}
	if !o.PaymentMethod.IsValid() {
		return &ValidationError{Field: "paymentMethod", Reason: "unknown payment method"}
	}

	switch o.PaymentMethod {
	case PaymentWalletTransfer:
		if o.TransactionRef == nil || len(strings.TrimSpace(*o.TransactionRef)) < MinTransactionRefLen {
			return &ValidationError{Field: "transactionRef", Reason: "wallet transfer requires a transaction reference of at least 5 characters"}
		}
	case PaymentCashOnDelivery:
		if o.TransactionRef != nil {
			return &ValidationError{Field: "transactionRef", Reason: "must be empty for cash on delivery"}
		}
	}

	if o.Total != o.Subtotal+o.Shipping {
		return &ValidationError{Field: "total", Reason: "total must equal subtotal plus shipping"}
	}
	return nil
}
