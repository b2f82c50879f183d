package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ArslanEjaz61/carzar-backend/internal/order"
)

// Payload is a composed, human-readable summary handed to an operator. The
// operator decides whether to open the link and send it; nothing here blocks
// or guarantees delivery.
type Payload struct {
	Message       string `json:"message"`
	TargetChannel string `json:"targetChannel"`
	Link          string `json:"link"`
}

// Compose builds the order-placed summary for the customer's WhatsApp channel.
func Compose(o *order.Order) Payload {
	var b strings.Builder

	fmt.Fprintf(&b, "Order %s\n", o.Number)
	fmt.Fprintf(&b, "%s, %s, %s\n", o.Customer.FullName, o.Customer.Address, o.Customer.City)
	b.WriteString("\n")
	for _, l := range o.Lines {
		fmt.Fprintf(&b, "%s x%d @ %.0f = %.0f\n", l.Title, l.Quantity, l.UnitPrice, l.UnitPrice*float64(l.Quantity))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Subtotal: %.0f\n", o.Subtotal)
	if o.Shipping == 0 {
		b.WriteString("Shipping: free\n")
	} else {
		fmt.Fprintf(&b, "Shipping: %.0f\n", o.Shipping)
	}
	fmt.Fprintf(&b, "Total: %.0f\n", o.Total)
	fmt.Fprintf(&b, "Payment: %s\n", methodLabel(o.PaymentMethod))
	if o.PaymentMethod == order.PaymentWalletTransfer && o.TransactionRef != nil {
		fmt.Fprintf(&b, "Transaction ref: %s\n", *o.TransactionRef)
	}

	return newPayload(o.Customer.Phone, b.String())
}

// ComposeStatusChange builds the message an administrator forwards after
// moving an order to a new status.
func ComposeStatusChange(o *order.Order, previous order.Status) Payload {
	var b strings.Builder

	fmt.Fprintf(&b, "Update for order %s\n", o.Number)
	fmt.Fprintf(&b, "Status: %s (was %s)\n", o.Status, previous)
	if o.PaymentMethod == order.PaymentWalletTransfer {
		fmt.Fprintf(&b, "Payment: %s\n", o.PaymentStatus)
	}
	fmt.Fprintf(&b, "Total: %.0f\n", o.Total)

	return newPayload(o.Customer.Phone, b.String())
}

func newPayload(phone, message string) Payload {
	digits := phoneDigits(phone)
	return Payload{
		Message:       message,
		TargetChannel: digits,
		Link:          fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(message)),
	}
}

// phoneDigits strips everything but digits so the number slots into a wa.me
// link. A leading 0 is replaced with the Pakistani country code, which is how
// customers enter local mobile numbers.
func phoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(digits, "0") {
		digits = "92" + digits[1:]
	}
	return digits
}

func methodLabel(m order.PaymentMethod) string {
	switch m {
	case order.PaymentCashOnDelivery:
		return "cash on delivery"
	case order.PaymentWalletTransfer:
		return "wallet transfer"
	default:
		return string(m)
	}
}
