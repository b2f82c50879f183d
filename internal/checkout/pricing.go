package checkout

import "github.com/ArslanEjaz61/carzar-backend/internal/order"

// Pricing holds the shipping policy: a flat fee, waived once the subtotal
// reaches the free-shipping threshold.
type Pricing struct {
	FreeShippingThreshold float64
	ShippingFee           float64
}

func (p Pricing) ShippingFor(subtotal float64) float64 {
	if subtotal >= p.FreeShippingThreshold {
		return 0
	}
	return p.ShippingFee
}

func Subtotal(lines []order.Line) float64 {
	total := 0.0
	for _, l := range lines {
		total += l.UnitPrice * float64(l.Quantity)
	}
	return total
}
