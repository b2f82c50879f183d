package cart

import "time"

type Line struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	ImageRef  string  `json:"imageRef,omitempty"`
}

// Cart is a shopper's pending selection, keyed by session. Lines keep
// insertion order and product IDs are unique within a cart.
type Cart struct {
	SessionID string    `json:"sessionId"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Add merges quantity into an existing line for the same product, otherwise
// appends a new line. Quantities below 1 are treated as 1.
func (c *Cart) Add(line Line) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == line.ProductID {
			c.Lines[i].Quantity += line.Quantity
			return
		}
	}
	c.Lines = append(c.Lines, line)
}

// Remove drops the line for the product. Absent products are a no-op.
func (c *Cart) Remove(productID string) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// SetQuantity overwrites the quantity for the product. A quantity of zero or
// less removes the line, matching what shoppers expect from a stepper UI.
func (c *Cart) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) TotalItems() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for _, l := range c.Lines {
		total += l.UnitPrice * float64(l.Quantity)
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
