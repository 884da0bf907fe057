// Package cart is the shopping-cart demo: an in-memory list of priced
// items that can be exported as a JSON file to a GitHub repository.
package cart

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"proyectos/internal/models"
)

var (
	ErrNameRequired = errors.New("product name is required")
	ErrInvalidPrice = errors.New("product price must be a non-negative number")
)

// Cart holds items in insertion order.
type Cart struct {
	items []models.CartItem
}

// Add appends an item after validating it.
func (c *Cart) Add(name string, price float64) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return ErrInvalidPrice
	}
	c.items = append(c.items, models.CartItem{Name: name, Price: price})
	return nil
}

// AddSpec parses "name=price" and adds the item.
func (c *Cart) AddSpec(spec string) error {
	name, raw, ok := strings.Cut(spec, "=")
	if !ok {
		return fmt.Errorf("cart: %q is not name=price", spec)
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return ErrInvalidPrice
	}
	return c.Add(strings.TrimSpace(name), price)
}

// Items returns a copy of the cart contents.
func (c *Cart) Items() []models.CartItem {
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Total sums the item prices.
func (c *Cart) Total() float64 {
	var total float64
	for _, it := range c.items {
		total += it.Price
	}
	return total
}

// Len is the number of items.
func (c *Cart) Len() int {
	return len(c.items)
}
