package domain

import (
	"errors"
)

var (
	ErrInvalidProductID    = errors.New("product id must be positive")
	ErrInvalidProductName  = errors.New("product name is required")
	ErrInvalidProductPrice = errors.New("product price must not be negative")
	ErrDuplicateProductID  = errors.New("duplicate product id")
)

// Product represents a catalogue entry. Products are read-only once loaded;
// the catalogue only changes by removing entries.
type Product struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Price     float64  `json:"price"`
	Offer     bool     `json:"offer"`
	Suppliers []string `json:"suppliers"`
}

// Validate performs business validation on the product
func (p *Product) Validate() error {
	if p.ID <= 0 {
		return ErrInvalidProductID
	}
	if p.Name == "" {
		return ErrInvalidProductName
	}
	if p.Price < 0 {
		return ErrInvalidProductPrice
	}
	return nil
}
