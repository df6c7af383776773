package dto

import (
	"fmt"

	"github.com/mrops-br/inventory-browser/internal/domain"
)

// ProductResponse represents a catalogue row
type ProductResponse struct {
	ID        int      `json:"id"`
	DisplayID string   `json:"display_id"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Price     float64  `json:"price"`
	Offer     bool     `json:"offer"`
	Suppliers []string `json:"suppliers"`
}

// FormatProductID renders an id the way rows show it, e.g. "#0007".
func FormatProductID(id int) string {
	return fmt.Sprintf("#%04d", id)
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		DisplayID: FormatProductID(p.ID),
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
		Offer:     p.Offer,
		Suppliers: p.Suppliers,
	}
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []domain.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}

// BrowserView is everything the presentation layer needs to draw one frame.
// SearchText is the live search box text; CommittedSearch is the debounced
// term that actually drives filtering.
type BrowserView struct {
	SessionID         string             `json:"session_id"`
	SearchText        string             `json:"search_text"`
	CommittedSearch   string             `json:"committed_search"`
	Category          string             `json:"category"`
	PriceRange        domain.PriceRange  `json:"price_range"`
	OfferFilter       domain.OfferFilter `json:"offer_filter"`
	Categories        []string           `json:"categories"`
	FilteredCount     int                `json:"filtered_count"`
	Items             []ProductResponse  `json:"items"`
	CurrentPage       int                `json:"current_page"`
	TotalPages        int                `json:"total_pages"`
	DisplayTotalPages int                `json:"display_total_pages"`
	HasPrev           bool               `json:"has_prev"`
	HasNext           bool               `json:"has_next"`
}

// NotificationKind classifies a Notification.
type NotificationKind string

const (
	NotificationEdit    NotificationKind = "edit"
	NotificationDeleted NotificationKind = "deleted"
)

// Notification is a message for the presentation layer to surface.
type Notification struct {
	Kind      NotificationKind `json:"kind"`
	ProductID int              `json:"product_id"`
	Message   string           `json:"message"`
}
