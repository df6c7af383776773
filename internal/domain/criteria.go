package domain

import (
	"errors"
	"fmt"
)

// AllCategories is the sentinel category that disables category filtering.
const AllCategories = "All"

var (
	ErrInvalidPriceRange  = errors.New("invalid price range")
	ErrInvalidOfferFilter = errors.New("invalid offer filter")
)

// PriceRange selects a price bucket.
type PriceRange string

const (
	PriceAll  PriceRange = "All"
	PriceLow  PriceRange = "low"
	PriceMid  PriceRange = "mid"
	PriceHigh PriceRange = "high"
)

// Price bucket bounds. Both bounds belong to the mid bucket.
const (
	MidPriceMin = 100.0
	MidPriceMax = 300.0
)

// PriceRanges lists every price range in display order.
var PriceRanges = []PriceRange{PriceAll, PriceLow, PriceMid, PriceHigh}

// Valid reports whether r is one of the known ranges.
func (r PriceRange) Valid() bool {
	switch r {
	case PriceAll, PriceLow, PriceMid, PriceHigh:
		return true
	}
	return false
}

// Label returns the human readable name of the range.
func (r PriceRange) Label() string {
	switch r {
	case PriceLow:
		return "Under $100"
	case PriceMid:
		return "$100 - $300"
	case PriceHigh:
		return "Above $300"
	default:
		return "All Prices"
	}
}

// ParsePriceRange converts text into a PriceRange.
func ParsePriceRange(s string) (PriceRange, error) {
	r := PriceRange(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriceRange, s)
	}
	return r, nil
}

// OfferFilter selects products by promotional status.
type OfferFilter string

const (
	OfferAll OfferFilter = "All"
	OfferYes OfferFilter = "Yes"
	OfferNo  OfferFilter = "No"
)

// OfferFilters lists every offer filter in display order.
var OfferFilters = []OfferFilter{OfferAll, OfferYes, OfferNo}

func (f OfferFilter) Valid() bool {
	switch f {
	case OfferAll, OfferYes, OfferNo:
		return true
	}
	return false
}

func (f OfferFilter) Label() string {
	switch f {
	case OfferYes:
		return "On Offer Only"
	case OfferNo:
		return "No Offer"
	default:
		return "All Offers"
	}
}

// ParseOfferFilter converts text into an OfferFilter.
func ParseOfferFilter(s string) (OfferFilter, error) {
	f := OfferFilter(s)
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidOfferFilter, s)
	}
	return f, nil
}

// Criteria holds the filter state of a browsing session. SearchTerm is the
// committed (debounced) term, not the live text of the search box.
type Criteria struct {
	SearchTerm  string
	Category    string
	PriceRange  PriceRange
	OfferFilter OfferFilter
	Page        int
}

// DefaultCriteria returns the criteria a session starts with.
func DefaultCriteria() Criteria {
	return Criteria{
		Category:    AllCategories,
		PriceRange:  PriceAll,
		OfferFilter: OfferAll,
		Page:        1,
	}
}
