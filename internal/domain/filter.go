package domain

import (
	"strings"
)

// DeriveCategories returns the category filter domain: the AllCategories
// sentinel followed by each distinct category in first-occurrence order.
func DeriveCategories(products []Product) []string {
	categories := []string{AllCategories}
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories
}

// Filter returns the products that satisfy every criterion, in catalogue
// order. Criteria.Page is ignored.
func Filter(products []Product, c Criteria) []Product {
	term := strings.ToLower(c.SearchTerm)

	result := make([]Product, 0, len(products))
	for _, p := range products {
		if !matchesLoweredSearch(p, term) {
			continue
		}
		if !MatchesCategory(p, c.Category) || !MatchesOffer(p, c.OfferFilter) || !MatchesPrice(p, c.PriceRange) {
			continue
		}
		result = append(result, p)
	}
	return result
}

// MatchesSearch reports whether the product name contains term, ignoring case.
// An empty term matches everything.
func MatchesSearch(p Product, term string) bool {
	return matchesLoweredSearch(p, strings.ToLower(term))
}

func matchesLoweredSearch(p Product, lowered string) bool {
	return strings.Contains(strings.ToLower(p.Name), lowered)
}

// MatchesCategory reports whether the product is in category. The
// AllCategories sentinel matches everything.
func MatchesCategory(p Product, category string) bool {
	return category == AllCategories || p.Category == category
}

// MatchesOffer reports whether the product passes the offer filter.
func MatchesOffer(p Product, f OfferFilter) bool {
	switch f {
	case OfferYes:
		return p.Offer
	case OfferNo:
		return !p.Offer
	default:
		return true
	}
}

// MatchesPrice reports whether the product price falls in r. Unknown ranges
// behave like PriceAll.
func MatchesPrice(p Product, r PriceRange) bool {
	switch r {
	case PriceLow:
		return p.Price < MidPriceMin
	case PriceMid:
		return p.Price >= MidPriceMin && p.Price <= MidPriceMax
	case PriceHigh:
		return p.Price > MidPriceMax
	default:
		return true
	}
}

// DeleteProduct returns a new slice without the product identified by id.
// When id is absent the input is returned unchanged and ok is false.
func DeleteProduct(products []Product, id int) (result []Product, ok bool) {
	idx := -1
	for i, p := range products {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return products, false
	}

	result = make([]Product, 0, len(products)-1)
	result = append(result, products[:idx]...)
	result = append(result, products[idx+1:]...)
	return result, true
}
