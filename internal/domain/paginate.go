package domain

// DefaultPageSize is the number of rows in a page window.
const DefaultPageSize = 10

// PageWindow is one page of a filtered list.
type PageWindow struct {
	Items      []Product
	TotalPages int
}

// Paginate slices list into the page window for page (1-based). TotalPages is
// zero for an empty list. A page outside [1, TotalPages] yields no items;
// clamping is the caller's job. A pageSize below 1 uses DefaultPageSize.
func Paginate(list []Product, page, pageSize int) PageWindow {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	total := (len(list) + pageSize - 1) / pageSize
	window := PageWindow{Items: []Product{}, TotalPages: total}
	if page < 1 || page > total {
		return window
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(list))
	window.Items = list[start:end:end]
	return window
}

// DisplayTotalPages is the page count shown to the user: an empty result
// still reads "Page 1 of 1".
func DisplayTotalPages(totalPages int) int {
	return max(totalPages, 1)
}

// ClampPage keeps page within [1, DisplayTotalPages(totalPages)].
func ClampPage(page, totalPages int) int {
	return min(max(page, 1), DisplayTotalPages(totalPages))
}
