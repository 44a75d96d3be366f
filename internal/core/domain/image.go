package domain

// Image is a single search hit. Two images are equal when their URLs are.
type Image struct {
	// URL is the address of the image file.
	URL string `json:"url"`
}

// Paginated is one page of a larger result set.
type Paginated[T any] struct {
	// CurrentPage is the 1-based number of this page.
	CurrentPage int `json:"current_page"`

	// TotalPages is the number of pages in the result set.
	TotalPages int `json:"total_pages"`

	// Items is the page content.
	Items T `json:"items"`
}

// HasMore reports whether pages follow this one.
func (p Paginated[T]) HasMore() bool {
	return p.CurrentPage < p.TotalPages
}

// Page is a page of images as returned by an images repository.
type Page = Paginated[[]Image]

// Collection is the outcome of a search run to completion without a user
// paging through it.
type Collection struct {
	Query     string  `json:"query"`
	Images    []Image `json:"images"`
	Pages     int     `json:"pages"`
	MorePages bool    `json:"more_pages"`
}
