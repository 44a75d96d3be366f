package domain

// ViewState is what the search screen should show. The concrete types are
// ViewDefault, ViewLoading, ViewNoResults, ViewFailure and ViewLoaded.
type ViewState interface {
	viewState()
}

// ViewDefault is shown before any query is entered.
type ViewDefault struct{}

// ViewLoading is shown while the first page of a query is loading.
type ViewLoading struct{}

// ViewNoResults is shown when a query matched nothing.
type ViewNoResults struct{}

// ViewFailure is shown when the first page of a query failed.
type ViewFailure struct {
	Err error
}

// ViewLoaded is shown when results are available.
type ViewLoaded struct {
	// Items are the rows to render, in order.
	Items []Item

	// MorePages reports whether scrolling to the end should load more.
	MorePages bool
}

func (ViewDefault) viewState()   {}
func (ViewLoading) viewState()   {}
func (ViewNoResults) viewState() {}
func (ViewFailure) viewState()   {}
func (ViewLoaded) viewState()    {}

// ItemKind identifies the kind of a result row.
type ItemKind int

const (
	// ItemImage is a row showing an image.
	ItemImage ItemKind = iota
	// ItemLoading is the trailing row shown while the next page loads.
	ItemLoading
)

// String returns the string representation of the item kind.
func (k ItemKind) String() string {
	switch k {
	case ItemImage:
		return "image"
	case ItemLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Item is one row of a loaded result list.
type Item struct {
	Kind ItemKind

	// Image is set when Kind is ItemImage.
	Image Image
}

// ImageItem returns a row for img.
func ImageItem(img Image) Item {
	return Item{Kind: ItemImage, Image: img}
}

// LoadingItem returns the loading row.
func LoadingItem() Item {
	return Item{Kind: ItemLoading}
}
