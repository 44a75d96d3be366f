// Package domain defines the core business entities for imgsearch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Image: A search hit, identified by its URL
//   - Paginated: One page of results with its position in the result set
//   - Outcome: The settled result of an asynchronous fetch
//   - ViewState: What the search screen should currently show
//   - AppSettings: User-configurable behaviour
//   - HistoryEntry: A recorded search
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
