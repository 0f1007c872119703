// Package domain defines the core business entities for the passage engine.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Passage: The atomic retrievable unit (chunk text + embedding + scope)
//   - Page: Raw per-page text handed in by the caller
//   - SearchResult: A ranked similarity hit
//   - ContextBlock: Passages packed into a bounded context string
//   - IngestJob: A queryable record of background ingestion
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
