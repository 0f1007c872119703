// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the engine to function:
//
//   - EmbeddingService: Maps text to fixed-dimension vectors
//   - VectorStore: Durable, filterable passage storage with
//     similarity search
//
// # Supporting Interfaces
//
//   - JobStore: Ingestion job status persistence
//   - PageExtractor: Best-effort page-wise text extraction for files
//     handed to the CLI
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
