// Package sqlite provides the durable storage backend. Passages and
// their embedding vectors live in a single SQLite database opened in
// WAL mode; vectors are stored as little-endian float32 blobs and
// searched with an exact cosine scan. The same database also records
// ingestion jobs and the index metadata that binds it to one embedding
// model.
package sqlite
