// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants retrieve indexed passages and assembled context
// from the local index.
package mcp

import "errors"

// ErrMissingEngine is returned when the retrieval engine is not provided.
var ErrMissingEngine = errors.New("mcp: retrieval engine is required")
