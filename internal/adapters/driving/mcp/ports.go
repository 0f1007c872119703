package mcp

import (
	"github.com/atheneum-labs/passage/internal/core/ports/driving"
)

// DefaultOwner scopes tool calls that do not name an owner.
const DefaultOwner = "local"

// Ports aggregates the driving port interfaces required by the MCP
// server. This provides a single injection point.
type Ports struct {
	// Engine provides retrieval and context assembly.
	Engine driving.Engine

	// Ingestor exposes background ingestion jobs. Optional; without it
	// the job resources report nothing.
	Ingestor driving.Ingestor

	// Owner overrides DefaultOwner for tool calls without one.
	Owner string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Engine == nil {
		return ErrMissingEngine
	}
	return nil
}

// owner resolves the effective owner for a tool call.
func (p *Ports) owner(requested string) string {
	if requested != "" {
		return requested
	}
	if p.Owner != "" {
		return p.Owner
	}
	return DefaultOwner
}
