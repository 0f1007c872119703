package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/atheneum-labs/passage/internal/core/domain"
)

// SearchInput is the input schema for the search_passages tool.
type SearchInput struct {
	Query         string   `json:"query" jsonschema:"the question or phrase to search for"`
	Owner         string   `json:"owner,omitempty" jsonschema:"owner scope; defaults to the server's owner"`
	Limit         int      `json:"limit,omitempty" jsonschema:"maximum number of passages to return (default 5)"`
	MinSimilarity *float64 `json:"min_similarity,omitempty" jsonschema:"similarity floor between 0 and 1 (default 0.3)"`
	Documents     []string `json:"documents,omitempty" jsonschema:"restrict the search to these document IDs"`
}

// SearchOutput is the output schema for the search_passages tool.
type SearchOutput struct {
	Results []PassageOutput `json:"results"`
	Count   int             `json:"count"`
}

// PassageOutput represents a single retrieved passage.
type PassageOutput struct {
	PassageID  string  `json:"passage_id"`
	DocumentID string  `json:"document_id"`
	PageNumber int     `json:"page_number"`
	Text       string  `json:"text"`
	Similarity float64 `json:"similarity"`
	Rank       int     `json:"rank"`
}

// ContextInput is the input schema for the get_context tool.
type ContextInput struct {
	Query     string   `json:"query" jsonschema:"the question to assemble context for"`
	Owner     string   `json:"owner,omitempty" jsonschema:"owner scope; defaults to the server's owner"`
	Limit     int      `json:"limit,omitempty" jsonschema:"maximum number of passages to consider (default 5)"`
	MaxChars  *int     `json:"max_chars,omitempty" jsonschema:"character budget for the context block (default 2000; 0 yields an empty block)"`
	Documents []string `json:"documents,omitempty" jsonschema:"restrict retrieval to these document IDs"`
}

// ContextOutput is the output schema for the get_context tool.
type ContextOutput struct {
	Context      string `json:"context"`
	PassageCount int    `json:"passage_count"`
}

// SimilarInput is the input schema for the similar_passages tool.
type SimilarInput struct {
	DocumentID string `json:"document_id" jsonschema:"the document to search within"`
	Text       string `json:"text" jsonschema:"the passage text to find related passages for"`
	Owner      string `json:"owner,omitempty" jsonschema:"owner scope; defaults to the server's owner"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of passages to return (default 3)"`
}

// StatsInput is the (empty) input schema for the index_stats tool.
type StatsInput struct{}

// StatsOutput is the output schema for the index_stats tool.
type StatsOutput struct {
	TotalPassages int `json:"total_passages"`
	Documents     int `json:"documents"`
	Dimension     int `json:"dimension"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_passages",
		Description: "Search the indexed documents for passages relevant to a query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_context",
		Description: "Assemble a bounded context block of relevant passages for a question",
	}, s.handleContext)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "similar_passages",
		Description: "Find passages related to a given passage within one document",
	}, s.handleSimilar)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_stats",
		Description: "Report how many passages and documents are indexed",
	}, s.handleStats)
}

// handleSearch handles the search_passages tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{
		TopK:        input.Limit,
		DocumentIDs: input.Documents,
	}
	if input.MinSimilarity != nil {
		opts.MinSimilarity = *input.MinSimilarity
		opts.HasMinSimilarity = true
	}

	results, err := s.ports.Engine.Query(ctx, s.ports.owner(input.Owner), input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	return nil, SearchOutput{
		Results: toPassageOutputs(results),
		Count:   len(results),
	}, nil
}

// handleContext handles the get_context tool invocation.
func (s *Server) handleContext(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ContextInput,
) (*mcp.CallToolResult, ContextOutput, error) {
	opts := domain.SearchOptions{
		TopK:        input.Limit,
		DocumentIDs: input.Documents,
	}
	// Only an omitted budget falls back to the default; an explicit 0
	// is a legitimate ask for an empty block.
	maxChars := domain.DefaultMaxContextChars
	if input.MaxChars != nil {
		maxChars = *input.MaxChars
	}

	block, err := s.ports.Engine.GetContext(ctx, s.ports.owner(input.Owner), input.Query, opts, maxChars)
	if err != nil {
		return nil, ContextOutput{}, err
	}

	return nil, ContextOutput{
		Context:      block.Render(),
		PassageCount: len(block.Passages),
	}, nil
}

// handleSimilar handles the similar_passages tool invocation.
func (s *Server) handleSimilar(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SimilarInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	results, err := s.ports.Engine.SimilarPassages(
		ctx, s.ports.owner(input.Owner), input.DocumentID, input.Text, input.Limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	return nil, SearchOutput{
		Results: toPassageOutputs(results),
		Count:   len(results),
	}, nil
}

// handleStats handles the index_stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := s.ports.Engine.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}

	return nil, StatsOutput{
		TotalPassages: stats.TotalPassages,
		Documents:     stats.Documents,
		Dimension:     stats.Dimension,
	}, nil
}

func toPassageOutputs(results []domain.SearchResult) []PassageOutput {
	out := make([]PassageOutput, len(results))
	for i := range results {
		out[i] = PassageOutput{
			PassageID:  results[i].Passage.ID,
			DocumentID: results[i].Passage.DocumentID,
			PageNumber: results[i].Passage.PageNumber,
			Text:       results[i].Passage.Text,
			Similarity: results[i].Similarity,
			Rank:       results[i].Rank,
		}
	}
	return out
}
