package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for passage resources.
const uriScheme = "passage://"

// jobsListLimit bounds the jobs resource.
const jobsListLimit = 50

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "stats",
		Name:        "stats",
		Description: "Index size and embedding dimension",
		MIMEType:    "application/json",
	}, s.handleStatsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "jobs",
		Name:        "jobs",
		Description: "Recent ingestion jobs, newest first",
		MIMEType:    "application/json",
	}, s.handleJobsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "jobs/{jobId}",
		Name:        "job-status",
		Description: "Status and report of a single ingestion job",
		MIMEType:    "application/json",
	}, s.handleJobResource)
}

// handleStatsResource returns index statistics.
func (s *Server) handleStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats, err := s.ports.Engine.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading stats: %w", err)
	}

	data, err := json.MarshalIndent(StatsOutput{
		TotalPassages: stats.TotalPassages,
		Documents:     stats.Documents,
		Dimension:     stats.Dimension,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling stats: %w", err)
	}

	return jsonResource(req.Params.URI, string(data)), nil
}

// jobInfo is the JSON shape of a job in resource responses.
type jobInfo struct {
	ID              string `json:"id"`
	DocumentID      string `json:"document_id"`
	State           string `json:"state"`
	PassagesCreated int    `json:"passages_created"`
	FailedPages     int    `json:"failed_pages"`
	Error           string `json:"error,omitempty"`
}

// handleJobsResource returns recent ingestion jobs.
func (s *Server) handleJobsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Ingestor == nil {
		return jsonResource(req.Params.URI, "[]"), nil
	}

	jobs, err := s.ports.Ingestor.Jobs(ctx, "", jobsListLimit)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}

	infos := make([]jobInfo, len(jobs))
	for i := range jobs {
		infos[i] = jobInfo{
			ID:              jobs[i].ID,
			DocumentID:      jobs[i].DocumentID,
			State:           string(jobs[i].State),
			PassagesCreated: jobs[i].Report.PassagesCreated,
			FailedPages:     jobs[i].Report.FailedPages(),
			Error:           jobs[i].Error,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling jobs: %w", err)
	}

	return jsonResource(req.Params.URI, string(data)), nil
}

// handleJobResource returns one job's full record.
func (s *Server) handleJobResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Ingestor == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	jobID := extractJobID(req.Params.URI)
	if jobID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	job, err := s.ports.Ingestor.Status(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("getting job %s: %w", jobID, err)
	}

	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling job: %w", err)
	}

	return jsonResource(req.Params.URI, string(data)), nil
}

// extractJobID extracts the job ID from a URI like passage://jobs/{jobId}.
func extractJobID(uri string) string {
	const prefix = uriScheme + "jobs/"
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}

func jsonResource(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}
