package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	pdfextract "github.com/atheneum-labs/passage/internal/adapters/driven/extract/pdf"
	textextract "github.com/atheneum-labs/passage/internal/adapters/driven/extract/text"
	"github.com/atheneum-labs/passage/internal/core/domain"
	"github.com/atheneum-labs/passage/internal/core/ports/driven"
)

var (
	ingestOwner    string
	ingestDocument string
	ingestAsync    bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Index a PDF or text file",
	Long: `Extracts pages from the file, splits them into overlapping passages,
embeds each passage and stores it in the index.

Re-ingesting the same document is safe: passages are keyed by their
position, so unchanged content is overwritten in place rather than
duplicated.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestOwner, "owner", "local", "owner scope for the passages")
	ingestCmd.Flags().StringVarP(&ingestDocument, "document", "d", "", "document ID (default: file name without extension)")
	ingestCmd.Flags().BoolVar(&ingestAsync, "async", false, "run ingestion as a background job")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	path := args[0]
	documentID := ingestDocument
	if documentID == "" {
		base := filepath.Base(path)
		documentID = strings.TrimSuffix(base, filepath.Ext(base))
	}

	extractor := extractorFor(path)
	pages, err := extractor.ExtractPages(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("extracting pages: %w", err)
	}
	cmd.Printf("Extracted %d pages from %s\n", len(pages), path)

	if ingestAsync {
		return runIngestAsync(cmd, documentID, pages)
	}
	return runIngestSync(cmd, documentID, pages)
}

// runIngestSync ingests page by page with a progress bar and prints the
// merged report.
func runIngestSync(cmd *cobra.Command, documentID string, pages []domain.Page) error {
	bar := progressbar.NewOptions(len(pages),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("Indexing"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(cmd.ErrOrStderr())
		}),
	)

	report := &domain.IngestReport{}
	for _, page := range pages {
		pageReport, err := engineService.Ingest(cmd.Context(), ingestOwner, documentID,
			[]domain.Page{page})
		if err != nil {
			return fmt.Errorf("ingesting page %d: %w", page.PageNumber, err)
		}
		report.Pages = append(report.Pages, pageReport.Pages...)
		report.PassagesCreated += pageReport.PassagesCreated
		report.PassagesSkipped += pageReport.PassagesSkipped
		bar.Add(1) //nolint:errcheck
	}

	printReport(cmd, documentID, report)
	return nil
}

// runIngestAsync submits a job to the ingestion pool and waits for it.
// The job record survives in the index, so its outcome can be checked
// again later with "passage jobs".
func runIngestAsync(cmd *cobra.Command, documentID string, pages []domain.Page) error {
	ingestorService.Start()

	jobID, err := ingestorService.Submit(cmd.Context(), ingestOwner, documentID, pages)
	if err != nil {
		return fmt.Errorf("submitting job: %w", err)
	}
	cmd.Printf("Job %s submitted for document %s\n", jobID, documentID)

	// Stop returns once every accepted job has run.
	ingestorService.Stop()

	job, err := ingestorService.Status(context.Background(), jobID)
	if err != nil {
		return fmt.Errorf("checking job: %w", err)
	}

	cmd.Printf("Job %s: %s\n", job.ID, job.State)
	if job.Error != "" {
		cmd.Printf("  Error: %s\n", job.Error)
	}
	printReport(cmd, documentID, &job.Report)
	return nil
}

func printReport(cmd *cobra.Command, documentID string, report *domain.IngestReport) {
	cmd.Printf("Document %s: %d passages indexed, %d skipped\n",
		documentID, report.PassagesCreated, report.PassagesSkipped)
	for _, page := range report.Pages {
		if page.Error != "" {
			cmd.Printf("  Page %d failed: %s\n", page.PageNumber, page.Error)
		}
	}
}

// extractorFor picks the page extractor by file extension.
func extractorFor(path string) driven.PageExtractor {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return pdfextract.NewExtractor()
	}
	return textextract.NewExtractor()
}
