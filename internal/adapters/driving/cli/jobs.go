package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	jobsDocument string
	jobsLimit    int
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect ingestion jobs",
	Long:  `List recent ingestion jobs or show the full record of one job.`,
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent ingestion jobs",
	RunE:  runJobsList,
}

var jobsStatusCmd = &cobra.Command{
	Use:   "status [job-id]",
	Short: "Show one job's state and report",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsStatus,
}

func init() {
	jobsListCmd.Flags().StringVarP(&jobsDocument, "document", "d", "", "only jobs for this document")
	jobsListCmd.Flags().IntVarP(&jobsLimit, "limit", "n", 20, "maximum number of jobs")

	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsStatusCmd)
	rootCmd.AddCommand(jobsCmd)
}

func runJobsList(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	jobs, err := ingestorService.Jobs(cmd.Context(), jobsDocument, jobsLimit)
	if err != nil {
		return fmt.Errorf("listing jobs: %w", err)
	}

	if len(jobs) == 0 {
		cmd.Println("No ingestion jobs found.")
		return nil
	}

	for i := range jobs {
		cmd.Printf("  %s  %-8s  %s  (%d passages)\n",
			jobs[i].ID, jobs[i].State, jobs[i].DocumentID, jobs[i].Report.PassagesCreated)
	}
	return nil
}

func runJobsStatus(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	job, err := ingestorService.Status(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting job: %w", err)
	}

	cmd.Printf("Job %s\n\n", job.ID)
	cmd.Printf("  Document:  %s\n", job.DocumentID)
	cmd.Printf("  Owner:     %s\n", job.OwnerID)
	cmd.Printf("  State:     %s\n", job.State)
	cmd.Printf("  Enqueued:  %s\n", job.EnqueuedAt.Format("2006-01-02 15:04:05"))
	if !job.StartedAt.IsZero() {
		cmd.Printf("  Started:   %s\n", job.StartedAt.Format("2006-01-02 15:04:05"))
	}
	if !job.FinishedAt.IsZero() {
		cmd.Printf("  Finished:  %s\n", job.FinishedAt.Format("2006-01-02 15:04:05"))
	}
	if job.Error != "" {
		cmd.Printf("  Error:     %s\n", job.Error)
	}

	if len(job.Report.Pages) > 0 {
		cmd.Printf("\n  Pages: %d created, %d skipped, %d failed\n",
			job.Report.PassagesCreated, job.Report.PassagesSkipped, job.Report.FailedPages())
		for _, page := range job.Report.Pages {
			if page.Error != "" {
				cmd.Printf("    Page %d: %s\n", page.PageNumber, page.Error)
			}
		}
	}
	return nil
}
