package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newIngestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Load sample source datasets into the raw ingestion zone",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := newPipeline()
			if err != nil {
				return err
			}
			if err := p.Ingest(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Raw datasets ingested")
			return nil
		},
	}
}

func newProcessCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Standardize and enrich raw datasets into the process zone",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := newPipeline()
			if err != nil {
				return err
			}
			if err := p.Process(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Datasets processed")
			return nil
		},
	}
}

func newAccessCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "access",
		Short: "Build analytics datasets in the access zone",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := newPipeline()
			if err != nil {
				return err
			}
			if err := p.Access(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Analytics datasets built")
			return nil
		},
	}
}

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full zone workflow (ingest, process, access)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := newPipeline()
			if err != nil {
				return err
			}
			results, runErr := p.RunAll(cmd.Context())

			rows := make([][]any, 0, len(results))
			for _, r := range results {
				detail := ""
				if r.Err != nil {
					detail = r.Err.Error()
				}
				rows = append(rows, []any{r.Name, string(r.Status), r.Duration.Round(time.Millisecond), detail})
			}
			renderTable(cmd.OutOrStdout(), []string{"Task", "Status", "Duration", "Error"}, rows)
			return runErr
		},
	}
}
