package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lakegov/lakegov/internal/governance"
	"github.com/lakegov/lakegov/internal/metastore"
)

func newCatalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Show the metadata catalog of all registered datasets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			lk, err := newLake()
			if err != nil {
				return err
			}
			catalog, err := governance.NewCatalogBuilder(lk.Metastore()).Build(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, bucket := range catalog.Buckets() {
				fmt.Fprintf(w, "Bucket: %s\n", bucket)
				var rows [][]any
				for _, object := range catalog.Objects(bucket) {
					meta := catalog[bucket][object]
					description, _ := meta.Extra["description"].(string)
					rows = append(rows, []any{
						object,
						meta.Format,
						meta.Rows,
						len(meta.Columns),
						meta.UploadedAt.Format("2006-01-02 15:04:05"),
						description,
					})
				}
				renderTable(w, []string{"Object", "Format", "Rows", "Columns", "Uploaded", "Description"}, rows)
				fmt.Fprintln(w)
			}
			if len(catalog) == 0 {
				fmt.Fprintln(w, "No metadata records found")
			}
			return nil
		},
	}
}

func newLineageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lineage <bucket/object>",
		Short: "Trace the transformation chain that produced a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket, object, ok := strings.Cut(args[0], "/")
			if !ok || bucket == "" || object == "" {
				return fmt.Errorf("expected <bucket/object>, got %q", args[0])
			}

			lk, err := newLake()
			if err != nil {
				return err
			}
			tracer := governance.NewTracer(lk.Metastore(), logger)
			chain, err := tracer.Trace(cmd.Context(), metastore.Ref{Bucket: bucket, Object: object})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(chain) == 0 {
				fmt.Fprintf(w, "%s is an origin dataset, no upstream lineage recorded\n", args[0])
				return nil
			}

			fmt.Fprintf(w, "Lineage of %s (oldest first):\n", args[0])
			for i, step := range chain {
				fmt.Fprintf(w, "%2d. [%s] %s\n", i+1, step.Timestamp.Format("2006-01-02 15:04:05"), step.Transformation)
				if step.Note != "" {
					fmt.Fprintf(w, "    note: %s\n", step.Note)
					continue
				}
				fmt.Fprintf(w, "    %s -> %s\n", step.Source.String(), step.Target.String())
			}
			return nil
		},
	}
}

func newQualityCommand() *cobra.Command {
	var summary bool
	var failedOnly bool

	cmd := &cobra.Command{
		Use:   "quality",
		Short: "Show stored data quality check results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			lk, err := newLake()
			if err != nil {
				return err
			}
			rows, err := governance.NewQualityReporter(lk.Metastore()).Flatten(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if summary {
				var out [][]any
				for _, s := range governance.Summarize(rows) {
					out = append(out, []any{s.Dataset, s.Kind, s.Passed, s.Total, fmt.Sprintf("%.1f%%", s.PassRate)})
				}
				renderTable(w, []string{"Dataset", "Check", "Passed", "Total", "Pass Rate"}, out)
				return nil
			}

			if failedOnly {
				rows = governance.Failed(rows)
			}
			var out [][]any
			for _, r := range rows {
				status := "PASS"
				if !r.Passed {
					status = "FAIL"
				}
				out = append(out, []any{r.Dataset, r.Kind, r.Column, status, r.Details})
			}
			renderTable(w, []string{"Dataset", "Check", "Column", "Status", "Details"}, out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "Show pass rates per dataset and check kind")
	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Show only failed checks")
	return cmd
}
