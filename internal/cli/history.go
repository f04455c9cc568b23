package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slidesmith/pkg/history"
)

// historyCommand creates the history command.
func (c *CLI) historyCommand() *cobra.Command {
	var dbPath string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent composition runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openHistory(ctx, dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			recs, err := store.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("No runs recorded")
				return nil
			}
			fmt.Fprintln(stdout, historyTable(recs))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "history database path (default: data directory)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to list")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openHistory(ctx, dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			printRecord(rec)
			return nil
		},
	})

	return cmd
}

func historyTable(recs []history.Record) string {
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = []string{
			r.RunID,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Theme,
			string(r.LayoutStyle),
			fmt.Sprintf("%d/%d", r.Created, r.SlideCount),
			r.Duration.Round(time.Millisecond).String(),
		}
	}
	return styledTable([]string{"Run", "When", "Theme", "Layout", "Slides", "Duration"}, rows)
}

func printRecord(r history.Record) {
	fmt.Fprintln(stdout, StyleTitle.Render(r.RunID))
	printKeyValue("When", r.CreatedAt.Local().Format(time.RFC1123))
	printKeyValue("Theme", r.Theme)
	printKeyValue("Layout", string(r.LayoutStyle))
	printKeyValue("Slides", fmt.Sprintf("%d planned of %d", r.Created, r.SlideCount))
	printKeyValue("Duration", r.Duration.Round(time.Millisecond).String())
	if r.InputHash != "" {
		printKeyValue("Input", truncate(r.InputHash, 16))
	}
	printFailures(r.Failures)
}
