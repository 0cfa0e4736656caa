package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"

	"subpipe/internal/history"
)

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent pipeline runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadEnvironment(opts)
			if err != nil {
				return err
			}
			if cfg.Paths.HistoryDB == "" {
				return fmt.Errorf("history database is not configured")
			}

			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return fmt.Errorf("open history database: %w", err)
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("load run history: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded.")
				return nil
			}

			interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
			fmt.Fprintln(out, renderRunTable(runs, interactive))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	return cmd
}

var statusCaser = cases.Title(xlanguage.English)

func historyRows(runs []*history.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		detail := run.SubtitleTranslated
		if run.Status == history.StatusFailed {
			detail = run.ErrorMessage
		}
		rows = append(rows, []string{
			run.CreatedAt.Local().Format(time.DateTime),
			run.Mode,
			run.Source,
			statusCaser.String(run.Status),
			detail,
		})
	}
	return rows
}
