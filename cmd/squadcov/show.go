package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/squadcov/squadcov/pkg/history"
	"github.com/squadcov/squadcov/pkg/workdir"
)

var (
	showRunID string
	showList  int

	showCmd = &cobra.Command{
		Use:   "show",
		Short: "Show a recorded coverage report",
		Long: `Show the per-squad summary of a recorded run. With no flags the most
recent run is shown; --run selects a specific run and --list prints recent
runs instead of a report.`,
		Example: `  # Show the latest report
  squadcov show

  # Show a specific run
  squadcov show --run 2026-08-30-14-03-12

  # List the last 10 runs
  squadcov show --list 10`,
		RunE: runShow,
	}
)

func init() {
	showCmd.Flags().StringVar(&showRunID, "run", "", "Run identifier (default: latest run)")
	showCmd.Flags().IntVar(&showList, "list", 0, "List the N most recent runs instead of showing a report")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	dbPath, err := workdir.HistoryDBPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("no run history yet — run 'squadcov run' or 'squadcov generate' first")
	}

	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if showList > 0 {
		return listRuns(store, showList)
	}

	id := showRunID
	if id == "" {
		id, err = store.LatestRunID()
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("run history is empty")
		}
		if err != nil {
			return err
		}
	}

	run, err := store.GetRun(id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("no recorded run with id %s", id)
	}
	if err != nil {
		return err
	}

	summary, err := store.GetSummary(id)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	bold.Printf("Run %s", run.ID)
	fmt.Printf("  (%s)\n", run.CreatedAt)
	fmt.Printf("Source: %s\n", run.Source)
	fmt.Printf("Files: %d   Lines: %d/%d   Coverage: %.2f%%\n\n",
		run.FileCount, run.CoveredLines, run.ExecutableLines, run.CoveragePct)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Squad\tCount\tCovered Lines\tExecutable Lines\tCoverage %")
	for _, row := range summary {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n",
			row.Squad, row.Count, row.CoveredLines, row.ExecutableLines,
			colorPct(row.CoveragePct))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nFull report: %s\n", run.FullReportPath)
	fmt.Printf("Summary report: %s\n", run.ReportPath)
	return nil
}

func listRuns(store *history.Store, limit int) error {
	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("Run history is empty")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Run\tFiles\tCovered Lines\tExecutable Lines\tCoverage %")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.2f\n",
			run.ID, run.FileCount, run.CoveredLines, run.ExecutableLines, run.CoveragePct)
	}
	return w.Flush()
}

// colorPct renders a coverage percentage green/yellow/red by the usual
// thresholds.
func colorPct(pct float64) string {
	s := fmt.Sprintf("%.2f", pct)
	switch {
	case pct >= 80:
		return color.GreenString(s)
	case pct >= 50:
		return color.YellowString(s)
	default:
		return color.RedString(s)
	}
}
