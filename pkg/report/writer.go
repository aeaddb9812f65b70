package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/natefinch/atomic"

	"github.com/squadcov/squadcov/pkg/workdir"
)

// Output column headers. Order matters: it is the wire format.
var (
	fullReportHeader = []string{"Filepath", "Covered Lines", "Executable Lines", "Line Coverage", "Squad"}
	summaryHeader    = []string{"Squad", "Count", "Covered Lines", "Executable Lines", "Coverage %"}
)

// SaveFullReport writes the full report to its default run-scoped path and
// returns that path. The run directory is freshly minted, so this write can
// never collide with a previous run.
func SaveFullReport(rows []Row, run *workdir.Run) (string, error) {
	path := run.FullReportPath()
	if err := writeCSV(path, encodeFull(rows)); err != nil {
		return "", err
	}
	return path, nil
}

// SaveSummary writes the summary report to its default run-scoped path and
// returns that path.
func SaveSummary(rows []SummaryRow, run *workdir.Run) (string, error) {
	path := run.ReportPath()
	if err := writeCSV(path, encodeSummary(rows)); err != nil {
		return "", err
	}
	return path, nil
}

// SaveSummaryTo writes the summary report to an explicit, caller-supplied
// path. The path must not already exist; existing files are never silently
// overwritten.
func SaveSummaryTo(rows []SummaryRow, path string) error {
	if err := workdir.ValidateOutputFile(path); err != nil {
		return err
	}
	return writeCSV(path, encodeSummary(rows))
}

func encodeFull(rows []Row) [][]string {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, fullReportHeader)
	for _, row := range rows {
		records = append(records, []string{
			row.Filepath,
			strconv.Itoa(row.CoveredLines),
			strconv.Itoa(row.ExecutableLines),
			strconv.FormatFloat(row.LineCoverage, 'f', -1, 64),
			row.Squad,
		})
	}
	return records
}

func encodeSummary(rows []SummaryRow) [][]string {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, summaryHeader)
	for _, row := range rows {
		records = append(records, []string{
			row.Squad,
			strconv.Itoa(row.Count),
			strconv.Itoa(row.CoveredLines),
			strconv.Itoa(row.ExecutableLines),
			// Two decimals, exactly as computed by the aggregation step.
			strconv.FormatFloat(row.CoveragePct, 'f', 2, 64),
		})
	}
	return records
}

// writeCSV renders records and writes them atomically: the file appears
// complete or not at all, never half-written.
func writeCSV(path string, records [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}

	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
