// Package report builds and persists the two output tables: the per-file
// full report and the per-squad summary.
package report

import (
	"math"
	"sort"

	"github.com/squadcov/squadcov/pkg/coverage"
)

// UnattributedSquad is the literal squad value files get when no ownership
// fragment matched them.
const UnattributedSquad = "N/A"

// Row is one line of the full report, derived 1:1 from a coverage record.
type Row struct {
	Filepath        string
	CoveredLines    int
	ExecutableLines int
	LineCoverage    float64
	Squad           string
}

// SummaryRow is one squad's aggregate in the summary report. CoveragePct is
// already rounded to two decimals; writers emit it as computed.
type SummaryRow struct {
	Squad           string
	Count           int
	CoveredLines    int
	ExecutableLines int
	CoveragePct     float64
}

// BuildFull projects attributed records into full-report rows: unattributed
// squads are filled with "N/A" first, then rows are sorted ascending by
// squad. Filling before sorting keeps the ordering deterministic and
// locale-independent; the sort is stable, so input order is the tie-break
// within a squad.
func BuildFull(records []coverage.Record) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		squad := rec.Squad
		if squad == "" {
			squad = UnattributedSquad
		}
		rows = append(rows, Row{
			Filepath:        rec.Path,
			CoveredLines:    rec.CoveredLines,
			ExecutableLines: rec.ExecutableLines,
			LineCoverage:    rec.LineCoverage,
			Squad:           squad,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Squad < rows[j].Squad
	})

	return rows
}

// BuildSummary groups full-report rows by squad and aggregates them: row
// count, covered and executable line sums, and the coverage percentage
// rounded half-up to two decimals. A squad with zero executable lines gets
// 0.00 rather than an error; empty test targets are normal. The result is
// sorted ascending by squad.
func BuildSummary(rows []Row) []SummaryRow {
	type accumulator struct {
		count      int
		covered    int
		executable int
	}

	groups := make(map[string]*accumulator)
	order := make([]string, 0)
	for _, row := range rows {
		acc, ok := groups[row.Squad]
		if !ok {
			acc = &accumulator{}
			groups[row.Squad] = acc
			order = append(order, row.Squad)
		}
		acc.count++
		acc.covered += row.CoveredLines
		acc.executable += row.ExecutableLines
	}

	sort.Strings(order)

	summary := make([]SummaryRow, 0, len(order))
	for _, squad := range order {
		acc := groups[squad]
		summary = append(summary, SummaryRow{
			Squad:           squad,
			Count:           acc.count,
			CoveredLines:    acc.covered,
			ExecutableLines: acc.executable,
			CoveragePct:     roundPct(acc.covered, acc.executable),
		})
	}

	return summary
}

// roundPct computes round(100*covered/executable, 2) with half-up rounding.
// Counts are non-negative, so math.Round's half-away-from-zero is half-up.
func roundPct(covered, executable int) float64 {
	if executable == 0 {
		return 0
	}
	pct := 100 * float64(covered) / float64(executable)
	return math.Round(pct*100) / 100
}
