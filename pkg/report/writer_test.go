package report_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadcov/squadcov/pkg/report"
	"github.com/squadcov/squadcov/pkg/workdir"
)

func tempRun(t *testing.T) *workdir.Run {
	t.Helper()
	return &workdir.Run{ID: "test-run", Dir: t.TempDir()}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func Test_SaveFullReport_Writes_Header_And_Rows(t *testing.T) {
	t.Parallel()

	run := tempRun(t)
	rows := []report.Row{
		{Filepath: "/Foo/A.swift", CoveredLines: 8, ExecutableLines: 10, LineCoverage: 0.8, Squad: "TeamA"},
		{Filepath: "/Baz/C.swift", CoveredLines: 0, ExecutableLines: 5, LineCoverage: 0, Squad: "N/A"},
	}

	path, err := report.SaveFullReport(rows, run)
	require.NoError(t, err)
	assert.Equal(t, run.FullReportPath(), path)

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Filepath", "Covered Lines", "Executable Lines", "Line Coverage", "Squad"}, records[0])
	assert.Equal(t, []string{"/Foo/A.swift", "8", "10", "0.8", "TeamA"}, records[1])
	assert.Equal(t, []string{"/Baz/C.swift", "0", "5", "0", "N/A"}, records[2])
}

func Test_SaveSummary_Emits_Percentage_At_Two_Decimals(t *testing.T) {
	t.Parallel()

	run := tempRun(t)
	rows := []report.SummaryRow{
		{Squad: "TeamA", Count: 1, CoveredLines: 8, ExecutableLines: 10, CoveragePct: 80},
		{Squad: "TeamB", Count: 3, CoveredLines: 1, ExecutableLines: 3, CoveragePct: 33.33},
	}

	path, err := report.SaveSummary(rows, run)
	require.NoError(t, err)

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Squad", "Count", "Covered Lines", "Executable Lines", "Coverage %"}, records[0])
	assert.Equal(t, "80.00", records[1][4])
	assert.Equal(t, "33.33", records[2][4])
}

func Test_SaveSummaryTo_Refuses_Existing_Path(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, os.WriteFile(path, []byte("already here"), 0644))

	err := report.SaveSummaryTo(nil, path)
	require.Error(t, err)

	var fpErr *workdir.FilePathError
	require.ErrorAs(t, err, &fpErr)
	assert.Equal(t, workdir.FileAlreadyExists, fpErr.Kind)

	// The original content must be untouched.
	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "already here", string(data))
}

func Test_SaveSummaryTo_Writes_Fresh_Path(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "report.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	rows := []report.SummaryRow{{Squad: "TeamA", Count: 1, CoveredLines: 1, ExecutableLines: 2, CoveragePct: 50}}
	require.NoError(t, report.SaveSummaryTo(rows, path))

	records := readCSV(t, path)
	require.Len(t, records, 2)
}

func Test_Save_Quotes_Fields_Containing_Delimiters(t *testing.T) {
	t.Parallel()

	run := tempRun(t)
	rows := []report.SummaryRow{
		{Squad: `Team "A", Mobile`, Count: 1, CoveredLines: 1, ExecutableLines: 2, CoveragePct: 50},
	}

	path, err := report.SaveSummary(rows, run)
	require.NoError(t, err)

	// encoding/csv round-trips quoted fields; the squad must come back intact.
	records := readCSV(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, `Team "A", Mobile`, records[1][0])
}

func Test_Written_Report_Round_Trips(t *testing.T) {
	t.Parallel()

	run := tempRun(t)
	rows := []report.Row{
		{Filepath: "/a.swift", CoveredLines: 7, ExecutableLines: 11, LineCoverage: 0.636, Squad: "TeamA"},
		{Filepath: "/b.swift", CoveredLines: 3, ExecutableLines: 9, LineCoverage: 0.333, Squad: "TeamB"},
		{Filepath: "/c.swift", CoveredLines: 0, ExecutableLines: 13, LineCoverage: 0, Squad: "N/A"},
	}

	path, err := report.SaveFullReport(rows, run)
	require.NoError(t, err)

	records := readCSV(t, path)
	require.Len(t, records, len(rows)+1)

	covered, executable := 0, 0
	for _, rec := range records[1:] {
		c, convErr := strconv.Atoi(rec[1])
		require.NoError(t, convErr)
		e, convErr := strconv.Atoi(rec[2])
		require.NoError(t, convErr)
		covered += c
		executable += e
	}
	assert.Equal(t, 10, covered)
	assert.Equal(t, 33, executable)
}
