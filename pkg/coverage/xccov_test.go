package coverage_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadcov/squadcov/pkg/coverage"
)

const validReport = `{
	"targets": [
		{
			"coveredLines": 13, "executableLines": 20, "lineCoverage": 0.65,
			"files": [
				{"path": "/Foo/A.swift", "coveredLines": 8, "executableLines": 10, "lineCoverage": 0.8},
				{"path": "/Bar/B.swift", "coveredLines": 5, "executableLines": 10, "lineCoverage": 0.5}
			]
		},
		{
			"coveredLines": 0, "executableLines": 5, "lineCoverage": 0.0,
			"files": [
				{"path": "/Baz/C.swift", "coveredLines": 0, "executableLines": 5, "lineCoverage": 0.0}
			]
		}
	]
}`

func Test_ParseXccovReport_Flattens_Targets_In_Order(t *testing.T) {
	t.Parallel()

	records, err := coverage.ParseXccovReport(strings.NewReader(validReport))
	require.NoError(t, err)
	require.Len(t, records, 3)

	paths := []string{records[0].Path, records[1].Path, records[2].Path}
	assert.Equal(t, []string{"/Foo/A.swift", "/Bar/B.swift", "/Baz/C.swift"}, paths,
		"target order then within-target file order must be preserved")

	assert.Equal(t, 8, records[0].CoveredLines)
	assert.Equal(t, 10, records[0].ExecutableLines)
	assert.InDelta(t, 0.8, records[0].LineCoverage, 1e-9)
	assert.Empty(t, records[0].Squad, "parser must not attribute")
}

func Test_ParseXccovReport_Records_Respect_Covered_At_Most_Executable(t *testing.T) {
	t.Parallel()

	records, err := coverage.ParseXccovReport(strings.NewReader(validReport))
	require.NoError(t, err)

	for _, rec := range records {
		assert.LessOrEqual(t, rec.CoveredLines, rec.ExecutableLines,
			"record %s violates covered <= executable", rec.Path)
	}
}

func Test_ParseXccovReport_Rejects_Malformed_Input(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
	}{
		{name: "NotJSON", input: "not json at all"},
		{name: "MissingTargets", input: `{"something": []}`},
		{name: "TargetMissingCounts", input: `{"targets": [{"files": []}]}`},
		{name: "TargetMissingFiles", input: `{"targets": [{"coveredLines": 1, "executableLines": 2, "lineCoverage": 0.5}]}`},
		{
			name: "FileMissingPath",
			input: `{"targets": [{"coveredLines": 1, "executableLines": 2, "lineCoverage": 0.5,
				"files": [{"coveredLines": 1, "executableLines": 2, "lineCoverage": 0.5}]}]}`,
		},
		{
			name: "FileMissingCoveredLines",
			input: `{"targets": [{"coveredLines": 1, "executableLines": 2, "lineCoverage": 0.5,
				"files": [{"path": "/A.swift", "executableLines": 2, "lineCoverage": 0.5}]}]}`,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			records, err := coverage.ParseXccovReport(strings.NewReader(testCase.input))
			require.Error(t, err)
			assert.Nil(t, records, "malformed input must not yield partial records")

			var desErr *coverage.DeserializationError
			require.ErrorAs(t, err, &desErr)
		})
	}
}

func Test_ParseXccovReport_Empty_Targets_Yields_No_Records(t *testing.T) {
	t.Parallel()

	records, err := coverage.ParseXccovReport(strings.NewReader(`{"targets": []}`))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func Test_ParseXccovReport_Zero_Counts_Are_Valid(t *testing.T) {
	t.Parallel()

	input := `{"targets": [{"coveredLines": 0, "executableLines": 0, "lineCoverage": 0,
		"files": [{"path": "/Empty.swift", "coveredLines": 0, "executableLines": 0, "lineCoverage": 0}]}]}`

	records, err := coverage.ParseXccovReport(strings.NewReader(input))
	require.NoError(t, err, "zero is a legitimate count, not a missing field")
	require.Len(t, records, 1)
	assert.Equal(t, "/Empty.swift", records[0].Path)
}
