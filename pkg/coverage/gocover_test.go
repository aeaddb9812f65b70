package coverage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadcov/squadcov/pkg/coverage"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "coverage.out")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func Test_ParseGoCoverProfile_Maps_Statements_To_Line_Counts(t *testing.T) {
	t.Parallel()

	profile := `mode: set
example.com/mod/a.go:10.2,12.3 3 1
example.com/mod/a.go:14.2,16.3 2 0
example.com/mod/b.go:5.2,9.3 4 7
`
	records, err := coverage.ParseGoCoverProfile(writeProfile(t, profile))
	require.NoError(t, err)
	require.Len(t, records, 2)

	a := records[0]
	assert.Equal(t, "example.com/mod/a.go", a.Path)
	assert.Equal(t, 5, a.ExecutableLines, "NumStmt total")
	assert.Equal(t, 3, a.CoveredLines, "statements with non-zero count")
	assert.InDelta(t, 0.6, a.LineCoverage, 1e-9)

	b := records[1]
	assert.Equal(t, 4, b.CoveredLines)
	assert.Equal(t, 4, b.ExecutableLines)
	assert.InDelta(t, 1.0, b.LineCoverage, 1e-9)
}

func Test_ParseGoCoverProfile_Rejects_Malformed_Profile(t *testing.T) {
	t.Parallel()

	_, err := coverage.ParseGoCoverProfile(writeProfile(t, "this is not a cover profile\n"))
	require.Error(t, err)

	var desErr *coverage.DeserializationError
	require.ErrorAs(t, err, &desErr)
}
