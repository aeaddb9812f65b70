// Package workdir manages the per-run working directories under ~/.squadcov.
//
// Every invocation that produces reports mints a fresh run identifier (a local
// timestamp) and a matching directory. All run-scoped artifact paths hang off
// that directory, so two runs can never collide on output files.
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// runIDFormat matches the identifier layout the reports have always used:
// date, then hour-minute-second, all dash separated.
const runIDFormat = "2006-01-02-15-04-05"

// Run is the run-scoped state minted once per invocation: the identifier and
// the directory all artifacts for that invocation live in. It is passed
// explicitly to every stage that needs it; there is no ambient global.
type Run struct {
	ID  string
	Dir string
}

// Home returns the squadcov home directory (~/.squadcov), without creating it.
func Home() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", &DirPathError{}
	}
	return filepath.Join(home, ".squadcov"), nil
}

// HistoryDBPath returns the path of the run-history database. The database
// lives directly under the home directory, outside any run directory, because
// it spans runs.
func HistoryDBPath() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "history.db"), nil
}

// NewRun mints a run identifier from the current local time and creates its
// working directory. The directory is freshly named per second; artifacts
// written under it cannot clobber a previous run's output.
func NewRun() (*Run, error) {
	return newRunAt(time.Now())
}

func newRunAt(t time.Time) (*Run, error) {
	home, err := Home()
	if err != nil {
		return nil, err
	}

	id := t.Format(runIDFormat)
	dir := filepath.Join(home, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create run directory: %w", err)
	}

	return &Run{ID: id, Dir: dir}, nil
}

// OpenRun returns the Run for an existing identifier. It fails if the run
// directory does not exist.
func OpenRun(id string) (*Run, error) {
	home, err := Home()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(home, id)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, &DirPathError{Path: dir}
	}

	return &Run{ID: id, Dir: dir}, nil
}

// Run-scoped artifact paths.

func (r *Run) XCResultPath() string {
	return filepath.Join(r.Dir, "result.xcresult")
}

func (r *Run) RawReportPath() string {
	return filepath.Join(r.Dir, "raw_report.json")
}

func (r *Run) XCPrettyReportPath() string {
	return filepath.Join(r.Dir, "xcpretty_report.html")
}

func (r *Run) FullReportPath() string {
	return filepath.Join(r.Dir, "full_report.csv")
}

func (r *Run) ReportPath() string {
	return filepath.Join(r.Dir, "report.csv")
}

func (r *Run) DerivedDataPath() string {
	return filepath.Join(r.Dir, "derived_data")
}

// ValidateInputFile checks that path exists, is a regular file, and carries
// the wanted extension (without the leading dot). Used for the squads CSV and
// the xcresult bundle before the pipeline starts.
func ValidateInputFile(path, wantExt string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &FilePathError{Kind: FileNotFound, Path: path}
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext != wantExt {
		if ext == "" {
			ext = "N/A"
		}
		return &FilePathError{Kind: FileInvalidType, Path: path, Extension: ext}
	}

	// xcresult bundles are directories; everything else must be a plain file.
	if wantExt != "xcresult" && info.IsDir() {
		return &FilePathError{Kind: FileInvalidType, Path: path, Extension: "N/A"}
	}

	return nil
}

// ValidateOutputFile checks that an explicit, caller-supplied output path does
// not already exist. Default run-scoped outputs never need this: their
// directory is freshly minted per run.
func ValidateOutputFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return &FilePathError{Kind: FileAlreadyExists, Path: path}
	}
	return nil
}
