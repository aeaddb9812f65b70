package coverage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Raw xccov report shape. Required fields are pointers so that absence can be
// told apart from a legitimate zero; encoding/json would otherwise paper over
// missing counts.
type xccovReport struct {
	Targets *[]xccovTarget `json:"targets"`
}

type xccovTarget struct {
	CoveredLines    *int         `json:"coveredLines"`
	ExecutableLines *int         `json:"executableLines"`
	LineCoverage    *float64     `json:"lineCoverage"`
	Files           *[]xccovFile `json:"files"`
}

type xccovFile struct {
	Path            *string  `json:"path"`
	CoveredLines    *int     `json:"coveredLines"`
	ExecutableLines *int     `json:"executableLines"`
	LineCoverage    *float64 `json:"lineCoverage"`
}

// ParseXccovReport decodes an xccov JSON report and flattens it into one
// record per file, preserving target order and, within each target, file
// order. That ordering is load-bearing: attribution and the full report use
// input order as the tie-break.
func ParseXccovReport(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)

	var report xccovReport
	if err := dec.Decode(&report); err != nil {
		return nil, &DeserializationError{Detail: "invalid JSON", Err: err}
	}
	if report.Targets == nil {
		return nil, &DeserializationError{Detail: `missing "targets"`}
	}

	var records []Record
	for ti, target := range *report.Targets {
		if target.CoveredLines == nil || target.ExecutableLines == nil || target.LineCoverage == nil {
			return nil, &DeserializationError{
				Detail: fmt.Sprintf("target %d is missing coverage counts", ti),
			}
		}
		if target.Files == nil {
			return nil, &DeserializationError{
				Detail: fmt.Sprintf(`target %d is missing "files"`, ti),
			}
		}

		for fi, f := range *target.Files {
			if f.Path == nil || f.CoveredLines == nil || f.ExecutableLines == nil || f.LineCoverage == nil {
				return nil, &DeserializationError{
					Detail: fmt.Sprintf("target %d file %d is missing required fields", ti, fi),
				}
			}
			records = append(records, Record{
				Path:            *f.Path,
				CoveredLines:    *f.CoveredLines,
				ExecutableLines: *f.ExecutableLines,
				LineCoverage:    *f.LineCoverage,
			})
		}
	}

	return records, nil
}

// ParseXccovReportFile reads and parses an xccov JSON report from disk. The
// file is held open only for the duration of the parse.
func ParseXccovReportFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open coverage export: %w", err)
	}
	defer f.Close()

	return ParseXccovReport(f)
}
