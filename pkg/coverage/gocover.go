package coverage

import (
	"golang.org/x/tools/cover"
)

// ParseGoCoverProfile reads a Go text-format cover profile (go test
// -coverprofile) and maps it onto the same records the xccov path produces.
// Statement counts stand in for line counts: NumStmt totals become executable
// lines, statements with a non-zero hit count become covered lines.
func ParseGoCoverProfile(path string) ([]Record, error) {
	profiles, err := cover.ParseProfiles(path)
	if err != nil {
		return nil, &DeserializationError{Detail: "invalid cover profile", Err: err}
	}

	var records []Record
	for _, profile := range profiles {
		total := 0
		covered := 0
		for _, block := range profile.Blocks {
			total += block.NumStmt
			if block.Count > 0 {
				covered += block.NumStmt
			}
		}

		var pct float64
		if total > 0 {
			pct = float64(covered) / float64(total)
		}

		records = append(records, Record{
			Path:            profile.FileName,
			CoveredLines:    covered,
			ExecutableLines: total,
			LineCoverage:    pct,
		})
	}

	return records, nil
}
