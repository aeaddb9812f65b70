// Package coverage decodes raw coverage exports into per-file records.
//
// The primary input is the JSON report produced by
// `xcrun xccov view --report --json`; Go text-format cover profiles are
// supported as an alternate source. Both are flattened into the same Record
// shape so the attribution pipeline downstream never cares where coverage
// came from.
package coverage

import "fmt"

// Record is one source file's coverage, flattened out of the export.
// CoveredLines <= ExecutableLines is guaranteed by the producing tool and is
// not re-validated here. Squad starts empty and is filled exactly once by
// attribution; code after that treats records as immutable.
type Record struct {
	Path            string
	CoveredLines    int
	ExecutableLines int
	LineCoverage    float64
	Squad           string
}

// Attributed reports whether the record has been assigned an owning squad.
func (r Record) Attributed() bool {
	return r.Squad != ""
}

// DeserializationError reports a structurally malformed coverage export.
// A single bad record fails the whole parse; there is no partial recovery,
// since a report built from half an export would be silently wrong.
type DeserializationError struct {
	Detail string
	Err    error
}

func (e *DeserializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed coverage export: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("malformed coverage export: %s", e.Detail)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}
