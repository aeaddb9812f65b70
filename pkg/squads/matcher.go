package squads

import (
	"strings"

	"github.com/squadcov/squadcov/pkg/coverage"
)

// Attribute assigns each coverage record's squad by first-match-wins
// substring scanning: for each record, entries are scanned in map order and
// the first whose fragment is contained in the record's path claims it.
// Records nothing claims keep an empty squad, which the report layer renders
// as "N/A".
//
// Matching stops outright once as many records have been attributed as there
// are entries. The original tool assumed roughly one file per ownership row,
// so when one fragment legitimately matches several files, the later files
// are left unattributed. Known limitation, kept deliberately; see DESIGN.md.
//
// The input slice is not modified. The returned slice is a fresh copy with
// squads filled in, in the same order, so attribution is the single point
// where records change.
func Attribute(records []coverage.Record, entries []Entry) []coverage.Record {
	out := make([]coverage.Record, len(records))
	copy(out, records)

	if len(entries) == 0 {
		return out
	}

	attributed := 0
	for i := range out {
		if attributed == len(entries) {
			break
		}
		for _, entry := range entries {
			if strings.Contains(out[i].Path, entry.PathFragment) {
				out[i].Squad = entry.Squad
				attributed++
				break
			}
		}
	}

	return out
}
