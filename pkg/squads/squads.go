// Package squads loads the squad-ownership map and attributes coverage
// records to squads.
//
// The ownership map is a CSV whose row order is the match priority: when a
// file path contains more than one squad's fragment, the squad listed first
// wins. Authors of the map are expected to list narrow fragments before broad
// ones; the matcher does not resolve specificity itself.
package squads

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Entry is one row of the ownership map: a squad and the path fragment that
// claims files for it. PathFragment is never empty.
type Entry struct {
	Squad        string
	PathFragment string
}

// ColumnMissingError reports a required column absent from the CSV header.
type ColumnMissingError struct {
	Name string
}

func (e *ColumnMissingError) Error() string {
	return fmt.Sprintf("column %q could not be found", e.Name)
}

// requiredColumns, in the order they are checked. The first missing one is
// reported; later ones are not aggregated into the error.
var requiredColumns = []string{"Squad", "Filepath"}

// LoadEntries reads the ownership CSV. The header row must contain the Squad
// and Filepath columns; any other columns are ignored. Row order is
// preserved. A header-only file yields an empty slice, which downstream
// treats as "no attribution": every file ends up N/A.
func LoadEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &ColumnMissingError{Name: requiredColumns[0]}
	}
	if err != nil {
		return nil, fmt.Errorf("read squads csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, &ColumnMissingError{Name: name}
		}
	}
	squadCol := index["Squad"]
	pathCol := index["Filepath"]

	var entries []Entry
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read squads csv row: %w", err)
		}
		if squadCol >= len(row) || pathCol >= len(row) {
			continue
		}

		fragment := row[pathCol]
		if fragment == "" {
			// An empty fragment would claim every file for one squad.
			continue
		}

		entries = append(entries, Entry{
			Squad:        row[squadCol],
			PathFragment: fragment,
		})
	}

	return entries, nil
}

// LoadEntriesFile reads the ownership CSV from disk, releasing the file as
// soon as the parse finishes.
func LoadEntriesFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open squads csv: %w", err)
	}
	defer f.Close()

	return LoadEntries(f)
}
