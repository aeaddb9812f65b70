package main

import (
	"time"

	"github.com/squadcov/squadcov/pkg/coverage"
	"github.com/squadcov/squadcov/pkg/history"
	"github.com/squadcov/squadcov/pkg/log"
	"github.com/squadcov/squadcov/pkg/report"
	"github.com/squadcov/squadcov/pkg/squads"
	"github.com/squadcov/squadcov/pkg/workdir"
)

// pipelineResult carries the output paths of one attribution run.
type pipelineResult struct {
	FullReportPath string
	ReportPath     string
	SummaryRows    int
}

// runPipeline is the attribution core shared by run and generate: squads CSV
// and coverage records in, two CSV reports and a history entry out.
//
// An empty ownership map is not fatal; every file just lands in the N/A row.
// Each stage finishes before the next starts, and no stage mutates its input.
func runPipeline(logger *log.Logger, run *workdir.Run, records []coverage.Record,
	squadsCSV, source, explicitOutput string) (*pipelineResult, error) {

	entries, err := squads.LoadEntriesFile(squadsCSV)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded %d ownership entries from %s", len(entries), squadsCSV)

	attributed := squads.Attribute(records, entries)

	full := report.BuildFull(attributed)
	summary := report.BuildSummary(full)

	fullPath, err := report.SaveFullReport(full, run)
	if err != nil {
		return nil, err
	}

	var reportPath string
	if explicitOutput != "" {
		if err := report.SaveSummaryTo(summary, explicitOutput); err != nil {
			return nil, err
		}
		reportPath = explicitOutput
	} else {
		reportPath, err = report.SaveSummary(summary, run)
		if err != nil {
			return nil, err
		}
	}

	logger.Info("Full report: %s", fullPath)
	logger.Info("Summary report: %s", reportPath)

	if err := recordRun(run, records, summary, squadsCSV, source, fullPath, reportPath); err != nil {
		// History is bookkeeping; a failed insert should not fail the run
		// whose reports are already on disk.
		logger.Error("could not record run in history: %v", err)
	}

	return &pipelineResult{
		FullReportPath: fullPath,
		ReportPath:     reportPath,
		SummaryRows:    len(summary),
	}, nil
}

func recordRun(run *workdir.Run, records []coverage.Record,
	summary []report.SummaryRow, squadsCSV, source, fullPath, reportPath string) error {

	dbPath, err := workdir.HistoryDBPath()
	if err != nil {
		return err
	}
	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	covered, executable := 0, 0
	for _, row := range summary {
		covered += row.CoveredLines
		executable += row.ExecutableLines
	}
	var pct float64
	if executable > 0 {
		pct = 100 * float64(covered) / float64(executable)
	}

	return store.RecordRun(history.Run{
		ID:              run.ID,
		CreatedAt:       time.Now().Format(time.RFC3339),
		Source:          source,
		SquadsCSV:       squadsCSV,
		FullReportPath:  fullPath,
		ReportPath:      reportPath,
		FileCount:       len(records),
		CoveredLines:    covered,
		ExecutableLines: executable,
		CoveragePct:     pct,
	}, summary)
}
