package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/spf13/cobra"

	"github.com/squadcov/squadcov/pkg/history"
	"github.com/squadcov/squadcov/pkg/workdir"
)

var (
	pubProject string
	pubDataset string
	pubRunID   string

	publishCmd = &cobra.Command{
		Use:   "publish",
		Short: "Publish a run's summary to BigQuery",
		Long: `Publish a recorded run's per-squad summary rows to a BigQuery dataset for
cross-run analysis and dashboards.

The dataset and the squad_coverage table are created if they don't exist.
With no --run flag the most recent run is published.`,
		Example: `  # Publish the latest run
  squadcov publish --project my-project --dataset coverage

  # Publish a specific run
  squadcov publish --project my-project --dataset coverage \
    --run 2026-08-30-14-03-12`,
		RunE: runPublish,
	}
)

// SquadCoverageRow is one BigQuery row of the squad_coverage table.
type SquadCoverageRow struct {
	IngestionTime   time.Time `bigquery:"ingestion_time"`
	RunID           string    `bigquery:"run_id"`
	RunCreatedAt    string    `bigquery:"run_created_at"`
	Squad           string    `bigquery:"squad"`
	FileCount       int       `bigquery:"file_count"`
	CoveredLines    int       `bigquery:"covered_lines"`
	ExecutableLines int       `bigquery:"executable_lines"`
	CoveragePct     float64   `bigquery:"coverage_pct"`
}

func init() {
	publishCmd.Flags().StringVar(&pubProject, "project", "", "GCP project ID (required)")
	publishCmd.Flags().StringVar(&pubDataset, "dataset", "", "BigQuery dataset name (required)")
	publishCmd.Flags().StringVar(&pubRunID, "run", "", "Run identifier (default: latest run)")
	publishCmd.MarkFlagRequired("project")
	publishCmd.MarkFlagRequired("dataset")

	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	ingestionTime := time.Now().UTC()

	dbPath, err := workdir.HistoryDBPath()
	if err != nil {
		return err
	}
	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	id := pubRunID
	if id == "" {
		id, err = store.LatestRunID()
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("run history is empty — nothing to publish")
		}
		if err != nil {
			return err
		}
	}

	run, err := store.GetRun(id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("no recorded run with id %s", id)
	}
	if err != nil {
		return err
	}
	summary, err := store.GetSummary(id)
	if err != nil {
		return err
	}
	if len(summary) == 0 {
		return fmt.Errorf("run %s has no summary rows", id)
	}

	fmt.Printf("Publishing run %s (%d squads) to %s.%s\n",
		run.ID, len(summary), pubProject, pubDataset)

	client, err := bigquery.NewClient(ctx, pubProject)
	if err != nil {
		return fmt.Errorf("create BigQuery client: %w", err)
	}
	defer client.Close()

	table, err := ensureCoverageTable(ctx, client)
	if err != nil {
		return err
	}

	rows := make([]*SquadCoverageRow, 0, len(summary))
	for _, s := range summary {
		rows = append(rows, &SquadCoverageRow{
			IngestionTime:   ingestionTime,
			RunID:           run.ID,
			RunCreatedAt:    run.CreatedAt,
			Squad:           s.Squad,
			FileCount:       s.Count,
			CoveredLines:    s.CoveredLines,
			ExecutableLines: s.ExecutableLines,
			CoveragePct:     s.CoveragePct,
		})
	}

	if err := table.Inserter().Put(ctx, rows); err != nil {
		return fmt.Errorf("insert rows: %w", err)
	}

	fmt.Printf("Published %d rows\n", len(rows))
	return nil
}

// ensureCoverageTable creates the dataset and squad_coverage table if they
// don't exist yet and returns the table handle.
func ensureCoverageTable(ctx context.Context, client *bigquery.Client) (*bigquery.Table, error) {
	dataset := client.Dataset(pubDataset)
	if _, err := dataset.Metadata(ctx); err != nil {
		if createErr := dataset.Create(ctx, &bigquery.DatasetMetadata{}); createErr != nil {
			return nil, fmt.Errorf("create dataset %s: %w", pubDataset, createErr)
		}
	}

	table := dataset.Table("squad_coverage")
	if _, err := table.Metadata(ctx); err != nil {
		schema, inferErr := bigquery.InferSchema(SquadCoverageRow{})
		if inferErr != nil {
			return nil, fmt.Errorf("infer schema: %w", inferErr)
		}
		if createErr := table.Create(ctx, &bigquery.TableMetadata{Schema: schema}); createErr != nil {
			return nil, fmt.Errorf("create table squad_coverage: %w", createErr)
		}
	}

	return table, nil
}
