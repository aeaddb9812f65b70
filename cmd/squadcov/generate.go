package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/squadcov/squadcov/pkg/coverage"
	"github.com/squadcov/squadcov/pkg/log"
	"github.com/squadcov/squadcov/pkg/workdir"
	"github.com/squadcov/squadcov/pkg/xcodebuild"
)

var (
	genInputFile    string
	genXCResultFile string
	genProfileFile  string
	genOutputFile   string

	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate squad coverage reports from an existing test result",
		Long: `Generate the full and summary coverage reports from an existing coverage
artifact, without running any tests.

The coverage source is either an .xcresult bundle (exported to JSON via
'xcrun xccov') or a Go text-format cover profile (--profile). The squads CSV
must have Squad and Filepath columns; rows are matched top to bottom, first
match wins, so list narrow path fragments before broad ones.`,
		Example: `  # Generate from an xcresult bundle
  squadcov generate --input-file squads.csv --xcresult-file result.xcresult

  # Generate from a Go cover profile
  squadcov generate --input-file squads.csv --profile coverage.out

  # Write the summary to an explicit path (must not exist yet)
  squadcov generate --input-file squads.csv --xcresult-file result.xcresult \
    --output team-coverage.csv`,
		RunE: runGenerate,
	}
)

func init() {
	generateCmd.Flags().StringVarP(&genInputFile, "input-file", "i", "", "Squads CSV with Squad,Filepath columns (required)")
	generateCmd.Flags().StringVarP(&genXCResultFile, "xcresult-file", "x", "", "Path to the .xcresult bundle")
	generateCmd.Flags().StringVar(&genProfileFile, "profile", "", "Path to a Go cover profile (alternative to --xcresult-file)")
	generateCmd.Flags().StringVarP(&genOutputFile, "output", "o", "", "Explicit summary output path (default: run directory)")

	generateCmd.MarkFlagRequired("input-file")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if genXCResultFile == "" && genProfileFile == "" {
		return fmt.Errorf("either --xcresult-file or --profile must be specified")
	}
	if genXCResultFile != "" && genProfileFile != "" {
		return fmt.Errorf("--xcresult-file and --profile are mutually exclusive")
	}

	if err := workdir.ValidateInputFile(genInputFile, "csv"); err != nil {
		return err
	}
	if genXCResultFile != "" {
		if err := workdir.ValidateInputFile(genXCResultFile, "xcresult"); err != nil {
			return err
		}
	}
	if genOutputFile != "" {
		if err := workdir.ValidateOutputFile(genOutputFile); err != nil {
			return err
		}
	}

	run, err := workdir.NewRun()
	if err != nil {
		return err
	}

	logger, err := newLogger(run)
	if err != nil {
		return err
	}
	defer logger.Close()

	logger.Info("Run: %s", run.ID)

	records, source, err := loadCoverage(logger, run, genXCResultFile, genProfileFile)
	if err != nil {
		return err
	}

	_, err = runPipeline(logger, run, records, genInputFile, source, genOutputFile)
	return err
}

// loadCoverage produces coverage records from whichever source was given: an
// xcresult bundle (exported through the toolchain driver) or a Go cover
// profile.
func loadCoverage(logger *log.Logger, run *workdir.Run, xcresultFile, profileFile string) ([]coverage.Record, string, error) {
	if profileFile != "" {
		records, err := coverage.ParseGoCoverProfile(profileFile)
		if err != nil {
			return nil, "", err
		}
		logger.Debug("parsed %d files from cover profile %s", len(records), profileFile)
		return records, profileFile, nil
	}

	driver := &xcodebuild.ExecDriver{}
	rawPath := run.RawReportPath()
	logger.Step("Exporting coverage report from %s...", xcresultFile)
	if err := driver.ExportReport(xcresultFile, rawPath); err != nil {
		return nil, "", err
	}

	records, err := coverage.ParseXccovReportFile(rawPath)
	if err != nil {
		return nil, "", err
	}
	logger.Debug("parsed %d files from coverage export", len(records))
	return records, xcresultFile, nil
}

// newLogger builds the per-run logger honoring the global --debug flag.
func newLogger(run *workdir.Run) (*log.Logger, error) {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.New(level, run.Dir)
}
