package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/squadcov/squadcov/pkg/coverage"
	"github.com/squadcov/squadcov/pkg/workdir"
	"github.com/squadcov/squadcov/pkg/xcodebuild"
)

var (
	runInputFile   string
	runProjectPath string
	runWorkspace   string
	runScheme      string
	runDestination string
	runClean       bool
	runOutputFile  string

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the test suite and generate squad coverage reports",
		Long: `Run the project's test suite with code coverage enabled, then generate
the squad-attributed coverage reports from the result.

The test run goes through xcodebuild piped into xcpretty; with --clean the
project is regenerated with tuist and pods are reinstalled first. Workspace,
scheme and destination can be set in the config file so they don't have to be
repeated on every invocation.`,
		Example: `  # Run tests and generate reports
  squadcov run --input-file squads.csv --project-path ~/src/app \
    --workspace App.xcworkspace --scheme App-Test

  # Regenerate the project first
  squadcov run --input-file squads.csv --project-path ~/src/app --clean`,
		RunE: runRun,
	}
)

func init() {
	runCmd.Flags().StringVarP(&runInputFile, "input-file", "i", "", "Squads CSV with Squad,Filepath columns (required)")
	runCmd.Flags().StringVarP(&runProjectPath, "project-path", "p", "", "Path to the project directory")
	runCmd.Flags().StringVarP(&runWorkspace, "workspace", "w", "", "Workspace file name, relative to the project directory")
	runCmd.Flags().StringVarP(&runScheme, "scheme", "s", "", "Scheme to test")
	runCmd.Flags().StringVarP(&runDestination, "destination", "d", "", "xcodebuild destination")
	runCmd.Flags().BoolVar(&runClean, "clean", false, "Regenerate the project (tuist, pod install) before testing")
	runCmd.Flags().StringVarP(&runOutputFile, "output", "o", "", "Explicit summary output path (default: run directory)")

	runCmd.MarkFlagRequired("input-file")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Flags override the config file.
	projectPath := firstNonEmpty(runProjectPath, cfg.ProjectPath)
	workspace := firstNonEmpty(runWorkspace, cfg.Workspace)
	scheme := firstNonEmpty(runScheme, cfg.Scheme)
	destination := firstNonEmpty(runDestination, cfg.Destination)

	if projectPath == "" {
		return fmt.Errorf("--project-path is required (flag or config file)")
	}
	if workspace == "" || scheme == "" {
		return fmt.Errorf("--workspace and --scheme are required (flag or config file)")
	}

	if err := workdir.ValidateInputFile(runInputFile, "csv"); err != nil {
		return err
	}
	if runOutputFile != "" {
		if err := workdir.ValidateOutputFile(runOutputFile); err != nil {
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

	driver := &xcodebuild.ExecDriver{}
	logger.Step("Running tests (%s / %s)...", workspace, scheme)
	err = driver.RunTests(xcodebuild.RunOptions{
		ProjectPath:      projectPath,
		Workspace:        workspace,
		Scheme:           scheme,
		Destination:      destination,
		DerivedDataPath:  run.DerivedDataPath(),
		ResultBundlePath: run.XCResultPath(),
		PrettyReportPath: run.XCPrettyReportPath(),
		Clean:            runClean,
	})
	if err != nil {
		return err
	}

	logger.Step("Exporting coverage report...")
	rawPath := run.RawReportPath()
	if err := driver.ExportReport(run.XCResultPath(), rawPath); err != nil {
		return err
	}

	records, err := coverage.ParseXccovReportFile(rawPath)
	if err != nil {
		return err
	}
	logger.Debug("parsed %d files from coverage export", len(records))

	_, err = runPipeline(logger, run, records, runInputFile, run.XCResultPath(), runOutputFile)
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
