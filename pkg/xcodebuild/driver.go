// Package xcodebuild shells out to the Xcode toolchain: generating the
// project, running the test suite with coverage enabled, and exporting the
// coverage bundle as JSON. The attribution core never imports this package
// directly; it consumes the exported JSON through pkg/coverage.
package xcodebuild

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// RunOptions describes one test invocation.
type RunOptions struct {
	ProjectPath string
	Workspace   string // workspace file name, relative to ProjectPath
	Scheme      string
	Destination string // e.g. "platform=iOS Simulator,name=iPhone 14,OS=17.0.1"

	DerivedDataPath  string
	ResultBundlePath string
	PrettyReportPath string // xcpretty HTML report output

	// Clean regenerates the project (tuist) and reinstalls pods before the
	// test run.
	Clean bool
}

// Driver runs the external test toolchain and exports coverage bundles.
// Commands are run to completion with no retries: a coverage run is expensive
// and re-invoking one automatically is never safe to assume.
type Driver interface {
	// RunTests runs the suite with coverage enabled, leaving an xcresult
	// bundle at opts.ResultBundlePath.
	RunTests(opts RunOptions) error
	// ExportReport converts an xcresult bundle to xccov JSON, writing it to
	// outPath.
	ExportReport(xcresultPath, outPath string) error
}

// ExecDriver is the real Driver, backed by os/exec.
type ExecDriver struct {
	// Stdout receives toolchain console output; defaults to os.Stdout.
	Stdout io.Writer
}

var _ Driver = (*ExecDriver)(nil)

func (d *ExecDriver) stdout() io.Writer {
	if d.Stdout != nil {
		return d.Stdout
	}
	return os.Stdout
}

// RunTests optionally regenerates the project, then runs
// `xcodebuild ... clean test` piped through xcpretty.
func (d *ExecDriver) RunTests(opts RunOptions) error {
	if opts.Clean {
		if err := d.runTool(ToolTuist, opts.ProjectPath, "tuist",
			"generate", "--no-open", "--no-cache"); err != nil {
			return err
		}
		if err := d.runTool(ToolCocoapods, opts.ProjectPath, "pod",
			"install", "--repo-update", "--clean-install"); err != nil {
			return err
		}
	}

	workspacePath := filepath.Join(opts.ProjectPath, opts.Workspace)
	build := exec.Command("xcodebuild",
		"-workspace", workspacePath,
		"-scheme", opts.Scheme,
		"-derivedDataPath", opts.DerivedDataPath,
		"-resultBundlePath", opts.ResultBundlePath,
		"-sdk", "iphonesimulator",
		"-destination", opts.Destination,
		"-enableCodeCoverage", "YES",
		"clean", "test",
		"CODE_SIGN_IDENTITY=",
		"CODE_SIGNING_REQUIRED=NO",
	)
	build.Dir = opts.ProjectPath

	buildOut, err := build.StdoutPipe()
	if err != nil {
		return &CommandExecutionError{Tool: ToolXcodebuild, Err: err}
	}
	build.Stderr = os.Stderr

	pretty := exec.Command("xcpretty",
		"-t", "-s", "-c",
		"--report", "html",
		"--output", opts.PrettyReportPath,
	)
	pretty.Dir = opts.ProjectPath
	pretty.Stdin = buildOut
	pretty.Stdout = d.stdout()
	pretty.Stderr = os.Stderr

	if err := build.Start(); err != nil {
		return &CommandExecutionError{Tool: ToolXcodebuild, Err: err}
	}
	if err := pretty.Start(); err != nil {
		_ = build.Wait()
		return &CommandExecutionError{Tool: ToolXCPretty, Err: err}
	}

	buildErr := build.Wait()
	prettyErr := pretty.Wait()

	if buildErr != nil {
		return toolError(ToolXcodebuild, buildErr)
	}
	if prettyErr != nil {
		return toolError(ToolXCPretty, prettyErr)
	}

	return nil
}

// ExportReport runs `xcrun xccov view --report --json` on the bundle and
// writes the JSON to outPath.
func (d *ExecDriver) ExportReport(xcresultPath, outPath string) error {
	cmd := exec.Command("xcrun", "xccov", "view", "--report", "--json", xcresultPath)
	cmd.Stderr = os.Stderr

	out, err := cmd.Output()
	if err != nil {
		return toolError(ToolXCRun, err)
	}

	if err := os.WriteFile(outPath, out, 0644); err != nil {
		return fmt.Errorf("write raw coverage report: %w", err)
	}
	return nil
}

// runTool runs a preparatory command with its stdout discarded, the way the
// tool has always hidden tuist/pod chatter.
func (d *ExecDriver) runTool(tool Tool, dir string, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = io.Discard
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return toolError(tool, err)
	}
	return nil
}

// toolError maps an exec failure to the typed taxonomy: exit statuses become
// NonZeroExitError, everything else (binary missing, pipe failure) a
// CommandExecutionError.
func toolError(tool Tool, err error) error {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return &NonZeroExitError{Tool: tool, Code: exitErr.ExitCode()}
	}
	return &CommandExecutionError{Tool: tool, Err: err}
}
