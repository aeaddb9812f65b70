package xcodebuild

import "fmt"

// Tool names the external command a failure came from.
type Tool string

const (
	ToolTuist      Tool = "tuist"
	ToolCocoapods  Tool = "pod"
	ToolXcodebuild Tool = "xcodebuild"
	ToolXCPretty   Tool = "xcpretty"
	ToolXCRun      Tool = "xcrun"
)

// CommandExecutionError wraps a failure to start or complete one of the
// external toolchain commands.
type CommandExecutionError struct {
	Tool Tool
	Err  error
}

func (e *CommandExecutionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *CommandExecutionError) Unwrap() error {
	return e.Err
}

// NonZeroExitError reports a toolchain command that ran but exited non-zero.
// Code is -1 when the exit status could not be determined.
type NonZeroExitError struct {
	Tool Tool
	Code int
}

func (e *NonZeroExitError) Error() string {
	if e.Code < 0 {
		return fmt.Sprintf("%s exited abnormally", e.Tool)
	}
	return fmt.Sprintf("%s exited with code %d", e.Tool, e.Code)
}
