package xcodebuild

import (
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ToolError_Maps_Exit_Status_To_NonZeroExit(t *testing.T) {
	t.Parallel()

	execErr := exec.Command("sh", "-c", "exit 3").Run()
	require.Error(t, execErr)

	err := toolError(ToolXCPretty, execErr)

	var exitErr *NonZeroExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, ToolXCPretty, exitErr.Tool)
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, "xcpretty exited with code 3", exitErr.Error())
}

func Test_ToolError_Wraps_Startup_Failures(t *testing.T) {
	t.Parallel()

	execErr := exec.Command("definitely-not-a-real-binary-4a1b").Run()
	require.Error(t, execErr)

	err := toolError(ToolTuist, execErr)

	var cmdErr *CommandExecutionError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, ToolTuist, cmdErr.Tool)
	assert.True(t, errors.Is(err, execErr), "original error must stay unwrappable")
}

func Test_NonZeroExitError_Unknown_Code(t *testing.T) {
	t.Parallel()

	err := &NonZeroExitError{Tool: ToolXcodebuild, Code: -1}
	assert.Equal(t, "xcodebuild exited abnormally", err.Error())
}
