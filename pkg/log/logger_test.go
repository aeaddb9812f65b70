package log_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadcov/squadcov/pkg/log"
)

func Test_Logger_Mirrors_Messages_To_Run_Log_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	logger, err := log.New(log.InfoLevel, dir)
	require.NoError(t, err)

	logger.Info("parsed %d files", 42)
	logger.Debug("debug detail")
	logger.Error("something broke")
	logger.Step("Running tests...")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(filepath.Join(dir, "squadcov.log"))
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "INFO: parsed 42 files")
	assert.Contains(t, content, "DEBUG: debug detail", "file log keeps debug even below console level")
	assert.Contains(t, content, "ERROR: something broke")
	assert.Contains(t, content, "STEP: Running tests...")
}

func Test_Logger_Without_Run_Dir_Is_Console_Only(t *testing.T) {
	t.Parallel()

	logger, err := log.New(log.ErrorLevel, "")
	require.NoError(t, err)
	defer logger.Close()

	// Nothing to assert beyond "does not blow up" without a file sink.
	logger.Info("quiet")
	logger.Error("loud")
}
