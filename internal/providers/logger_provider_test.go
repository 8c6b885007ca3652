package providers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
)

func TestNewLogProvider_CreatesLogFile(t *testing.T) {
	dir := t.TempDir()
	conf := &structures.Config{
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   dir,
		},
	}

	logger, err := NewLogProvider(conf)
	require.NoError(t, err)

	logger.Infof(TypeApp, "test message %d", 1)
	logger.Debugf(TypeFetch, "hidden at info level")
	logger.Warnf(TypeStore, "store message")
	logger.Close()

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"test message 1"`)
	assert.Contains(t, string(data), `"type":"store"`)
	assert.NotContains(t, string(data), "hidden at info level")
}

func TestNewLogProvider_ConsoleOnlyWithoutDir(t *testing.T) {
	conf := &structures.Config{Logger: structures.LoggerConfig{Level: "warn", Mode: 0644}}

	logger, err := NewLogProvider(conf)
	require.NoError(t, err)
	defer logger.Close()

	assert.Nil(t, logger.(*LogProvider).file)
	assert.Equal(t, zerolog.WarnLevel, logger.(*LogProvider).logger.GetLevel())
}

func TestNewLogProvider_DebugFlagForcesDebugLevel(t *testing.T) {
	conf := &structures.Config{
		Debug:  true,
		Logger: structures.LoggerConfig{Level: "error", Mode: 0644},
	}

	logger, err := NewLogProvider(conf)
	require.NoError(t, err)
	defer logger.Close()

	assert.Equal(t, zerolog.DebugLevel, logger.(*LogProvider).logger.GetLevel())
}

func TestNewLogProvider_InvalidDir(t *testing.T) {
	conf := &structures.Config{
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/nonexistent/directory/path",
		},
	}

	_, err := NewLogProvider(conf)
	assert.Error(t, err)
}

func TestNewLogProvider_InvalidLevel(t *testing.T) {
	conf := &structures.Config{Logger: structures.LoggerConfig{Level: "verbose", Mode: 0644}}

	_, err := NewLogProvider(conf)
	assert.Error(t, err)
}
