/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoggerSucceedsForKnownLevels(t *testing.T) {
	for _, levelStr := range Levels {
		logger, err := NewLogger(levelStr)
		require.NoError(t, err, "level %q", levelStr)
		assert.NotNil(t, logger.Logger)
	}
}

func newLoggerSetsLevel(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, logger.Level)
	assert.Equal(t, slog.LevelDebug, Level())
}

func newLoggerReturnsErrorForUnknownLevel(t *testing.T) {
	_, err := NewLogger("verbose")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestLogger(t *testing.T) {
	t.Run("logger.NewLogger succeeds for known levels", newLoggerSucceedsForKnownLevels)
	t.Run("logger.NewLogger sets level", newLoggerSetsLevel)
	t.Run("logger.NewLogger returns error for unknown level", newLoggerReturnsErrorForUnknownLevel)
}
