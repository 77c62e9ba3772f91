package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotpay/entity"
)

func persistedMessage(t *testing.T, database *mockDatabase, index int) *entity.LogMessage {
	t.Helper()
	require.Greater(t, len(database.logMessages), index)
	message, ok := database.logMessages[index].(*entity.LogMessage)
	require.True(t, ok)
	return message
}

func TestLoggerPersistsThroughDatabase(t *testing.T) {
	database := newMockDatabase()
	logger := NewLogger("checkout", false, database)

	logger.Debug("resolving channel list")
	logger.Info("payment registered")
	logger.Warn("gateway responded slowly")
	logger.Error("notification rejected", errors.New("signature mismatch"))

	// Debug stays local, the other levels go through the sink
	require.Len(t, database.logMessages, 3)

	info := persistedMessage(t, database, 0)
	assert.Equal(t, "info", info.Level)
	assert.Equal(t, "checkout", info.Module)
	assert.Equal(t, "payment registered", info.Text)
	assert.False(t, info.Time.IsZero())

	warn := persistedMessage(t, database, 1)
	assert.Equal(t, "warn", warn.Level)
	assert.Equal(t, "gateway responded slowly", warn.Text)

	failure := persistedMessage(t, database, 2)
	assert.Equal(t, "error", failure.Level)
	assert.Equal(t, "notification rejected: signature mismatch", failure.Text)
}

func TestLoggerWithoutDatabase(t *testing.T) {
	logger := NewLogger("checkout", true, nil)

	// no sink configured; logging must not panic
	logger.Info("payment registered")
	logger.Error("notification rejected", errors.New("signature mismatch"))
}

func TestLoggerSurvivesSinkFailure(t *testing.T) {
	database := newMockDatabase()
	database.logErr = errors.New("connection refused")
	logger := NewLogger("checkout", false, database)

	logger.Info("payment registered")
	logger.Warn("gateway responded slowly")

	assert.Empty(t, database.logMessages)
}
