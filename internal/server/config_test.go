package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 1234, cfg.Port)
	assert.Equal(t, "localhost", cfg.ServerName)
	assert.Equal(t, "127.0.0.1:1234", cfg.ListenAddr())
	assert.Equal(t, 90*time.Second, cfg.PingInterval)
	assert.True(t, cfg.ConsoleEnabled)
}

func TestLoadConfigPositionalPort(t *testing.T) {
	cfg, err := LoadConfig([]string{"5000"})
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "127.0.0.1:5000", cfg.ListenAddr())
}

func TestLoadConfigPortOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "4321")

	cfg, err := LoadConfig([]string{"5000"})
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Port, "positional argument must win over environment")
}

func TestLoadConfigRejectsBadPort(t *testing.T) {
	_, err := LoadConfig([]string{"not-a-port"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT argument is not a number")
}

func TestLoadConfigRejectsExtraArgs(t *testing.T) {
	_, err := LoadConfig([]string{"5000", "6000"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many arguments")
}

func TestSanitizeRepairsInvalidValues(t *testing.T) {
	cfg := &Config{Port: 700000, PingInterval: -time.Second}
	cfg.sanitize()

	assert.Equal(t, 1234, cfg.Port)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 90*time.Second, cfg.PingInterval)
	assert.Equal(t, 256, cfg.SendBufferSize)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestConsoleOriginList(t *testing.T) {
	cfg := &Config{ConsoleOrigins: "http://localhost:8080, http://127.0.0.1:8080 ,,"}
	assert.Equal(t,
		[]string{"http://localhost:8080", "http://127.0.0.1:8080"},
		cfg.ConsoleOriginList())
}
