package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/melwalletd-client/internal/apperror"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:11773", cfg.Daemon.URL)
	assert.Equal(t, "rest", cfg.Daemon.Protocol)
	assert.Equal(t, 30*time.Second, cfg.Daemon.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Confirm.PollInterval)
	assert.Equal(t, 5*time.Minute, cfg.Confirm.Timeout)
	assert.EqualValues(t, 5, cfg.Confirm.MaxFailures)
	assert.Equal(t, 10*time.Second, cfg.Monitor.Interval)
	assert.Equal(t, 8081, cfg.Monitor.HealthPort)
	assert.False(t, cfg.Telemetry.Enabled)

	amount, err := cfg.Faucet.AmountInt()
	require.NoError(t, err)
	assert.Equal(t, "1001000000", amount.String())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "melwallet.yaml")
	yaml := []byte(`
daemon:
  url: http://wallet.internal:9000
  protocol: jsonrpc
faucet:
  amount: 0
confirm:
  poll_interval: 250ms
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o600))
	t.Setenv("MELWALLET_DAEMON_TIMEOUT", "3s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://wallet.internal:9000", cfg.Daemon.URL)
	assert.Equal(t, "jsonrpc", cfg.Daemon.Protocol)
	assert.Equal(t, 3*time.Second, cfg.Daemon.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Confirm.PollInterval)

	amount, err := cfg.Faucet.AmountInt()
	require.NoError(t, err)
	assert.Nil(t, amount, "zero leaves the amount to the daemon")
}

func TestLoad_InvalidIsConfigurationError(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := map[string]struct{ key, value string }{
		"protocol": {"MELWALLET_DAEMON_PROTOCOL", "grpc"},
		"url":      {"MELWALLET_DAEMON_URL", "localhost"},
		"faucet":   {"MELWALLET_FAUCET_AMOUNT", "-4"},
		"tracing":  {"MELWALLET_OTEL_PROVIDER", "jaeger"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			_, err := Load("")
			require.Error(t, err)
			assert.True(t, apperror.HasCode(err, apperror.CodeConfigurationError), "got %v", err)
		})
	}
}
