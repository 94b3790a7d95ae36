// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/pump-sdk/pkg/client"
	"github.com/rovshanmuradov/pump-sdk/pkg/pumpfun"
)

var validConfigJSON = `{
    "rpc_url": "https://rpc.example.com",
    "commitment": "finalized",
    "cache_ttl_ms": 1500,
    "max_retries": 5,
    "retry_delay_ms": 50,
    "slippage_bps": 250,
    "debug_logging": true,
    "metrics_addr": ":9102"
}`

func setupTestConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0600))
	return configPath
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "valid", content: validConfigJSON},
		{name: "defaults only", content: `{}`},
		{name: "bad rpc scheme", content: `{"rpc_url": "ftp://rpc"}`, wantErr: "invalid rpc_url"},
		{name: "bad commitment", content: `{"commitment": "recent"}`, wantErr: "invalid commitment"},
		{name: "negative ttl", content: `{"cache_ttl_ms": -1}`, wantErr: "invalid cache_ttl_ms"},
		{name: "slippage too wide", content: `{"slippage_bps": 10000}`, wantErr: "invalid slippage_bps"},
		{name: "zero retry delay", content: `{"retry_delay_ms": 0}`, wantErr: "invalid retry_delay_ms"},
		{name: "bad priority", content: `{"priority": "urgent"}`, wantErr: "invalid priority"},
		{name: "bad program id", content: `{"program_id": "not-a-key"}`, wantErr: "invalid program_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(setupTestConfig(t, tt.content))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
		})
	}
}

func TestLoadConfig_Values(t *testing.T) {
	cfg, err := LoadConfig(setupTestConfig(t, validConfigJSON))
	require.NoError(t, err)

	assert.Equal(t, "https://rpc.example.com", cfg.RPCURL)
	assert.Equal(t, "finalized", cfg.Commitment)
	assert.Equal(t, 1500*time.Millisecond, cfg.CacheTTL())
	assert.Equal(t, 50*time.Millisecond, cfg.RetryDelay())
	assert.True(t, cfg.DebugLogging)
	assert.Equal(t, DefaultLogFile, cfg.LogFile)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultRPCURL, cfg.RPCURL)
	assert.Equal(t, DefaultCommitment, cfg.Commitment)
	assert.Equal(t, DefaultMaxRetries, cfg.MaxRetries)
	assert.Equal(t, DefaultSlippageBps, cfg.SlippageBps)
	assert.Zero(t, cfg.CacheTTL())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("PUMP_SDK_RPC_URL", "https://env.example.com")
	t.Setenv("PUMP_SDK_SLIPPAGE_BPS", "300")

	cfg, err := LoadConfig(setupTestConfig(t, validConfigJSON))
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.RPCURL)
	assert.Equal(t, 300, cfg.SlippageBps)
	assert.Equal(t, 5, cfg.MaxRetries)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestClientOptions(t *testing.T) {
	cfg := &Config{
		CacheTTLMs:   2000,
		MaxRetries:   0,
		RetryDelayMs: 10,
		SlippageBps:  50,
		ProgramID:    pumpfun.PumpProgramID.String(),
		Priority:     "medium",
	}

	opts := cfg.ClientOptions()
	assert.Equal(t, 2*time.Second, opts.CacheTTL)
	assert.Equal(t, -1, opts.MaxRetries)
	assert.Equal(t, 50, opts.SlippageBps)
	assert.Equal(t, pumpfun.PumpProgramID, opts.ProgramID)
	assert.True(t, opts.AMMProgramID.IsZero())
	assert.Equal(t, client.Priority{ComputeUnits: 400_000, MicroLamports: 5_000}, opts.Priority)
}

func TestClientOptions_ZeroSlippage(t *testing.T) {
	cfg, err := LoadConfig(setupTestConfig(t, `{"slippage_bps": 0}`))
	require.NoError(t, err)

	opts := cfg.ClientOptions()
	assert.Equal(t, -1, opts.SlippageBps)
}
