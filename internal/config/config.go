// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rovshanmuradov/pump-sdk/pkg/client"
)

// EnvPrefix prefixes every environment override, e.g. PUMP_SDK_RPC_URL.
const EnvPrefix = "PUMP_SDK"

type Config struct {
	RPCURL       string `mapstructure:"rpc_url"`
	Commitment   string `mapstructure:"commitment"`
	CacheTTLMs   int    `mapstructure:"cache_ttl_ms"`
	MaxRetries   int    `mapstructure:"max_retries"`
	RetryDelayMs int    `mapstructure:"retry_delay_ms"`
	SlippageBps  int    `mapstructure:"slippage_bps"`
	DebugLogging bool   `mapstructure:"debug_logging"`
	LogFile      string `mapstructure:"log_file"`
	MetricsAddr  string `mapstructure:"metrics_addr"`
	ProgramID    string `mapstructure:"program_id"`
	AMMProgramID string `mapstructure:"amm_program_id"`
	Priority     string `mapstructure:"priority"`
}

const (
	DefaultRPCURL       = "https://api.mainnet-beta.solana.com"
	DefaultCommitment   = "confirmed"
	DefaultCacheTTLMs   = 0
	DefaultMaxRetries   = 3
	DefaultRetryDelayMs = 200
	DefaultSlippageBps  = 100
	DefaultLogFile      = "pumpquote.log"
)

var validCommitments = map[string]bool{
	"processed": true,
	"confirmed": true,
	"finalized": true,
}

// LoadConfig reads path (optional), then a .env file next to the working
// directory, then PUMP_SDK_* environment variables, in increasing priority.
func LoadConfig(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	defaults := map[string]interface{}{
		"rpc_url":        DefaultRPCURL,
		"commitment":     DefaultCommitment,
		"cache_ttl_ms":   DefaultCacheTTLMs,
		"max_retries":    DefaultMaxRetries,
		"retry_delay_ms": DefaultRetryDelayMs,
		"slippage_bps":   DefaultSlippageBps,
		"debug_logging":  false,
		"log_file":       DefaultLogFile,
		"metrics_addr":   "",
		"program_id":     "",
		"amm_program_id": "",
		"priority":       "",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, validateConfig(&cfg)
}

// loadDotEnv loads path when it exists. Variables already set win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.RPCURL == "" {
		return errors.New("rpc_url is empty")
	}
	if err := validateURL(cfg.RPCURL, "http"); err != nil {
		return fmt.Errorf("invalid rpc_url: %w", err)
	}
	if !validCommitments[cfg.Commitment] {
		return fmt.Errorf("invalid commitment %q", cfg.Commitment)
	}
	if err := validateNumericParams(cfg); err != nil {
		return err
	}
	if _, err := client.PriorityFor(client.PriorityLevel(cfg.Priority)); err != nil {
		return fmt.Errorf("invalid priority: %w", err)
	}
	for key, value := range map[string]string{"program_id": cfg.ProgramID, "amm_program_id": cfg.AMMProgramID} {
		if value == "" {
			continue
		}
		if _, err := solana.PublicKeyFromBase58(value); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}
	return nil
}

func validateNumericParams(cfg *Config) error {
	if cfg.CacheTTLMs < 0 {
		return errors.New("invalid cache_ttl_ms")
	}
	if cfg.MaxRetries < 0 {
		return errors.New("invalid max_retries")
	}
	if cfg.RetryDelayMs <= 0 {
		return errors.New("invalid retry_delay_ms")
	}
	if cfg.SlippageBps < 0 || cfg.SlippageBps >= 10_000 {
		return errors.New("invalid slippage_bps")
	}
	return nil
}

func validateURL(rawURL string, protocol string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	return nil
}

// CacheTTL returns cache_ttl_ms as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMs) * time.Millisecond
}

// RetryDelay returns retry_delay_ms as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

// ClientOptions maps the configuration onto client.Options.
func (c *Config) ClientOptions() client.Options {
	opts := client.Options{
		CacheTTL:    c.CacheTTL(),
		MaxRetries:  c.MaxRetries,
		RetryDelay:  c.RetryDelay(),
		SlippageBps: c.SlippageBps,
	}
	// client treats 0 as "use the default"
	if c.MaxRetries == 0 {
		opts.MaxRetries = -1
	}
	if c.SlippageBps == 0 {
		opts.SlippageBps = -1
	}
	if c.ProgramID != "" {
		opts.ProgramID = solana.MustPublicKeyFromBase58(c.ProgramID)
	}
	if c.AMMProgramID != "" {
		opts.AMMProgramID = solana.MustPublicKeyFromBase58(c.AMMProgramID)
	}
	opts.Priority, _ = client.PriorityFor(client.PriorityLevel(c.Priority))
	return opts
}
