// =============================
// File: pkg/client/options.go
// =============================
package client

import (
	"math/rand/v2"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/pump-sdk/pkg/pumpfun"
)

// Значения по умолчанию
const (
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 200 * time.Millisecond
	DefaultSlippageBps = 100
)

// Recorder receives client telemetry. internal/metrics implements it with
// prometheus; a nil Recorder is replaced by a no-op one.
type Recorder interface {
	ObserveFetch(op string, duration time.Duration, err error)
	ObserveCache(kind string, hit bool)
	ObserveCacheSize(entries int)
	ObserveQuote(venue Venue, side string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveFetch(string, time.Duration, error) {}
func (nopRecorder) ObserveCache(string, bool)                 {}
func (nopRecorder) ObserveCacheSize(int)                      {}
func (nopRecorder) ObserveQuote(Venue, string)                {}

// Options tune a Client. The zero value is usable.
type Options struct {
	// ProgramID and AMMProgramID default to the mainnet programs.
	ProgramID    solana.PublicKey
	AMMProgramID solana.PublicKey

	// CacheTTL is how long fetched accounts stay fresh. 0 refetches every time.
	CacheTTL time.Duration

	// MaxRetries is the number of retries after the first failed fetch.
	// Negative disables retries.
	MaxRetries int
	RetryDelay time.Duration

	// SlippageBps widens max_sol_cost and narrows min_sol_output; 0 means
	// DefaultSlippageBps. Negative quotes exact limits.
	SlippageBps int

	// Clock drives cache freshness; nil means wall time.
	Clock clock.Clock

	// Rand picks the fee recipient; nil means a randomly seeded source.
	Rand *rand.Rand

	Metrics Recorder

	// Priority is prepended to every instruction set as compute budget
	// instructions; the zero value adds none.
	Priority Priority
}

func (o Options) withDefaults() Options {
	if o.ProgramID.IsZero() {
		o.ProgramID = pumpfun.PumpProgramID
	}
	if o.AMMProgramID.IsZero() {
		o.AMMProgramID = pumpfun.PumpAMMProgramID
	}
	if o.MaxRetries == 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	if o.SlippageBps == 0 {
		o.SlippageBps = DefaultSlippageBps
	}
	if o.SlippageBps < 0 {
		o.SlippageBps = 0
	}
	if o.Clock == nil {
		o.Clock = clock.New()
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.Metrics == nil {
		o.Metrics = nopRecorder{}
	}
	return o
}

func (o Options) slippage() uint64 {
	return uint64(o.SlippageBps)
}
