// =============================
// File: pkg/client/client.go
// =============================
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/pump-sdk/internal/cache"
	"github.com/rovshanmuradov/pump-sdk/pkg/pumpfun"
	"github.com/rovshanmuradov/pump-sdk/pkg/pumpswap"
)

// Client reads pump.fun state through an AccountFetcher and turns it into
// quotes and instruction sets. It is safe for concurrent use.
type Client struct {
	fetcher  AccountFetcher
	logger   *zap.Logger
	opts     Options
	accounts *cache.TTL[solana.PublicKey, []byte]

	randMu sync.Mutex
}

// TradeState is everything a buy or sell on the bonding curve needs.
type TradeState struct {
	Mint         solana.PublicKey
	User         solana.PublicKey
	Global       *pumpfun.Global
	BondingCurve *pumpfun.BondingCurve

	// CurveAccountSize is the raw size of the curve account; legacy accounts
	// below pumpfun.BondingCurveNewSize need extend_account first.
	CurveAccountSize int

	UserTokenAccount       solana.PublicKey
	UserTokenAccountExists bool
	UserTokenBalance       uint64
}

// PoolState is a snapshot of the AMM pool a curve migrated into.
type PoolState struct {
	Address  solana.PublicKey
	Pool     *pumpswap.Pool
	Config   *pumpswap.GlobalConfig
	Reserves pumpswap.Reserves
}

// New creates a client. All dependencies are explicit; nothing is read from
// global state.
func New(fetcher AccountFetcher, logger *zap.Logger, opts Options) *Client {
	opts = opts.withDefaults()
	return &Client{
		fetcher:  fetcher,
		logger:   logger.Named("pump-client"),
		opts:     opts,
		accounts: cache.NewTTL[solana.PublicKey, []byte](opts.CacheTTL, opts.Clock),
	}
}

// Invalidate drops cached data for addrs.
func (c *Client) Invalidate(addrs ...solana.PublicKey) {
	for _, addr := range addrs {
		c.accounts.Invalidate(addr)
	}
}

// InvalidateMint drops the cached curve and canonical pool of mint, forcing
// the next quote to read fresh reserves.
func (c *Client) InvalidateMint(mint solana.PublicKey) {
	if curve, err := pumpfun.BondingCurvePDA(c.opts.ProgramID, mint); err == nil {
		c.accounts.Invalidate(curve)
	}
	if pool, err := pumpfun.CanonicalPumpPoolPDA(c.opts.ProgramID, c.opts.AMMProgramID, mint); err == nil {
		c.accounts.Invalidate(pool)
	}
}

func (c *Client) retry(op string) []backoff.RetryOption {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.opts.RetryDelay

	return []backoff.RetryOption{
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(c.opts.MaxRetries) + 1),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.logger.Warn("Fetch failed, retrying",
				zap.String("op", op),
				zap.Duration("next", next),
				zap.Error(err))
		}),
	}
}

// fetch reads one account, serving it from the cache while fresh.
func (c *Client) fetch(ctx context.Context, op string, addr solana.PublicKey) ([]byte, error) {
	if data, ok := c.accounts.Get(addr); ok {
		c.opts.Metrics.ObserveCache(op, true)
		return data, nil
	}
	c.opts.Metrics.ObserveCache(op, false)

	start := time.Now()
	data, err := backoff.Retry(ctx, func() ([]byte, error) {
		data, err := c.fetcher.GetAccountData(ctx, addr)
		if errors.Is(err, ErrAccountNotFound) {
			return nil, backoff.Permanent(err)
		}
		return data, err
	}, c.retry(op)...)
	c.opts.Metrics.ObserveFetch(op, time.Since(start), err)

	if err != nil {
		return nil, &FetchError{Op: op, Address: addr, Err: err}
	}

	c.logger.Debug("Account fetched",
		zap.String("op", op),
		zap.Stringer("address", addr),
		zap.Int("size", len(data)))
	c.accounts.Set(addr, data)
	c.purgeExpired()
	return data, nil
}

// fetchMultiple reads addrs in one round trip, bypassing the cache for reads
// but refreshing it with what was found.
func (c *Client) fetchMultiple(ctx context.Context, op string, addrs []solana.PublicKey) ([][]byte, error) {
	start := time.Now()
	datas, err := backoff.Retry(ctx, func() ([][]byte, error) {
		datas, err := c.fetcher.GetMultipleAccountData(ctx, addrs)
		if err != nil {
			return nil, err
		}
		if len(datas) != len(addrs) {
			return nil, backoff.Permanent(fmt.Errorf("expected %d accounts, got %d", len(addrs), len(datas)))
		}
		return datas, nil
	}, c.retry(op)...)
	c.opts.Metrics.ObserveFetch(op, time.Since(start), err)

	if err != nil {
		return nil, &FetchError{Op: op, Address: addrs[0], Err: err}
	}
	for i, data := range datas {
		if data != nil {
			c.accounts.Set(addrs[i], data)
		}
	}
	c.purgeExpired()
	return datas, nil
}

// purgeExpired keeps the cache bounded by the set of recently read accounts.
func (c *Client) purgeExpired() {
	if removed := c.accounts.Purge(); removed > 0 {
		c.logger.Debug("Expired accounts purged", zap.Int("count", removed))
	}
	c.opts.Metrics.ObserveCacheSize(c.accounts.Len())
}

// FetchGlobal returns the global account.
func (c *Client) FetchGlobal(ctx context.Context) (*pumpfun.Global, error) {
	addr, err := pumpfun.GlobalPDA(c.opts.ProgramID)
	if err != nil {
		return nil, err
	}
	data, err := c.fetch(ctx, "global", addr)
	if err != nil {
		return nil, err
	}
	return pumpfun.DecodeGlobal(data)
}

// FetchBondingCurve returns the bonding curve of mint.
func (c *Client) FetchBondingCurve(ctx context.Context, mint solana.PublicKey) (*pumpfun.BondingCurve, error) {
	addr, err := pumpfun.BondingCurvePDA(c.opts.ProgramID, mint)
	if err != nil {
		return nil, err
	}
	data, err := c.fetch(ctx, "bonding_curve", addr)
	if err != nil {
		return nil, err
	}
	return pumpfun.DecodeBondingCurve(data)
}

// FetchBuyState loads the global account concurrently with the curve and
// the user's token account, which are read in a single round trip.
func (c *Client) FetchBuyState(ctx context.Context, mint, user solana.PublicKey) (*TradeState, error) {
	curveAddr, err := pumpfun.BondingCurvePDA(c.opts.ProgramID, mint)
	if err != nil {
		return nil, err
	}
	userATA, _, err := solana.FindAssociatedTokenAddress(user, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive user token account: %w", err)
	}

	state := &TradeState{Mint: mint, User: user, UserTokenAccount: userATA}
	var datas [][]byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		global, err := c.FetchGlobal(gctx)
		if err != nil {
			return err
		}
		state.Global = global
		return nil
	})
	g.Go(func() error {
		var err error
		datas, err = c.fetchMultiple(gctx, "trade_accounts", []solana.PublicKey{curveAddr, userATA})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	curveData := datas[0]
	if curveData == nil {
		return nil, &FetchError{Op: "bonding_curve", Address: curveAddr, Err: ErrAccountNotFound}
	}
	if state.BondingCurve, err = pumpfun.DecodeBondingCurve(curveData); err != nil {
		return nil, err
	}
	state.CurveAccountSize = len(curveData)

	if ataData := datas[1]; ataData != nil {
		balance, err := pumpswap.ParseTokenAccountAmount(ataData)
		if err != nil {
			return nil, fmt.Errorf("failed to parse user token account: %w", err)
		}
		state.UserTokenAccountExists = true
		state.UserTokenBalance = balance
	}
	return state, nil
}

// FetchPool loads the canonical AMM pool of a migrated mint with its reserves.
func (c *Client) FetchPool(ctx context.Context, mint solana.PublicKey) (*PoolState, error) {
	poolAddr, err := pumpfun.CanonicalPumpPoolPDA(c.opts.ProgramID, c.opts.AMMProgramID, mint)
	if err != nil {
		return nil, err
	}
	data, err := c.fetch(ctx, "pool", poolAddr)
	if err != nil {
		return nil, err
	}
	pool, err := pumpswap.ParsePool(data)
	if err != nil {
		return nil, err
	}

	configAddr, err := pumpswap.GlobalConfigPDA(c.opts.AMMProgramID)
	if err != nil {
		return nil, err
	}
	addrs := []solana.PublicKey{configAddr, pool.PoolBaseTokenAccount, pool.PoolQuoteTokenAccount}
	datas, err := c.fetchMultiple(ctx, "pool_accounts", addrs)
	if err != nil {
		return nil, err
	}
	for i, d := range datas {
		if d == nil {
			return nil, &FetchError{Op: "pool_accounts", Address: addrs[i], Err: ErrAccountNotFound}
		}
	}

	config, err := pumpswap.ParseGlobalConfig(datas[0])
	if err != nil {
		return nil, err
	}
	base, err := pumpswap.ParseTokenAccountAmount(datas[1])
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool base account: %w", err)
	}
	quote, err := pumpswap.ParseTokenAccountAmount(datas[2])
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool quote account: %w", err)
	}

	return &PoolState{
		Address:  poolAddr,
		Pool:     pool,
		Config:   config,
		Reserves: pumpswap.Reserves{Base: base, Quote: quote},
	}, nil
}

// pickFeeRecipient spreads trades over the protocol fee recipients.
func (c *Client) pickFeeRecipient(global *pumpfun.Global) solana.PublicKey {
	recipients := global.AllFeeRecipients()
	c.randMu.Lock()
	i := c.opts.Rand.IntN(len(recipients))
	c.randMu.Unlock()
	return recipients[i]
}
