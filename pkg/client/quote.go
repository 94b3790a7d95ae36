// =============================
// File: pkg/client/quote.go
// =============================
package client

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pump-sdk/pkg/pumpfun"
	"github.com/rovshanmuradov/pump-sdk/pkg/pumpswap"
)

// ErrTradingDisabled is returned when the AMM has the requested side disabled.
var ErrTradingDisabled = errors.New("trading disabled on pool")

// Venue is where a quote was priced.
type Venue int

const (
	VenueBondingCurve Venue = iota
	VenueAMM
)

func (v Venue) String() string {
	switch v {
	case VenueBondingCurve:
		return "bonding_curve"
	case VenueAMM:
		return "amm"
	default:
		return "unknown"
	}
}

// Quote is the result of pricing a trade.
//
// For buys In is lamports and Out is tokens; for sells it is the other way
// around. Limit is the slippage bound to put into the instruction:
// max_sol_cost for buys, min_sol_output for sells.
type Quote struct {
	Mint  solana.PublicKey
	Venue Venue
	In    uint64
	Out   uint64
	Limit uint64
}

// QuoteBuy prices spending solAmount lamports on mint.
func (c *Client) QuoteBuy(ctx context.Context, mint solana.PublicKey, solAmount uint64) (*Quote, error) {
	global, curve, err := c.curveState(ctx, mint)
	if err != nil {
		return nil, err
	}

	quote := &Quote{Mint: mint, In: solAmount}
	if curve.CheckTradable() != nil {
		pool, err := c.tradablePool(ctx, mint, pumpswap.DisableBuy)
		if err != nil {
			return nil, err
		}
		quote.Venue = VenueAMM
		quote.Out = pumpswap.QuoteBuyExactQuote(pool.Reserves, pumpswap.FeesFor(pool.Config, pool.Pool), solAmount)
	} else {
		quote.Out = pumpfun.GetBuyTokenAmountFromSolAmount(global, curve, solAmount, false)
	}

	if quote.Limit, err = pumpfun.MaxSolCost(solAmount, c.opts.slippage()); err != nil {
		return nil, err
	}
	return c.served(quote, "buy"), nil
}

// QuoteBuyExactTokens prices buying exactly tokenAmount tokens of mint.
func (c *Client) QuoteBuyExactTokens(ctx context.Context, mint solana.PublicKey, tokenAmount uint64) (*Quote, error) {
	global, curve, err := c.curveState(ctx, mint)
	if err != nil {
		return nil, err
	}

	quote := &Quote{Mint: mint, Out: tokenAmount}
	if curve.CheckTradable() != nil {
		pool, err := c.tradablePool(ctx, mint, pumpswap.DisableBuy)
		if err != nil {
			return nil, err
		}
		quote.Venue = VenueAMM
		quote.In, err = pumpswap.QuoteBuyExactBase(pool.Reserves, pumpswap.FeesFor(pool.Config, pool.Pool), tokenAmount)
		if err != nil {
			return nil, err
		}
	} else {
		// the program delivers at most the real reserves
		quote.Out = min(tokenAmount, curve.RealTokenReserves)
		quote.In, err = pumpfun.GetBuySolAmountFromTokenAmount(global, curve, tokenAmount, false)
		if err != nil {
			return nil, err
		}
	}

	if quote.Limit, err = pumpfun.MaxSolCost(quote.In, c.opts.slippage()); err != nil {
		return nil, err
	}
	return c.served(quote, "buy_exact_tokens"), nil
}

// QuoteSell prices selling tokenAmount tokens of mint.
func (c *Client) QuoteSell(ctx context.Context, mint solana.PublicKey, tokenAmount uint64) (*Quote, error) {
	global, curve, err := c.curveState(ctx, mint)
	if err != nil {
		return nil, err
	}

	quote := &Quote{Mint: mint, In: tokenAmount}
	if curve.CheckTradable() != nil {
		pool, err := c.tradablePool(ctx, mint, pumpswap.DisableSell)
		if err != nil {
			return nil, err
		}
		quote.Venue = VenueAMM
		quote.Out, err = pumpswap.QuoteSell(pool.Reserves, pumpswap.FeesFor(pool.Config, pool.Pool), tokenAmount)
		if err != nil {
			return nil, err
		}
	} else {
		quote.Out, err = pumpfun.GetSellSolAmountFromTokenAmount(global, curve, tokenAmount)
		if err != nil {
			return nil, err
		}
	}

	quote.Limit = pumpfun.MinSolOutput(quote.Out, c.opts.slippage())
	return c.served(quote, "sell"), nil
}

// QuoteNewCoinBuy prices the initial buy bundled with creating a coin. The
// creator fee applies because the buyer becomes the creator.
func (c *Client) QuoteNewCoinBuy(ctx context.Context, solAmount uint64) (*Quote, error) {
	global, err := c.FetchGlobal(ctx)
	if err != nil {
		return nil, err
	}

	curve := pumpfun.NewBondingCurve(global)
	quote := &Quote{
		In:  solAmount,
		Out: pumpfun.GetBuyTokenAmountFromSolAmount(global, curve, solAmount, true),
	}
	if quote.Limit, err = pumpfun.MaxSolCost(solAmount, c.opts.slippage()); err != nil {
		return nil, err
	}
	return c.served(quote, "new_coin_buy"), nil
}

func (c *Client) curveState(ctx context.Context, mint solana.PublicKey) (*pumpfun.Global, *pumpfun.BondingCurve, error) {
	global, err := c.FetchGlobal(ctx)
	if err != nil {
		return nil, nil, err
	}
	curve, err := c.FetchBondingCurve(ctx, mint)
	if err != nil {
		return nil, nil, err
	}
	return global, curve, nil
}

// tradablePool fetches the pool a completed curve migrated into.
func (c *Client) tradablePool(ctx context.Context, mint solana.PublicKey, side uint8) (*PoolState, error) {
	pool, err := c.FetchPool(ctx, mint)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			// complete but not migrated yet
			return nil, pumpfun.ErrCurveComplete
		}
		return nil, err
	}
	if pool.Config.IsDisabled(side) {
		return nil, ErrTradingDisabled
	}
	return pool, nil
}

func (c *Client) served(q *Quote, side string) *Quote {
	c.opts.Metrics.ObserveQuote(q.Venue, side)
	c.logger.Debug("Quote served",
		zap.String("side", side),
		zap.Stringer("venue", q.Venue),
		zap.Stringer("mint", q.Mint),
		zap.Uint64("in", q.In),
		zap.Uint64("out", q.Out),
		zap.Uint64("limit", q.Limit))
	return q
}
