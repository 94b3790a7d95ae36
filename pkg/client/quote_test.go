package client

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/pump-sdk/pkg/pumpfun"
	"github.com/rovshanmuradov/pump-sdk/pkg/pumpswap"
)

// putPool мигрирует кривую fixture в AMM пул с заданными резервами
func (f *fixture) putPool(t *testing.T, reserves pumpswap.Reserves, disable uint8) (*pumpswap.Pool, *pumpswap.GlobalConfig) {
	t.Helper()

	poolAddr, err := pumpfun.CanonicalPumpPoolPDA(pumpfun.PumpProgramID, pumpfun.PumpAMMProgramID, f.mint)
	require.NoError(t, err)
	configAddr, err := pumpswap.GlobalConfigPDA(pumpfun.PumpAMMProgramID)
	require.NoError(t, err)

	pool := &pumpswap.Pool{
		BaseMint:              f.mint,
		QuoteMint:             solana.WrappedSol,
		PoolBaseTokenAccount:  solana.NewWallet().PublicKey(),
		PoolQuoteTokenAccount: solana.NewWallet().PublicKey(),
		CoinCreator:           f.curve.Creator,
	}
	config := &pumpswap.GlobalConfig{
		LPFeeBasisPoints:          20,
		ProtocolFeeBasisPoints:    5,
		CoinCreatorFeeBasisPoints: 5,
		DisableFlags:              disable,
	}

	poolData, err := pumpfun.Encode(*pool)
	require.NoError(t, err)
	configData, err := pumpfun.Encode(*config)
	require.NoError(t, err)

	f.fetcher.set(poolAddr, poolData)
	f.fetcher.set(configAddr, configData)
	f.fetcher.set(pool.PoolBaseTokenAccount, tokenAccount(reserves.Base))
	f.fetcher.set(pool.PoolQuoteTokenAccount, tokenAccount(reserves.Quote))
	return pool, config
}

func TestQuoteBuy(t *testing.T) {
	f := newFixture(t)
	rec := &countingRecorder{}
	c := f.client(Options{SlippageBps: 500, Metrics: rec})

	quote, err := c.QuoteBuy(context.Background(), f.mint, 1_000_000_000)
	require.NoError(t, err)

	assert.Equal(t, VenueBondingCurve, quote.Venue)
	assert.Equal(t, pumpfun.GetBuyTokenAmountFromSolAmount(f.global, f.curve, 1_000_000_000, false), quote.Out)
	assert.Equal(t, uint64(1_050_000_000), quote.Limit)
	assert.Equal(t, 1, rec.quotes[VenueBondingCurve])
}

func TestQuote_NegativeSlippageIsExact(t *testing.T) {
	f := newFixture(t)
	f.putUserTokens(t, 5_000_000_000)
	c := f.client(Options{SlippageBps: -1})
	ctx := context.Background()

	buy, err := c.QuoteBuy(ctx, f.mint, 1_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, buy.In, buy.Limit)

	sell, err := c.QuoteSell(ctx, f.mint, 1_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, sell.Out, sell.Limit)

	ixs, _, err := c.BuyInstructions(ctx, f.mint, f.user, 1_000_000_000)
	require.NoError(t, err)
	data := ixData(t, ixs[len(ixs)-1])
	assert.Equal(t, uint64(1_000_000_000), binary.LittleEndian.Uint64(data[16:24]))
}

func TestQuoteBuyExactTokens(t *testing.T) {
	f := newFixture(t)
	c := f.client(Options{})

	quote, err := c.QuoteBuyExactTokens(context.Background(), f.mint, 1_000_000_000_000)
	require.NoError(t, err)

	cost, err := pumpfun.GetBuySolAmountFromTokenAmount(f.global, f.curve, 1_000_000_000_000, false)
	require.NoError(t, err)
	assert.Equal(t, cost, quote.In)
	assert.Equal(t, uint64(1_000_000_000_000), quote.Out)

	maxCost, err := pumpfun.MaxSolCost(cost, DefaultSlippageBps)
	require.NoError(t, err)
	assert.Equal(t, maxCost, quote.Limit)
}

func TestQuoteSell(t *testing.T) {
	f := newFixture(t)
	c := f.client(Options{SlippageBps: 100})

	quote, err := c.QuoteSell(context.Background(), f.mint, 1_000_000_000_000)
	require.NoError(t, err)

	out, err := pumpfun.GetSellSolAmountFromTokenAmount(f.global, f.curve, 1_000_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, out, quote.Out)
	assert.Equal(t, pumpfun.MinSolOutput(out, 100), quote.Limit)
	assert.Less(t, quote.Limit, quote.Out)
}

func TestQuoteNewCoinBuy(t *testing.T) {
	f := newFixture(t)
	c := f.client(Options{})

	quote, err := c.QuoteNewCoinBuy(context.Background(), 1_000_000_000)
	require.NoError(t, err)

	fresh := pumpfun.NewBondingCurve(f.global)
	assert.Equal(t, pumpfun.GetBuyTokenAmountFromSolAmount(f.global, fresh, 1_000_000_000, true), quote.Out)

	// на новой монете комиссия создателя взимается всегда
	assert.Less(t, quote.Out, pumpfun.GetBuyTokenAmountFromSolAmount(f.global, fresh, 1_000_000_000, false))
}

func TestQuote_CompleteCurveRoutesToAMM(t *testing.T) {
	f := newFixture(t)
	f.curve.Complete = true
	f.putCurve(t, pumpfun.BondingCurveNewSize)
	reserves := pumpswap.Reserves{Base: 206_900_000_000_000, Quote: 84_990_359_054}
	pool, config := f.putPool(t, reserves, 0)
	fees := pumpswap.FeesFor(config, pool)

	c := f.client(Options{})
	ctx := context.Background()

	buy, err := c.QuoteBuy(ctx, f.mint, 1_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, VenueAMM, buy.Venue)
	assert.Equal(t, pumpswap.QuoteBuyExactQuote(reserves, fees, 1_000_000_000), buy.Out)

	exact, err := c.QuoteBuyExactTokens(ctx, f.mint, 1_000_000_000)
	require.NoError(t, err)
	wantCost, err := pumpswap.QuoteBuyExactBase(reserves, fees, 1_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, wantCost, exact.In)

	sell, err := c.QuoteSell(ctx, f.mint, 1_000_000_000)
	require.NoError(t, err)
	wantOut, err := pumpswap.QuoteSell(reserves, fees, 1_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, VenueAMM, sell.Venue)
	assert.Equal(t, wantOut, sell.Out)
}

func TestQuote_CompleteWithoutPool(t *testing.T) {
	f := newFixture(t)
	f.curve.Complete = true
	f.putCurve(t, pumpfun.BondingCurveNewSize)
	c := f.client(Options{})

	_, err := c.QuoteBuy(context.Background(), f.mint, 1_000_000)
	assert.ErrorIs(t, err, pumpfun.ErrCurveComplete)
}

func TestQuote_AMMSideDisabled(t *testing.T) {
	f := newFixture(t)
	f.curve.Complete = true
	f.putCurve(t, pumpfun.BondingCurveNewSize)
	f.putPool(t, pumpswap.Reserves{Base: 1_000_000, Quote: 1_000_000}, pumpswap.DisableSell)
	c := f.client(Options{})
	ctx := context.Background()

	_, err := c.QuoteSell(ctx, f.mint, 1_000)
	assert.ErrorIs(t, err, ErrTradingDisabled)

	_, err = c.QuoteBuy(ctx, f.mint, 1_000)
	assert.NoError(t, err)
}

func TestVenueString(t *testing.T) {
	assert.Equal(t, "bonding_curve", VenueBondingCurve.String())
	assert.Equal(t, "amm", VenueAMM.String())
	assert.Equal(t, "unknown", Venue(7).String())
}
