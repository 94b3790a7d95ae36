package client

import (
	"context"
	"encoding/binary"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pump-sdk/pkg/pumpfun"
	"github.com/rovshanmuradov/pump-sdk/pkg/pumpswap"
)

var errTransient = errors.New("rpc: 429 too many requests")

// fakeFetcher хранит аккаунты в памяти и умеет имитировать временные сбои
type fakeFetcher struct {
	mu         sync.Mutex
	accounts   map[solana.PublicKey][]byte
	failures   int
	calls      int
	multiCalls int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{accounts: make(map[solana.PublicKey][]byte)}
}

func (f *fakeFetcher) set(addr solana.PublicKey, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[addr] = data
}

func (f *fakeFetcher) GetAccountData(_ context.Context, addr solana.PublicKey) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failures > 0 {
		f.failures--
		return nil, errTransient
	}
	data, ok := f.accounts[addr]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return data, nil
}

func (f *fakeFetcher) GetMultipleAccountData(_ context.Context, addrs []solana.PublicKey) ([][]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.multiCalls++
	if f.failures > 0 {
		f.failures--
		return nil, errTransient
	}
	out := make([][]byte, len(addrs))
	for i, addr := range addrs {
		out[i] = f.accounts[addr]
	}
	return out, nil
}

func (f *fakeFetcher) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls, f.multiCalls
}

type countingRecorder struct {
	mu     sync.Mutex
	fetch  int
	hits   int
	misses int
	size   int
	quotes map[Venue]int
}

func (r *countingRecorder) ObserveFetch(string, time.Duration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetch++
}

func (r *countingRecorder) ObserveCache(_ string, hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

func (r *countingRecorder) ObserveCacheSize(entries int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.size = entries
}

func (r *countingRecorder) ObserveQuote(v Venue, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.quotes == nil {
		r.quotes = make(map[Venue]int)
	}
	r.quotes[v]++
}

type fixture struct {
	fetcher *fakeFetcher
	clock   *clock.Mock
	global  *pumpfun.Global
	curve   *pumpfun.BondingCurve
	mint    solana.PublicKey
	user    solana.PublicKey
}

func testGlobal() *pumpfun.Global {
	global := &pumpfun.Global{
		Initialized:                 true,
		FeeRecipient:                solana.NewWallet().PublicKey(),
		InitialVirtualTokenReserves: 1_073_000_000_000_000,
		InitialVirtualSolReserves:   30_000_000_000,
		InitialRealTokenReserves:    793_100_000_000_000,
		TokenTotalSupply:            1_000_000_000_000_000,
		FeeBasisPoints:              95,
		WithdrawAuthority:           solana.NewWallet().PublicKey(),
		EnableMigrate:               true,
		CreatorFeeBasisPoints:       5,
	}
	global.FeeRecipients[0] = solana.NewWallet().PublicKey()
	global.FeeRecipients[1] = solana.NewWallet().PublicKey()
	return global
}

func tokenAccount(amount uint64) []byte {
	data := make([]byte, 165)
	binary.LittleEndian.PutUint64(data[pumpswap.TokenAccountAmountOffset:], amount)
	return data
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		fetcher: newFakeFetcher(),
		clock:   clock.NewMock(),
		global:  testGlobal(),
		mint:    solana.NewWallet().PublicKey(),
		user:    solana.NewWallet().PublicKey(),
	}
	f.curve = pumpfun.NewBondingCurve(f.global)
	f.curve.Creator = solana.NewWallet().PublicKey()

	f.putGlobal(t)
	f.putCurve(t, pumpfun.BondingCurveNewSize)
	return f
}

func (f *fixture) putGlobal(t *testing.T) {
	t.Helper()
	addr, err := pumpfun.GlobalPDA(pumpfun.PumpProgramID)
	require.NoError(t, err)
	data, err := pumpfun.Encode(*f.global)
	require.NoError(t, err)
	f.fetcher.set(addr, data)
}

// putCurve stores the curve padded to size; sizes below 81 cut the creator off.
func (f *fixture) putCurve(t *testing.T, size int) {
	t.Helper()
	addr, err := pumpfun.BondingCurvePDA(pumpfun.PumpProgramID, f.mint)
	require.NoError(t, err)
	data, err := pumpfun.Encode(*f.curve)
	require.NoError(t, err)
	raw := make([]byte, size)
	copy(raw, data)
	f.fetcher.set(addr, raw)
}

func (f *fixture) putUserTokens(t *testing.T, amount uint64) {
	t.Helper()
	ata, _, err := solana.FindAssociatedTokenAddress(f.user, f.mint)
	require.NoError(t, err)
	f.fetcher.set(ata, tokenAccount(amount))
}

func (f *fixture) client(opts Options) *Client {
	opts.Clock = f.clock
	if opts.RetryDelay == 0 {
		opts.RetryDelay = time.Millisecond
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(1, 2))
	}
	return New(f.fetcher, zap.NewNop(), opts)
}

func TestFetchGlobal_Decodes(t *testing.T) {
	f := newFixture(t)
	c := f.client(Options{})

	global, err := c.FetchGlobal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, *f.global, *global)
}

func TestFetchGlobal_CacheFreshness(t *testing.T) {
	f := newFixture(t)
	rec := &countingRecorder{}
	c := f.client(Options{CacheTTL: time.Second, Metrics: rec})
	ctx := context.Background()

	_, err := c.FetchGlobal(ctx)
	require.NoError(t, err)
	_, err = c.FetchGlobal(ctx)
	require.NoError(t, err)
	calls, _ := f.fetcher.counts()
	assert.Equal(t, 1, calls)

	f.clock.Add(time.Second)
	_, err = c.FetchGlobal(ctx)
	require.NoError(t, err)
	calls, _ = f.fetcher.counts()
	assert.Equal(t, 2, calls)

	assert.Equal(t, 1, rec.hits)
	assert.Equal(t, 2, rec.misses)
}

func TestFetch_PurgesExpiredAccounts(t *testing.T) {
	f := newFixture(t)
	rec := &countingRecorder{}
	c := f.client(Options{CacheTTL: time.Second, Metrics: rec})
	ctx := context.Background()

	_, err := c.FetchGlobal(ctx)
	require.NoError(t, err)
	_, err = c.FetchBondingCurve(ctx, f.mint)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.size)
	assert.Equal(t, 2, c.accounts.Len())

	// глобальный аккаунт протух, кривая перечитывается и вытесняет его
	f.clock.Add(time.Second)
	c.InvalidateMint(f.mint)
	_, err = c.FetchBondingCurve(ctx, f.mint)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.size)
	assert.Equal(t, 1, c.accounts.Len())
}

func TestFetchGlobal_ZeroTTLAlwaysRefetches(t *testing.T) {
	f := newFixture(t)
	c := f.client(Options{})

	for i := 0; i < 3; i++ {
		_, err := c.FetchGlobal(context.Background())
		require.NoError(t, err)
	}
	calls, _ := f.fetcher.counts()
	assert.Equal(t, 3, calls)
}

func TestInvalidate(t *testing.T) {
	f := newFixture(t)
	c := f.client(Options{CacheTTL: time.Minute})
	ctx := context.Background()

	_, err := c.FetchBondingCurve(ctx, f.mint)
	require.NoError(t, err)

	curveAddr, err := pumpfun.BondingCurvePDA(pumpfun.PumpProgramID, f.mint)
	require.NoError(t, err)
	c.Invalidate(curveAddr)

	_, err = c.FetchBondingCurve(ctx, f.mint)
	require.NoError(t, err)
	calls, _ := f.fetcher.counts()
	assert.Equal(t, 2, calls)
}

func TestInvalidateMint(t *testing.T) {
	f := newFixture(t)
	c := f.client(Options{CacheTTL: time.Minute})
	ctx := context.Background()

	_, err := c.FetchBondingCurve(ctx, f.mint)
	require.NoError(t, err)
	_, err = c.FetchGlobal(ctx)
	require.NoError(t, err)

	c.InvalidateMint(f.mint)

	_, err = c.FetchBondingCurve(ctx, f.mint)
	require.NoError(t, err)
	_, err = c.FetchGlobal(ctx)
	require.NoError(t, err)
	calls, _ := f.fetcher.counts()
	assert.Equal(t, 3, calls)
}

func TestFetch_RetriesTransientErrors(t *testing.T) {
	f := newFixture(t)
	f.fetcher.failures = 2
	c := f.client(Options{MaxRetries: 3})

	_, err := c.FetchGlobal(context.Background())
	require.NoError(t, err)
	calls, _ := f.fetcher.counts()
	assert.Equal(t, 3, calls)
}

func TestFetch_GivesUpAfterMaxRetries(t *testing.T) {
	f := newFixture(t)
	f.fetcher.failures = 10
	c := f.client(Options{MaxRetries: 2})

	_, err := c.FetchGlobal(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errTransient)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "global", fetchErr.Op)

	calls, _ := f.fetcher.counts()
	assert.Equal(t, 3, calls)
}

func TestFetch_NotFoundIsPermanent(t *testing.T) {
	f := newFixture(t)
	c := f.client(Options{MaxRetries: 5})

	_, err := c.FetchBondingCurve(context.Background(), solana.NewWallet().PublicKey())
	assert.ErrorIs(t, err, ErrAccountNotFound)

	calls, _ := f.fetcher.counts()
	assert.Equal(t, 1, calls)
}

func TestFetchBuyState(t *testing.T) {
	f := newFixture(t)
	f.putUserTokens(t, 42_000)
	c := f.client(Options{})

	state, err := c.FetchBuyState(context.Background(), f.mint, f.user)
	require.NoError(t, err)

	assert.Equal(t, *f.curve, *state.BondingCurve)
	assert.Equal(t, f.global.FeeBasisPoints, state.Global.FeeBasisPoints)
	assert.Equal(t, pumpfun.BondingCurveNewSize, state.CurveAccountSize)
	assert.True(t, state.UserTokenAccountExists)
	assert.Equal(t, uint64(42_000), state.UserTokenBalance)

	_, multi := f.fetcher.counts()
	assert.Equal(t, 1, multi)
}

func TestFetchBuyState_MissingCurve(t *testing.T) {
	f := newFixture(t)
	c := f.client(Options{})

	_, err := c.FetchBuyState(context.Background(), solana.NewWallet().PublicKey(), f.user)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestPickFeeRecipient(t *testing.T) {
	f := newFixture(t)
	c := f.client(Options{})
	recipients := f.global.AllFeeRecipients()

	seen := make(map[solana.PublicKey]bool)
	for i := 0; i < 200; i++ {
		r := c.pickFeeRecipient(f.global)
		assert.Contains(t, recipients, r)
		seen[r] = true
	}
	assert.Len(t, seen, len(recipients))
}
