// =============================
// File: pkg/pumpswap/quote.go
// =============================
package pumpswap

import (
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
)

var (
	// ErrInsufficientLiquidity is returned when a trade would drain a pool side.
	ErrInsufficientLiquidity = errors.New("insufficient pool liquidity")

	// ErrOverflow is returned when a quote does not fit into u64.
	ErrOverflow = errors.New("quote overflows u64")
)

var u256FeeDenominator = uint256.NewInt(feeDenominator)

// Reserves is a snapshot of both sides of a pool.
type Reserves struct {
	Base  uint64
	Quote uint64
}

// Fees holds the fee rates applied to the quote side of every swap.
type Fees struct {
	LPFeeBasisPoints          uint64
	ProtocolFeeBasisPoints    uint64
	CoinCreatorFeeBasisPoints uint64
}

// FeesFor returns the fee rates charged on the given pool. The creator fee only
// applies when the pool records a coin creator.
func FeesFor(cfg *GlobalConfig, pool *Pool) Fees {
	fees := Fees{
		LPFeeBasisPoints:       cfg.LPFeeBasisPoints,
		ProtocolFeeBasisPoints: cfg.ProtocolFeeBasisPoints,
	}
	if pool != nil && !pool.CoinCreator.Equals(solana.PublicKey{}) {
		fees.CoinCreatorFeeBasisPoints = cfg.CoinCreatorFeeBasisPoints
	}
	return fees
}

func (f Fees) total() *uint256.Int {
	total := uint256.NewInt(f.LPFeeBasisPoints)
	total.Add(total, uint256.NewInt(f.ProtocolFeeBasisPoints))
	return total.Add(total, uint256.NewInt(f.CoinCreatorFeeBasisPoints))
}

// fee computes ceil(amount * bps / 10000).
func fee(amount *uint256.Int, bps uint64) *uint256.Int {
	out := new(uint256.Int).Mul(amount, uint256.NewInt(bps))
	out.Add(out, uint256.NewInt(feeDenominator-1))
	return out.Div(out, u256FeeDenominator)
}

func (f Fees) charge(amount *uint256.Int) *uint256.Int {
	out := fee(amount, f.LPFeeBasisPoints)
	out.Add(out, fee(amount, f.ProtocolFeeBasisPoints))
	return out.Add(out, fee(amount, f.CoinCreatorFeeBasisPoints))
}

func toUint64(v *uint256.Int) (uint64, error) {
	if !v.IsUint64() {
		return 0, ErrOverflow
	}
	return v.Uint64(), nil
}

// QuoteSell returns the quote amount received for selling baseIn base tokens,
// all fees deducted from the proceeds.
func QuoteSell(r Reserves, fees Fees, baseIn uint64) (uint64, error) {
	if baseIn == 0 || r.Base == 0 || r.Quote == 0 {
		return 0, nil
	}

	in := uint256.NewInt(baseIn)
	gross := new(uint256.Int).Mul(uint256.NewInt(r.Quote), in)
	gross.Div(gross, new(uint256.Int).Add(uint256.NewInt(r.Base), in))

	charged := fees.charge(gross)
	if charged.Gt(gross) {
		return 0, ErrOverflow
	}
	return toUint64(gross.Sub(gross, charged))
}

// QuoteBuyExactBase returns the quote amount required to receive exactly baseOut
// base tokens, fees added on top.
func QuoteBuyExactBase(r Reserves, fees Fees, baseOut uint64) (uint64, error) {
	if baseOut == 0 {
		return 0, nil
	}
	if baseOut >= r.Base {
		return 0, ErrInsufficientLiquidity
	}

	out := uint256.NewInt(baseOut)
	denominator := new(uint256.Int).Sub(uint256.NewInt(r.Base), out)

	// ceil(quote * baseOut / (base - baseOut))
	cost := new(uint256.Int).Mul(uint256.NewInt(r.Quote), out)
	cost.Add(cost, new(uint256.Int).SubUint64(denominator, 1))
	cost.Div(cost, denominator)

	return toUint64(cost.Add(cost, fees.charge(cost)))
}

// QuoteBuyExactQuote returns the base amount received for spending quoteIn,
// fees backed out of the input first.
func QuoteBuyExactQuote(r Reserves, fees Fees, quoteIn uint64) uint64 {
	if quoteIn == 0 || r.Base == 0 {
		return 0
	}

	effective := new(uint256.Int).Mul(uint256.NewInt(quoteIn), u256FeeDenominator)
	effective.Div(effective, new(uint256.Int).Add(u256FeeDenominator, fees.total()))

	baseOut := new(uint256.Int).Mul(uint256.NewInt(r.Base), effective)
	baseOut.Div(baseOut, new(uint256.Int).Add(uint256.NewInt(r.Quote), effective))

	// baseOut < r.Base, always fits
	return baseOut.Uint64()
}
