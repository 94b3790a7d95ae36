// pkg/pumpfun/price.go
package pumpfun

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"
)

// BondingCurveMarketCap returns the market cap in lamports:
// virtualSol * tokenTotalSupply / virtualToken.
func BondingCurveMarketCap(curve *BondingCurve) (uint64, error) {
	if curve.VirtualTokenReserves == 0 {
		return 0, nil
	}
	mcap := uint128.From64(curve.VirtualSolReserves).
		Mul64(curve.TokenTotalSupply).
		Div64(curve.VirtualTokenReserves)
	return narrow(mcap)
}

func decimalFromUint64(v uint64, exp int32) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), exp)
}

// LamportsToSol converts lamports to SOL without losing precision.
func LamportsToSol(lamports uint64) decimal.Decimal {
	return decimalFromUint64(lamports, -SolDecimals)
}

// TokensToUI converts raw token units to whole tokens.
func TokensToUI(amount uint64) decimal.Decimal {
	return decimalFromUint64(amount, -TokenDecimals)
}

// SpotPrice returns the marginal price in SOL per whole token. It is meant for
// display; quotes must use the integer functions.
func SpotPrice(curve *BondingCurve) decimal.Decimal {
	if curve.VirtualTokenReserves == 0 {
		return decimal.Zero
	}
	sol := LamportsToSol(curve.VirtualSolReserves)
	tokens := TokensToUI(curve.VirtualTokenReserves)
	return sol.DivRound(tokens, 18)
}

// MaxSolCost widens a buy cost by slippageBps, rounding up.
func MaxSolCost(cost uint64, slippageBps uint64) (uint64, error) {
	bound := uint128.From64(cost).Add(feeOn(cost, slippageBps))
	return narrow(bound)
}

// MinSolOutput narrows a sell output by slippageBps, rounding the allowance up.
func MinSolOutput(output uint64, slippageBps uint64) uint64 {
	if slippageBps >= FeeDenominator {
		return 0
	}
	allowance := feeOn(output, slippageBps)
	// slippageBps < 10000 keeps allowance <= output
	return output - allowance.Lo
}

// ErrInvalidAmount is returned when a UI amount cannot be represented in raw units.
var ErrInvalidAmount = errors.New("invalid amount")

func parseUnits(s string, decimals int32) (uint64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	raw := d.Shift(decimals)
	if raw.IsNegative() || !raw.Equal(raw.Truncate(0)) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	n := raw.BigInt()
	if !n.IsUint64() {
		return 0, fmt.Errorf("%w: %q overflows u64", ErrInvalidAmount, s)
	}
	return n.Uint64(), nil
}

// ParseSol converts a SOL amount such as "0.25" to lamports.
func ParseSol(s string) (uint64, error) {
	return parseUnits(s, SolDecimals)
}

// ParseTokens converts a whole-token amount such as "1500.5" to raw units.
func ParseTokens(s string) (uint64, error) {
	return parseUnits(s, TokenDecimals)
}
