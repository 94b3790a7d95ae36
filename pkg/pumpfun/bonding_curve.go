// ==============================================
// File: pkg/pumpfun/bonding_curve.go
// ==============================================
package pumpfun

import (
	"lukechampine.com/uint128"
)

// Every product of two u64 values fits into u128, which is what the program
// uses on-chain. Results are narrowed back to u64 explicitly.

var feeDenominator128 = uint128.From64(FeeDenominator)

// CeilDiv returns ceil(a / b) for b > 0.
func CeilDiv(a, b uint128.Uint128) uint128.Uint128 {
	q, r := a.QuoRem(b)
	if !r.IsZero() {
		q = q.Add64(1)
	}
	return q
}

func narrow(v uint128.Uint128) (uint64, error) {
	if v.Hi != 0 {
		return 0, ErrArithmeticOverflow
	}
	return v.Lo, nil
}

// chargesCreatorFee reports whether the creator fee term applies: either the
// trade creates the coin or the curve already records a creator.
func chargesCreatorFee(curve *BondingCurve, newCoin bool) bool {
	return newCoin || curve.HasCreator()
}

func feeOn(amount uint64, bps uint64) uint128.Uint128 {
	return CeilDiv(uint128.From64(amount).Mul64(bps), feeDenominator128)
}

// GetFee returns the total fee charged on a SOL amount: the protocol fee plus,
// when applicable, the creator fee. Both terms round up.
func GetFee(global *Global, curve *BondingCurve, amount uint64, newCoin bool) (uint64, error) {
	total := feeOn(amount, global.FeeBasisPoints)
	if chargesCreatorFee(curve, newCoin) {
		creatorFee := feeOn(amount, global.CreatorFeeBasisPoints)
		// both terms are < 2^128 / 10^4, the sum cannot wrap
		total = total.Add(creatorFee)
	}
	return narrow(total)
}

// GetBuyTokenAmountFromSolAmount returns how many tokens solAmount lamports buy,
// fees included in solAmount. The result never exceeds RealTokenReserves.
func GetBuyTokenAmountFromSolAmount(global *Global, curve *BondingCurve, solAmount uint64, newCoin bool) uint64 {
	if solAmount == 0 || curve.VirtualTokenReserves == 0 {
		return 0
	}

	totalFeeBps := uint128.From64(global.FeeBasisPoints)
	if chargesCreatorFee(curve, newCoin) {
		totalFeeBps = totalFeeBps.Add64(global.CreatorFeeBasisPoints)
	}

	// net of fees, rounded down
	netSol := uint128.From64(solAmount).Mul64(FeeDenominator).Div(totalFeeBps.Add64(FeeDenominator))

	denominator := uint128.From64(curve.VirtualSolReserves).Add(netSol)
	tokensOut := netSol.Mul64(curve.VirtualTokenReserves).Div(denominator)

	// netSol <= solAmount, so tokensOut < VirtualTokenReserves fits u64
	if tokensOut.Cmp64(curve.RealTokenReserves) > 0 {
		return curve.RealTokenReserves
	}
	return tokensOut.Lo
}

// GetBuySolAmountFromTokenAmount returns the lamports needed to buy tokenAmount
// tokens, fees added on top. The amount is clamped to RealTokenReserves.
//
// ErrReserveExhausted is returned when the clamped amount reaches the virtual
// token reserves, i.e. the curve cannot price the trade.
func GetBuySolAmountFromTokenAmount(global *Global, curve *BondingCurve, tokenAmount uint64, newCoin bool) (uint64, error) {
	if tokenAmount == 0 || curve.VirtualTokenReserves == 0 {
		return 0, nil
	}

	amount := min(tokenAmount, curve.RealTokenReserves)
	if amount >= curve.VirtualTokenReserves {
		return 0, ErrReserveExhausted
	}

	// +1 rounds up so the buyer never underpays against the invariant
	netSolCost := uint128.From64(amount).
		Mul64(curve.VirtualSolReserves).
		Div64(curve.VirtualTokenReserves - amount).
		Add64(1)

	cost, err := narrow(netSolCost)
	if err != nil {
		return 0, err
	}

	fee, err := GetFee(global, curve, cost, newCoin)
	if err != nil {
		return 0, err
	}

	total := uint128.From64(cost).Add64(fee)
	return narrow(total)
}

// GetSellSolAmountFromTokenAmount returns the lamports received for selling
// tokenAmount tokens, fees deducted. A sell never happens on a coin being
// created, so the creator fee only applies when the curve records a creator.
func GetSellSolAmountFromTokenAmount(global *Global, curve *BondingCurve, tokenAmount uint64) (uint64, error) {
	if tokenAmount == 0 || curve.VirtualTokenReserves == 0 {
		return 0, nil
	}

	denominator := uint128.From64(curve.VirtualTokenReserves).Add64(tokenAmount)
	solCost := uint128.From64(tokenAmount).Mul64(curve.VirtualSolReserves).Div(denominator)

	// tokenAmount / (reserves + tokenAmount) < 1, so solCost < VirtualSolReserves
	gross := solCost.Lo

	fee, err := GetFee(global, curve, gross, false)
	if err != nil {
		return 0, err
	}
	if fee > gross {
		return 0, ErrArithmeticOverflow
	}
	return gross - fee, nil
}
