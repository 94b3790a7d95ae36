package pumpfun

import (
	"errors"

	"github.com/rovshanmuradov/pump-sdk/pkg/pumpswap"
)

var (
	// ErrReserveExhausted is returned when a quote would divide by zero because
	// the curve does not hold enough virtual token reserves.
	ErrReserveExhausted = errors.New("bonding curve reserves exhausted")

	// ErrArithmeticOverflow is returned when a result does not fit into u64.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")

	// ErrCurveComplete is returned for trades against a migrated curve.
	ErrCurveComplete = errors.New("bonding curve is complete")

	// ErrDerivationExhausted wraps failures of the program address search,
	// both for pump.fun accounts and the AMM pool derived alongside them.
	ErrDerivationExhausted = pumpswap.ErrDerivationExhausted

	// ErrInvalidDiscriminator is returned when account data belongs to another type.
	ErrInvalidDiscriminator = errors.New("invalid account discriminator")
)
