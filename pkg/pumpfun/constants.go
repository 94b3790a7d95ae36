// =============================
// File: pkg/pumpfun/constants.go
// =============================
package pumpfun

import (
	"github.com/gagliardetto/solana-go"
)

// Known Pump.fun protocol addresses
var (
	// PumpProgramID is the bonding-curve token-sale program.
	PumpProgramID = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")

	// PumpAMMProgramID is the AMM a completed curve migrates its liquidity into.
	PumpAMMProgramID = solana.MustPublicKeyFromBase58("pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA")

	// MPLTokenMetadataProgramID owns the metadata account created alongside every coin.
	MPLTokenMetadataProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")
)

// PDA seeds
const (
	SeedGlobal         = "global"
	SeedBondingCurve   = "bonding-curve"
	SeedCreatorVault   = "creator-vault"
	SeedPoolAuthority  = "pool-authority"
	SeedMintAuthority  = "mint-authority"
	SeedEventAuthority = "__event_authority"
	SeedMetadata       = "metadata"
)

const (
	// BondingCurveNewSize is the minimum size of a bonding curve account once the
	// creator field was added. Smaller accounts must be extended before buy/sell.
	BondingCurveNewSize = 150

	// FeeDenominator is the basis points denominator.
	FeeDenominator = 10_000

	// TokenDecimals and SolDecimals are fixed by the program.
	TokenDecimals = 6
	SolDecimals   = 9
)

// NeedsExtend reports whether a bonding curve account of dataLen bytes must be
// resized with an extend_account instruction first.
func NeedsExtend(dataLen int) bool {
	return dataLen < BondingCurveNewSize
}
