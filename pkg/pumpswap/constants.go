// =============================
// File: pkg/pumpswap/constants.go
// =============================
package pumpswap

import (
	"github.com/gagliardetto/solana-go"
)

// ProgramID is the PumpSwap AMM program.
var ProgramID = solana.MustPublicKeyFromBase58("pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA")

// PDA seeds used by the AMM program.
const (
	SeedPool           = "pool"
	SeedGlobalConfig   = "global_config"
	SeedPoolLPMint     = "pool_lp_mint"
	SeedCreatorVault   = "creator_vault"
	SeedEventAuthority = "__event_authority"
)

// CanonicalPoolIndex is the pool index used by pools created through migration.
const CanonicalPoolIndex uint16 = 0

const (
	// TokenAccountAmountOffset is the offset of the amount field in an SPL token account.
	TokenAccountAmountOffset = 64
	TokenAccountAmountSize   = 8

	feeDenominator = 10_000
)

// Account discriminators extracted from the IDL
var (
	GlobalConfigDiscriminator = [8]byte{149, 8, 156, 202, 160, 252, 176, 217}
	PoolDiscriminator         = [8]byte{241, 154, 109, 4, 17, 177, 109, 188}
)

// DisableFlags bits in GlobalConfig
const (
	DisableCreatePool = 1 << iota
	DisableDeposit
	DisableWithdraw
	DisableBuy
	DisableSell
)
