// =============================
// File: pkg/pumpfun/pda.go
// =============================
package pumpfun

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/pump-sdk/pkg/pumpswap"
)

func findProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("%w: %v", ErrDerivationExhausted, err)
	}
	return addr, bump, nil
}

// GlobalPDA derives the singleton global account of the program.
func GlobalPDA(programID solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := findProgramAddress([][]byte{[]byte(SeedGlobal)}, programID)
	return addr, err
}

// BondingCurvePDA derives the bonding curve account of a mint.
func BondingCurvePDA(programID, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := findProgramAddress([][]byte{[]byte(SeedBondingCurve), mint.Bytes()}, programID)
	return addr, err
}

// CreatorVaultPDA derives the vault collecting creator fees for creator.
func CreatorVaultPDA(programID, creator solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := findProgramAddress([][]byte{[]byte(SeedCreatorVault), creator.Bytes()}, programID)
	return addr, err
}

// PumpPoolAuthorityPDA derives the authority that creates the AMM pool on
// migration. The bump is part of the migrate instruction's signer seeds.
func PumpPoolAuthorityPDA(mint, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return findProgramAddress([][]byte{[]byte(SeedPoolAuthority), mint.Bytes()}, programID)
}

// CanonicalPumpPoolPDA derives the AMM pool a completed curve migrates into:
// pool index 0, created by the pool authority, paired against wrapped SOL.
func CanonicalPumpPoolPDA(pumpProgramID, ammProgramID, mint solana.PublicKey) (solana.PublicKey, error) {
	authority, _, err := PumpPoolAuthorityPDA(mint, pumpProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive pool authority: %w", err)
	}

	pool, _, err := pumpswap.PoolPDA(pumpswap.CanonicalPoolIndex, authority, mint, solana.WrappedSol, ammProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive canonical pool: %w", err)
	}
	return pool, nil
}

// MintAuthorityPDA derives the mint authority of every coin created by the program.
func MintAuthorityPDA(programID solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := findProgramAddress([][]byte{[]byte(SeedMintAuthority)}, programID)
	return addr, err
}

// EventAuthorityPDA derives the anchor event authority of the program.
func EventAuthorityPDA(programID solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := findProgramAddress([][]byte{[]byte(SeedEventAuthority)}, programID)
	return addr, err
}

// AssociatedBondingCurve derives the token account holding the curve's real token reserves.
func AssociatedBondingCurve(bondingCurve, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindAssociatedTokenAddress(bondingCurve, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %v", ErrDerivationExhausted, err)
	}
	return addr, nil
}

// MetadataPDA derives the Metaplex metadata account of a mint.
func MetadataPDA(mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := findProgramAddress([][]byte{
		[]byte(SeedMetadata),
		MPLTokenMetadataProgramID.Bytes(),
		mint.Bytes(),
	}, MPLTokenMetadataProgramID)
	return addr, err
}
