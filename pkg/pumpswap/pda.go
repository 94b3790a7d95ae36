package pumpswap

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ErrDerivationExhausted wraps failures of the program address search.
var ErrDerivationExhausted = errors.New("no viable program address found")

func findProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("%w: %v", ErrDerivationExhausted, err)
	}
	return addr, bump, nil
}

// PoolPDA derives a pool address from its index, creator and mint pair.
func PoolPDA(index uint16, creator, baseMint, quoteMint, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	indexBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(indexBytes, index)

	return findProgramAddress([][]byte{
		[]byte(SeedPool),
		indexBytes,
		creator.Bytes(),
		baseMint.Bytes(),
		quoteMint.Bytes(),
	}, programID)
}

// GlobalConfigPDA derives the AMM global config account.
func GlobalConfigPDA(programID solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := findProgramAddress([][]byte{[]byte(SeedGlobalConfig)}, programID)
	return addr, err
}

// LPMintPDA derives the LP mint of a pool.
func LPMintPDA(pool, programID solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := findProgramAddress([][]byte{[]byte(SeedPoolLPMint), pool.Bytes()}, programID)
	return addr, err
}

// CoinCreatorVaultAuthorityPDA derives the authority owning a coin creator's fee vault.
func CoinCreatorVaultAuthorityPDA(coinCreator, programID solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := findProgramAddress([][]byte{[]byte(SeedCreatorVault), coinCreator.Bytes()}, programID)
	return addr, err
}

// EventAuthorityPDA derives the anchor event authority of the AMM.
func EventAuthorityPDA(programID solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := findProgramAddress([][]byte{[]byte(SeedEventAuthority)}, programID)
	return addr, err
}

// AssociatedTokenAddress derives an associated token account for an arbitrary
// token program. solana.FindAssociatedTokenAddress only covers the legacy one,
// while LP mints live under Token-2022.
func AssociatedTokenAddress(owner, mint, tokenProgram solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := findProgramAddress([][]byte{
		owner.Bytes(),
		tokenProgram.Bytes(),
		mint.Bytes(),
	}, solana.SPLAssociatedTokenAccountProgramID)
	return addr, err
}
