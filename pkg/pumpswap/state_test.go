package pumpswap

import (
	"bytes"
	"encoding/binary"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, v bin.BinaryMarshaler) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, v.MarshalWithEncoder(bin.NewBorshEncoder(buf)))
	return buf.Bytes()
}

func TestParsePool(t *testing.T) {
	pool := Pool{
		PoolBump:              254,
		Index:                 0,
		Creator:               solana.NewWallet().PublicKey(),
		BaseMint:              solana.NewWallet().PublicKey(),
		QuoteMint:             solana.WrappedSol,
		LPMint:                solana.NewWallet().PublicKey(),
		PoolBaseTokenAccount:  solana.NewWallet().PublicKey(),
		PoolQuoteTokenAccount: solana.NewWallet().PublicKey(),
		LPSupply:              4_193_388_284_009,
		CoinCreator:           solana.NewWallet().PublicKey(),
	}
	data := encode(t, pool)
	require.Len(t, data, 243)

	got, err := ParsePool(data)
	require.NoError(t, err)
	assert.Equal(t, pool, *got)

	// пул без coin_creator
	legacy, err := ParsePool(data[:211])
	require.NoError(t, err)
	assert.True(t, legacy.CoinCreator.IsZero())
	assert.Equal(t, pool.LPSupply, legacy.LPSupply)

	_, err = ParsePool(encode(t, GlobalConfig{}))
	assert.ErrorIs(t, err, ErrInvalidDiscriminator)
}

func TestParseGlobalConfig(t *testing.T) {
	cfg := GlobalConfig{
		Admin:                     solana.NewWallet().PublicKey(),
		LPFeeBasisPoints:          20,
		ProtocolFeeBasisPoints:    5,
		DisableFlags:              DisableDeposit | DisableSell,
		CoinCreatorFeeBasisPoints: 5,
	}
	cfg.ProtocolFeeRecipients[2] = solana.NewWallet().PublicKey()
	data := encode(t, cfg)
	require.Len(t, data, 321)

	got, err := ParseGlobalConfig(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, *got)
	assert.True(t, got.IsDisabled(DisableSell))
	assert.False(t, got.IsDisabled(DisableBuy))

	legacy, err := ParseGlobalConfig(data[:313])
	require.NoError(t, err)
	assert.Zero(t, legacy.CoinCreatorFeeBasisPoints)
}

func TestParseTokenAccountAmount(t *testing.T) {
	data := make([]byte, 165)
	binary.LittleEndian.PutUint64(data[TokenAccountAmountOffset:], 123_456_789)

	amount, err := ParseTokenAccountAmount(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(123_456_789), amount)

	_, err = ParseTokenAccountAmount(data[:70])
	assert.Error(t, err)
}

func TestPoolPDA(t *testing.T) {
	creator := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	first, bump, err := PoolPDA(CanonicalPoolIndex, creator, mint, solana.WrappedSol, ProgramID)
	require.NoError(t, err)
	second, _, err := PoolPDA(CanonicalPoolIndex, creator, mint, solana.WrappedSol, ProgramID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	again, err := solana.CreateProgramAddress([][]byte{
		[]byte(SeedPool), {0, 0}, creator.Bytes(), mint.Bytes(), solana.WrappedSol.Bytes(), {bump},
	}, ProgramID)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	swapped, _, err := PoolPDA(CanonicalPoolIndex, creator, solana.WrappedSol, mint, ProgramID)
	require.NoError(t, err)
	assert.NotEqual(t, first, swapped)
}

func TestAssociatedTokenAddress_LegacyProgram(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	got, err := AssociatedTokenAddress(owner, mint, solana.TokenProgramID)
	require.NoError(t, err)
	want, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	token2022, err := AssociatedTokenAddress(owner, mint, solana.Token2022ProgramID)
	require.NoError(t, err)
	assert.NotEqual(t, got, token2022)
}
