package pumpfun

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTradeAccounts(t *testing.T) *TradeAccounts {
	t.Helper()
	accounts, err := NewTradeAccounts(
		PumpProgramID,
		solana.NewWallet().PublicKey(),
		solana.NewWallet().PublicKey(),
		solana.NewWallet().PublicKey(),
		solana.NewWallet().PublicKey(),
	)
	require.NoError(t, err)
	return accounts
}

func TestBuyInstruction(t *testing.T) {
	accounts := testTradeAccounts(t)
	ix := BuyInstruction(accounts, 1_000_000, 2_000_000)

	assert.Equal(t, PumpProgramID, ix.ProgramID())

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 24)
	assert.Equal(t, BuyDiscriminator[:], data[:8])
	assert.Equal(t, uint64(1_000_000), binary.LittleEndian.Uint64(data[8:16]))
	assert.Equal(t, uint64(2_000_000), binary.LittleEndian.Uint64(data[16:24]))

	metas := ix.Accounts()
	require.Len(t, metas, 12)
	assert.Equal(t, accounts.User, metas[6].PublicKey)
	assert.True(t, metas[6].IsSigner)
	assert.True(t, metas[6].IsWritable)
	assert.Equal(t, solana.TokenProgramID, metas[8].PublicKey)
	assert.Equal(t, accounts.CreatorVault, metas[9].PublicKey)
	assert.True(t, metas[9].IsWritable)
}

func TestSellInstruction(t *testing.T) {
	accounts := testTradeAccounts(t)
	ix := SellInstruction(accounts, 5, 7)

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, SellDiscriminator[:], data[:8])
	assert.Equal(t, uint64(7), binary.LittleEndian.Uint64(data[16:24]))

	metas := ix.Accounts()
	require.Len(t, metas, 12)
	// creator vault идет перед token program, в отличие от buy
	assert.Equal(t, accounts.CreatorVault, metas[8].PublicKey)
	assert.Equal(t, solana.TokenProgramID, metas[9].PublicKey)
}

func TestNewTradeAccounts(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	user := solana.NewWallet().PublicKey()
	creator := solana.NewWallet().PublicKey()

	accounts, err := NewTradeAccounts(PumpProgramID, mint, user, solana.PublicKey{}, creator)
	require.NoError(t, err)

	curve, err := BondingCurvePDA(PumpProgramID, mint)
	require.NoError(t, err)
	vault, err := CreatorVaultPDA(PumpProgramID, creator)
	require.NoError(t, err)
	ata, _, err := solana.FindAssociatedTokenAddress(user, mint)
	require.NoError(t, err)

	assert.Equal(t, curve, accounts.BondingCurve)
	assert.Equal(t, vault, accounts.CreatorVault)
	assert.Equal(t, ata, accounts.AssociatedUser)
}

func TestCreateInstruction(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	user := solana.NewWallet().PublicKey()
	args := CreateArgs{Name: "Doge", Symbol: "DG", URI: "ipfs://x", Creator: user}

	ix, err := CreateInstruction(PumpProgramID, mint, user, args)
	require.NoError(t, err)

	data, err := ix.Data()
	require.NoError(t, err)

	want := append([]byte{}, CreateDiscriminator[:]...)
	want = append(want, 4, 0, 0, 0, 'D', 'o', 'g', 'e')
	want = append(want, 2, 0, 0, 0, 'D', 'G')
	want = append(want, 8, 0, 0, 0, 'i', 'p', 'f', 's', ':', '/', '/', 'x')
	want = append(want, user.Bytes()...)
	assert.Equal(t, want, data)

	metas := ix.Accounts()
	require.Len(t, metas, 14)
	assert.Equal(t, mint, metas[0].PublicKey)
	assert.True(t, metas[0].IsSigner)
	assert.Equal(t, user, metas[7].PublicKey)
	assert.True(t, metas[7].IsSigner)
	assert.Equal(t, MPLTokenMetadataProgramID, metas[5].PublicKey)
}

func TestExtendAccountInstruction(t *testing.T) {
	curve := solana.NewWallet().PublicKey()
	user := solana.NewWallet().PublicKey()

	ix, err := ExtendAccountInstruction(PumpProgramID, curve, user)
	require.NoError(t, err)

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, ExtendAccountDiscriminator[:], data)

	metas := ix.Accounts()
	require.Len(t, metas, 5)
	assert.True(t, metas[0].IsWritable)
	assert.True(t, metas[1].IsSigner)
}

func TestCollectCreatorFeeInstruction(t *testing.T) {
	creator := solana.NewWallet().PublicKey()

	ix, err := CollectCreatorFeeInstruction(PumpProgramID, creator)
	require.NoError(t, err)

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, CollectCreatorFeeDiscriminator[:], data)

	vault, err := CreatorVaultPDA(PumpProgramID, creator)
	require.NoError(t, err)
	assert.Equal(t, vault, ix.Accounts()[1].PublicKey)
}

func TestMigrateInstruction(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	withdraw := solana.NewWallet().PublicKey()
	user := solana.NewWallet().PublicKey()

	ix, err := MigrateInstruction(PumpProgramID, PumpAMMProgramID, mint, withdraw, user)
	require.NoError(t, err)

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, MigrateDiscriminator[:], data)

	pool, err := CanonicalPumpPoolPDA(PumpProgramID, PumpAMMProgramID, mint)
	require.NoError(t, err)

	metas := ix.Accounts()
	require.Len(t, metas, 24)
	assert.Equal(t, withdraw, metas[1].PublicKey)
	assert.Equal(t, PumpAMMProgramID, metas[8].PublicKey)
	assert.Equal(t, pool, metas[9].PublicKey)
	assert.Equal(t, solana.WrappedSol, metas[14].PublicKey)
	assert.Equal(t, PumpProgramID, metas[23].PublicKey)
}
