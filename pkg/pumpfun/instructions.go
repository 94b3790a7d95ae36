// ==============================================
// File: pkg/pumpfun/instructions.go
// ==============================================
package pumpfun

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/pump-sdk/pkg/pumpswap"
)

// Instruction discriminators extracted from the IDL
var (
	BuyDiscriminator               = [8]byte{102, 6, 61, 18, 1, 218, 235, 234}
	SellDiscriminator              = [8]byte{51, 230, 133, 164, 1, 127, 131, 173}
	CreateDiscriminator            = [8]byte{24, 30, 200, 40, 5, 28, 7, 119}
	MigrateDiscriminator           = [8]byte{155, 234, 231, 146, 236, 158, 162, 30}
	ExtendAccountDiscriminator     = [8]byte{234, 102, 194, 203, 150, 72, 62, 229}
	CollectCreatorFeeDiscriminator = [8]byte{20, 22, 86, 123, 198, 28, 219, 132}
)

// TradeAccounts holds every account buy and sell reference.
type TradeAccounts struct {
	Program                solana.PublicKey
	Global                 solana.PublicKey
	FeeRecipient           solana.PublicKey
	Mint                   solana.PublicKey
	BondingCurve           solana.PublicKey
	AssociatedBondingCurve solana.PublicKey
	AssociatedUser         solana.PublicKey
	User                   solana.PublicKey
	CreatorVault           solana.PublicKey
	EventAuthority         solana.PublicKey
}

// NewTradeAccounts derives the accounts of a buy or sell on mint.
func NewTradeAccounts(programID, mint, user, feeRecipient, creator solana.PublicKey) (*TradeAccounts, error) {
	global, err := GlobalPDA(programID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive global account: %w", err)
	}
	bondingCurve, err := BondingCurvePDA(programID, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive bonding curve: %w", err)
	}
	associatedBondingCurve, err := AssociatedBondingCurve(bondingCurve, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive associated bonding curve: %w", err)
	}
	associatedUser, _, err := solana.FindAssociatedTokenAddress(user, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive associated token account: %w", err)
	}
	creatorVault, err := CreatorVaultPDA(programID, creator)
	if err != nil {
		return nil, fmt.Errorf("failed to derive creator vault: %w", err)
	}
	eventAuthority, err := EventAuthorityPDA(programID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive event authority: %w", err)
	}

	return &TradeAccounts{
		Program:                programID,
		Global:                 global,
		FeeRecipient:           feeRecipient,
		Mint:                   mint,
		BondingCurve:           bondingCurve,
		AssociatedBondingCurve: associatedBondingCurve,
		AssociatedUser:         associatedUser,
		User:                   user,
		CreatorVault:           creatorVault,
		EventAuthority:         eventAuthority,
	}, nil
}

// instructionData serializes discriminator followed by little-endian u64 args.
func instructionData(discriminator [8]byte, args ...uint64) []byte {
	data := make([]byte, 8+8*len(args))
	copy(data[:8], discriminator[:])
	for i, arg := range args {
		binary.LittleEndian.PutUint64(data[8+8*i:], arg)
	}
	return data
}

// BuyInstruction buys exactly amount tokens paying at most maxSolCost lamports.
func BuyInstruction(accounts *TradeAccounts, amount, maxSolCost uint64) solana.Instruction {
	metas := solana.AccountMetaSlice{
		solana.Meta(accounts.Global),
		solana.Meta(accounts.FeeRecipient).WRITE(),
		solana.Meta(accounts.Mint),
		solana.Meta(accounts.BondingCurve).WRITE(),
		solana.Meta(accounts.AssociatedBondingCurve).WRITE(),
		solana.Meta(accounts.AssociatedUser).WRITE(),
		solana.Meta(accounts.User).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(accounts.CreatorVault).WRITE(),
		solana.Meta(accounts.EventAuthority),
		solana.Meta(accounts.Program),
	}
	return solana.NewInstruction(accounts.Program, metas, instructionData(BuyDiscriminator, amount, maxSolCost))
}

// SellInstruction sells amount tokens for at least minSolOutput lamports.
// Note the sell account order differs from buy after the system program.
func SellInstruction(accounts *TradeAccounts, amount, minSolOutput uint64) solana.Instruction {
	metas := solana.AccountMetaSlice{
		solana.Meta(accounts.Global),
		solana.Meta(accounts.FeeRecipient).WRITE(),
		solana.Meta(accounts.Mint),
		solana.Meta(accounts.BondingCurve).WRITE(),
		solana.Meta(accounts.AssociatedBondingCurve).WRITE(),
		solana.Meta(accounts.AssociatedUser).WRITE(),
		solana.Meta(accounts.User).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(accounts.CreatorVault).WRITE(),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(accounts.EventAuthority),
		solana.Meta(accounts.Program),
	}
	return solana.NewInstruction(accounts.Program, metas, instructionData(SellDiscriminator, amount, minSolOutput))
}

// CreateArgs are the metadata of a new coin.
type CreateArgs struct {
	Name    string
	Symbol  string
	URI     string
	Creator solana.PublicKey
}

func writeBorshString(enc *bin.Encoder, s string) error {
	if err := enc.WriteUint32(uint32(len(s)), binary.LittleEndian); err != nil {
		return err
	}
	return enc.WriteBytes([]byte(s), false)
}

// MarshalWithEncoder encodes the create args after the discriminator.
func (a CreateArgs) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(CreateDiscriminator[:], false); err != nil {
		return err
	}
	for _, s := range []string{a.Name, a.Symbol, a.URI} {
		if err := writeBorshString(enc, s); err != nil {
			return err
		}
	}
	return enc.WriteBytes(a.Creator[:], false)
}

// CreateInstruction creates mint as a new coin on its bonding curve. Both mint
// and user sign.
func CreateInstruction(programID, mint, user solana.PublicKey, args CreateArgs) (solana.Instruction, error) {
	mintAuthority, err := MintAuthorityPDA(programID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive mint authority: %w", err)
	}
	bondingCurve, err := BondingCurvePDA(programID, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive bonding curve: %w", err)
	}
	associatedBondingCurve, err := AssociatedBondingCurve(bondingCurve, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive associated bonding curve: %w", err)
	}
	global, err := GlobalPDA(programID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive global account: %w", err)
	}
	metadata, err := MetadataPDA(mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive metadata: %w", err)
	}
	eventAuthority, err := EventAuthorityPDA(programID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive event authority: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := args.MarshalWithEncoder(bin.NewBorshEncoder(buf)); err != nil {
		return nil, fmt.Errorf("failed to encode create args: %w", err)
	}

	metas := solana.AccountMetaSlice{
		solana.Meta(mint).WRITE().SIGNER(),
		solana.Meta(mintAuthority),
		solana.Meta(bondingCurve).WRITE(),
		solana.Meta(associatedBondingCurve).WRITE(),
		solana.Meta(global),
		solana.Meta(MPLTokenMetadataProgramID),
		solana.Meta(metadata).WRITE(),
		solana.Meta(user).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(solana.SPLAssociatedTokenAccountProgramID),
		solana.Meta(solana.SysVarRentPubkey),
		solana.Meta(eventAuthority),
		solana.Meta(programID),
	}
	return solana.NewInstruction(programID, metas, buf.Bytes()), nil
}

// ExtendAccountInstruction resizes account (a legacy bonding curve) to
// BondingCurveNewSize, paid by user.
func ExtendAccountInstruction(programID, account, user solana.PublicKey) (solana.Instruction, error) {
	eventAuthority, err := EventAuthorityPDA(programID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive event authority: %w", err)
	}
	metas := solana.AccountMetaSlice{
		solana.Meta(account).WRITE(),
		solana.Meta(user).SIGNER(),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(eventAuthority),
		solana.Meta(programID),
	}
	return solana.NewInstruction(programID, metas, instructionData(ExtendAccountDiscriminator)), nil
}

// CollectCreatorFeeInstruction withdraws the accrued creator fees to creator.
func CollectCreatorFeeInstruction(programID, creator solana.PublicKey) (solana.Instruction, error) {
	creatorVault, err := CreatorVaultPDA(programID, creator)
	if err != nil {
		return nil, fmt.Errorf("failed to derive creator vault: %w", err)
	}
	eventAuthority, err := EventAuthorityPDA(programID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive event authority: %w", err)
	}
	metas := solana.AccountMetaSlice{
		solana.Meta(creator).WRITE(),
		solana.Meta(creatorVault).WRITE(),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(eventAuthority),
		solana.Meta(programID),
	}
	return solana.NewInstruction(programID, metas, instructionData(CollectCreatorFeeDiscriminator)), nil
}

// MigrateAccounts are the accounts moved into the AMM by migrate.
type MigrateAccounts struct {
	Pool                     solana.PublicKey
	PoolAuthority            solana.PublicKey
	PoolAuthorityMintAccount solana.PublicKey
	PoolAuthorityWsolAccount solana.PublicKey
	AMMGlobalConfig          solana.PublicKey
	LPMint                   solana.PublicKey
	UserPoolTokenAccount     solana.PublicKey
	PoolBaseTokenAccount     solana.PublicKey
	PoolQuoteTokenAccount    solana.PublicKey
	AMMEventAuthority        solana.PublicKey
}

// NewMigrateAccounts derives the AMM side of a migration of mint.
func NewMigrateAccounts(pumpProgramID, ammProgramID, mint solana.PublicKey) (*MigrateAccounts, error) {
	poolAuthority, _, err := PumpPoolAuthorityPDA(mint, pumpProgramID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive pool authority: %w", err)
	}
	pool, err := CanonicalPumpPoolPDA(pumpProgramID, ammProgramID, mint)
	if err != nil {
		return nil, err
	}

	out := &MigrateAccounts{Pool: pool, PoolAuthority: poolAuthority}
	steps := []struct {
		name string
		dst  *solana.PublicKey
		fn   func() (solana.PublicKey, error)
	}{
		{"pool authority mint account", &out.PoolAuthorityMintAccount, func() (solana.PublicKey, error) {
			return pumpswap.AssociatedTokenAddress(poolAuthority, mint, solana.TokenProgramID)
		}},
		{"pool authority wsol account", &out.PoolAuthorityWsolAccount, func() (solana.PublicKey, error) {
			return pumpswap.AssociatedTokenAddress(poolAuthority, solana.WrappedSol, solana.TokenProgramID)
		}},
		{"amm global config", &out.AMMGlobalConfig, func() (solana.PublicKey, error) {
			return pumpswap.GlobalConfigPDA(ammProgramID)
		}},
		{"lp mint", &out.LPMint, func() (solana.PublicKey, error) {
			return pumpswap.LPMintPDA(pool, ammProgramID)
		}},
		{"user pool token account", &out.UserPoolTokenAccount, func() (solana.PublicKey, error) {
			return pumpswap.AssociatedTokenAddress(poolAuthority, out.LPMint, solana.Token2022ProgramID)
		}},
		{"pool base token account", &out.PoolBaseTokenAccount, func() (solana.PublicKey, error) {
			return pumpswap.AssociatedTokenAddress(pool, mint, solana.TokenProgramID)
		}},
		{"pool quote token account", &out.PoolQuoteTokenAccount, func() (solana.PublicKey, error) {
			return pumpswap.AssociatedTokenAddress(pool, solana.WrappedSol, solana.TokenProgramID)
		}},
		{"amm event authority", &out.AMMEventAuthority, func() (solana.PublicKey, error) {
			return pumpswap.EventAuthorityPDA(ammProgramID)
		}},
	}
	for _, step := range steps {
		addr, err := step.fn()
		if err != nil {
			return nil, fmt.Errorf("failed to derive %s: %w", step.name, err)
		}
		*step.dst = addr
	}
	return out, nil
}

// MigrateInstruction moves the liquidity of a completed curve into the AMM.
// withdrawAuthority comes from Global; user signs and pays.
func MigrateInstruction(pumpProgramID, ammProgramID, mint, withdrawAuthority, user solana.PublicKey) (solana.Instruction, error) {
	amm, err := NewMigrateAccounts(pumpProgramID, ammProgramID, mint)
	if err != nil {
		return nil, err
	}
	global, err := GlobalPDA(pumpProgramID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive global account: %w", err)
	}
	bondingCurve, err := BondingCurvePDA(pumpProgramID, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive bonding curve: %w", err)
	}
	associatedBondingCurve, err := AssociatedBondingCurve(bondingCurve, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive associated bonding curve: %w", err)
	}
	eventAuthority, err := EventAuthorityPDA(pumpProgramID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive event authority: %w", err)
	}

	metas := solana.AccountMetaSlice{
		solana.Meta(global),
		solana.Meta(withdrawAuthority).WRITE(),
		solana.Meta(mint),
		solana.Meta(bondingCurve).WRITE(),
		solana.Meta(associatedBondingCurve).WRITE(),
		solana.Meta(user).SIGNER(),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(ammProgramID),
		solana.Meta(amm.Pool).WRITE(),
		solana.Meta(amm.PoolAuthority).WRITE(),
		solana.Meta(amm.PoolAuthorityMintAccount).WRITE(),
		solana.Meta(amm.PoolAuthorityWsolAccount).WRITE(),
		solana.Meta(amm.AMMGlobalConfig),
		solana.Meta(solana.WrappedSol),
		solana.Meta(amm.LPMint).WRITE(),
		solana.Meta(amm.UserPoolTokenAccount).WRITE(),
		solana.Meta(amm.PoolBaseTokenAccount).WRITE(),
		solana.Meta(amm.PoolQuoteTokenAccount).WRITE(),
		solana.Meta(solana.Token2022ProgramID),
		solana.Meta(solana.SPLAssociatedTokenAccountProgramID),
		solana.Meta(amm.AMMEventAuthority),
		solana.Meta(eventAuthority),
		solana.Meta(pumpProgramID),
	}
	return solana.NewInstruction(pumpProgramID, metas, instructionData(MigrateDiscriminator)), nil
}
