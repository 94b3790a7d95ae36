// =============================
// File: pkg/pumpfun/state.go
// =============================
package pumpfun

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Account discriminators extracted from the IDL
var (
	GlobalDiscriminator       = [8]byte{167, 232, 232, 177, 200, 108, 114, 127}
	BondingCurveDiscriminator = [8]byte{23, 183, 248, 55, 96, 216, 172, 96}
)

// FeeRecipientsLen is the number of extra protocol fee recipients in Global.
const FeeRecipientsLen = 7

// Global represents the structure of the Pump.fun global account data.
// Fields are in on-chain order; changing them breaks decoding.
type Global struct {
	Initialized                 bool
	Authority                   solana.PublicKey
	FeeRecipient                solana.PublicKey
	InitialVirtualTokenReserves uint64
	InitialVirtualSolReserves   uint64
	InitialRealTokenReserves    uint64
	TokenTotalSupply            uint64
	FeeBasisPoints              uint64
	WithdrawAuthority           solana.PublicKey
	EnableMigrate               bool
	PoolMigrationFee            uint64
	CreatorFeeBasisPoints       uint64
	FeeRecipients               [FeeRecipientsLen]solana.PublicKey
	SetCreatorAuthority         solana.PublicKey
}

// BondingCurve is a snapshot of the per-mint curve account.
//
// A curve with Complete set has migrated to the AMM and accepts no more trades;
// the pricing functions do not check it, callers use CheckTradable.
type BondingCurve struct {
	VirtualTokenReserves uint64
	VirtualSolReserves   uint64
	RealTokenReserves    uint64
	RealSolReserves      uint64
	TokenTotalSupply     uint64
	Complete             bool
	Creator              solana.PublicKey
}

// AllFeeRecipients returns FeeRecipient followed by the non-zero FeeRecipients.
func (g *Global) AllFeeRecipients() []solana.PublicKey {
	out := []solana.PublicKey{g.FeeRecipient}
	for _, r := range g.FeeRecipients {
		if !r.IsZero() {
			out = append(out, r)
		}
	}
	return out
}

// HasCreator reports whether creator fees are owed on this curve.
func (c *BondingCurve) HasCreator() bool {
	return !c.Creator.IsZero()
}

// CheckTradable returns ErrCurveComplete for a migrated curve.
func (c *BondingCurve) CheckTradable() error {
	if c.Complete {
		return ErrCurveComplete
	}
	return nil
}

// NewBondingCurve returns the state a coin starts with right after create.
func NewBondingCurve(global *Global) *BondingCurve {
	return &BondingCurve{
		VirtualTokenReserves: global.InitialVirtualTokenReserves,
		VirtualSolReserves:   global.InitialVirtualSolReserves,
		RealTokenReserves:    global.InitialRealTokenReserves,
		RealSolReserves:      0,
		TokenTotalSupply:     global.TokenTotalSupply,
		Complete:             false,
	}
}

func readPublicKey(dec *bin.Decoder) (solana.PublicKey, error) {
	raw, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(raw), nil
}

func readDiscriminator(dec *bin.Decoder, want [8]byte) error {
	raw, err := dec.ReadNBytes(8)
	if err != nil {
		return fmt.Errorf("read discriminator: %w", err)
	}
	if !bytes.Equal(raw, want[:]) {
		return ErrInvalidDiscriminator
	}
	return nil
}

func readUint64s(dec *bin.Decoder, fields ...*uint64) error {
	for _, f := range fields {
		v, err := dec.ReadUint64(binary.LittleEndian)
		if err != nil {
			return err
		}
		*f = v
	}
	return nil
}

// UnmarshalWithDecoder decodes the global account. Fields added by later
// program upgrades are optional so older snapshots still decode.
func (g *Global) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if err = readDiscriminator(dec, GlobalDiscriminator); err != nil {
		return err
	}
	if g.Initialized, err = dec.ReadBool(); err != nil {
		return fmt.Errorf("initialized: %w", err)
	}
	if g.Authority, err = readPublicKey(dec); err != nil {
		return fmt.Errorf("authority: %w", err)
	}
	if g.FeeRecipient, err = readPublicKey(dec); err != nil {
		return fmt.Errorf("fee_recipient: %w", err)
	}
	if err = readUint64s(dec,
		&g.InitialVirtualTokenReserves,
		&g.InitialVirtualSolReserves,
		&g.InitialRealTokenReserves,
		&g.TokenTotalSupply,
		&g.FeeBasisPoints,
	); err != nil {
		return fmt.Errorf("reserves and fees: %w", err)
	}

	if dec.Remaining() == 0 {
		return nil
	}
	if g.WithdrawAuthority, err = readPublicKey(dec); err != nil {
		return fmt.Errorf("withdraw_authority: %w", err)
	}
	if g.EnableMigrate, err = dec.ReadBool(); err != nil {
		return fmt.Errorf("enable_migrate: %w", err)
	}
	if err = readUint64s(dec, &g.PoolMigrationFee, &g.CreatorFeeBasisPoints); err != nil {
		return fmt.Errorf("pool_migration_fee: %w", err)
	}

	if dec.Remaining() == 0 {
		return nil
	}
	for i := range g.FeeRecipients {
		if g.FeeRecipients[i], err = readPublicKey(dec); err != nil {
			return fmt.Errorf("fee_recipients[%d]: %w", i, err)
		}
	}
	if g.SetCreatorAuthority, err = readPublicKey(dec); err != nil {
		return fmt.Errorf("set_creator_authority: %w", err)
	}
	return nil
}

// MarshalWithEncoder encodes the global account in the current layout.
func (g Global) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(GlobalDiscriminator[:], false); err != nil {
		return err
	}
	if err := enc.WriteBool(g.Initialized); err != nil {
		return err
	}
	for _, key := range []solana.PublicKey{g.Authority, g.FeeRecipient} {
		if err := enc.WriteBytes(key[:], false); err != nil {
			return err
		}
	}
	for _, v := range []uint64{
		g.InitialVirtualTokenReserves,
		g.InitialVirtualSolReserves,
		g.InitialRealTokenReserves,
		g.TokenTotalSupply,
		g.FeeBasisPoints,
	} {
		if err := enc.WriteUint64(v, binary.LittleEndian); err != nil {
			return err
		}
	}
	if err := enc.WriteBytes(g.WithdrawAuthority[:], false); err != nil {
		return err
	}
	if err := enc.WriteBool(g.EnableMigrate); err != nil {
		return err
	}
	if err := enc.WriteUint64(g.PoolMigrationFee, binary.LittleEndian); err != nil {
		return err
	}
	if err := enc.WriteUint64(g.CreatorFeeBasisPoints, binary.LittleEndian); err != nil {
		return err
	}
	for i := range g.FeeRecipients {
		if err := enc.WriteBytes(g.FeeRecipients[i][:], false); err != nil {
			return err
		}
	}
	return enc.WriteBytes(g.SetCreatorAuthority[:], false)
}

// UnmarshalWithDecoder decodes a bonding curve account. Accounts created before
// the creator extension stop after Complete; Creator stays zero for them.
func (c *BondingCurve) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if err = readDiscriminator(dec, BondingCurveDiscriminator); err != nil {
		return err
	}
	if err = readUint64s(dec,
		&c.VirtualTokenReserves,
		&c.VirtualSolReserves,
		&c.RealTokenReserves,
		&c.RealSolReserves,
		&c.TokenTotalSupply,
	); err != nil {
		return fmt.Errorf("reserves: %w", err)
	}
	if c.Complete, err = dec.ReadBool(); err != nil {
		return fmt.Errorf("complete: %w", err)
	}
	if dec.Remaining() >= solana.PublicKeyLength {
		if c.Creator, err = readPublicKey(dec); err != nil {
			return fmt.Errorf("creator: %w", err)
		}
	}
	return nil
}

// MarshalWithEncoder encodes the bonding curve in the extended layout, without
// the zero padding up to BondingCurveNewSize.
func (c BondingCurve) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(BondingCurveDiscriminator[:], false); err != nil {
		return err
	}
	for _, v := range []uint64{
		c.VirtualTokenReserves,
		c.VirtualSolReserves,
		c.RealTokenReserves,
		c.RealSolReserves,
		c.TokenTotalSupply,
	} {
		if err := enc.WriteUint64(v, binary.LittleEndian); err != nil {
			return err
		}
	}
	if err := enc.WriteBool(c.Complete); err != nil {
		return err
	}
	return enc.WriteBytes(c.Creator[:], false)
}

// DecodeGlobal parses raw global account data.
func DecodeGlobal(data []byte) (*Global, error) {
	global := &Global{}
	if err := global.UnmarshalWithDecoder(bin.NewBorshDecoder(data)); err != nil {
		return nil, fmt.Errorf("failed to decode global account: %w", err)
	}
	return global, nil
}

// DecodeBondingCurve parses raw bonding curve account data.
func DecodeBondingCurve(data []byte) (*BondingCurve, error) {
	curve := &BondingCurve{}
	if err := curve.UnmarshalWithDecoder(bin.NewBorshDecoder(data)); err != nil {
		return nil, fmt.Errorf("failed to decode bonding curve: %w", err)
	}
	return curve, nil
}

// Encode serializes v with its discriminator using the Borsh encoder.
func Encode(v bin.BinaryMarshaler) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := v.MarshalWithEncoder(bin.NewBorshEncoder(buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
