// =============================
// File: pkg/pumpswap/state.go
// =============================
package pumpswap

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// ErrInvalidDiscriminator is returned when account data belongs to another type.
var ErrInvalidDiscriminator = errors.New("invalid account discriminator")

// GlobalConfig represents the global configuration for PumpSwap
type GlobalConfig struct {
	Admin                     solana.PublicKey    // The admin public key
	LPFeeBasisPoints          uint64              // LP fee in basis points (0.01%)
	ProtocolFeeBasisPoints    uint64              // Protocol fee in basis points (0.01%)
	DisableFlags              uint8               // Flags to disable certain functionality
	ProtocolFeeRecipients     [8]solana.PublicKey // Addresses of protocol fee recipients
	CoinCreatorFeeBasisPoints uint64              // Creator fee in basis points
}

// Pool represents a liquidity pool in PumpSwap
type Pool struct {
	PoolBump              uint8            // PDA bump
	Index                 uint16           // Pool index
	Creator               solana.PublicKey // Creator of the pool
	BaseMint              solana.PublicKey // Base token mint (the migrated coin)
	QuoteMint             solana.PublicKey // Quote token mint (wrapped SOL)
	LPMint                solana.PublicKey // LP token mint
	PoolBaseTokenAccount  solana.PublicKey // Pool's base token account
	PoolQuoteTokenAccount solana.PublicKey // Pool's quote token account
	LPSupply              uint64           // True circulating supply of LP tokens
	CoinCreator           solana.PublicKey // Creator of the coin, receives creator fees
}

// IsDisabled reports whether the given DisableFlags bit is set.
func (c *GlobalConfig) IsDisabled(flag uint8) bool {
	return c.DisableFlags&flag != 0
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

// UnmarshalWithDecoder decodes a GlobalConfig account including its discriminator.
func (c *GlobalConfig) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if err = readDiscriminator(dec, GlobalConfigDiscriminator); err != nil {
		return err
	}
	if c.Admin, err = readPublicKey(dec); err != nil {
		return fmt.Errorf("admin: %w", err)
	}
	if c.LPFeeBasisPoints, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return fmt.Errorf("lp_fee_basis_points: %w", err)
	}
	if c.ProtocolFeeBasisPoints, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return fmt.Errorf("protocol_fee_basis_points: %w", err)
	}
	if c.DisableFlags, err = dec.ReadUint8(); err != nil {
		return fmt.Errorf("disable_flags: %w", err)
	}
	for i := range c.ProtocolFeeRecipients {
		if c.ProtocolFeeRecipients[i], err = readPublicKey(dec); err != nil {
			return fmt.Errorf("protocol_fee_recipients[%d]: %w", i, err)
		}
	}
	// Older configs end before the creator fee field.
	if dec.Remaining() >= 8 {
		if c.CoinCreatorFeeBasisPoints, err = dec.ReadUint64(binary.LittleEndian); err != nil {
			return fmt.Errorf("coin_creator_fee_basis_points: %w", err)
		}
	}
	return nil
}

// MarshalWithEncoder encodes the GlobalConfig account including its discriminator.
func (c GlobalConfig) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(GlobalConfigDiscriminator[:], false); err != nil {
		return err
	}
	if err := enc.WriteBytes(c.Admin[:], false); err != nil {
		return err
	}
	if err := enc.WriteUint64(c.LPFeeBasisPoints, binary.LittleEndian); err != nil {
		return err
	}
	if err := enc.WriteUint64(c.ProtocolFeeBasisPoints, binary.LittleEndian); err != nil {
		return err
	}
	if err := enc.WriteUint8(c.DisableFlags); err != nil {
		return err
	}
	for i := range c.ProtocolFeeRecipients {
		if err := enc.WriteBytes(c.ProtocolFeeRecipients[i][:], false); err != nil {
			return err
		}
	}
	return enc.WriteUint64(c.CoinCreatorFeeBasisPoints, binary.LittleEndian)
}

// UnmarshalWithDecoder decodes a Pool account including its discriminator.
func (p *Pool) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if err = readDiscriminator(dec, PoolDiscriminator); err != nil {
		return err
	}
	if p.PoolBump, err = dec.ReadUint8(); err != nil {
		return fmt.Errorf("pool_bump: %w", err)
	}
	if p.Index, err = dec.ReadUint16(binary.LittleEndian); err != nil {
		return fmt.Errorf("index: %w", err)
	}
	keys := []*solana.PublicKey{
		&p.Creator, &p.BaseMint, &p.QuoteMint, &p.LPMint,
		&p.PoolBaseTokenAccount, &p.PoolQuoteTokenAccount,
	}
	for _, key := range keys {
		if *key, err = readPublicKey(dec); err != nil {
			return fmt.Errorf("pool keys: %w", err)
		}
	}
	if p.LPSupply, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return fmt.Errorf("lp_supply: %w", err)
	}
	// Pools created before creator fees have no coin_creator.
	if dec.Remaining() >= solana.PublicKeyLength {
		if p.CoinCreator, err = readPublicKey(dec); err != nil {
			return fmt.Errorf("coin_creator: %w", err)
		}
	}
	return nil
}

// MarshalWithEncoder encodes the Pool account including its discriminator.
func (p Pool) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(PoolDiscriminator[:], false); err != nil {
		return err
	}
	if err := enc.WriteUint8(p.PoolBump); err != nil {
		return err
	}
	if err := enc.WriteUint16(p.Index, binary.LittleEndian); err != nil {
		return err
	}
	for _, key := range []solana.PublicKey{
		p.Creator, p.BaseMint, p.QuoteMint, p.LPMint,
		p.PoolBaseTokenAccount, p.PoolQuoteTokenAccount,
	} {
		if err := enc.WriteBytes(key[:], false); err != nil {
			return err
		}
	}
	if err := enc.WriteUint64(p.LPSupply, binary.LittleEndian); err != nil {
		return err
	}
	return enc.WriteBytes(p.CoinCreator[:], false)
}

// ParseGlobalConfig parses account data into GlobalConfig structure
func ParseGlobalConfig(data []byte) (*GlobalConfig, error) {
	config := &GlobalConfig{}
	if err := config.UnmarshalWithDecoder(bin.NewBorshDecoder(data)); err != nil {
		return nil, fmt.Errorf("failed to parse global config: %w", err)
	}
	return config, nil
}

// ParsePool parses account data into Pool structure
func ParsePool(data []byte) (*Pool, error) {
	pool := &Pool{}
	if err := pool.UnmarshalWithDecoder(bin.NewBorshDecoder(data)); err != nil {
		return nil, fmt.Errorf("failed to parse pool: %w", err)
	}
	return pool, nil
}

// ParseTokenAccountAmount extracts the amount of an SPL token account.
func ParseTokenAccountAmount(data []byte) (uint64, error) {
	if len(data) < TokenAccountAmountOffset+TokenAccountAmountSize {
		return 0, fmt.Errorf("token account data too short: %d bytes", len(data))
	}
	return binary.LittleEndian.Uint64(data[TokenAccountAmountOffset : TokenAccountAmountOffset+TokenAccountAmountSize]), nil
}
