// =============================
// File: pkg/client/instructions.go
// =============================
package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pump-sdk/pkg/pumpfun"
)

var (
	// ErrCurveNotComplete is returned when migrating a curve that is still trading.
	ErrCurveNotComplete = errors.New("bonding curve is not complete")

	// ErrMigrationDisabled is returned when Global has migration switched off.
	ErrMigrationDisabled = errors.New("migration is disabled")

	// ErrInsufficientTokens is returned when selling more than the user holds.
	ErrInsufficientTokens = errors.New("insufficient token balance")

	// ErrZeroQuote is returned when a buy would receive no tokens.
	ErrZeroQuote = errors.New("buy amount yields zero tokens")
)

// CreateRequest describes a new coin and the initial buy bundled with it.
type CreateRequest struct {
	Mint      solana.PublicKey
	User      solana.PublicKey
	Name      string
	Symbol    string
	URI       string
	SolAmount uint64
}

// createATAIdempotent creates owner's associated token account for mint when
// it does not exist yet.
func createATAIdempotent(payer, owner, mint solana.PublicKey) (solana.Instruction, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive associated token account: %w", err)
	}
	return solana.NewInstruction(
		solana.SPLAssociatedTokenAccountProgramID,
		solana.AccountMetaSlice{
			solana.Meta(payer).WRITE().SIGNER(),
			solana.Meta(ata).WRITE(),
			solana.Meta(owner),
			solana.Meta(mint),
			solana.Meta(solana.SystemProgramID),
			solana.Meta(solana.TokenProgramID),
		},
		[]byte{1}, // CreateIdempotent
	), nil
}

// prelude returns the instructions every trade on state needs first.
func (c *Client) prelude(state *TradeState, createATA bool) ([]solana.Instruction, error) {
	var ixs []solana.Instruction

	if pumpfun.NeedsExtend(state.CurveAccountSize) {
		curve, err := pumpfun.BondingCurvePDA(c.opts.ProgramID, state.Mint)
		if err != nil {
			return nil, err
		}
		extend, err := pumpfun.ExtendAccountInstruction(c.opts.ProgramID, curve, state.User)
		if err != nil {
			return nil, err
		}
		c.logger.Debug("Bonding curve needs extend",
			zap.Stringer("mint", state.Mint),
			zap.Int("size", state.CurveAccountSize))
		ixs = append(ixs, extend)
	}

	if createATA && !state.UserTokenAccountExists {
		ata, err := createATAIdempotent(state.User, state.User, state.Mint)
		if err != nil {
			return nil, err
		}
		ixs = append(ixs, ata)
	}
	return ixs, nil
}

// BuyInstructions builds the instructions spending solAmount lamports on mint.
// They are unsigned.
func (c *Client) BuyInstructions(ctx context.Context, mint, user solana.PublicKey, solAmount uint64) ([]solana.Instruction, *Quote, error) {
	state, err := c.FetchBuyState(ctx, mint, user)
	if err != nil {
		return nil, nil, err
	}
	if err := state.BondingCurve.CheckTradable(); err != nil {
		return nil, nil, err
	}

	tokens := pumpfun.GetBuyTokenAmountFromSolAmount(state.Global, state.BondingCurve, solAmount, false)
	if tokens == 0 {
		return nil, nil, fmt.Errorf("%w: %d lamports", ErrZeroQuote, solAmount)
	}
	maxSolCost, err := pumpfun.MaxSolCost(solAmount, c.opts.slippage())
	if err != nil {
		return nil, nil, err
	}

	ixs, err := c.prelude(state, true)
	if err != nil {
		return nil, nil, err
	}
	accounts, err := pumpfun.NewTradeAccounts(c.opts.ProgramID, mint, user,
		c.pickFeeRecipient(state.Global), state.BondingCurve.Creator)
	if err != nil {
		return nil, nil, err
	}
	ixs = append(ixs, pumpfun.BuyInstruction(accounts, tokens, maxSolCost))

	quote := &Quote{Mint: mint, In: solAmount, Out: tokens, Limit: maxSolCost}
	return c.withBudget(ixs), c.served(quote, "buy"), nil
}

// SellInstructions builds the instructions selling tokenAmount tokens of mint.
func (c *Client) SellInstructions(ctx context.Context, mint, user solana.PublicKey, tokenAmount uint64) ([]solana.Instruction, *Quote, error) {
	state, err := c.FetchBuyState(ctx, mint, user)
	if err != nil {
		return nil, nil, err
	}
	if err := state.BondingCurve.CheckTradable(); err != nil {
		return nil, nil, err
	}
	if tokenAmount > state.UserTokenBalance {
		return nil, nil, fmt.Errorf("%w: have %d, want %d", ErrInsufficientTokens, state.UserTokenBalance, tokenAmount)
	}

	out, err := pumpfun.GetSellSolAmountFromTokenAmount(state.Global, state.BondingCurve, tokenAmount)
	if err != nil {
		return nil, nil, err
	}
	minSolOutput := pumpfun.MinSolOutput(out, c.opts.slippage())

	ixs, err := c.prelude(state, false)
	if err != nil {
		return nil, nil, err
	}
	accounts, err := pumpfun.NewTradeAccounts(c.opts.ProgramID, mint, user,
		c.pickFeeRecipient(state.Global), state.BondingCurve.Creator)
	if err != nil {
		return nil, nil, err
	}
	ixs = append(ixs, pumpfun.SellInstruction(accounts, tokenAmount, minSolOutput))

	quote := &Quote{Mint: mint, In: tokenAmount, Out: out, Limit: minSolOutput}
	return c.withBudget(ixs), c.served(quote, "sell"), nil
}

// CreateAndBuyInstructions creates a coin with req.User as creator and, when
// req.SolAmount is set, buys into it in the same transaction.
func (c *Client) CreateAndBuyInstructions(ctx context.Context, req CreateRequest) ([]solana.Instruction, *Quote, error) {
	global, err := c.FetchGlobal(ctx)
	if err != nil {
		return nil, nil, err
	}

	create, err := pumpfun.CreateInstruction(c.opts.ProgramID, req.Mint, req.User, pumpfun.CreateArgs{
		Name:    req.Name,
		Symbol:  req.Symbol,
		URI:     req.URI,
		Creator: req.User,
	})
	if err != nil {
		return nil, nil, err
	}
	ixs := []solana.Instruction{create}
	if req.SolAmount == 0 {
		return c.withBudget(ixs), nil, nil
	}

	curve := pumpfun.NewBondingCurve(global)
	curve.Creator = req.User
	tokens := pumpfun.GetBuyTokenAmountFromSolAmount(global, curve, req.SolAmount, true)
	if tokens == 0 {
		return nil, nil, fmt.Errorf("%w: %d lamports", ErrZeroQuote, req.SolAmount)
	}
	maxSolCost, err := pumpfun.MaxSolCost(req.SolAmount, c.opts.slippage())
	if err != nil {
		return nil, nil, err
	}

	ata, err := createATAIdempotent(req.User, req.User, req.Mint)
	if err != nil {
		return nil, nil, err
	}
	accounts, err := pumpfun.NewTradeAccounts(c.opts.ProgramID, req.Mint, req.User,
		c.pickFeeRecipient(global), req.User)
	if err != nil {
		return nil, nil, err
	}
	ixs = append(ixs, ata, pumpfun.BuyInstruction(accounts, tokens, maxSolCost))

	quote := &Quote{Mint: req.Mint, In: req.SolAmount, Out: tokens, Limit: maxSolCost}
	return c.withBudget(ixs), c.served(quote, "new_coin_buy"), nil
}

// MigrateInstructions builds the migration of a completed curve into the AMM.
func (c *Client) MigrateInstructions(ctx context.Context, mint, user solana.PublicKey) ([]solana.Instruction, error) {
	global, curve, err := c.curveState(ctx, mint)
	if err != nil {
		return nil, err
	}
	if !curve.Complete {
		return nil, ErrCurveNotComplete
	}
	if !global.EnableMigrate {
		return nil, ErrMigrationDisabled
	}

	migrate, err := pumpfun.MigrateInstruction(c.opts.ProgramID, c.opts.AMMProgramID, mint, global.WithdrawAuthority, user)
	if err != nil {
		return nil, err
	}
	return c.withBudget([]solana.Instruction{migrate}), nil
}

// CollectCreatorFeeInstructions withdraws creator's accrued fees.
func (c *Client) CollectCreatorFeeInstructions(creator solana.PublicKey) ([]solana.Instruction, error) {
	ix, err := pumpfun.CollectCreatorFeeInstruction(c.opts.ProgramID, creator)
	if err != nil {
		return nil, err
	}
	return c.withBudget([]solana.Instruction{ix}), nil
}
