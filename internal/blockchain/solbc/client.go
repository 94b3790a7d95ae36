// internal/blockchain/solbc/client.go
package solbc

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pump-sdk/pkg/client"
)

// Client – тонкий адаптер над solana-go RPC, реализующий client.AccountFetcher.
type Client struct {
	rpc        *rpc.Client
	commitment rpc.CommitmentType
	logger     *zap.Logger
}

// NewClient создаёт новый клиент, принимая RPC URL и логгер через dependency injection.
// Пустой commitment означает confirmed.
func NewClient(rpcURL string, commitment string, logger *zap.Logger) *Client {
	c := rpc.CommitmentConfirmed
	if commitment != "" {
		c = rpc.CommitmentType(commitment)
	}
	return &Client{
		rpc:        rpc.New(rpcURL),
		commitment: c,
		logger:     logger.Named("solbc-client"),
	}
}

// GetAccountData возвращает данные аккаунта или client.ErrAccountNotFound.
func (c *Client) GetAccountData(ctx context.Context, pubkey solana.PublicKey) ([]byte, error) {
	result, err := c.rpc.GetAccountInfoWithOpts(ctx, pubkey, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: c.commitment,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, client.ErrAccountNotFound
		}
		c.logger.Debug("GetAccountInfo error",
			zap.String("pubkey", pubkey.String()),
			zap.Error(err))
		return nil, fmt.Errorf("getAccountInfo failed: %w", err)
	}
	if result == nil || result.Value == nil || result.Value.Data == nil {
		return nil, client.ErrAccountNotFound
	}
	return result.Value.Data.GetBinary(), nil
}

// GetMultipleAccountData получает несколько аккаунтов за один запрос.
// Отсутствующие аккаунты возвращаются как nil.
func (c *Client) GetMultipleAccountData(ctx context.Context, pubkeys []solana.PublicKey) ([][]byte, error) {
	if len(pubkeys) == 0 {
		return nil, nil
	}

	res, err := c.rpc.GetMultipleAccountsWithOpts(ctx, pubkeys, &rpc.GetMultipleAccountsOpts{
		Commitment: c.commitment,
		Encoding:   solana.EncodingBase64,
	})
	if err != nil {
		c.logger.Debug("GetMultipleAccounts error",
			zap.Int("count", len(pubkeys)),
			zap.Error(err))
		return nil, fmt.Errorf("getMultipleAccounts failed: %w", err)
	}
	if len(res.Value) != len(pubkeys) {
		return nil, fmt.Errorf("getMultipleAccounts returned %d accounts for %d keys", len(res.Value), len(pubkeys))
	}

	out := make([][]byte, len(pubkeys))
	for i, acc := range res.Value {
		if acc == nil || acc.Data == nil {
			continue
		}
		out[i] = acc.Data.GetBinary()
	}
	return out, nil
}

// Гарантируем, что Client реализует интерфейс client.AccountFetcher.
var _ client.AccountFetcher = (*Client)(nil)
