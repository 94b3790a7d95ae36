// =============================
// File: pkg/client/fetcher.go
// =============================
package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ErrAccountNotFound is returned by an AccountFetcher for accounts that do not exist.
var ErrAccountNotFound = errors.New("account not found")

// AccountFetcher reads raw account data. It is the only I/O the client does;
// internal/blockchain/solbc provides the RPC implementation.
type AccountFetcher interface {
	// GetAccountData returns the data of addr or ErrAccountNotFound.
	GetAccountData(ctx context.Context, addr solana.PublicKey) ([]byte, error)

	// GetMultipleAccountData returns data in the order of addrs. Missing
	// accounts are nil entries, not errors.
	GetMultipleAccountData(ctx context.Context, addrs []solana.PublicKey) ([][]byte, error)
}

// FetchError describes a failed account read.
type FetchError struct {
	Op      string
	Address solana.PublicKey
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Address, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
