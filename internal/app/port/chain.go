package port

import (
	"context"
	"math/big"

	"bridge_checker/internal/domain/entity"
)

// ChainReader reads live contract state.
type ChainReader interface {
	// TokenBalanceOf queries balance_of(entityID) on the resource token
	// contract and returns the raw fixed-point amount.
	TokenBalanceOf(ctx context.Context, tokenAddress, entityID string) (*big.Int, error)
}

// TransactionSubmitter submits withdraw operations to the bridge contract.
// Implementations are black-box executors: a wallet session, an RPC account,
// or a test double. A user-cancelled signing prompt must surface as an error
// from Submit, never as a panic.
type TransactionSubmitter interface {
	// EstimateFee simulates the operations without submitting. An error means
	// the transaction would revert.
	EstimateFee(ctx context.Context, ops []entity.WithdrawalOperation) error

	// Submit sends the operations as a single transaction and returns the
	// transaction hash on acceptance.
	Submit(ctx context.Context, ops []entity.WithdrawalOperation) (string, error)
}
