package service

import (
	"context"
	"math/big"

	"bridge_checker/internal/app/port"
	"bridge_checker/internal/domain/entity"
)

// nopLogger satisfies port.Logger and discards everything.
type nopLogger struct{}

func (nopLogger) Info(msg string, args ...any)  {}
func (nopLogger) Debug(msg string, args ...any) {}
func (nopLogger) Warn(msg string, args ...any)  {}
func (nopLogger) Error(msg string, args ...any) {}

// mockIndexer implements port.IndexerClient with pluggable responses and
// call counters.
type mockIndexer struct {
	structures    []entity.Structure
	structuresErr error
	whitelist     []entity.WhitelistEntry
	whitelistErr  error
	balances      []port.BalanceRow
	balancesErr   error

	whitelistCalls int
	balancesCalls  int
}

func (m *mockIndexer) StructuresByOwner(ctx context.Context, owner string) ([]entity.Structure, error) {
	return m.structures, m.structuresErr
}

func (m *mockIndexer) BridgeWhitelist(ctx context.Context) ([]entity.WhitelistEntry, error) {
	m.whitelistCalls++
	return m.whitelist, m.whitelistErr
}

func (m *mockIndexer) NonzeroBalances(ctx context.Context, entityIDs []string) ([]port.BalanceRow, error) {
	m.balancesCalls++
	return m.balances, m.balancesErr
}

// mockChain implements port.ChainReader via a function field.
type mockChain struct {
	balanceOf func(tokenAddress, entityID string) (*big.Int, error)
}

func (m *mockChain) TokenBalanceOf(ctx context.Context, tokenAddress, entityID string) (*big.Int, error) {
	return m.balanceOf(tokenAddress, entityID)
}

// mockSubmitter implements port.TransactionSubmitter with function fields and
// records every call.
type mockSubmitter struct {
	estimate func(ops []entity.WithdrawalOperation) error
	submit   func(ops []entity.WithdrawalOperation) (string, error)

	estimateCalls [][]entity.WithdrawalOperation
	submitCalls   [][]entity.WithdrawalOperation
}

func (m *mockSubmitter) EstimateFee(ctx context.Context, ops []entity.WithdrawalOperation) error {
	m.estimateCalls = append(m.estimateCalls, ops)
	if m.estimate == nil {
		return nil
	}
	return m.estimate(ops)
}

func (m *mockSubmitter) Submit(ctx context.Context, ops []entity.WithdrawalOperation) (string, error) {
	m.submitCalls = append(m.submitCalls, ops)
	if m.submit == nil {
		return "0xtx", nil
	}
	return m.submit(ops)
}
