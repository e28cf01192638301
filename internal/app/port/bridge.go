package port

import (
	"context"

	"bridge_checker/internal/domain/entity"
)

// AggregatorService produces the unified withdrawable-balance report for one
// owner address.
type AggregatorService interface {
	Aggregate(ctx context.Context, owner string) (*entity.ResourceReport, error)
}

// VerifierService reconciles indexer-reported candidate amounts against live
// contract state.
type VerifierService interface {
	SampleFreshness(ctx context.Context, candidates []entity.WithdrawalCandidate, sampleSize int) (entity.FreshnessReport, error)
	VerifyAll(ctx context.Context, candidates []entity.WithdrawalCandidate) []entity.VerificationResult
	ApplyCorrections(candidates []entity.WithdrawalCandidate, results []entity.VerificationResult) []entity.WithdrawalCandidate
}

// ExecutorService submits planned withdrawals and reports per-item outcomes.
type ExecutorService interface {
	BuildOperations(candidates []entity.WithdrawalCandidate, toAddress string, exclusions *entity.ExclusionSet) []entity.WithdrawalOperation
	ExecuteBatches(ctx context.Context, batches []entity.Batch) entity.WithdrawalSummary
	ExecuteIndividually(ctx context.Context, ops []entity.WithdrawalOperation) entity.WithdrawalSummary
}
