package service

import (
	"context"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"bridge_checker/internal/app/port"
	"bridge_checker/internal/domain/entity"
	"bridge_checker/internal/pkg/metrics"

	"golang.org/x/time/rate"
)

// insufficientBalancePattern is the revert message grammar the bridge
// contract emits for an over-withdrawal:
//
//	Insufficient Balance: <NAME> (id: <id>, balance: <n>) < <n>
//
// This is a versioned contract with the chain; when the message doesn't
// match, the failure is surfaced unstructured instead of guessed at.
var insufficientBalancePattern = regexp.MustCompile(
	`Insufficient Balance: ([A-Z0-9_]+) \(id: (\d+), balance: (\d+)\) < (\d+)`,
)

// ExecutorServiceImpl implements port.ExecutorService. It is stateless across
// retries: exclusion bookkeeping lives with the caller, and every attempt
// re-derives its operation list from the immutable candidate set.
type ExecutorServiceImpl struct {
	submitter    port.TransactionSubmitter
	logger       port.Logger
	feeRecipient string
	submitPacer  *rate.Limiter
}

// NewExecutorService creates a new ExecutorServiceImpl. submitDelay paces
// successive submissions to avoid rate limiting by the RPC endpoint.
func NewExecutorService(submitter port.TransactionSubmitter, l port.Logger, feeRecipient string, submitDelay time.Duration) port.ExecutorService {
	if submitDelay <= 0 {
		submitDelay = 200 * time.Millisecond
	}
	return &ExecutorServiceImpl{
		submitter:    submitter,
		logger:       l,
		feeRecipient: feeRecipient,
		submitPacer:  rate.NewLimiter(rate.Every(submitDelay), 1),
	}
}

// BuildOperations derives the operation list for one attempt from the
// candidate set, skipping every excluded (entity, resource) pair. Candidates
// are never mutated; a retry calls this again with a grown exclusion set.
func (s *ExecutorServiceImpl) BuildOperations(candidates []entity.WithdrawalCandidate, toAddress string, exclusions *entity.ExclusionSet) []entity.WithdrawalOperation {
	ops := make([]entity.WithdrawalOperation, 0, len(candidates))
	for _, c := range candidates {
		if exclusions.Contains(c.EntityID, c.ResourceName) {
			continue
		}
		var amount *big.Int
		if c.Amount != nil {
			amount = new(big.Int).Set(c.Amount)
		} else {
			amount = big.NewInt(0)
		}
		ops = append(ops, entity.WithdrawalOperation{
			EntityID:     c.EntityID,
			ToAddress:    toAddress,
			TokenAddress: c.TokenAddress,
			Amount:       amount,
			AmountRaw:    c.AmountRaw,
			ResourceName: c.ResourceName,
			ResourceCode: c.ResourceCode,
			FeeRecipient: s.feeRecipient,
		})
	}
	if excluded := exclusions.Size(); excluded > 0 {
		s.logger.Debug("Built operations with exclusions",
			"candidates", len(candidates), "operations", len(ops), "excluded_pairs", excluded)
	}
	return ops
}

// ExecuteBatches submits batches sequentially, in planned order; later
// batches may depend on state changes from earlier ones, so there is no
// parallelism here. On the first batch failure no further batches are
// submitted: already-confirmed transactions are reported and the failure is
// parsed into a structured descriptor where possible, so the caller can
// retry after excluding the offending operation.
func (s *ExecutorServiceImpl) ExecuteBatches(ctx context.Context, batches []entity.Batch) entity.WithdrawalSummary {
	summary := entity.WithdrawalSummary{TxHashes: []string{}}
	for _, b := range batches {
		summary.TotalPlanned += b.Len()
	}

	for i, batch := range batches {
		if batch.Len() == 0 {
			continue
		}

		s.logger.Info("Submitting batch", "index", i, "size", batch.Len())
		txHash, err := s.submitter.Submit(ctx, batch.Operations)
		if err != nil {
			failure := s.parseFailure(err)
			s.logger.Error("Batch submission failed",
				"index", i,
				"resource", failure.ResourceName,
				"entity", failure.EntityID,
				"error", err)

			summary.PerBatch = append(summary.PerBatch, entity.BatchOutcome{
				Index: i, Size: batch.Len(), Failed: true, Failure: &failure,
			})
			summary.Failures = append(summary.Failures, failure)
			summary.FailureCount += batch.Len()
			summary.AbortedEarly = i < len(batches)-1
			metrics.BatchesSubmitted.WithLabelValues("failed").Inc()
			return summary
		}

		summary.TxHashes = append(summary.TxHashes, txHash)
		summary.SuccessCount += batch.Len()
		summary.PerBatch = append(summary.PerBatch, entity.BatchOutcome{
			Index: i, Size: batch.Len(), TxHash: txHash,
		})
		metrics.BatchesSubmitted.WithLabelValues("ok").Inc()

		if i < len(batches)-1 {
			if err := s.submitPacer.Wait(ctx); err != nil {
				s.logger.Warn("Submission pacing interrupted", "error", err)
				summary.AbortedEarly = true
				return summary
			}
		}
	}
	return summary
}

// ExecuteIndividually runs each operation independently: a dry-run first, and
// only on success the real submission. A failed dry-run marks that single
// item simulation-failed without any wallet interaction; one item's failure
// never blocks the rest.
func (s *ExecutorServiceImpl) ExecuteIndividually(ctx context.Context, ops []entity.WithdrawalOperation) entity.WithdrawalSummary {
	summary := entity.WithdrawalSummary{
		TxHashes:     []string{},
		TotalPlanned: len(ops),
	}

	for i, op := range ops {
		outcome := entity.OperationOutcome{
			EntityID:     op.EntityID,
			ResourceName: op.ResourceName,
			State:        entity.OpSimulating,
		}

		single := []entity.WithdrawalOperation{op}
		if err := s.submitter.EstimateFee(ctx, single); err != nil {
			outcome.State = entity.OpSimulationFailed
			outcome.Reason = err.Error()
			summary.PerOperation = append(summary.PerOperation, outcome)
			summary.FailureCount++
			summary.Failures = append(summary.Failures, s.parseFailure(err))
			metrics.Withdrawals.WithLabelValues(string(entity.OpSimulationFailed)).Inc()
			s.logger.Info("Skipping operation, simulation failed",
				"entity", op.EntityID, "resource", op.ResourceName, "error", err)
			continue
		}

		txHash, err := s.submitter.Submit(ctx, single)
		if err != nil {
			outcome.State = entity.OpFailed
			outcome.Reason = err.Error()
			summary.PerOperation = append(summary.PerOperation, outcome)
			summary.FailureCount++
			summary.Failures = append(summary.Failures, s.parseFailure(err))
			metrics.Withdrawals.WithLabelValues(string(entity.OpFailed)).Inc()
			s.logger.Error("Operation submission failed",
				"entity", op.EntityID, "resource", op.ResourceName, "error", err)
			continue
		}

		outcome.State = entity.OpConfirmed
		outcome.TxHash = txHash
		summary.PerOperation = append(summary.PerOperation, outcome)
		summary.TxHashes = append(summary.TxHashes, txHash)
		summary.SuccessCount++
		metrics.Withdrawals.WithLabelValues(string(entity.OpConfirmed)).Inc()
		s.logger.Info("Operation confirmed",
			"entity", op.EntityID, "resource", op.ResourceName, "txHash", txHash)

		if i < len(ops)-1 {
			if err := s.submitPacer.Wait(ctx); err != nil {
				s.logger.Warn("Submission pacing interrupted", "error", err)
				summary.AbortedEarly = true
				return summary
			}
		}
	}
	return summary
}

// parseFailure extracts a structured failure descriptor from a submission
// error. Best-effort boundary adapter: an unrecognized message degrades to an
// unstructured failure instead of crashing.
func (s *ExecutorServiceImpl) parseFailure(err error) entity.FailureDetail {
	msg := err.Error()
	match := insufficientBalancePattern.FindStringSubmatch(msg)
	if match == nil {
		return entity.FailureDetail{Reason: msg, Structured: false}
	}
	return entity.FailureDetail{
		ResourceName: match[1],
		EntityID:     match[2],
		Reason: fmt.Sprintf("insufficient balance for %s on entity %s: have %s, requested %s",
			match[1], match[2], match[3], match[4]),
		Structured: true,
	}
}
