package service

import (
	"context"
	"math/big"

	"bridge_checker/internal/app/port"
	"bridge_checker/internal/domain/entity"
	"bridge_checker/internal/pkg/metrics"

	"golang.org/x/sync/errgroup"
)

// VerifierServiceImpl implements port.VerifierService: it samples and, when
// needed, fully re-checks indexer-reported amounts against live contract
// state, and derives the corrected candidate set.
type VerifierServiceImpl struct {
	chain                 port.ChainReader
	logger                port.Logger
	maxConcurrentChecks   int
	stalenessThresholdPct float64
}

// NewVerifierService creates a new VerifierServiceImpl.
func NewVerifierService(chain port.ChainReader, l port.Logger, maxConcurrentChecks int, stalenessThresholdPct int) port.VerifierService {
	if maxConcurrentChecks <= 0 {
		maxConcurrentChecks = 1
	}
	return &VerifierServiceImpl{
		chain:                 chain,
		logger:                l,
		maxConcurrentChecks:   maxConcurrentChecks,
		stalenessThresholdPct: float64(stalenessThresholdPct),
	}
}

// SampleFreshness live-checks the first sampleSize candidates and reports
// whether the indexer looks stale. The sample is a deterministic prefix so
// repeated checks over the same candidate list are comparable. Staleness is
// strictly greater than the threshold: exactly 20% of 20% is still fresh.
func (s *VerifierServiceImpl) SampleFreshness(ctx context.Context, candidates []entity.WithdrawalCandidate, sampleSize int) (entity.FreshnessReport, error) {
	if len(candidates) == 0 {
		return entity.FreshnessReport{}, nil
	}
	if sampleSize <= 0 || sampleSize > len(candidates) {
		sampleSize = len(candidates)
	}

	results := s.VerifyAll(ctx, candidates[:sampleSize])

	mismatches := 0
	for _, r := range results {
		if !r.Matches {
			mismatches++
		}
	}
	pct := float64(mismatches) / float64(len(results)) * 100

	report := entity.FreshnessReport{
		TotalChecked:       len(results),
		Mismatches:         mismatches,
		MismatchPercentage: pct,
		SeemsStale:         pct > s.stalenessThresholdPct,
	}
	s.logger.Info("Freshness sample complete",
		"checked", report.TotalChecked,
		"mismatches", report.Mismatches,
		"mismatch_pct", report.MismatchPercentage,
		"seems_stale", report.SeemsStale)
	return report, nil
}

// VerifyAll live-checks every candidate with bounded concurrency. A pair
// whose resource has no known token contract, or whose contract call fails,
// is reported as a mismatch with corrected amount zero: once verification is
// requested an unverifiable balance is never withdrawn.
func (s *VerifierServiceImpl) VerifyAll(ctx context.Context, candidates []entity.WithdrawalCandidate) []entity.VerificationResult {
	results := make([]entity.VerificationResult, len(candidates))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.maxConcurrentChecks)

	for i, candidate := range candidates {
		eg.Go(func() error {
			results[i] = s.verifyOne(egCtx, candidate)
			return nil
		})
	}
	// Goroutines report per-pair failures inside their result; the group
	// itself never returns an error.
	_ = eg.Wait()

	return results
}

func (s *VerifierServiceImpl) verifyOne(ctx context.Context, candidate entity.WithdrawalCandidate) entity.VerificationResult {
	result := entity.VerificationResult{
		EntityID:      candidate.EntityID,
		ResourceName:  candidate.ResourceName,
		IndexerAmount: candidate.Amount,
	}

	if candidate.TokenAddress == "" {
		s.logger.Warn("No token contract known for candidate, excluding",
			"entity", candidate.EntityID, "resource", candidate.ResourceName)
		result.Matches = false
		result.CorrectedAmount = big.NewInt(0)
		result.CheckError = "no token contract known for resource"
		metrics.VerificationChecks.WithLabelValues("error").Inc()
		return result
	}

	liveBalance, err := s.chain.TokenBalanceOf(ctx, candidate.TokenAddress, candidate.EntityID)
	if err != nil {
		s.logger.Warn("Contract balance check failed, excluding",
			"entity", candidate.EntityID, "resource", candidate.ResourceName, "error", err)
		result.Matches = false
		result.CorrectedAmount = big.NewInt(0)
		result.CheckError = err.Error()
		metrics.VerificationChecks.WithLabelValues("error").Inc()
		return result
	}

	result.ContractAmount = liveBalance
	result.Matches = candidate.Amount != nil && candidate.Amount.Cmp(liveBalance) == 0
	if result.Matches {
		result.CorrectedAmount = candidate.Amount
		metrics.VerificationChecks.WithLabelValues("match").Inc()
	} else {
		result.CorrectedAmount = liveBalance
		metrics.VerificationChecks.WithLabelValues("mismatch").Inc()
		s.logger.Debug("Balance mismatch",
			"entity", candidate.EntityID,
			"resource", candidate.ResourceName,
			"indexer", candidate.Amount.String(),
			"contract", liveBalance.String())
	}
	return result
}

// ApplyCorrections derives a new candidate list from verification results.
// Mismatched pairs take the live amount; pairs whose corrected amount is zero
// are dropped entirely. The input slices are never mutated, so a failed
// submission attempt can always fall back to the original candidate set.
func (s *VerifierServiceImpl) ApplyCorrections(candidates []entity.WithdrawalCandidate, results []entity.VerificationResult) []entity.WithdrawalCandidate {
	type pairKey struct {
		entityID string
		resource string
	}
	byPair := make(map[pairKey]entity.VerificationResult, len(results))
	for _, r := range results {
		byPair[pairKey{entityID: r.EntityID, resource: r.ResourceName}] = r
	}

	corrected := make([]entity.WithdrawalCandidate, 0, len(candidates))
	dropped := 0
	for _, candidate := range candidates {
		result, checked := byPair[pairKey{entityID: candidate.EntityID, resource: candidate.ResourceName}]
		if !checked || result.Matches {
			corrected = append(corrected, candidate)
			continue
		}

		if result.CorrectedAmount == nil || result.CorrectedAmount.Sign() == 0 {
			dropped++
			continue
		}

		updated := candidate
		updated.Amount = new(big.Int).Set(result.CorrectedAmount)
		updated.AmountRaw = result.CorrectedAmount.String()
		updated.WasCorrected = true
		updated.OriginalAmount = candidate.AmountRaw
		corrected = append(corrected, updated)
	}

	if dropped > 0 || len(corrected) != len(candidates) {
		s.logger.Info("Applied balance corrections",
			"input", len(candidates), "output", len(corrected), "dropped", dropped)
	}
	return corrected
}
