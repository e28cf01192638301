package restapi

import (
	"net/http"
	"strings"

	"bridge_checker/internal/app/port"
	"bridge_checker/internal/app/service"
	"bridge_checker/internal/domain/entity"
	"bridge_checker/internal/infrastructure/configloader"

	"github.com/gin-gonic/gin"
)

// APIResourceResponse is the envelope for the resource report endpoint.
type APIResourceResponse struct {
	Data struct {
		Report    *entity.ResourceReport      `json:"report"`
		Freshness *entity.FreshnessReport     `json:"freshness,omitempty"`
		Checks    []entity.VerificationResult `json:"checks,omitempty"`
	} `json:"data"`
	StatusMessage string `json:"status_message"`
}

// WithdrawalRequest is the body of the withdrawal endpoint.
type WithdrawalRequest struct {
	// ToAddress receives the bridged tokens.
	ToAddress string `json:"toAddress" binding:"required"`
	// Mode selects "batch" (default) or "individual" execution.
	Mode string `json:"mode"`
	// Resources optionally restricts the run to these resource names.
	Resources []string `json:"resources"`
	// Exclusions lists (entity, resource) pairs to skip, typically taken
	// from the failures of a previous attempt.
	Exclusions []ExclusionPair `json:"exclusions"`
	// Verify forces a full live-balance verification before execution even
	// when the freshness sample looks clean.
	Verify bool `json:"verify"`
}

// ExclusionPair names one (entity, resource) pair to skip.
type ExclusionPair struct {
	EntityID     string `json:"entityId" binding:"required"`
	ResourceName string `json:"resourceName" binding:"required"`
}

// APIWithdrawalResponse is the envelope for the withdrawal endpoint.
type APIWithdrawalResponse struct {
	Data struct {
		Summary   entity.WithdrawalSummary `json:"summary"`
		Freshness *entity.FreshnessReport  `json:"freshness,omitempty"`
		Verified  bool                     `json:"verified"`
	} `json:"data"`
	StatusMessage string `json:"status_message"`
}

// BridgeHandler handles HTTP requests for resource reports and withdrawals.
type BridgeHandler struct {
	aggregator port.AggregatorService
	verifier   port.VerifierService
	executor   port.ExecutorService
	planner    *service.BatchPlanner
	cfg        *configloader.Config
	logger     port.Logger
}

// NewBridgeHandler creates a new BridgeHandler.
func NewBridgeHandler(
	aggregator port.AggregatorService,
	verifier port.VerifierService,
	executor port.ExecutorService,
	planner *service.BatchPlanner,
	cfg *configloader.Config,
	l port.Logger,
) *BridgeHandler {
	return &BridgeHandler{
		aggregator: aggregator,
		verifier:   verifier,
		executor:   executor,
		planner:    planner,
		cfg:        cfg,
		logger:     l,
	}
}

// GetResourcesHandler handles GET /api/v1/resources/:owner. With ?verify=true
// every candidate is checked against live contract state and the per-pair
// results are included in the response.
func (h *BridgeHandler) GetResourcesHandler(c *gin.Context) {
	ctx := c.Request.Context()
	owner := c.Param("owner")

	report, err := h.aggregator.Aggregate(ctx, owner)
	if err != nil {
		h.logger.Error("Resource aggregation failed", "owner", owner, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if names := c.Query("types"); names != "" {
		report = filterReport(report, splitNames(names))
	}

	var response APIResourceResponse
	response.Data.Report = report

	if c.Query("verify") == "true" && len(report.Withdrawable) > 0 {
		checks := h.verifier.VerifyAll(ctx, report.Withdrawable)
		mismatches := 0
		for _, r := range checks {
			if !r.Matches {
				mismatches++
			}
		}
		response.Data.Checks = checks
		response.Data.Freshness = &entity.FreshnessReport{
			TotalChecked:       len(checks),
			Mismatches:         mismatches,
			MismatchPercentage: float64(mismatches) / float64(len(checks)) * 100,
		}
	}

	switch {
	case len(report.AllBalances) == 0:
		response.StatusMessage = "No resource balances found for this address."
	case len(report.Withdrawable) == 0:
		response.StatusMessage = "Resources found, but none are withdrawable."
	default:
		response.StatusMessage = "Resource report retrieved successfully."
	}
	c.JSON(http.StatusOK, response)
}

// CreateWithdrawalHandler handles POST /api/v1/withdrawals/:owner. It runs the
// full pipeline: aggregate, sample freshness, verify and correct when the
// indexer looks stale (or when verification was requested), plan, execute.
func (h *BridgeHandler) CreateWithdrawalHandler(c *gin.Context) {
	ctx := c.Request.Context()
	owner := c.Param("owner")

	var req WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mode := strings.ToLower(req.Mode)
	if mode == "" {
		mode = "batch"
	}
	if mode != "batch" && mode != "individual" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be \"batch\" or \"individual\""})
		return
	}

	report, err := h.aggregator.Aggregate(ctx, owner)
	if err != nil {
		h.logger.Error("Resource aggregation failed", "owner", owner, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	candidates := report.Withdrawable
	if len(req.Resources) > 0 {
		candidates = filterCandidates(candidates, req.Resources)
	}

	var response APIWithdrawalResponse
	if len(candidates) == 0 {
		response.Data.Summary = entity.WithdrawalSummary{TxHashes: []string{}}
		response.StatusMessage = "Nothing to withdraw for this address."
		c.JSON(http.StatusOK, response)
		return
	}

	freshness, err := h.verifier.SampleFreshness(ctx, candidates, h.cfg.Bridge.FreshnessSampleSize)
	if err != nil {
		h.logger.Error("Freshness sampling failed", "owner", owner, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	response.Data.Freshness = &freshness

	if freshness.SeemsStale || req.Verify {
		h.logger.Info("Running full balance verification",
			"owner", owner, "stale", freshness.SeemsStale, "requested", req.Verify)
		checks := h.verifier.VerifyAll(ctx, candidates)
		candidates = h.verifier.ApplyCorrections(candidates, checks)
		response.Data.Verified = true
	}

	exclusions := entity.NewExclusionSet()
	for _, pair := range req.Exclusions {
		exclusions.Add(pair.EntityID, strings.ToUpper(pair.ResourceName))
	}

	ops := h.executor.BuildOperations(candidates, req.ToAddress, exclusions)
	if len(ops) == 0 {
		response.Data.Summary = entity.WithdrawalSummary{TxHashes: []string{}}
		response.StatusMessage = "All candidate withdrawals were excluded or corrected away."
		c.JSON(http.StatusOK, response)
		return
	}

	var summary entity.WithdrawalSummary
	if mode == "individual" {
		summary = h.executor.ExecuteIndividually(ctx, ops)
	} else {
		summary = h.executor.ExecuteBatches(ctx, h.planner.Plan(ops))
	}
	response.Data.Summary = summary

	switch {
	case summary.FailureCount == 0:
		response.StatusMessage = "All withdrawals submitted successfully."
	case summary.SuccessCount > 0:
		response.StatusMessage = "Withdrawals partially submitted. See failures for retry exclusions."
	default:
		response.StatusMessage = "No withdrawals could be submitted."
	}
	c.JSON(http.StatusOK, response)
}

// splitNames parses a comma-separated resource name list, normalized to the
// catalog's upper-case form.
func splitNames(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			names = append(names, strings.ToUpper(trimmed))
		}
	}
	return names
}

// filterCandidates keeps only candidates whose resource name is in the list.
func filterCandidates(candidates []entity.WithdrawalCandidate, names []string) []entity.WithdrawalCandidate {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[strings.ToUpper(n)] = true
	}
	kept := make([]entity.WithdrawalCandidate, 0, len(candidates))
	for _, c := range candidates {
		if wanted[c.ResourceName] {
			kept = append(kept, c)
		}
	}
	return kept
}

// filterReport narrows a report to the named resource types. Summary counts
// are recomputed for the narrowed view; wealth totals keep the full picture.
func filterReport(report *entity.ResourceReport, names []string) *entity.ResourceReport {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	balances := make([]entity.ResourceBalance, 0, len(report.AllBalances))
	for _, b := range report.AllBalances {
		if wanted[b.ResourceName] {
			balances = append(balances, b)
		}
	}

	filtered := &entity.ResourceReport{
		Owner:        report.Owner,
		Withdrawable: filterCandidates(report.Withdrawable, names),
		AllBalances:  balances,
		Summary:      report.Summary,
		Wealth:       report.Wealth,
	}
	filtered.Summary.TotalResourcesChecked = len(balances)
	filtered.Summary.WithdrawableCount = len(filtered.Withdrawable)
	return filtered
}
