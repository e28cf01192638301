package service

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"bridge_checker/internal/app/port"
	"bridge_checker/internal/domain/entity"
	"bridge_checker/internal/pkg/metrics"
	"bridge_checker/internal/pkg/utils"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

const whitelistCacheKey = "bridge_whitelist"

// AggregatorServiceImpl implements port.AggregatorService: it reconciles the
// indexer's structure, whitelist and balance tables into a single report of
// what one owner can bridge out.
type AggregatorServiceImpl struct {
	indexer  port.IndexerClient
	logger   port.Logger
	reporter port.ProgressReporter
	cache    *gocache.Cache
}

// NewAggregatorService creates a new AggregatorServiceImpl. The reporter may
// be nil; progress events are then dropped.
func NewAggregatorService(
	indexer port.IndexerClient,
	l port.Logger,
	reporter port.ProgressReporter,
	whitelistTTL time.Duration,
) port.AggregatorService {
	return &AggregatorServiceImpl{
		indexer:  indexer,
		logger:   l,
		reporter: reporter,
		cache:    gocache.New(whitelistTTL, 2*whitelistTTL),
	}
}

// Aggregate fetches everything the owner can withdraw. An owner with zero
// structures is a normal empty result, not an error; an unreachable indexer
// is a hard failure with no partial report.
func (s *AggregatorServiceImpl) Aggregate(ctx context.Context, owner string) (*entity.ResourceReport, error) {
	started := time.Now()
	s.startStep("fetch-structures", "Querying user structures", "realms and villages owned by "+owner)

	var structures []entity.Structure
	var whitelist []entity.WhitelistEntry

	// The structure query and the whitelist query have no dependency on each
	// other; only the balance query needs both.
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		structures, err = s.indexer.StructuresByOwner(egCtx, owner)
		return err
	})
	eg.Go(func() error {
		var err error
		whitelist, err = s.loadWhitelist(egCtx)
		return err
	})
	if err := eg.Wait(); err != nil {
		s.errorStep("fetch-structures", err.Error())
		metrics.AggregationRuns.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("aggregation for %s failed: %w", owner, err)
	}

	if len(structures) == 0 {
		s.completeStep("fetch-structures", "no structures found for this address")
		s.logger.Info("Owner has no bridge-capable structures", "owner", owner)
		metrics.AggregationRuns.WithLabelValues("empty").Inc()
		return &entity.ResourceReport{
			Owner:        owner,
			Withdrawable: []entity.WithdrawalCandidate{},
			AllBalances:  []entity.ResourceBalance{},
			Summary:      entity.ReportSummary{WhitelistedCount: len(whitelist)},
			Wealth:       emptyWealth(),
		}, nil
	}

	entityIDs := make([]string, 0, len(structures))
	for _, st := range structures {
		entityIDs = append(entityIDs, st.EntityID)
	}
	s.completeStep("fetch-structures", fmt.Sprintf("found %d structures", len(structures)))

	tokenByCode := make(map[int]string, len(whitelist))
	for _, w := range whitelist {
		if w.Token != "" {
			tokenByCode[w.ResourceType] = w.Token
		}
	}

	s.startStep("fetch-balances", "Querying resource balances", "unified query across the resource catalog")
	rows, err := s.indexer.NonzeroBalances(ctx, entityIDs)
	if err != nil {
		s.errorStep("fetch-balances", err.Error())
		metrics.AggregationRuns.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("aggregation for %s failed: %w", owner, err)
	}

	report := s.buildReport(owner, entityIDs, rows, tokenByCode, len(whitelist))
	s.completeStep("fetch-balances",
		fmt.Sprintf("found %d withdrawable resources across %d entities",
			report.Summary.WithdrawableCount, report.Summary.TotalEntities))

	metrics.AggregationRuns.WithLabelValues("ok").Inc()
	metrics.AggregationDuration.Observe(time.Since(started).Seconds())
	s.logger.Info("Aggregation complete",
		"owner", owner,
		"entities", report.Summary.TotalEntities,
		"balances", report.Summary.TotalResourcesChecked,
		"withdrawable", report.Summary.WithdrawableCount)
	return report, nil
}

// buildReport turns raw balance rows into Balance records and withdrawal
// candidates. A malformed balance value parses to zero so one bad row cannot
// abort the run.
func (s *AggregatorServiceImpl) buildReport(
	owner string,
	entityIDs []string,
	rows []port.BalanceRow,
	tokenByCode map[int]string,
	whitelistedCount int,
) *entity.ResourceReport {
	allBalances := make([]entity.ResourceBalance, 0, len(rows))
	withdrawable := make([]entity.WithdrawalCandidate, 0, len(rows))
	var rowErrors []entity.BridgeError
	wealth := newWealthAccumulator()

	for _, row := range rows {
		resource, ok := entity.ResourceByName(row.ResourceName)
		if !ok {
			s.logger.Warn("Skipping balance row with unknown resource", "resource", row.ResourceName)
			rowErrors = append(rowErrors, entity.BridgeError{
				Owner:        owner,
				EntityID:     row.EntityID,
				ResourceName: row.ResourceName,
				Message:      "unknown resource in balance row",
			})
			continue
		}

		amount := utils.ParseAmount(row.Balance)
		token := tokenByCode[resource.Code]

		balance := entity.ResourceBalance{
			EntityID:        row.EntityID,
			TokenAddress:    token,
			ResourceName:    resource.Name,
			ResourceCode:    resource.Code,
			Amount:          amount,
			AmountFormatted: utils.FormatAmount(amount),
			IsWithdrawable:  amount.Sign() > 0,
			IsWhitelisted:   token != "",
		}
		allBalances = append(allBalances, balance)
		wealth.add(resource.Category, amount)

		if balance.IsWithdrawable && balance.IsWhitelisted {
			withdrawable = append(withdrawable, entity.WithdrawalCandidate{
				EntityID:     balance.EntityID,
				TokenAddress: balance.TokenAddress,
				Amount:       new(big.Int).Set(amount),
				AmountRaw:    row.Balance,
				ResourceName: balance.ResourceName,
				ResourceCode: balance.ResourceCode,
			})
		}
	}

	return &entity.ResourceReport{
		Owner:        owner,
		Withdrawable: withdrawable,
		AllBalances:  allBalances,
		Summary: entity.ReportSummary{
			TotalEntities:         len(entityIDs),
			TotalResourcesChecked: len(allBalances),
			WithdrawableCount:     len(withdrawable),
			WhitelistedCount:      whitelistedCount,
		},
		Wealth: wealth.summary(),
		Errors: rowErrors,
	}
}

// loadWhitelist serves the whitelist from the TTL cache when possible.
func (s *AggregatorServiceImpl) loadWhitelist(ctx context.Context) ([]entity.WhitelistEntry, error) {
	if cached, found := s.cache.Get(whitelistCacheKey); found {
		if entries, ok := cached.([]entity.WhitelistEntry); ok {
			s.logger.Debug("Serving bridge whitelist from cache", "count", len(entries))
			return entries, nil
		}
	}

	entries, err := s.indexer.BridgeWhitelist(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(whitelistCacheKey, entries, gocache.DefaultExpiration)
	return entries, nil
}

type wealthAccumulator struct {
	totals map[entity.ResourceCategory]*big.Int
}

func newWealthAccumulator() *wealthAccumulator {
	return &wealthAccumulator{totals: map[entity.ResourceCategory]*big.Int{
		entity.CategoryRawMaterial: new(big.Int),
		entity.CategoryRare:        new(big.Int),
		entity.CategoryMilitary:    new(big.Int),
		entity.CategoryCurrency:    new(big.Int),
	}}
}

func (w *wealthAccumulator) add(cat entity.ResourceCategory, amount *big.Int) {
	if total, ok := w.totals[cat]; ok && amount != nil {
		total.Add(total, amount)
	}
}

func (w *wealthAccumulator) summary() entity.WealthSummary {
	return entity.WealthSummary{
		RawMaterials: utils.FormatAmount(w.totals[entity.CategoryRawMaterial]),
		Rare:         utils.FormatAmount(w.totals[entity.CategoryRare]),
		Military:     utils.FormatAmount(w.totals[entity.CategoryMilitary]),
		Lords:        utils.FormatAmount(w.totals[entity.CategoryCurrency]),
	}
}

func emptyWealth() entity.WealthSummary {
	return entity.WealthSummary{RawMaterials: "0", Rare: "0", Military: "0", Lords: "0"}
}

func (s *AggregatorServiceImpl) startStep(id, name, detail string) {
	if s.reporter != nil {
		s.reporter.StartStep(id, name, detail)
	}
}

func (s *AggregatorServiceImpl) completeStep(id, detail string) {
	if s.reporter != nil {
		s.reporter.CompleteStep(id, detail)
	}
}

func (s *AggregatorServiceImpl) errorStep(id, detail string) {
	if s.reporter != nil {
		s.reporter.ErrorStep(id, detail)
	}
}
