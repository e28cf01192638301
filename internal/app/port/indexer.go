package port

import (
	"context"

	"bridge_checker/internal/domain/entity"
)

// BalanceRow is one row of the union balance query: a nonzero balance of one
// resource on one entity, with the raw value still string-encoded exactly as
// the indexer returned it.
type BalanceRow struct {
	EntityID     string
	ResourceName string
	Balance      string
}

// IndexerClient is the read-only SQL-over-HTTP interface to the game indexer.
// Zero-row responses are normal empty results, not errors.
type IndexerClient interface {
	// StructuresByOwner returns the entities owned by the address, restricted
	// to the structure categories that can hold bridgeable resources.
	StructuresByOwner(ctx context.Context, owner string) ([]entity.Structure, error)

	// BridgeWhitelist returns the resource type to token contract mapping.
	BridgeWhitelist(ctx context.Context) ([]entity.WhitelistEntry, error)

	// NonzeroBalances returns every nonzero (entity, resource) balance across
	// the given entity ids, unioned over the full resource catalog.
	NonzeroBalances(ctx context.Context, entityIDs []string) ([]BalanceRow, error)
}

// ProgressReporter receives step-level progress events during long operations.
// All services must function correctly with a nil or no-op reporter.
type ProgressReporter interface {
	StartStep(stepID, name, detail string)
	UpdateStep(stepID, detail string)
	CompleteStep(stepID, detail string)
	ErrorStep(stepID, errDetail string)
}
