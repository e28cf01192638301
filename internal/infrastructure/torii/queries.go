package torii

import (
	"fmt"
	"strings"

	"bridge_checker/internal/domain/entity"
)

// Indexer table names. These follow the world deployment's namespace and are
// a versioned contract with the indexer schema.
const (
	structureTable = `"s1_eternum-Structure"`
	whitelistTable = `"s1_eternum-ResourceBridgeWhitelistConfig"`
	resourceTable  = `"s1_eternum-Resource"`
)

// Structure categories that can hold bridgeable resources: 1 = realm,
// 5 = village.
const bridgeableCategories = "(1, 5)"

// structuresByOwnerQuery selects the entity ids of all bridge-capable
// structures owned by the address.
func structuresByOwnerQuery(owner string) string {
	return fmt.Sprintf(
		`SELECT entity_id FROM %s WHERE owner = '%s' AND "base.category" IN %s`,
		structureTable, sanitize(owner), bridgeableCategories,
	)
}

// whitelistQuery selects the resource type to token contract mapping.
func whitelistQuery() string {
	return fmt.Sprintf(`SELECT resource_type, token FROM %s`, whitelistTable)
}

// balancesQuery builds the union query over the full resource catalog: one
// SELECT per resource column, filtered to the given entity ids and to nonzero
// balances, joined with UNION ALL.
func balancesQuery(entityIDs []string) string {
	ids := make([]string, 0, len(entityIDs))
	for _, id := range entityIDs {
		ids = append(ids, sanitize(id))
	}
	idList := strings.Join(ids, ",")

	selects := make([]string, 0, len(entity.ResourceCatalog))
	for _, r := range entity.ResourceCatalog {
		column := fmt.Sprintf(`"%s"`, r.BalanceColumn())
		selects = append(selects, fmt.Sprintf(
			`SELECT entity_id, '%s' AS resource_type, %s AS balance FROM %s WHERE entity_id IN (%s) AND %s IS NOT NULL AND %s > 0`,
			r.Name, column, resourceTable, idList, column, column,
		))
	}

	return strings.Join(selects, "\nUNION ALL\n")
}

// sanitize strips quote characters from interpolated values. The indexer
// endpoint is read-only, but identifiers fetched from it still shouldn't be
// able to break out of their literal.
func sanitize(v string) string {
	v = strings.ReplaceAll(v, "'", "")
	v = strings.ReplaceAll(v, `"`, "")
	return v
}
