package entity

// ResourceCategory groups catalog entries for reporting purposes.
type ResourceCategory string

const (
	CategoryRawMaterial ResourceCategory = "raw_material"
	CategoryRare        ResourceCategory = "rare"
	CategoryMilitary    ResourceCategory = "military"
	CategoryCurrency    ResourceCategory = "currency"
)

// ResourceType is one entry of the fixed in-game resource catalog.
// Code is the numeric resource_type used by the indexer whitelist table;
// Name matches the <NAME>_BALANCE column naming of the indexer Resource table.
type ResourceType struct {
	Code     int              `json:"code"`
	Name     string           `json:"name"`
	Category ResourceCategory `json:"category"`
}

// BalanceColumn returns the indexer column holding this resource's balance.
func (r ResourceType) BalanceColumn() string {
	return r.Name + "_BALANCE"
}

// ResourceCatalog lists every resource trackable per entity, in catalog code
// order. The codes are a stable contract with the indexer whitelist table and
// must not be reordered.
var ResourceCatalog = []ResourceType{
	{Code: 1, Name: "STONE", Category: CategoryRawMaterial},
	{Code: 2, Name: "COAL", Category: CategoryRawMaterial},
	{Code: 3, Name: "WOOD", Category: CategoryRawMaterial},
	{Code: 4, Name: "COPPER", Category: CategoryRawMaterial},
	{Code: 5, Name: "IRONWOOD", Category: CategoryRare},
	{Code: 6, Name: "OBSIDIAN", Category: CategoryRare},
	{Code: 7, Name: "GOLD", Category: CategoryRare},
	{Code: 8, Name: "SILVER", Category: CategoryRare},
	{Code: 9, Name: "MITHRAL", Category: CategoryRare},
	{Code: 10, Name: "ALCHEMICAL_SILVER", Category: CategoryRare},
	{Code: 11, Name: "COLD_IRON", Category: CategoryRare},
	{Code: 12, Name: "DEEP_CRYSTAL", Category: CategoryRare},
	{Code: 13, Name: "RUBY", Category: CategoryRare},
	{Code: 14, Name: "DIAMONDS", Category: CategoryRare},
	{Code: 15, Name: "HARTWOOD", Category: CategoryRare},
	{Code: 16, Name: "IGNIUM", Category: CategoryRare},
	{Code: 17, Name: "TWILIGHT_QUARTZ", Category: CategoryRare},
	{Code: 18, Name: "TRUE_ICE", Category: CategoryRare},
	{Code: 19, Name: "ADAMANTINE", Category: CategoryRare},
	{Code: 20, Name: "SAPPHIRE", Category: CategoryRare},
	{Code: 21, Name: "ETHEREAL_SILICA", Category: CategoryRare},
	{Code: 22, Name: "DRAGONHIDE", Category: CategoryRare},
	{Code: 23, Name: "LABOR", Category: CategoryRawMaterial},
	{Code: 24, Name: "EARTHEN_SHARD", Category: CategoryRare},
	{Code: 25, Name: "DONKEY", Category: CategoryRawMaterial},
	{Code: 26, Name: "KNIGHT_T1", Category: CategoryMilitary},
	{Code: 27, Name: "KNIGHT_T2", Category: CategoryMilitary},
	{Code: 28, Name: "KNIGHT_T3", Category: CategoryMilitary},
	{Code: 29, Name: "CROSSBOWMAN_T1", Category: CategoryMilitary},
	{Code: 30, Name: "CROSSBOWMAN_T2", Category: CategoryMilitary},
	{Code: 31, Name: "CROSSBOWMAN_T3", Category: CategoryMilitary},
	{Code: 32, Name: "PALADIN_T1", Category: CategoryMilitary},
	{Code: 33, Name: "PALADIN_T2", Category: CategoryMilitary},
	{Code: 34, Name: "PALADIN_T3", Category: CategoryMilitary},
	{Code: 35, Name: "WHEAT", Category: CategoryRawMaterial},
	{Code: 36, Name: "FISH", Category: CategoryRawMaterial},
	{Code: 37, Name: "LORDS", Category: CategoryCurrency},
}

var (
	resourcesByCode map[int]ResourceType
	resourcesByName map[string]ResourceType
)

func init() {
	resourcesByCode = make(map[int]ResourceType, len(ResourceCatalog))
	resourcesByName = make(map[string]ResourceType, len(ResourceCatalog))
	for _, r := range ResourceCatalog {
		resourcesByCode[r.Code] = r
		resourcesByName[r.Name] = r
	}
}

// ResourceByCode looks up a catalog entry by its numeric type code.
func ResourceByCode(code int) (ResourceType, bool) {
	r, ok := resourcesByCode[code]
	return r, ok
}

// ResourceByName looks up a catalog entry by its canonical name.
func ResourceByName(name string) (ResourceType, bool) {
	r, ok := resourcesByName[name]
	return r, ok
}
