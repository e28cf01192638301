package entity

import "math/big"

// Structure is an owned on-chain realm or village that can hold resources.
type Structure struct {
	EntityID string `json:"entityId"`
	Owner    string `json:"owner"`
}

// WhitelistEntry maps a resource type code to its bridging token contract.
type WhitelistEntry struct {
	ResourceType int    `json:"resourceType"`
	Token        string `json:"token"`
}

// ResourceBalance is one (entity, resource) reading from the indexer.
// Immutable once constructed; a fresh aggregation produces a new set.
type ResourceBalance struct {
	EntityID        string   `json:"entityId"`
	TokenAddress    string   `json:"tokenAddress,omitempty"`
	ResourceName    string   `json:"resourceName"`
	ResourceCode    int      `json:"resourceCode"`
	Amount          *big.Int `json:"-"`
	AmountFormatted string   `json:"amountFormatted"`
	IsWithdrawable  bool     `json:"isWithdrawable"`
	IsWhitelisted   bool     `json:"isWhitelisted"`
}

// WithdrawalCandidate is a withdrawable, whitelisted balance projected into
// the shape the planner and executor work with.
type WithdrawalCandidate struct {
	EntityID       string   `json:"entityId"`
	TokenAddress   string   `json:"tokenAddress"`
	Amount         *big.Int `json:"-"`
	AmountRaw      string   `json:"amountRaw"`
	ResourceName   string   `json:"resourceName"`
	ResourceCode   int      `json:"resourceCode"`
	WasCorrected   bool     `json:"wasCorrected,omitempty"`
	OriginalAmount string   `json:"originalAmount,omitempty"`
}

// ReportSummary carries the aggregate counts of one aggregation run.
type ReportSummary struct {
	TotalEntities         int `json:"totalEntities"`
	TotalResourcesChecked int `json:"totalResourcesChecked"`
	WithdrawableCount     int `json:"withdrawableCount"`
	WhitelistedCount      int `json:"whitelistedCount"`
}

// WealthSummary totals balances per catalog category at display precision.
type WealthSummary struct {
	RawMaterials string `json:"rawMaterials"`
	Rare         string `json:"rare"`
	Military     string `json:"military"`
	Lords        string `json:"lords"`
}

// ResourceReport is the unified result of one aggregation run for one owner.
// Errors carries per-row soft failures; they never abort the run.
type ResourceReport struct {
	Owner        string                `json:"owner"`
	Withdrawable []WithdrawalCandidate `json:"withdrawable"`
	AllBalances  []ResourceBalance     `json:"allBalances"`
	Summary      ReportSummary         `json:"summary"`
	Wealth       WealthSummary         `json:"wealth"`
	Errors       []BridgeError         `json:"errors,omitempty"`
}
