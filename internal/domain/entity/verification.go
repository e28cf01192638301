package entity

import "math/big"

// VerificationResult compares the indexer-reported amount of one
// (entity, resource) pair with the live contract balance. CorrectedAmount is
// the value safe to withdraw: the indexer amount when both agree, the live
// amount on mismatch, and zero when the pair could not be verified at all.
type VerificationResult struct {
	EntityID        string   `json:"entityId"`
	ResourceName    string   `json:"resourceName"`
	IndexerAmount   *big.Int `json:"-"`
	ContractAmount  *big.Int `json:"-"`
	Matches         bool     `json:"matches"`
	CorrectedAmount *big.Int `json:"-"`
	CheckError      string   `json:"checkError,omitempty"`
}

// FreshnessReport is the verdict of sampling a prefix of candidates against
// live contract state.
type FreshnessReport struct {
	TotalChecked       int     `json:"totalChecked"`
	Mismatches         int     `json:"mismatches"`
	MismatchPercentage float64 `json:"mismatchPercentage"`
	SeemsStale         bool    `json:"seemsStale"`
}
