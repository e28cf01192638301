package entity

import "math/big"

// WithdrawalOperation is one intended withdraw call against the bridge
// contract. Operations are never mutated in place; corrections and retries
// derive new ones from the candidate list.
type WithdrawalOperation struct {
	EntityID     string   `json:"entityId"`
	ToAddress    string   `json:"toAddress"`
	TokenAddress string   `json:"tokenAddress"`
	Amount       *big.Int `json:"-"`
	AmountRaw    string   `json:"amountRaw"`
	ResourceName string   `json:"resourceName"`
	ResourceCode int      `json:"resourceCode"`
	FeeRecipient string   `json:"feeRecipient"`
}

// Batch is an ordered group of operations submitted in one transaction.
// The bridge contract emits one event per operation and a transaction has a
// hard event-count ceiling, so a batch never exceeds MaxBatchSize operations
// and never carries the same resource type twice.
type Batch struct {
	Operations []WithdrawalOperation `json:"operations"`
}

// Len returns the number of operations in the batch.
func (b Batch) Len() int { return len(b.Operations) }

// exclusionKey identifies one (entity, resource) pair.
type exclusionKey struct {
	entityID     string
	resourceName string
}

// ExclusionSet records (entity, resource) pairs that must be skipped when
// rebuilding the operation list for a retry. The set is the only state
// carried across retry attempts; candidates themselves stay immutable.
type ExclusionSet struct {
	keys map[exclusionKey]struct{}
}

// NewExclusionSet returns an empty exclusion set.
func NewExclusionSet() *ExclusionSet {
	return &ExclusionSet{keys: make(map[exclusionKey]struct{})}
}

// Add marks an (entity, resource) pair as excluded.
func (s *ExclusionSet) Add(entityID, resourceName string) {
	s.keys[exclusionKey{entityID: entityID, resourceName: resourceName}] = struct{}{}
}

// Contains reports whether the pair has been excluded.
func (s *ExclusionSet) Contains(entityID, resourceName string) bool {
	if s == nil || s.keys == nil {
		return false
	}
	_, ok := s.keys[exclusionKey{entityID: entityID, resourceName: resourceName}]
	return ok
}

// Size returns the number of excluded pairs.
func (s *ExclusionSet) Size() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}
