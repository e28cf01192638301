package service

import (
	"bridge_checker/internal/app/port"
	"bridge_checker/internal/domain/entity"
	"bridge_checker/internal/pkg/utils"
)

// BatchPlanner partitions withdrawal operations into transaction batches.
// Two constraints apply: a batch never exceeds the maximum size, and a batch
// never carries the same resource type twice. Grouping two withdrawals of one
// resource type in a single transaction has been observed to trigger spurious
// contract-side conflicts, so same-type exclusion is a correctness measure,
// not just a size optimization.
type BatchPlanner struct {
	maxBatchSize int
	logger       port.Logger
}

// NewBatchPlanner creates a planner with the given maximum batch size.
func NewBatchPlanner(maxBatchSize int, l port.Logger) *BatchPlanner {
	if maxBatchSize <= 0 {
		maxBatchSize = 50
	}
	return &BatchPlanner{maxBatchSize: maxBatchSize, logger: l}
}

// Plan walks the operations in input order, greedily accumulating the current
// batch and closing it when the next operation would repeat a resource type
// or overflow the size cap. Concatenating the returned batches reproduces the
// input exactly: nothing is dropped, reordered or duplicated.
func (p *BatchPlanner) Plan(ops []entity.WithdrawalOperation) []entity.Batch {
	if len(ops) == 0 {
		return []entity.Batch{}
	}

	var batches []entity.Batch
	current := entity.Batch{}
	typesInCurrent := make(map[int]bool)

	for _, op := range ops {
		if typesInCurrent[op.ResourceCode] || current.Len() >= p.maxBatchSize {
			batches = append(batches, current)
			current = entity.Batch{}
			typesInCurrent = make(map[int]bool)
		}
		current.Operations = append(current.Operations, op)
		typesInCurrent[op.ResourceCode] = true
	}
	if current.Len() > 0 {
		batches = append(batches, current)
	}

	p.logger.Debug("Planned withdrawal batches", "operations", len(ops), "batches", len(batches))
	return batches
}

// PlanByResources plans with an internal consistency precondition: the
// operation list and the resource list used to classify it must be the same
// length. When they diverge the conflict-aware walk cannot be trusted, so
// planning degrades to naive fixed-size chunking, which is less safe but
// still makes progress.
func (p *BatchPlanner) PlanByResources(ops []entity.WithdrawalOperation, resources []entity.ResourceType) []entity.Batch {
	if len(ops) != len(resources) {
		p.logger.Warn("Operation/resource count mismatch, falling back to fixed-size chunking",
			"operations", len(ops), "resources", len(resources))
		return utils.ChunkOperations(ops, p.maxBatchSize)
	}
	return p.Plan(ops)
}
