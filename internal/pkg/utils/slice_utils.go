package utils

import "bridge_checker/internal/domain/entity"

// ChunkOperations splits operations into naive fixed-size batches. This is the
// degraded planning mode used when the conflict-aware planner cannot trust its
// inputs; it preserves order and drops nothing.
func ChunkOperations(ops []entity.WithdrawalOperation, chunkSize int) []entity.Batch {
	if chunkSize <= 0 {
		chunkSize = len(ops)
	}
	if len(ops) == 0 {
		return []entity.Batch{}
	}

	var batches []entity.Batch
	for i := 0; i < len(ops); i += chunkSize {
		end := i + chunkSize
		if end > len(ops) {
			end = len(ops)
		}
		batches = append(batches, entity.Batch{Operations: ops[i:end]})
	}
	return batches
}
