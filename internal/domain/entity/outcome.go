package entity

// OperationState tracks one withdrawal operation through submission.
type OperationState string

const (
	OpPending          OperationState = "pending"
	OpSimulating       OperationState = "simulating"
	OpSubmitted        OperationState = "submitted"
	OpConfirmed        OperationState = "confirmed"
	OpFailed           OperationState = "failed"
	OpSimulationFailed OperationState = "simulation_failed"
)

// FailureDetail describes one failed operation with enough structure for the
// caller to retry after excluding the offending (entity, resource) pair.
// Structured is false when the failure reason did not match the known
// insufficient-balance message grammar.
type FailureDetail struct {
	EntityID     string `json:"entityId,omitempty"`
	ResourceName string `json:"resourceName,omitempty"`
	Reason       string `json:"reason"`
	Structured   bool   `json:"structured"`
}

// OperationOutcome is the terminal record of one operation in individual
// execution mode.
type OperationOutcome struct {
	EntityID     string         `json:"entityId"`
	ResourceName string         `json:"resourceName"`
	State        OperationState `json:"state"`
	TxHash       string         `json:"txHash,omitempty"`
	Reason       string         `json:"reason,omitempty"`
}

// BatchOutcome is the terminal record of one batch in batch execution mode.
type BatchOutcome struct {
	Index   int            `json:"index"`
	Size    int            `json:"size"`
	TxHash  string         `json:"txHash,omitempty"`
	Failed  bool           `json:"failed"`
	Failure *FailureDetail `json:"failure,omitempty"`
}

// WithdrawalSummary aggregates one execution run. Confirmed withdrawals are
// final on-chain and are always reported even when a later item failed.
type WithdrawalSummary struct {
	TxHashes     []string           `json:"txHashes"`
	SuccessCount int                `json:"successCount"`
	FailureCount int                `json:"failureCount"`
	Failures     []FailureDetail    `json:"failures,omitempty"`
	PerOperation []OperationOutcome `json:"perOperation,omitempty"`
	PerBatch     []BatchOutcome     `json:"perBatch,omitempty"`
	AbortedEarly bool               `json:"abortedEarly,omitempty"`
	TotalPlanned int                `json:"totalPlanned"`
}
