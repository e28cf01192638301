package entity

// BridgeError represents a non-fatal error collected while aggregating or
// verifying, attributed to a specific owner/entity/resource where known.
type BridgeError struct {
	Owner        string `json:"owner,omitempty"`
	EntityID     string `json:"entityId,omitempty"`
	ResourceName string `json:"resourceName,omitempty"`
	Message      string `json:"message"`
}
