package dto

// AcknowledgeResponse is the acknowledgement body the provider expects for an
// accepted callback delivery
type AcknowledgeResponse struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

// RejectionResponse is returned when a callback fails a security check
type RejectionResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// LivenessResponse answers the provider's reachability probe
type LivenessResponse struct {
	Status string `json:"status"`
}
