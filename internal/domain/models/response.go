package models

// Response is a single answer attached to a block. Payload is an opaque
// structured value; its shape is owned by the producing source.
type Response struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	ResponseType string `json:"responseType"`
	Payload      any    `json:"payload,omitempty"`
	RequestedAt  *int64 `json:"requestedAt,omitempty"`
	RespondedAt  *int64 `json:"respondedAt,omitempty"`
}
