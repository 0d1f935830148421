package models

// Block holds one query within a conversation. Responses are referenced by id
// and stored under the block's key prefix.
type Block struct {
	ID          string   `json:"id"`
	InputText   string   `json:"inputText"`
	ResponseIDs []string `json:"responseIds"`
	CreatedBy   User     `json:"createdBy"`
	CreatedAt   int64    `json:"createdAt"`

	// Resolved at read time by hydration, never persisted
	Responses []Response `json:"-"`
}
