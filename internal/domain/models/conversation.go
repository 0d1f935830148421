package models

// Conversation status and summary type values assigned at creation.
const (
	StatusOpen         = "OPEN"
	SummaryTypeUnknown = "UNKNOWN"
)

// Conversation is the root of the document tree. It references its blocks by
// id; block documents live under their own storage keys.
type Conversation struct {
	ID          string   `json:"id"`
	CreatedBy   User     `json:"createdBy"`
	CreatedAt   int64    `json:"createdAt"`
	UpdatedAt   int64    `json:"updatedAt"`
	Status      string   `json:"status"`
	SummaryText *string  `json:"summaryText,omitempty"`
	SummaryType *string  `json:"summaryType,omitempty"`
	BlockIDs    []string `json:"blockIds"`

	// Resolved at read time by hydration, never persisted
	Blocks []Block `json:"-"`
}
