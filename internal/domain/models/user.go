package models

// User identifies who created a conversation or block.
// Users are embedded by value in their parent documents, never stored separately.
type User struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	DisplayName *string `json:"displayName,omitempty"`
}
