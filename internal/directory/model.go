// File: internal/directory/model.go
package directory

// SkillSummary is the directory projection of one skill.
type SkillSummary struct {
	Name  string `json:"name"`
	Years int    `json:"years"`
}

// Entry is one row of the admin directory roster.
type Entry struct {
	UserID     string         `json:"user_id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Department string         `json:"department,omitempty"`
	Skills     []SkillSummary `json:"skills"`
}

// Result is a directory entry as returned by a search. MatchedSkill is nil
// for an empty query and otherwise names the entry's first skill matching
// the query, for highlight rendering.
type Result struct {
	Entry
	MatchedSkill *SkillSummary `json:"matched_skill,omitempty"`
}

// --- DTOs for API requests/responses ---

// BulkMessageRequest is the payload for sending a message to selected
// directory entries.
type BulkMessageRequest struct {
	RecipientIDs []string `json:"recipient_ids"`
	Subject      string   `json:"subject"`
	Body         string   `json:"body"`
}

// DeliveryResult reports the outcome for one recipient of a bulk message.
type DeliveryResult struct {
	RecipientID string `json:"recipient_id"`
	Name        string `json:"name,omitempty"`
	Delivered   bool   `json:"delivered"`
	Error       string `json:"error,omitempty"`
}

// BulkMessageReport summarizes a bulk send.
type BulkMessageReport struct {
	Requested int              `json:"requested"`
	Delivered int              `json:"delivered"`
	Failed    int              `json:"failed"`
	Results   []DeliveryResult `json:"results"`
}
