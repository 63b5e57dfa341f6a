package history

// ResolutionRecord represents a single matrix resolution in the database
type ResolutionRecord struct {
	ID             int64   `json:"id"`
	Project        string  `json:"project"`
	Variant        string  `json:"variant"`
	Repository     string  `json:"repository"`
	Event          string  `json:"event"`
	Ref            string  `json:"ref"`
	BranchOverride string  `json:"branch_override,omitempty"`
	Branches       string  `json:"branches"`
	EntryCount     int     `json:"entry_count"`
	Status         string  `json:"status"` // resolved, failed
	ErrorMessage   *string `json:"error_message,omitempty"`
	CreatedAt      string  `json:"created_at"`
}
