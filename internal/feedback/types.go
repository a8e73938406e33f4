// Package feedback provides clinician feedback storage for treatment
// recommendations. It records agreements and overrides per fired rule so
// rule authors can review how guidance lands in practice. Only the opaque
// evaluation record hash is stored, never patient attributes.
package feedback

import (
	"context"
	"io"
	"time"
)

// Feedback represents a clinician's feedback on one emitted recommendation.
type Feedback struct {
	ID             int64     `json:"id,omitempty"`
	RecordHash     string    `json:"record_hash"`           // Opaque evaluation key
	RuleID         string    `json:"rule_id"`               // Fired rule the feedback refers to
	Recommendation string    `json:"recommendation"`        // Text as shown to the clinician
	Agreed         bool      `json:"agreed"`                // Did the clinician follow the guidance?
	Alternative    string    `json:"alternative,omitempty"` // Action taken instead, when overridden
	Notes          string    `json:"notes,omitempty"`       // Free-text notes
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Store defines the interface for feedback storage operations.
type Store interface {
	// Save stores or updates feedback. If feedback for the same
	// record_hash+rule_id exists, it will be updated.
	Save(ctx context.Context, feedback *Feedback) error

	// Get retrieves feedback for an evaluation and rule.
	Get(ctx context.Context, recordHash, ruleID string) (*Feedback, error)

	// List returns all feedback entries with pagination.
	List(ctx context.Context, limit, offset int) ([]*Feedback, error)

	// Count returns the total number of feedback entries.
	Count(ctx context.Context) (int64, error)

	// Delete removes a feedback entry by ID.
	Delete(ctx context.Context, id int64) error

	// ExportJSON exports all feedback to a JSON writer.
	ExportJSON(ctx context.Context, writer io.Writer) error

	// ImportJSON imports feedback from a JSON reader.
	// Returns the number of imported and skipped entries.
	ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error)

	// Close closes the store and releases resources.
	Close() error
}

// FeedbackExport is the JSON envelope for export/import.
type FeedbackExport struct {
	Version    string      `json:"version"`
	ExportedAt time.Time   `json:"exported_at"`
	Count      int         `json:"count"`
	Feedback   []*Feedback `json:"feedback"`
}
