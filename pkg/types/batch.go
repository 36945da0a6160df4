// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// BatchItemStatus tracks a file's progress through scan → extract →
// collide → execute.
type BatchItemStatus string

const (
	StatusPending   BatchItemStatus = "pending"
	StatusOK        BatchItemStatus = "ok"
	StatusCollision BatchItemStatus = "collision"
	StatusError     BatchItemStatus = "error"
	StatusSkipped   BatchItemStatus = "skipped"
	StatusCompleted BatchItemStatus = "completed"
)

// RenameOperation is a planned single-file action: move or copy Source to
// Destination. It is consumed once by the rename executor.
type RenameOperation struct {
	// Source is the existing file path.
	Source string `json:"source" yaml:"source"`

	// Destination is the computed target path.
	Destination string `json:"destination" yaml:"destination"`

	// Metadata is the extracted metadata the destination was derived from.
	Metadata PaperMetadata `json:"metadata" yaml:"metadata"`
}

// BatchItem is one file's state record through a batch run. Destination is
// set if and only if the status is ok, collision, or completed (or skipped
// after collision resolution); an item without metadata can only be pending,
// skipped, or errored.
type BatchItem struct {
	// Source is the original file path.
	Source string `json:"source" yaml:"source"`

	// Destination is the planned target path, empty until computed.
	Destination string `json:"destination,omitempty" yaml:"destination,omitempty"`

	// Metadata is the extracted metadata, nil until extracted.
	Metadata *PaperMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Status is the item's current pipeline state.
	Status BatchItemStatus `json:"status" yaml:"status"`

	// Error holds the failure or skip reason, if any.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// BatchResult is the aggregate outcome of one batch execution. Write-once
// after execution completes; Items retains every BatchItem for reporting.
type BatchResult struct {
	Total      int         `json:"total" yaml:"total"`
	Successful int         `json:"successful" yaml:"successful"`
	Skipped    int         `json:"skipped" yaml:"skipped"`
	Errors     int         `json:"errors" yaml:"errors"`
	Items      []BatchItem `json:"items" yaml:"items"`
}

// HasFailures reports whether any items errored.
func (r BatchResult) HasFailures() bool {
	return r.Errors > 0
}
