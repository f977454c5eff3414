// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Outcome is the coarse classification recorded per paper per attempt.
type Outcome string

const (
	// OutcomeSuccess means every stage completed and non-trivial text was
	// extracted.
	OutcomeSuccess Outcome = "success"

	// OutcomePartial means decoding succeeded but the text was empty or
	// too short for segmentation, so the record is metadata-only.
	OutcomePartial Outcome = "partial"

	// OutcomeFailed means the document could not be decoded or its record
	// could not be written.
	OutcomeFailed Outcome = "failed"
)

// StatusEntry is the last-known extraction outcome for one paper. Entries
// live in the project status ledger and are overwritten on each attempt.
// JSON keys match the on-disk ledger format.
type StatusEntry struct {
	// Outcome classifies the attempt.
	Outcome Outcome `json:"status"`

	// Sections lists the section names found, canonical first.
	Sections []string `json:"sections"`

	// RecordFile is the base name of the persisted record JSON, empty on
	// failure.
	RecordFile string `json:"json_file"`

	// UpdatedAt is when the entry was written (UTC).
	UpdatedAt time.Time `json:"extracted_at"`

	// Error preserves the failure detail verbatim for diagnostics. Empty
	// unless Outcome is failed.
	Error string `json:"error,omitempty"`
}
