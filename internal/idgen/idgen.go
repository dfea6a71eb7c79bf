// Package idgen generates the run_id identifiers used throughout the
// run-artifact store.
package idgen

import "github.com/google/uuid"

// NewRunID returns a fresh "run_<uuid4>" identifier (spec §3's run_id).
func NewRunID() string {
	return "run_" + uuid.NewString()
}

// NewAdvisoryID returns a fresh "adv_<uuid4>" identifier for attach_advisory
// callers that don't already have an externally minted advisory_id.
func NewAdvisoryID() string {
	return "adv_" + uuid.NewString()
}
