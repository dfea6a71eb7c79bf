package models

import "time"

// AttachmentRef is a value reference to a content-addressed blob (spec §3).
// The sha256 field is the only authoritative key; filesystem paths are
// never disclosed to callers.
type AttachmentRef struct {
	SHA256      string    `json:"sha256"`
	Kind        string    `json:"kind"`
	Mime        string    `json:"mime"`
	Filename    string    `json:"filename"`
	SizeBytes   uint64    `json:"size_bytes"`
	CreatedAtUTC time.Time `json:"created_at_utc"`
}

// AdvisoryRef is an append-only link between a run and an externally
// produced advisory blob (spec §3). SHA256 is the only authoritative key.
type AdvisoryRef struct {
	AdvisoryID   string    `json:"advisory_id"`
	SHA256       string    `json:"sha256"`
	Kind         string    `json:"kind"`
	CreatedAtUTC time.Time `json:"created_at_utc"`
}

// AttachmentMetaEntry is one row of the attachment store's global metadata
// index (spec §4.E, keyed by sha256 in the index map).
type AttachmentMetaEntry struct {
	Kind           string    `json:"kind"`
	Mime           string    `json:"mime"`
	Filename       string    `json:"filename"`
	SizeBytes      uint64    `json:"size_bytes"`
	CreatedAtUTC   time.Time `json:"created_at_utc"`
	FirstSeenRunID string    `json:"first_seen_run_id"`
	LastSeenRunID  string    `json:"last_seen_run_id"`
	FirstSeenAtUTC time.Time `json:"first_seen_at_utc"`
	LastSeenAtUTC  time.Time `json:"last_seen_at_utc"`
	RefCount       int64     `json:"ref_count"`
}
