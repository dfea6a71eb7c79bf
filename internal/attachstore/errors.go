package attachstore

import "errors"

// ErrIntegrityMismatch is returned when a read blob's bytes don't hash to
// the sha256 the caller requested (spec §7).
var ErrIntegrityMismatch = errors.New("attachstore: content does not match declared sha256")

// ErrNotFound is returned when no blob exists for the requested sha256.
var ErrNotFound = errors.New("attachstore: attachment not found")
