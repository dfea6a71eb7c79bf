package runstore

import (
	"fmt"

	"github.com/rawblock/luthier-cam/pkg/errs"
)

func errImmutable(runID string) error {
	return fmt.Errorf("runstore: artifact %s already exists: %w", runID, errs.ErrImmutable)
}

func errNotFound(runID string) error {
	return fmt.Errorf("runstore: run %s not found: %w", runID, errs.ErrNotFound)
}

func errRateLimited(actor string) error {
	return fmt.Errorf("runstore: delete rate limit exceeded for %s: %w", actor, errs.ErrRateLimited)
}

func errPolicyDenied(reason string) error {
	return fmt.Errorf("runstore: %s: %w", reason, errs.ErrPolicyDenied)
}

func errBadParameter(msg string) error {
	return fmt.Errorf("runstore: %s: %w", msg, errs.ErrBadParameter)
}

func errIo(msg string, cause error) error {
	return fmt.Errorf("runstore: %s: %w: %w", msg, errs.ErrIoFailure, cause)
}
