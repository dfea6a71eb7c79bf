package planner

import (
	"fmt"

	"github.com/rawblock/luthier-cam/pkg/errs"
)

func errPocketTooSmall(reason string) error {
	return fmt.Errorf("planner: %s: %w", reason, errs.ErrPocketTooSmall)
}

func errOffsetDegenerate(reason string) error {
	return fmt.Errorf("planner: %s: %w", reason, errs.ErrOffsetDegenerate)
}

func errStitchFailure(pairIndex int, reason string) error {
	return &errs.StitchFailure{PairIndex: pairIndex, Reason: reason}
}

func errBadParameter(reason string) error {
	return fmt.Errorf("planner: %s: %w", reason, errs.ErrBadParameter)
}
