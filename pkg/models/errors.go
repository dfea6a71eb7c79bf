package models

import (
	"fmt"

	"github.com/rawblock/luthier-cam/pkg/errs"
)

func errBadGeometry(msg string) error {
	return fmt.Errorf("%s: %w", msg, errs.ErrBadGeometry)
}

func errBadParameter(msg string) error {
	return fmt.Errorf("%s: %w", msg, errs.ErrBadParameter)
}
