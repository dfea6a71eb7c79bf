package motion

import "errors"

// ErrZeroOrNegativeFeed is returned by both estimators when any move's
// effective feed rate is <= 0 (spec §4.C).
var ErrZeroOrNegativeFeed = errors.New("motion: feed rate must be positive")
