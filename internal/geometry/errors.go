package geometry

import "errors"

// ErrOffsetDegenerate is returned by Offset when the requested inward
// distance exceeds the polygon's inscribed radius and no ring survives.
var ErrOffsetDegenerate = errors.New("geometry: offset distance exceeds inscribed radius")
