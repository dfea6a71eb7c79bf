package geometry

import "github.com/rawblock/luthier-cam/pkg/models"

// Area returns the signed shoelace area of loop, positive for
// counter-clockwise winding (spec §4.A).
func Area(loop models.Loop) float64 {
	return loop.SignedArea()
}
