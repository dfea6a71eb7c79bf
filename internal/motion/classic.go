package motion

import (
	"fmt"

	"github.com/rawblock/luthier-cam/pkg/models"
)

const controllerOverhead = 1.10

// EstimateClassic sums distance/(feed/60) across every move — rapids at
// their own feed, cutting moves at theirs — and applies a flat 1.10
// controller-overhead multiplier (spec §4.C). Accuracy is +-15-30%; it's
// meant for UI progress hints, not scheduling.
func EstimateClassic(tp models.Toolpath) (float64, error) {
	total := 0.0
	cursor := models.Point3{}
	for i, m := range tp.Moves {
		if m.Feed <= 0 {
			return 0, fmt.Errorf("move %d: %w", i, ErrZeroOrNegativeFeed)
		}
		dist := cursor.Dist3(m.To)
		total += dist / (m.Feed / 60.0)
		cursor = m.To
	}
	return total * controllerOverhead, nil
}
