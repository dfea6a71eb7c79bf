package engine

import (
	"math"

	"github.com/rawblock/luthier-cam/internal/geometry"
	"github.com/rawblock/luthier-cam/internal/motion"
	"github.com/rawblock/luthier-cam/internal/planner"
	"github.com/rawblock/luthier-cam/pkg/models"
)

// buildStats assembles the plan endpoint's stats object (spec §6) from the
// planner's own diagnostics plus the two time estimators. jerk is nil when
// the request carried no machine profile.
func buildStats(req models.PlanRequest, tp models.Toolpath, ps planner.PlanStats, classicSeconds float64, jerk *motion.JerkResult) Stats {
	area := math.Abs(geometry.Area(req.Loops.Outer()))

	stats := Stats{
		LengthMM:      ps.TotalLengthMM,
		AreaMM2:       area,
		TimeSClassic:  classicSeconds,
		TimeS:         classicSeconds,
		VolumeMM3:     area * math.Abs(req.ZRoughMM),
		MoveCount:     len(tp.Moves),
		TightSegments: countTightSegments(tp),
		TrochoidArcs:  countTrochoidArcs(tp),
	}

	if jerk != nil {
		seconds := jerk.TotalSeconds
		stats.TimeSJerk = &seconds
		stats.TimeS = seconds
		stats.Caps = CapCounts{
			FeedCap: jerk.BottleneckCounts[models.BottleneckFeedCap],
			Accel:   jerk.BottleneckCounts[models.BottleneckAccel],
			Jerk:    jerk.BottleneckCounts[models.BottleneckJerk],
			None:    jerk.BottleneckCounts[models.BottleneckNone],
		}
	}

	return stats
}

func countTightSegments(tp models.Toolpath) int {
	n := 0
	for _, m := range tp.Moves {
		if m.Meta.Slowdown > 0 && m.Meta.Slowdown < tightSegmentSlowdown {
			n++
		}
	}
	return n
}

func countTrochoidArcs(tp models.Toolpath) int {
	n := 0
	for _, m := range tp.Moves {
		if m.Meta.Trochoid {
			n++
		}
	}
	return n
}
