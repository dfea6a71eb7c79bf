package motion

import (
	"fmt"
	"math"

	"github.com/rawblock/luthier-cam/pkg/models"
)

// MachineProfile is the operator-authored document referenced by id from a
// PlanRequest (spec §4.C), loaded from YAML by internal/config.
type MachineProfile struct {
	MaxFeedXYMMMin float64 `yaml:"max_feed_xy"`
	RapidMMMin     float64 `yaml:"rapid"`
	AccelMMS2      float64 `yaml:"accel_mm_s2"`
	JerkMMS3       float64 `yaml:"jerk_mm_s3"`
	CornerTolMM    float64 `yaml:"corner_tol_mm"`
}

// JerkResult is the output of EstimateJerkAware (spec §4.C, §6's
// stats.caps).
type JerkResult struct {
	TotalSeconds     float64
	BottleneckCounts map[models.Bottleneck]int
}

// EstimateJerkAware simulates a 1D forward-backward velocity pass along the
// path with per-move velocity caps from feed, corner speed at each joint,
// and acceleration, then adds a jerk ramp-up cost on top (spec §4.C). It
// tags tp.Moves[i].Meta.Bottleneck in place with the binding constraint.
func EstimateJerkAware(tp models.Toolpath, profile MachineProfile) (JerkResult, error) {
	n := len(tp.Moves)
	result := JerkResult{BottleneckCounts: map[models.Bottleneck]int{}}
	if n == 0 {
		return result, nil
	}
	if profile.AccelMMS2 <= 0 || profile.JerkMMS3 <= 0 {
		return result, fmt.Errorf("motion: machine profile accel/jerk must be positive")
	}

	lengths := make([]float64, n)
	feedCaps := make([]float64, n)
	cursor := models.Point3{}
	for i, m := range tp.Moves {
		feed := m.Feed
		if m.Kind == models.MoveRapid && profile.RapidMMMin > 0 {
			feed = profile.RapidMMMin
		}
		if feed <= 0 {
			return result, fmt.Errorf("move %d: %w", i, ErrZeroOrNegativeFeed)
		}
		cap := feed / 60.0
		if profile.MaxFeedXYMMMin > 0 && m.Kind != models.MoveRapid {
			if mx := profile.MaxFeedXYMMMin / 60.0; cap > mx {
				cap = mx
			}
		}
		feedCaps[i] = cap
		lengths[i] = cursor.Dist3(m.To)
		cursor = m.To
	}

	cornerSpeed := make([]float64, n) // cornerSpeed[i] limits the joint between move i and i+1
	cursor = models.Point3{}
	prevDir, havePrevDir := models.Point3{}, false
	for i, m := range tp.Moves {
		dir := models.Point3{X: m.To.X - cursor.X, Y: m.To.Y - cursor.Y, Z: m.To.Z - cursor.Z}
		if havePrevDir && i > 0 {
			cornerSpeed[i-1] = cornerSpeedLimit(prevDir, dir, profile.AccelMMS2, profile.CornerTolMM)
		}
		if norm := math.Sqrt(dir.X*dir.X + dir.Y*dir.Y + dir.Z*dir.Z); norm > minMoveLenMM {
			prevDir, havePrevDir = dir, true
		}
		cursor = m.To
	}
	cornerSpeed[n-1] = math.Inf(1)

	vEntry := make([]float64, n)
	vExit := make([]float64, n)

	// Forward pass: accelerate from rest, capped by feed and the corner
	// speed available at the end of each move.
	v := 0.0
	for i := 0; i < n; i++ {
		vEntry[i] = v
		capped := math.Min(feedCaps[i], cornerSpeed[i])
		vExit[i] = math.Min(capped, math.Sqrt(v*v+2*profile.AccelMMS2*lengths[i]))
		v = vExit[i]
	}
	// Backward pass: ensure the machine can still decelerate to rest (or to
	// the next move's achievable entry speed) by the end of the path.
	v = 0.0
	for i := n - 1; i >= 0; i-- {
		if vExit[i] > v {
			vExit[i] = v
		}
		entryCap := math.Sqrt(vExit[i]*vExit[i] + 2*profile.AccelMMS2*lengths[i])
		if vEntry[i] > entryCap {
			vEntry[i] = entryCap
		}
		v = vEntry[i]
	}

	total := 0.0
	for i := 0; i < n; i++ {
		dt, bottleneck := moveTime(lengths[i], vEntry[i], vExit[i], feedCaps[i], cornerSpeed[i], profile.AccelMMS2, profile.JerkMMS3)
		total += dt
		result.BottleneckCounts[bottleneck]++
		tp.Moves[i].Meta.Bottleneck = bottleneck
	}
	result.TotalSeconds = total
	return result, nil
}

const minMoveLenMM = 1e-6

// cornerSpeedLimit is the centripetal corner-speed formula of spec §4.C:
// v_corner = sqrt(accel * corner_tol / (1 - cos(theta))), clamped when the
// turn angle is negligible (no limiting) or a near-reversal (theta ~ pi).
func cornerSpeedLimit(a, b models.Point3, accel, cornerTol float64) float64 {
	la := math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)
	lb := math.Sqrt(b.X*b.X + b.Y*b.Y + b.Z*b.Z)
	if la < minMoveLenMM || lb < minMoveLenMM {
		return math.Inf(1)
	}
	cosTheta := (a.X*b.X + a.Y*b.Y + a.Z*b.Z) / (la * lb)
	cosTheta = math.Max(-1, math.Min(1, cosTheta))
	denom := 1 - cosTheta
	if denom < 1e-9 {
		return math.Inf(1) // straight through, no corner limiting
	}
	return math.Sqrt(accel * cornerTol / denom)
}

// moveTime returns the time to traverse a move of the given length going
// from vEntry to vExit, and which bottleneck bound its cruise speed. It adds
// one jerk ramp-up time (accel/jerk) per acceleration event on top of the
// constant-acceleration trapezoid, approximating the S-curve profile of
// spec §4.C without a full quintic solve.
func moveTime(length, vEntry, vExit, feedCap, cornerCap, accel, jerk float64) (float64, models.Bottleneck) {
	if length < minMoveLenMM {
		return 0, models.BottleneckNone
	}
	vPeak := math.Sqrt((vEntry*vEntry+vExit*vExit)/2 + accel*length)
	cruise := math.Min(vPeak, feedCap)
	bottleneck := models.BottleneckAccel
	if cruise >= feedCap-1e-9 {
		bottleneck = models.BottleneckFeedCap
	} else if cornerCap < feedCap && cruise >= cornerCap-1e-9 {
		bottleneck = models.BottleneckAccel
	}

	tAccel := 0.0
	if cruise > vEntry {
		tAccel = (cruise - vEntry) / accel
	}
	tDecel := 0.0
	if cruise > vExit {
		tDecel = (cruise - vExit) / accel
	}
	dAccel := (cruise*cruise - vEntry*vEntry) / (2 * accel)
	dDecel := (cruise*cruise - vExit*vExit) / (2 * accel)
	dCruise := length - dAccel - dDecel
	tCruise := 0.0
	if dCruise > 0 && cruise > minMoveLenMM {
		tCruise = dCruise / cruise
	}

	jerkRamp := 0.0
	rampEvents := 0
	if tAccel > 0 {
		rampEvents++
	}
	if tDecel > 0 {
		rampEvents++
	}
	if rampEvents > 0 {
		jerkRamp = float64(rampEvents) * (accel / jerk)
		bottleneck = models.BottleneckJerk
	}

	total := tAccel + tCruise + tDecel + jerkRamp
	if total < 0 {
		// length too short for the requested vEntry/vExit to be reachable
		// at this acceleration; fall back to a pure constant-velocity pass.
		total = length / math.Max(cruise, minMoveLenMM)
		bottleneck = models.BottleneckAccel
	}
	return total, bottleneck
}
