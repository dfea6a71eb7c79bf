package geometry

import (
	"math"

	"github.com/rawblock/luthier-cam/pkg/models"
)

const minEdgeLenMM = 1e-3 // 1 micron

// Curvature returns the discrete curvature at index i of poly using the
// triangle-area formula k = 4*area(Pi-1, Pi, Pi+1) / (|AB|*|BC|*|AC|)
// (spec §4.A). Returns 0 at endpoints or when any edge of the triangle is
// shorter than 1 micron.
func Curvature(poly []models.Point, i int) float64 {
	if i <= 0 || i >= len(poly)-1 {
		return 0
	}
	a, b, c := poly[i-1], poly[i], poly[i+1]
	ab := a.Dist(b)
	bc := b.Dist(c)
	ac := a.Dist(c)
	if ab < minEdgeLenMM || bc < minEdgeLenMM || ac < minEdgeLenMM {
		return 0
	}
	area := math.Abs((b.X-a.X)*(c.Y-a.Y)-(b.Y-a.Y)*(c.X-a.X)) / 2.0
	return 4.0 * area / (ab * bc * ac)
}

// localCurvature is the max of Curvature at i-1, i, i+1, the same
// neighborhood sampling the reference resampler uses to decide local chord
// spacing without being thrown off by a single noisy vertex.
func localCurvature(poly []models.Point, i int) float64 {
	n := len(poly)
	im1 := i - 1
	if im1 < 1 {
		im1 = 1
	}
	ip1 := i + 1
	if ip1 > n-2 {
		ip1 = n - 2
	}
	k := Curvature(poly, im1)
	if i < n-1 {
		if v := Curvature(poly, i); v > k {
			k = v
		}
	}
	if v := Curvature(poly, ip1); v > k {
		k = v
	}
	return k
}

// Resample produces a polyline whose chord length shrinks toward dsMin
// where curvature exceeds kThreshold and relaxes toward dsMax in straight
// segments, always including the original endpoints (spec §4.A).
func Resample(poly []models.Point, dsMin, dsMax, kThreshold float64) []models.Point {
	if len(poly) < 3 || dsMin <= 0 || dsMax <= 0 {
		out := make([]models.Point, len(poly))
		copy(out, poly)
		return out
	}
	if kThreshold < 1e-6 {
		kThreshold = 1e-6
	}
	out := []models.Point{poly[0]}
	i := 1
	for i < len(poly) {
		k := localCurvature(poly, i)
		alpha := clamp01(k / kThreshold)
		ds := dsMax - (dsMax-dsMin)*alpha

		last := out[len(out)-1]
		walked := 0.0
		j := i
		for j < len(poly) {
			d := last.Dist(poly[j])
			if walked+d >= ds {
				break
			}
			walked += d
			last = poly[j]
			j++
		}
		if j >= len(poly) {
			break
		}

		x1, y1 := last.X, last.Y
		x2, y2 := poly[j].X, poly[j].Y
		seg := math.Hypot(x2-x1, y2-y1)
		t := 0.0
		if seg >= minEdgeLenMM {
			t = (ds - walked) / seg
		}
		out = append(out, models.Point{X: x1 + (x2-x1)*t, Y: y1 + (y2-y1)*t})
		if j > i {
			i = j
		} else {
			i++
		}
	}
	if last := out[len(out)-1]; last != poly[len(poly)-1] {
		out = append(out, poly[len(poly)-1])
	}
	return out
}

// SlowdownFactors returns, per vertex of poly, a scalar in [minScale, 1.0]
// derived from local curvature (spec §4.A): alpha = clamp(k/kThreshold, 0,
// 1); scale = 1 - (1-minScale)*alpha. Endpoints always get 1.0.
func SlowdownFactors(poly []models.Point, kThreshold, minScale float64) []float64 {
	if kThreshold < 1e-6 {
		kThreshold = 1e-6
	}
	factors := make([]float64, len(poly))
	for i := range poly {
		if i == 0 || i == len(poly)-1 {
			factors[i] = 1.0
			continue
		}
		alpha := clamp01(localCurvature(poly, i) / kThreshold)
		factors[i] = 1.0 - (1.0-minScale)*alpha
	}
	return factors
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// DefaultCurvatureThreshold returns spec §4.A's default k_threshold =
// 1/(3*toolDiameterMM), with the denominator floored at 1.0.
func DefaultCurvatureThreshold(toolDiameterMM float64) float64 {
	denom := 3.0 * toolDiameterMM
	if denom < 1.0 {
		denom = 1.0
	}
	return 1.0 / denom
}
