package heuristics

import "github.com/rawblock/luthier-cam/pkg/models"

// ShouldBlock implements the policy gate of spec §4.D: RED, UNKNOWN, and
// ERROR block by default; allowUnknown (a config override) downgrades
// UNKNOWN to non-blocking.
func ShouldBlock(level models.RiskLevel, allowUnknown bool) bool {
	switch level {
	case models.RiskRed, models.RiskError:
		return true
	case models.RiskUnknown:
		return !allowUnknown
	default:
		return false
	}
}
