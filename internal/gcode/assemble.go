package gcode

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rawblock/luthier-cam/pkg/models"
)

// Assemble produces the UTF-8 G-code text for tp under profile (spec §6):
// units preamble, a metadata comment, the profile header, one line per
// move (omitting axis words that didn't change), slowdown zones wrapped per
// AdaptiveFeedConfig.Mode, then the profile footer.
func Assemble(tp models.Toolpath, profile PostProcessorProfile, units models.Units, now time.Time) (string, error) {
	var b strings.Builder

	unitsPreamble := "G21"
	if units == models.UnitsInch {
		unitsPreamble = "G20"
	}
	if !headerDeclaresUnits(profile.Header) {
		b.WriteString(unitsPreamble + "\n")
	}
	fmt.Fprintf(&b, "(POST=%s;UNITS=%s;DATE=%s)\n", profile.ID, units.String(), now.UTC().Format(time.RFC3339))

	for _, line := range profile.Header {
		b.WriteString(line + "\n")
	}

	w := &moveWriter{out: &b, cfg: profile.AdaptiveFeed}
	for _, m := range tp.Moves {
		if err := w.writeMove(m); err != nil {
			return "", err
		}
	}
	w.closeZone()

	for _, line := range profile.Footer {
		b.WriteString(line + "\n")
	}

	return b.String(), nil
}

func headerDeclaresUnits(header []string) bool {
	for _, line := range header {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "G20") || strings.HasPrefix(trimmed, "G21") {
			return true
		}
	}
	return false
}

type moveWriter struct {
	out *strings.Builder
	cfg AdaptiveFeedConfig

	haveX, haveY, haveZ, haveF bool
	lastX, lastY, lastZ, lastF float64

	inSlowZone bool
}

func (w *moveWriter) writeMove(m models.Move) error {
	slow := m.Meta.Slowdown > 0 && m.Meta.Slowdown < w.cfg.SlowdownThreshold
	if slow && !w.inSlowZone {
		w.openZone(m.Meta.Slowdown)
	} else if !slow && w.inSlowZone {
		w.closeZone()
	}

	word, err := moveWord(m.Kind)
	if err != nil {
		return err
	}

	feed := m.Feed
	if slow && w.cfg.Mode == AdaptiveFeedInlineF && w.cfg.InlineMinF > 0 && feed < w.cfg.InlineMinF {
		feed = w.cfg.InlineMinF
	}

	var line strings.Builder
	line.WriteString(word)
	w.writeAxis(&line, "X", m.To.X, &w.haveX, &w.lastX)
	w.writeAxis(&line, "Y", m.To.Y, &w.haveY, &w.lastY)
	w.writeAxis(&line, "Z", m.To.Z, &w.haveZ, &w.lastZ)
	if m.IsArc() {
		fmt.Fprintf(&line, " I%.4f J%.4f", m.CenterOffset.X, m.CenterOffset.Y)
	}
	if !w.haveF || math.Abs(feed-w.lastF) > 1e-9 {
		fmt.Fprintf(&line, " F%.1f", feed)
		w.haveF, w.lastF = true, feed
	}
	w.out.WriteString(line.String() + "\n")
	return nil
}

func (w *moveWriter) writeAxis(line *strings.Builder, name string, v float64, have *bool, last *float64) {
	if *have && math.Abs(v-*last) < 1e-9 {
		return
	}
	fmt.Fprintf(line, " %s%.4f", name, v)
	*have, *last = true, v
}

func (w *moveWriter) openZone(scale float64) {
	w.inSlowZone = true
	switch w.cfg.Mode {
	case AdaptiveFeedComment:
		fmt.Fprintf(w.out, "(FEED_HINT START scale=%.3f)\n", scale)
	case AdaptiveFeedMcode:
		if w.cfg.McodeStart != "" {
			w.out.WriteString(w.cfg.McodeStart + "\n")
		}
	case AdaptiveFeedInlineF, AdaptiveFeedInherit:
		// No bracketing text; the feed word itself (or the post-processor)
		// carries the slowdown.
	}
}

func (w *moveWriter) closeZone() {
	if !w.inSlowZone {
		return
	}
	w.inSlowZone = false
	switch w.cfg.Mode {
	case AdaptiveFeedComment:
		w.out.WriteString("(FEED_HINT END)\n")
	case AdaptiveFeedMcode:
		if w.cfg.McodeEnd != "" {
			w.out.WriteString(w.cfg.McodeEnd + "\n")
		}
	case AdaptiveFeedInlineF, AdaptiveFeedInherit:
	}
}

func moveWord(kind models.MoveKind) (string, error) {
	switch kind {
	case models.MoveRapid:
		return "G0", nil
	case models.MoveLinear:
		return "G1", nil
	case models.MoveArcCW:
		return "G2", nil
	case models.MoveArcCCW:
		return "G3", nil
	default:
		return "", fmt.Errorf("gcode: unknown move kind %v", kind)
	}
}
