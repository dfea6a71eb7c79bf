package gcode

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// AdaptiveFeedMode selects how a curvature-driven slowdown zone is encoded
// in the emitted G-code (spec §6).
type AdaptiveFeedMode int

const (
	AdaptiveFeedComment AdaptiveFeedMode = iota
	AdaptiveFeedInlineF
	AdaptiveFeedMcode
	AdaptiveFeedInherit
)

func (m AdaptiveFeedMode) String() string {
	switch m {
	case AdaptiveFeedComment:
		return "comment"
	case AdaptiveFeedInlineF:
		return "inline_f"
	case AdaptiveFeedMcode:
		return "mcode"
	case AdaptiveFeedInherit:
		return "inherit"
	default:
		panic("unreachable")
	}
}

// UnmarshalYAML decodes the profile's lowercase wire string ("comment",
// "inline_f", "mcode", "inherit") into the enum.
func (m *AdaptiveFeedMode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseAdaptiveFeedMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalYAML encodes the enum back to its lowercase wire string.
func (m AdaptiveFeedMode) MarshalYAML() (any, error) {
	return m.String(), nil
}

func ParseAdaptiveFeedMode(s string) (AdaptiveFeedMode, error) {
	switch s {
	case "comment", "":
		return AdaptiveFeedComment, nil
	case "inline_f":
		return AdaptiveFeedInlineF, nil
	case "mcode":
		return AdaptiveFeedMcode, nil
	case "inherit":
		return AdaptiveFeedInherit, nil
	default:
		return 0, fmt.Errorf("gcode: unknown adaptive_feed mode %q", s)
	}
}

// AdaptiveFeedConfig tunes how slowdown zones are wrapped (spec §6).
type AdaptiveFeedConfig struct {
	Mode              AdaptiveFeedMode `yaml:"mode"`
	SlowdownThreshold float64          `yaml:"slowdown_threshold"`
	InlineMinF        float64          `yaml:"inline_min_f"`
	McodeStart        string           `yaml:"mcode_start"`
	McodeEnd          string           `yaml:"mcode_end"`
}

// PostProcessorProfile is the operator-authored document referenced by id
// from a plan/export request (spec §6), loaded from YAML by internal/config.
type PostProcessorProfile struct {
	ID           string             `yaml:"id"`
	Header       []string           `yaml:"header"`
	Footer       []string           `yaml:"footer"`
	AdaptiveFeed AdaptiveFeedConfig `yaml:"adaptive_feed"`
}
