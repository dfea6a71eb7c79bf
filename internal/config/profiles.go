package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rawblock/luthier-cam/internal/gcode"
	"github.com/rawblock/luthier-cam/internal/motion"
)

// LoadMachineProfile reads a MachineProfile YAML document from path
// (operator-authored, referenced by id from a PlanRequest — not a wire
// payload, spec §4.C).
func LoadMachineProfile(path string) (motion.MachineProfile, error) {
	var p motion.MachineProfile
	if err := loadYAML(path, &p); err != nil {
		return motion.MachineProfile{}, err
	}
	return p, nil
}

// LoadPostProcessorProfile reads a PostProcessorProfile YAML document from
// path (spec §6).
func LoadPostProcessorProfile(path string) (gcode.PostProcessorProfile, error) {
	var p gcode.PostProcessorProfile
	if err := loadYAML(path, &p); err != nil {
		return gcode.PostProcessorProfile{}, err
	}
	return p, nil
}

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}
