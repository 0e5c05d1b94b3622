package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/threebody/internal/integrators"
	"github.com/san-kum/threebody/internal/orbit"
)

// Preset names one of the registered scenarios. Custom means the caller
// supplies every parameter.
type Preset int

const (
	Custom Preset = iota
	BetelgeuseVisit
	EarthLikeBinary
	Comet67P
)

var presetNames = map[Preset]string{
	Custom:          "custom",
	BetelgeuseVisit: "betelgeuse",
	EarthLikeBinary: "binary",
	Comet67P:        "comet",
}

var presetDescriptions = map[Preset]string{
	Custom:          "Enter your own initial parameters",
	BetelgeuseVisit: "Betelgeuse decides to visit the Jupiter-Sun system",
	EarthLikeBinary: "An Earth-like planet evolves in a binary system",
	Comet67P:        "Comet 67P enters the Earth-Moon system!",
}

func (p Preset) String() string {
	if name, ok := presetNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Preset(%d)", int(p))
}

func (p Preset) Description() string {
	return presetDescriptions[p]
}

// Presets returns the registered scenarios in menu order, Custom excluded.
func Presets() []Preset {
	return []Preset{BetelgeuseVisit, EarthLikeBinary, Comet67P}
}

// ParsePreset accepts a preset name or its menu number.
func ParsePreset(s string) (Preset, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		p := Preset(n)
		if _, ok := presetNames[p]; ok {
			return p, nil
		}
	}
	for p, name := range presetNames {
		if name == s {
			return p, nil
		}
	}
	return Custom, fmt.Errorf("unknown preset: %q", s)
}

// Resolve returns the scenario for p. For Custom the given scenario is
// validated and copied; the registered presets ignore it.
func Resolve(p Preset, custom *Scenario) (*Scenario, error) {
	var s *Scenario
	switch p {
	case Custom:
		if custom == nil {
			return nil, fmt.Errorf("custom preset needs a scenario")
		}
		s = custom.Clone()
	case BetelgeuseVisit:
		s = &Scenario{
			Names:      []string{"Sun", "Jupiter", "Betelgeuse"},
			Masses:     []float64{3.33e5, 3.1e2, 2.5e6},
			Separation: 5.202,
			Third:      ThirdBody{X: -60, Y: 30, VX: 2, VY: 0},
			Duration:   80,
		}
	case EarthLikeBinary:
		s = &Scenario{
			Names:        []string{"Star1", "Star2", "Planet"},
			Masses:       []float64{4e5, 4e5, 1},
			Eccentricity: 0.5,
			Separation:   10.5,
			Third:        ThirdBody{X: 4, Y: 0, VX: 0, VY: -8.7},
			Duration:     80,
		}
	case Comet67P:
		s = &Scenario{
			Names:        []string{"Earth", "Moon", "Comet 67P"},
			Masses:       []float64{1, 0.0123, 1.67e-12},
			Eccentricity: 0.0549,
			Separation:   0.00257,
			Third:        ThirdBody{X: -0.08, Y: 0, VX: 0.02, VY: 0.005},
			Duration:     15,
		}
	default:
		return nil, fmt.Errorf("unknown preset: %d", int(p))
	}

	if p != Custom {
		s.Name = p.String()
		s.StepPolicy = string(orbit.Distance)
		s.Integrator = integrators.Default
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
