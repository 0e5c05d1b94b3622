package config

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/integrators"
	"github.com/san-kum/threebody/internal/orbit"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDuration     = 10.0
	DefaultSeparation   = 1.0
	DefaultEccentricity = 0.0
)

// Scenario is everything needed to set up and run one simulation. Distances
// are in AU, masses in Earth masses, time in years.
type Scenario struct {
	Name         string    `yaml:"name,omitempty" json:"name,omitempty"`
	Names        []string  `yaml:"names" json:"names"`
	Masses       []float64 `yaml:"masses" json:"masses"`
	Eccentricity float64   `yaml:"eccentricity" json:"eccentricity"`
	Separation   float64   `yaml:"separation" json:"separation"`
	Third        ThirdBody `yaml:"third_body" json:"third_body"`
	Duration     float64   `yaml:"duration" json:"duration"`
	StepPolicy   string    `yaml:"step_policy" json:"step_policy"`
	Integrator   string    `yaml:"integrator" json:"integrator"`
}

// ThirdBody is the free body's starting position and velocity.
type ThirdBody struct {
	X  float64 `yaml:"x" json:"x"`
	Y  float64 `yaml:"y" json:"y"`
	VX float64 `yaml:"vx" json:"vx"`
	VY float64 `yaml:"vy" json:"vy"`
}

// DefaultScenario is an Earth-Sun pair with a small planet crossing it.
func DefaultScenario() *Scenario {
	return &Scenario{
		Name:         "custom",
		Names:        []string{"Sun", "Earth", "Visitor"},
		Masses:       []float64{3.33e5, 1, 1},
		Eccentricity: DefaultEccentricity,
		Separation:   DefaultSeparation,
		Third:        ThirdBody{X: -3, Y: 2, VX: 1, VY: 0},
		Duration:     DefaultDuration,
		StepPolicy:   string(orbit.Distance),
		Integrator:   integrators.Default,
	}
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := DefaultScenario()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func Save(path string, s *Scenario) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (s *Scenario) Clone() *Scenario {
	c := *s
	c.Names = append([]string(nil), s.Names...)
	c.Masses = append([]float64(nil), s.Masses...)
	return &c
}

func (s *Scenario) Validate() error {
	if len(s.Names) != dynamo.NumBodies {
		return fmt.Errorf("need %d body names, got %d", dynamo.NumBodies, len(s.Names))
	}
	if len(s.Masses) != dynamo.NumBodies {
		return dynamo.DimensionError("mass vector", dynamo.NumBodies, len(s.Masses))
	}
	for i, m := range s.Masses {
		if !finite(m) || m <= 0 {
			return fmt.Errorf("%w: mass of %s must be positive, got %g", dynamo.ErrInvalidMass, s.Names[i], m)
		}
	}
	if err := s.Binary().Validate(); err != nil {
		return err
	}
	if !finite(s.Duration) || s.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", s.Duration)
	}
	for _, v := range []float64{s.Third.X, s.Third.Y, s.Third.VX, s.Third.VY} {
		if !finite(v) {
			return fmt.Errorf("%w: third body", dynamo.ErrInvalidState)
		}
	}
	if err := s.CheckThirdPosition(); err != nil {
		return err
	}
	if _, err := orbit.ParsePolicy(s.StepPolicy); err != nil {
		return err
	}
	if _, err := integrators.New(s.Integrator); err != nil {
		return err
	}
	return nil
}

// CheckThirdPosition reports whether the free body starts on top of one of
// the pair.
func (s *Scenario) CheckThirdPosition() error {
	p := r2.Vec{X: s.Third.X, Y: s.Third.Y}
	p1, p2 := s.Binary().Positions()
	switch p {
	case p1:
		return fmt.Errorf("%w: %s is already at (%g, %g)", dynamo.ErrSingularity, s.Names[0], p.X, p.Y)
	case p2:
		return fmt.Errorf("%w: %s is already at (%g, %g)", dynamo.ErrSingularity, s.Names[1], p.X, p.Y)
	}
	return nil
}

func (s *Scenario) Binary() orbit.Binary {
	var m1, m2 float64
	if len(s.Masses) >= 2 {
		m1, m2 = s.Masses[0], s.Masses[1]
	}
	return orbit.Binary{M1: m1, M2: m2, Eccentricity: s.Eccentricity, Separation: s.Separation}
}

func (s *Scenario) ThirdBody() orbit.Body {
	return orbit.Body{
		Position: r2.Vec{X: s.Third.X, Y: s.Third.Y},
		Velocity: r2.Vec{X: s.Third.VX, Y: s.Third.VY},
	}
}

// InitialState derives the 12-slot starting state.
func (s *Scenario) InitialState() (dynamo.State, error) {
	return orbit.InitialState(s.Binary(), s.ThirdBody())
}

// Plan applies the scenario's step policy.
func (s *Scenario) Plan() (dynamo.Config, error) {
	p, err := orbit.ParsePolicy(s.StepPolicy)
	if err != nil {
		return dynamo.Config{}, err
	}
	return p.Plan(s.Separation, s.Masses, s.Duration)
}

// Filename is the default name for the final trajectory plot.
func (s *Scenario) Filename(ext string) string {
	return strings.Join(s.Names, "-") + ext
}

// Title is a short label such as "Sun, Jupiter and Betelgeuse".
func (s *Scenario) Title() string {
	if len(s.Names) != dynamo.NumBodies {
		return s.Name
	}
	return fmt.Sprintf("%s, %s and %s", s.Names[0], s.Names[1], s.Names[2])
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
