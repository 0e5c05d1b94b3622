package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/threebody/internal/dynamo"
)

func TestDefaultScenario(t *testing.T) {
	s := DefaultScenario()

	if err := s.Validate(); err != nil {
		t.Fatalf("default scenario invalid: %v", err)
	}
	if s.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if s.Integrator != "rk4" {
		t.Errorf("expected rk4, got %s", s.Integrator)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		preset   Preset
		names    [3]string
		masses   [3]float64
		duration float64
	}{
		{BetelgeuseVisit, [3]string{"Sun", "Jupiter", "Betelgeuse"}, [3]float64{3.33e5, 3.1e2, 2.5e6}, 80},
		{EarthLikeBinary, [3]string{"Star1", "Star2", "Planet"}, [3]float64{4e5, 4e5, 1}, 80},
		{Comet67P, [3]string{"Earth", "Moon", "Comet 67P"}, [3]float64{1, 0.0123, 1.67e-12}, 15},
	}

	for _, tt := range tests {
		t.Run(tt.preset.String(), func(t *testing.T) {
			s, err := Resolve(tt.preset, nil)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			for i := 0; i < 3; i++ {
				if s.Names[i] != tt.names[i] {
					t.Errorf("name %d = %q, want %q", i, s.Names[i], tt.names[i])
				}
				if s.Masses[i] != tt.masses[i] {
					t.Errorf("mass %d = %g, want %g", i, s.Masses[i], tt.masses[i])
				}
			}
			if s.Duration != tt.duration {
				t.Errorf("duration = %g", s.Duration)
			}
		})
	}
}

func TestResolve_Betelgeuse(t *testing.T) {
	s, err := Resolve(BetelgeuseVisit, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.Separation != 5.202 || s.Eccentricity != 0 {
		t.Errorf("binary = %g, %g", s.Separation, s.Eccentricity)
	}
	if s.Third != (ThirdBody{X: -60, Y: 30, VX: 2, VY: 0}) {
		t.Errorf("third body = %+v", s.Third)
	}

	cfg, err := s.Plan()
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	want := int(math.Floor(80 / (0.005 * math.Cbrt(5.202))))
	if cfg.Steps != want {
		t.Errorf("steps = %d, want %d", cfg.Steps, want)
	}

	x, err := s.InitialState()
	if err != nil {
		t.Fatalf("InitialState: %v", err)
	}
	if x[4] != -60 || x[5] != 30 || x[10] != 2 || x[11] != 0 {
		t.Errorf("third body slots = %v", x)
	}
}

func TestResolve_Custom(t *testing.T) {
	if _, err := Resolve(Custom, nil); err == nil {
		t.Error("expected error without a scenario")
	}

	custom := DefaultScenario()
	s, err := Resolve(Custom, custom)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	s.Masses[0] = 42
	if custom.Masses[0] == 42 {
		t.Error("Resolve should copy the custom scenario")
	}

	custom.Masses[1] = -1
	if _, err := Resolve(Custom, custom); !errors.Is(err, dynamo.ErrInvalidMass) {
		t.Errorf("expected ErrInvalidMass, got %v", err)
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		in   string
		want Preset
	}{
		{"betelgeuse", BetelgeuseVisit},
		{"Binary", EarthLikeBinary},
		{" comet ", Comet67P},
		{"custom", Custom},
		{"1", BetelgeuseVisit},
		{"3", Comet67P},
	}
	for _, tt := range tests {
		got, err := ParsePreset(tt.in)
		if err != nil {
			t.Errorf("ParsePreset(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePreset(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "mars", "7"} {
		if _, err := ParsePreset(bad); err == nil {
			t.Errorf("ParsePreset(%q) should fail", bad)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Scenario)
		target error
	}{
		{"two masses", func(s *Scenario) { s.Masses = []float64{1, 1} }, dynamo.ErrDimensionMismatch},
		{"zero mass", func(s *Scenario) { s.Masses[2] = 0 }, dynamo.ErrInvalidMass},
		{"NaN mass", func(s *Scenario) { s.Masses[0] = math.NaN() }, dynamo.ErrInvalidMass},
		{"eccentricity one", func(s *Scenario) { s.Eccentricity = 1 }, nil},
		{"negative eccentricity", func(s *Scenario) { s.Eccentricity = -0.1 }, nil},
		{"zero separation", func(s *Scenario) { s.Separation = 0 }, nil},
		{"zero duration", func(s *Scenario) { s.Duration = 0 }, nil},
		{"on body 1", func(s *Scenario) { s.Third = ThirdBody{VX: 1} }, dynamo.ErrSingularity},
		{"on body 2", func(s *Scenario) {
			s.Separation, s.Eccentricity = 2, 0.5
			s.Third = ThirdBody{X: 1}
		}, dynamo.ErrSingularity},
		{"unknown policy", func(s *Scenario) { s.StepPolicy = "adaptive" }, nil},
		{"unknown integrator", func(s *Scenario) { s.Integrator = "rk45" }, nil},
		{"missing names", func(s *Scenario) { s.Names = nil }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultScenario()
			tt.mutate(s)
			err := s.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")

	s, err := Resolve(EarthLikeBinary, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := Save(path, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Title() != "Star1, Star2 and Planet" {
		t.Errorf("Title() = %q", loaded.Title())
	}
	if loaded.Third.VY != -8.7 || loaded.Eccentricity != 0.5 {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("duration: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Duration != 3 {
		t.Errorf("duration = %g", s.Duration)
	}
	if s.Integrator != "rk4" || len(s.Masses) != 3 {
		t.Errorf("defaults lost: %+v", s)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("masses: [1, 2]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFilename(t *testing.T) {
	s, _ := Resolve(Comet67P, nil)
	if got := s.Filename(".png"); got != "Earth-Moon-Comet 67P.png" {
		t.Errorf("Filename() = %q", got)
	}
}
