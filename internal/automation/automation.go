package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/experiment"
)

// Script is a named list of scenarios run as one batch.
type Script struct {
	Name        string
	Description string
	Scenarios   []*config.Scenario
}

type scriptFile struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Scenarios   []yaml.Node `yaml:"scenarios"`
}

// LoadScript reads a YAML script. Every entry starts from the default
// scenario, or from a registered one when it names a preset, and the
// entry's fields override it:
//
//	scenarios:
//	  - preset: betelgeuse
//	    integrator: verlet
//	  - names: [A, B, C]
//	    masses: [1e5, 1e5, 1]
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

func ParseScript(data []byte) (*Script, error) {
	var raw scriptFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw.Scenarios) == 0 {
		return nil, fmt.Errorf("script %q has no scenarios", raw.Name)
	}

	s := &Script{Name: raw.Name, Description: raw.Description}
	for i, node := range raw.Scenarios {
		sc, err := decodeEntry(&node)
		if err != nil {
			return nil, fmt.Errorf("scenario %d: %w", i+1, err)
		}
		s.Scenarios = append(s.Scenarios, sc)
	}
	return s, nil
}

func decodeEntry(node *yaml.Node) (*config.Scenario, error) {
	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := node.Decode(&head); err != nil {
		return nil, err
	}

	sc := config.DefaultScenario()
	if head.Preset != "" {
		p, err := config.ParsePreset(head.Preset)
		if err != nil {
			return nil, err
		}
		if sc, err = config.Resolve(p, sc); err != nil {
			return nil, err
		}
	}
	if err := node.Decode(sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// RunScript runs every scenario of s, at most limit at a time.
func RunScript(ctx context.Context, s *Script, limit int, logger *slog.Logger) ([]experiment.Outcome, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("running script", "name", s.Name, "scenarios", len(s.Scenarios))
	return experiment.RunBatch(ctx, s.Scenarios, limit, logger)
}
