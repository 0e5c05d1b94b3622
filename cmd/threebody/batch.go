package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/san-kum/threebody/internal/automation"
	"github.com/san-kum/threebody/internal/experiment"
	"github.com/san-kum/threebody/internal/export"
	"github.com/san-kum/threebody/internal/storage"
)

func runBatch(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return fmt.Errorf("failed to load script: %w", err)
	}

	fmt.Printf("running %s: %d scenarios\n\n", script.Name, len(script.Scenarios))
	outcomes, err := automation.RunScript(cmd.Context(), script, 0, slog.Default())
	if err != nil {
		return err
	}

	var st *storage.Store
	if !noSave {
		if st, err = openStore(); err != nil {
			return err
		}
		defer st.Close()
	}

	failed := 0
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSCENARIO\tINTEG\tSTEPS\tTIME\tRUN\tSTATUS")
	for i, o := range outcomes {
		steps, status := "-", "ok"
		if o.Result != nil {
			steps = humanize.Comma(int64(o.Result.StepsTaken))
		}
		if o.Err != nil {
			status = o.Err.Error()
			failed++
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%v\t%s\t%s\n", i+1, o.Scenario.Title(), o.Scenario.Integrator, steps, o.Elapsed.Round(time.Millisecond), saveOutcome(st, o), status)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(outcomes))
	}
	return nil
}

// saveOutcome stores a batch run and returns its short ID, or "-".
func saveOutcome(st *storage.Store, o experiment.Outcome) string {
	if st == nil || o.Result == nil {
		return "-"
	}
	plan, err := o.Scenario.Plan()
	if err != nil {
		return "-"
	}
	id, err := st.Save(o.Scenario, plan, o.Result, o.Err)
	if err != nil {
		slog.Warn("failed to save run", "scenario", o.Scenario.Title(), "err", err)
		return "-"
	}
	return id[:8]
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	if trials < 1 {
		return errors.New("--trials must be at least 1")
	}

	cfg := automation.MonteCarloConfig{Trials: trials, Position: jitterX, Velocity: jitterV, Seed: seed}
	fmt.Printf("monte carlo on %s: %s trials\n", sc.Title(), humanize.Comma(int64(trials)))
	start := time.Now()
	results, err := automation.RunMonteCarlo(cmd.Context(), sc, cfg, slog.Default())
	if err != nil {
		return err
	}

	bound, escaped, failed := automation.MonteCarloStats(results)
	closest := -1.0
	for _, r := range results {
		if r.Err == nil && (closest < 0 || r.Closest < closest) {
			closest = r.Closest
		}
	}

	fmt.Printf("completed in %v\n\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("bound:   %d (%.1f%%)\n", bound, 100*float64(bound)/float64(len(results)))
	fmt.Printf("escaped: %d\n", escaped)
	fmt.Printf("failed:  %d\n", failed)
	if closest >= 0 {
		fmt.Printf("closest approach of %s: %s AU\n", sc.Names[2], export.FormatE(closest))
	}
	return nil
}
