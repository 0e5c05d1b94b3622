package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/experiment"
	"github.com/san-kum/threebody/internal/export"
	"github.com/san-kum/threebody/internal/metrics"
	"github.com/san-kum/threebody/internal/storage"
)

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

// storedRun is a run read back from the store.
type storedRun struct {
	meta  *storage.RunMetadata
	traj  *dynamo.Trajectory
	times []float64
}

// loadRun resolves an ID prefix and reads the run.
func loadRun(st *storage.Store, prefix string) (*storedRun, error) {
	id, err := st.Resolve(prefix)
	if err != nil {
		return nil, fmt.Errorf("run %q: %w", prefix, err)
	}
	meta, err := st.Load(id)
	if err != nil {
		return nil, err
	}
	traj, times, err := st.LoadTrajectory(id)
	if err != nil {
		return nil, err
	}
	if meta.Scenario == nil {
		return nil, fmt.Errorf("run %s has no scenario", id)
	}
	return &storedRun{meta: meta, traj: traj, times: times}, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(sc)
	if err != nil {
		return err
	}
	exp.SetLogger(slog.Default())
	plan := exp.Plan()
	ms := metrics.Default(exp.InitialState())
	metrics.Attach(exp.AddObserver, ms)

	fmt.Printf("running %s: %s steps of %s yr\n", sc.Title(), humanize.Comma(int64(plan.Steps)), export.FormatE(plan.Dt))
	start := time.Now()
	result, runErr := exp.Run(cmd.Context())
	elapsed := time.Since(start)

	if result == nil {
		return runErr
	}
	if runErr != nil {
		fmt.Printf("stopped after %s steps: %v\n", humanize.Comma(int64(result.StepsTaken)), runErr)
	} else {
		fmt.Printf("completed in %v\n", elapsed.Round(time.Millisecond))
	}

	if !noSave {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		runID, err := st.Save(sc, plan, result, runErr)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	if result.Trajectory.Len() > 0 {
		fmt.Println("\nfinal positions:")
		for i, name := range sc.Names {
			p := result.Final.Position(i)
			fmt.Printf("  %-12s x=%s y=%s\n", name, export.FormatE(p.X), export.FormatE(p.Y))
		}
		fmt.Println("\nmetrics:")
		values := metrics.Collect(ms)
		for _, name := range metrics.Names() {
			fmt.Printf("  %-15s %s\n", name, export.FormatE(values[name]))
		}
		if err := writeImages(cmd, sc, result.Trajectory); err != nil {
			return err
		}
	}
	return runErr
}

// writeImages writes whichever of --png, --svg and --gif were given.
func writeImages(cmd *cobra.Command, sc *config.Scenario, traj *dynamo.Trajectory) error {
	if pngOut != "" {
		if err := export.SavePNG(pngOut, traj, sc, nil); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", pngOut)
	}
	if svgOut != "" {
		if err := os.WriteFile(svgOut, []byte(export.TrajectoryToSVG(traj, sc, 1200, 600)), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	if gifOut != "" {
		if err := export.SaveGIF(cmd.Context(), gifOut, traj, sc, nil, 4); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", gifOut)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tBODIES\tDURATION\tDESCRIPTION")
	for _, p := range config.Presets() {
		sc, err := config.Resolve(p, nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%g yr\t%s\n", int(p), p, strings.Join(sc.Names, ", "), sc.Duration, p.Description())
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], sc); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.List(limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tBODIES\tSTEPS\tDT\tINTEG\tCREATED\tSTATUS")
	for _, e := range entries {
		status := "ok"
		if e.Failed() {
			status = "failed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID[:8],
			e.Name,
			e.Bodies,
			humanize.Comma(int64(e.StepsTaken)),
			export.FormatE(e.Dt),
			e.Integrator,
			humanize.Time(e.Created()),
			status,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.Resolve(args[0])
	if err != nil {
		return fmt.Errorf("run %q: %w", args[0], err)
	}
	meta, err := st.Load(id)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func deleteRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.Resolve(args[0])
	if err != nil {
		return fmt.Errorf("run %q: %w", args[0], err)
	}
	if err := st.Delete(id); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", id)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := loadRun(st, args[0])
	if err != nil {
		return err
	}
	return withOutput(func(f *os.File) error {
		return storage.WriteCSV(f, run.times, run.traj)
	})
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := loadRun(st, args[0])
	if err != nil {
		return err
	}
	return withOutput(func(f *os.File) error {
		return storage.WriteJSON(f, run.meta, run.times, run.traj, run.meta.Final)
	})
}

// withOutput hands fn the --out file, or stdout when none was given.
func withOutput(fn func(f *os.File) error) error {
	if outFile == "" {
		return fn(os.Stdout)
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported to %s\n", outFile)
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("comparing %s on %s\n\n", strings.Join(args, ", "), sc.Title())
	outcomes, err := experiment.CompareIntegrators(cmd.Context(), sc, args, slog.Default())
	if err != nil {
		return err
	}

	ref := outcomes[0].Result
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "INTEGRATOR\tSTEPS\tTIME\tDEVIATION FROM %s\tSTATUS\n", strings.ToUpper(args[0]))
	for _, o := range outcomes {
		status, deviation := "ok", "-"
		if o.Err != nil {
			status = o.Err.Error()
		}
		if o.Result != nil && ref != nil && o.Err == nil && outcomes[0].Err == nil {
			deviation = export.FormatE(experiment.FinalDeviation(ref, o.Result)) + " AU"
		}
		steps := "-"
		if o.Result != nil {
			steps = humanize.Comma(int64(o.Result.StepsTaken))
		}
		fmt.Fprintf(w, "%s\t%s\t%v\t%s\t%s\n", o.Scenario.Integrator, steps, o.Elapsed.Round(time.Millisecond), deviation, status)
	}
	return w.Flush()
}

func benchScenario(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	if runs < 1 {
		return errors.New("--runs must be at least 1")
	}

	fmt.Printf("benchmarking %s with %s\n\n", sc.Title(), sc.Integrator)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTEPS\tTIME\tSTEPS/SEC")

	var total time.Duration
	for i := 0; i < runs; i++ {
		exp, err := experiment.New(sc)
		if err != nil {
			return err
		}
		steps := 0
		start := time.Now()
		err = exp.RunWithCallback(cmd.Context(), func(step int, t float64, x dynamo.State) bool {
			steps = step
			return true
		})
		elapsed := time.Since(start)
		if err != nil {
			return err
		}
		total += elapsed
		rate := float64(steps) / elapsed.Seconds()
		fmt.Fprintf(w, "%d\t%s\t%v\t%s\n", i+1, humanize.Comma(int64(steps)), elapsed.Round(time.Microsecond), humanize.Comma(int64(rate)))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nmean: %v\n", (total / time.Duration(runs)).Round(time.Microsecond))
	return nil
}
