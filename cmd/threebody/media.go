package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/san-kum/threebody/internal/analysis"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/experiment"
	"github.com/san-kum/threebody/internal/export"
	"github.com/san-kum/threebody/internal/integrators"
	"github.com/san-kum/threebody/internal/viz"
)

func plotRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := loadRun(st, args[0])
	if err != nil {
		return err
	}
	sc := run.meta.Scenario

	fmt.Printf("run: %s\n", run.meta.ID)
	fmt.Printf("scenario: %s\n", sc.Title())
	fmt.Printf("samples: %s\n\n", humanize.Comma(int64(run.traj.Len())))

	chart, err := viz.PlotCoordinates(run.traj, sc.Names, plotW, plotH)
	if err != nil {
		return err
	}
	fmt.Print(chart)

	for _, pair := range [][2]int{{0, 1}, {0, 2}, {1, 2}} {
		caption := fmt.Sprintf("distance %s-%s [AU]", sc.Names[pair[0]], sc.Names[pair[1]])
		chart, err := viz.PlotSeparation(run.traj, pair[0], pair[1], caption, plotW, plotH)
		if err != nil {
			return err
		}
		fmt.Println(chart)
		fmt.Println()
	}
	return nil
}

func renderRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := loadRun(st, args[0])
	if err != nil {
		return err
	}
	sc := run.meta.Scenario

	path := outFile
	if path == "" {
		path = sc.Filename(".png")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = export.SavePNG(path, run.traj, sc, export.NewRenderer(imageW, imageH))
	case ".svg":
		err = os.WriteFile(path, []byte(export.TrajectoryToSVG(run.traj, sc, imageW, imageH)), 0644)
	default:
		return fmt.Errorf("unsupported image format %q (use .png or .svg)", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func animateRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := loadRun(st, args[0])
	if err != nil {
		return err
	}
	sc := run.meta.Scenario

	switch {
	case gifOut != "":
		if err := export.SaveGIF(cmd.Context(), gifOut, run.traj, sc, nil, 4); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", gifOut)
	case framesTo != "":
		n, err := export.SaveFrames(cmd.Context(), framesTo, run.traj, sc, nil)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %d frames to %s\n", n, framesTo)
	default:
		return viz.RunReplay(sc, run.traj, run.times)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := loadRun(st, args[0])
	if err != nil {
		return err
	}
	sc := run.meta.Scenario
	if len(run.meta.Final) != dynamo.StateDim {
		return fmt.Errorf("run %s has no final state to analyze", run.meta.ID)
	}

	exp, err := experiment.New(sc)
	if err != nil {
		return err
	}
	result := &dynamo.Result{
		Trajectory: run.traj,
		Final:      run.meta.Final,
		Times:      run.times,
		StepsTaken: run.meta.StepsTaken,
	}
	plan := dynamo.Config{Dt: run.meta.Dt, Steps: run.meta.Steps}
	report, err := analysis.Analyze(plan, result)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", run.meta.ID)
	fmt.Printf("scenario: %s\n", sc.Title())
	fmt.Printf("steps: %s\n\n", humanize.Comma(int64(report.Steps)))

	fmt.Println("closest approaches:")
	for _, e := range report.Encounters {
		fmt.Printf("  %s-%s: %s AU at t=%.3f yr\n", sc.Names[e.Pair[0]], sc.Names[e.Pair[1]], export.FormatE(e.Distance), e.Time)
	}

	if report.Period > 0 {
		fmt.Printf("\nperiod of %s-%s: %.4f yr (Kepler: %.4f yr)\n", sc.Names[0], sc.Names[1], report.Period, sc.Binary().Period())
	} else {
		fmt.Printf("\n%s-%s separation shows no dominant period\n", sc.Names[0], sc.Names[1])
	}

	if lyapunov {
		integ, err := integrators.New(sc.Integrator)
		if err != nil {
			return err
		}
		lambda, err := analysis.LyapunovExponent(cmd.Context(), exp.System(), integ, exp.InitialState(), exp.Plan(), 1e-8)
		if err != nil {
			return err
		}
		fmt.Printf("lyapunov exponent: %.4f /yr\n", lambda)
	}
	return nil
}
