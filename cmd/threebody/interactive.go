package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/threebody/internal/experiment"
	"github.com/san-kum/threebody/internal/export"
	"github.com/san-kum/threebody/internal/prompt"
	"github.com/san-kum/threebody/internal/viz"
)

func runInteractive(cmd *cobra.Command, args []string) error {
	session := prompt.NewSession(os.Stdin, os.Stdout)
	return session.Run(cmd.Context(), showRequest)
}

// showRequest simulates one request and shows it the way the user asked:
// the live replay, or the final trajectories in the terminal, saved as PNG
// on request.
func showRequest(ctx context.Context, req prompt.Request) error {
	sc := req.Scenario
	exp, err := experiment.New(sc)
	if err != nil {
		return err
	}
	exp.SetLogger(slog.Default())

	fmt.Println("Computing trajectories...")
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	switch req.Display {
	case prompt.DisplayAnimation:
		return viz.RunReplay(sc, result.Trajectory, result.Times)
	default:
		chart, err := viz.PlotCoordinates(result.Trajectory, sc.Names, 80, 10)
		if err != nil {
			return err
		}
		fmt.Println(export.Title(sc.Duration))
		fmt.Print(chart)
		for _, line := range export.Annotation(sc) {
			fmt.Println(line)
		}
		fmt.Println()
	}

	if !req.Save {
		return nil
	}
	path := sc.Filename(".png")
	if err := export.SavePNG(path, result.Trajectory, sc, nil); err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", path)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	runID, err := st.Save(sc, exp.Plan(), result, nil)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n\n", runID)
	return nil
}
