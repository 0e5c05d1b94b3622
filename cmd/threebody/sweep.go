package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/san-kum/threebody/internal/export"
	"github.com/san-kum/threebody/internal/optim"
)

func sweepScenario(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	if len(axes) == 0 {
		return errors.New("at least one --axis is required")
	}

	parsed := make([]optim.Axis, len(axes))
	for i, a := range axes {
		if parsed[i], err = optim.ParseAxis(a); err != nil {
			return err
		}
	}
	g := optim.NewGridSearch(parsed...)
	g.Maximize = maximize
	g.Logger = slog.Default()

	fmt.Printf("sweeping %s over %s points of %s\n\n", metric, humanize.Comma(int64(len(g.Points()))), sc.Title())
	best, points, err := g.Search(cmd.Context(), sc, metric)
	if err != nil {
		return err
	}

	params := make([]string, len(parsed))
	for i, a := range parsed {
		params[i] = a.Param
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(params, "\t")), strings.ToUpper(metric))
	for _, p := range points {
		cells := make([]string, len(params))
		for i, name := range params {
			cells[i] = fmt.Sprintf("%g", p.Params[name])
		}
		value := export.FormatE(p.Value)
		if p.Err != nil {
			value = "failed: " + p.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\n", strings.Join(cells, "\t"), value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	names := make([]string, 0, len(best.Params))
	for name := range best.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Print("\nbest:")
	for _, name := range names {
		fmt.Printf(" %s=%g", name, best.Params[name])
	}
	fmt.Printf(" -> %s = %s\n", metric, export.FormatE(best.Value))
	return nil
}
