package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/linebalance/app"
	"github.com/kilianp07/linebalance/core/model"
	"github.com/kilianp07/linebalance/core/rollup"
	"github.com/kilianp07/linebalance/pkg/export"
)

var rollupOpts struct {
	project projectFlags
	result  string
	unit    string
	format  string
	out     string
}

var rollupCmd = &cobra.Command{
	Use:   "rollup",
	Short: "Aggregate a cost curve by week, month, quarter or year",
	RunE:  runRollup,
}

func init() {
	f := rollupCmd.Flags()
	rollupOpts.project.register(rollupCmd)
	f.StringVarP(&rollupOpts.result, "result", "r", "", "previously computed result (JSON)")
	f.StringVarP(&rollupOpts.unit, "unit", "u", string(rollup.Monthly), "time unit: "+unitNames())
	f.StringVarP(&rollupOpts.format, "format", "f", "csv", "output format: csv or json")
	f.StringVarP(&rollupOpts.out, "out", "o", "-", "output file (- for stdout)")
	rollupCmd.MarkFlagsMutuallyExclusive("result", "project", "default")
	rootCmd.AddCommand(rollupCmd)
}

func unitNames() string {
	var names []string
	for _, u := range rollup.Units() {
		names = append(names, string(u))
	}
	return strings.Join(names, ", ")
}

func runRollup(cmd *cobra.Command, _ []string) error {
	unit, err := rollup.ParseUnit(rollupOpts.unit)
	if err != nil {
		return err
	}
	var res *model.CalculationResult
	if rollupOpts.result != "" {
		if res, err = loadResult(rollupOpts.result); err != nil {
			return err
		}
	} else {
		p, err := rollupOpts.project.load()
		if err != nil {
			return err
		}
		svc, err := app.New(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = svc.Close() }()
		if res, err = svc.Calculator.Calculate(p); err != nil {
			return err
		}
	}
	a, err := rollup.Compute(res, unit)
	if err != nil {
		return err
	}
	return writeTo(cmd, rollupOpts.out, func(w io.Writer) error {
		switch rollupOpts.format {
		case "csv":
			return export.WriteRollupCSV(w, a)
		case "json":
			return export.WriteJSON(w, a)
		default:
			return fmt.Errorf("unsupported format %s", rollupOpts.format)
		}
	})
}
