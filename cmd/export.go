package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kilianp07/linebalance/app"
	"github.com/kilianp07/linebalance/core/model"
	"github.com/kilianp07/linebalance/pkg/export"
)

var exportOpts struct {
	scenario string
	result   string
	kind     string
	out      string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored scenario or a result file as CSV or JSON",
	RunE:  runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVarP(&exportOpts.scenario, "scenario", "s", "", "scenario ID in the configured store")
	f.StringVarP(&exportOpts.result, "result", "r", "", "result file (JSON)")
	f.StringVarP(&exportOpts.kind, "kind", "k", "matrix", "what to export: matrix, financial, json, balance-chart or cost-chart")
	f.StringVarP(&exportOpts.out, "out", "o", "-", "output file (- for stdout)")
	exportCmd.MarkFlagsMutuallyExclusive("scenario", "result")
	exportCmd.MarkFlagsOneRequired("scenario", "result")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	var (
		res      *model.CalculationResult
		packages []string
		err      error
	)
	if exportOpts.result != "" {
		if res, err = loadResult(exportOpts.result); err != nil {
			return err
		}
		packages = export.Packages(res)
	} else {
		svc, err := app.New(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = svc.Close() }()
		sc, err := svc.Store.Get(exportOpts.scenario)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", exportOpts.scenario, err)
		}
		if sc.Result == nil {
			return fmt.Errorf("scenario %s has no result", sc.ID)
		}
		res = sc.Result
		packages = packageNames(sc.Project)
	}

	return writeTo(cmd, exportOpts.out, func(w io.Writer) error {
		switch exportOpts.kind {
		case "matrix":
			return export.WriteMatrixCSV(w, res)
		case "financial":
			return export.WriteFinancialCSV(w, res.FinancialData[:min(len(res.FinancialData), res.Metadata.TotalProjectDuration)], packages)
		case "json":
			return export.WriteJSON(w, res)
		case "balance-chart":
			return export.WriteBalanceChart(w, res)
		case "cost-chart":
			return export.WriteCostChart(w, res.FinancialData[:min(len(res.FinancialData), res.Metadata.TotalProjectDuration)])
		default:
			return fmt.Errorf("unsupported export kind %s", exportOpts.kind)
		}
	})
}
