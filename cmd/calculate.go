package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kilianp07/linebalance/app"
	"github.com/kilianp07/linebalance/core/events"
	"github.com/kilianp07/linebalance/core/finance"
	"github.com/kilianp07/linebalance/core/model"
	"github.com/kilianp07/linebalance/core/scenario"
	"github.com/kilianp07/linebalance/infra/logger"
	"github.com/kilianp07/linebalance/pkg/export"
)

var calcOpts struct {
	project      projectFlags
	out          string
	matrixCSV    string
	financialCSV string
	save         string
	progress     bool
}

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Compute the baseline schedule and cost curve of a project",
	RunE:  runCalculate,
}

func init() {
	f := calculateCmd.Flags()
	calcOpts.project.register(calculateCmd)
	f.StringVarP(&calcOpts.out, "out", "o", "", "write the result as JSON to this file (- for stdout)")
	f.StringVar(&calcOpts.matrixCSV, "matrix-csv", "", "write the house by week matrix as CSV")
	f.StringVar(&calcOpts.financialCSV, "financial-csv", "", "write the weekly financial series as CSV")
	f.StringVar(&calcOpts.save, "save", "", "save the project and result as a named scenario")
	f.BoolVar(&calcOpts.progress, "progress", false, "log calculation phases")
	rootCmd.AddCommand(calculateCmd)
}

func runCalculate(cmd *cobra.Command, _ []string) error {
	p, err := calcOpts.project.load()
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(cmd.Context())
	collected := svc.StartCollectors(ctx)
	progressDone := make(chan struct{})
	if calcOpts.progress {
		go logProgress(svc.Bus.Subscribe(), progressDone)
	} else {
		close(progressDone)
	}
	res, err := svc.Calculator.Calculate(p)
	// Closing the bus drains the progress subscriber; the collector exits on cancel.
	svc.Bus.Close()
	<-progressDone
	cancel()
	<-collected
	if err != nil {
		return err
	}

	if calcOpts.out != "" {
		if err := writeTo(cmd, calcOpts.out, func(w io.Writer) error { return export.WriteJSON(w, res) }); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}
	if calcOpts.matrixCSV != "" {
		if err := writeTo(cmd, calcOpts.matrixCSV, func(w io.Writer) error { return export.WriteMatrixCSV(w, res) }); err != nil {
			return fmt.Errorf("write matrix: %w", err)
		}
	}
	if calcOpts.financialCSV != "" {
		names := packageNames(p)
		if err := writeTo(cmd, calcOpts.financialCSV, func(w io.Writer) error {
			return export.WriteFinancialCSV(w, res.FinancialData[:min(len(res.FinancialData), res.Metadata.TotalProjectDuration)], names)
		}); err != nil {
			return fmt.Errorf("write financial series: %w", err)
		}
	}
	if calcOpts.save != "" {
		sc, err := svc.Store.Save(scenario.Scenario{Name: calcOpts.save, Project: p, Result: res})
		if err != nil {
			return fmt.Errorf("save scenario: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved scenario %s (version %d)\n", sc.ID, sc.Version)
	}
	if calcOpts.out != "-" {
		printSummary(cmd.OutOrStdout(), p, res)
	}
	return nil
}

func logProgress(sub <-chan events.PhaseEvent, done chan<- struct{}) {
	defer close(done)
	log := logger.New("progress")
	for ev := range sub {
		log.Infof("%3d%% %s (%s)", ev.Phase.Progress(), ev.Phase, ev.Elapsed)
	}
}

func packageNames(p model.ProjectData) []string {
	names := make([]string, len(p.WorkPackages))
	for i, wp := range p.WorkPackages {
		names[i] = wp.Name
	}
	return names
}

// printSummary writes a short Brazilian Portuguese summary of the result.
func printSummary(w io.Writer, p model.ProjectData, res *model.CalculationResult) {
	pr := message.NewPrinter(language.BrazilianPortuguese)
	md := res.Metadata
	_, _ = pr.Fprintf(w, "Cálculo %s\n", md.CalculationID)
	_, _ = pr.Fprintf(w, "  casas:    %d\n", p.HousesCount)
	_, _ = pr.Fprintf(w, "  pacotes:  %d\n", md.TotalPackages)
	_, _ = pr.Fprintf(w, "  duração:  %d semanas (%s a %s)\n", md.TotalProjectDuration, firstWeek(res), lastWeek(res))
	_, _ = fmt.Fprintf(w, "  custo:    R$ %s\n", humanize.FormatFloat("#.###,##", md.TotalProjectCost))
	totals := finance.PackageTotals(res.FinancialData)
	for _, name := range packageNames(p) {
		_, _ = fmt.Fprintf(w, "    %s: R$ %s\n", name, humanize.FormatFloat("#.###,##", totals[name]))
	}
	if !md.Complete {
		_, _ = fmt.Fprintln(w, "  atenção:  cronograma incompleto")
	}
}

func firstWeek(res *model.CalculationResult) string {
	if len(res.WeekDateMappings) == 0 {
		return "-"
	}
	return res.WeekDateMappings[0].StartDate.Format("02/01/2006")
}

func lastWeek(res *model.CalculationResult) string {
	i := res.Metadata.TotalProjectDuration - 1
	if i < 0 || i >= len(res.WeekDateMappings) {
		return "-"
	}
	return res.WeekDateMappings[i].EndDate.Format("02/01/2006")
}
