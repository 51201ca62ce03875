package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kilianp07/linebalance/infra/metrics"
)

var historyOpts struct {
	file   string
	status string
	since  time.Duration
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List calculations recorded by the jsonl metrics sink",
	RunE: func(cmd *cobra.Command, _ []string) error {
		q := metrics.HistoryQuery{Status: historyOpts.status}
		if historyOpts.since > 0 {
			q.Start = time.Now().Add(-historyOpts.since)
		}
		recs, err := metrics.ReadHistory(historyFile(), q)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TIME\tID\tSTATUS\tHOUSES\tWEEKS\tCOST\tELAPSED")
		for _, r := range recs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%.1fms\n",
				r.Time.Format(time.RFC3339), r.CalculationID, r.Status, r.Houses, r.TotalWeeks,
				humanize.FormatFloat("#.###,##", r.TotalCost), r.ElapsedMS)
		}
		return tw.Flush()
	},
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&historyOpts.file, "file", "", "history file (defaults to the configured jsonl sink path)")
	f.StringVar(&historyOpts.status, "status", "", "only show ok, truncated or error calculations")
	f.DurationVar(&historyOpts.since, "since", 0, "only show calculations newer than this")
	rootCmd.AddCommand(historyCmd)
}

// historyFile returns --file, else the path of the first jsonl sink.
func historyFile() string {
	if historyOpts.file != "" {
		return historyOpts.file
	}
	for _, s := range cfg.Metrics.Sinks {
		if s.Type != "jsonl" {
			continue
		}
		if p, ok := s.Conf["path"].(string); ok && p != "" {
			return p
		}
	}
	return "calculations.jsonl"
}
