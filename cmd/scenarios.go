package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kilianp07/linebalance/app"
	"github.com/kilianp07/linebalance/core/scenario"
	"github.com/kilianp07/linebalance/pkg/export"
)

var scenariosCmd = &cobra.Command{
	Use:     "scenarios",
	Aliases: []string{"scenario"},
	Short:   "Manage saved scenarios",
}

var scenariosLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List saved scenarios",
	RunE: withService(func(cmd *cobra.Command, svc *app.Service, _ []string) error {
		list, err := svc.Store.List()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tVERSION\tHOUSES\tWEEKS\tCOST\tUPDATED")
		for _, m := range list {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
				m.ID, m.Name, m.Version, m.Houses, m.TotalWeeks,
				humanize.FormatFloat("#.###,##", m.TotalCost), humanize.Time(m.UpdatedAt))
		}
		return tw.Flush()
	}),
}

var scenariosShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print a scenario as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: withService(func(cmd *cobra.Command, svc *app.Service, args []string) error {
		sc, err := svc.Store.Get(args[0])
		if err != nil {
			return err
		}
		return export.WriteJSON(cmd.OutOrStdout(), sc)
	}),
}

var scenariosRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a scenario",
	Args:  cobra.ExactArgs(1),
	RunE: withService(func(cmd *cobra.Command, svc *app.Service, args []string) error {
		return svc.Store.Delete(args[0])
	}),
}

var saveOpts struct {
	project     projectFlags
	id          string
	name        string
	description string
}

var scenariosSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Calculate a project and store it as a scenario",
	RunE: withService(func(cmd *cobra.Command, svc *app.Service, _ []string) error {
		p, err := saveOpts.project.load()
		if err != nil {
			return err
		}
		res, err := svc.Calculator.Calculate(p)
		if err != nil {
			return err
		}
		sc, err := svc.Store.Save(scenario.Scenario{
			ID:          saveOpts.id,
			Name:        saveOpts.name,
			Description: saveOpts.description,
			Project:     p,
			Result:      res,
		})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s version %d\n", sc.ID, sc.Version)
		return err
	}),
}

func init() {
	saveOpts.project.register(scenariosSaveCmd)
	f := scenariosSaveCmd.Flags()
	f.StringVar(&saveOpts.id, "id", "", "existing scenario ID to update")
	f.StringVarP(&saveOpts.name, "name", "n", "", "scenario name")
	f.StringVar(&saveOpts.description, "description", "", "scenario description")
	_ = scenariosSaveCmd.MarkFlagRequired("name")

	scenariosCmd.AddCommand(scenariosLsCmd, scenariosShowCmd, scenariosRmCmd, scenariosSaveCmd)
	rootCmd.AddCommand(scenariosCmd)
}

func withService(fn func(*cobra.Command, *app.Service, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		svc, err := app.New(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = svc.Close() }()
		return fn(cmd, svc, args)
	}
}
