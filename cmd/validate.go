package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/linebalance/core/model"
)

var validateProject projectFlags

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a project file without calculating it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := validateProject.load()
		if err != nil {
			return err
		}
		msgs := model.ValidationMessages(p, cfg.Engine.MaxHouses)
		if len(msgs) == 0 {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "project is valid")
			return err
		}
		for _, m := range msgs {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), "-", m); err != nil {
				return err
			}
		}
		return fmt.Errorf("%d validation errors", len(msgs))
	},
}

func init() {
	validateProject.register(validateCmd)
	rootCmd.AddCommand(validateCmd)
}
