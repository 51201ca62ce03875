package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/linebalance/core/model"
)

// projectFlags selects the input project of a command.
type projectFlags struct {
	path       string
	useDefault bool
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.path, "project", "p", "", "project file (json or yaml)")
	cmd.Flags().BoolVar(&f.useDefault, "default", false, "use the built-in default project")
	cmd.MarkFlagsMutuallyExclusive("project", "default")
}

func (f *projectFlags) load() (model.ProjectData, error) {
	switch {
	case f.useDefault:
		return model.DefaultProject(), nil
	case f.path != "":
		p, err := model.LoadProject(f.path)
		if err != nil {
			return p, fmt.Errorf("load project: %w", err)
		}
		return p, nil
	default:
		return model.ProjectData{}, fmt.Errorf("either --project or --default is required")
	}
}

func loadResult(path string) (*model.CalculationResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	var res model.CalculationResult
	if err := json.NewDecoder(f).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &res, nil
}

// writeTo writes to path, or to the command output when path is "-".
func writeTo(cmd *cobra.Command, path string, fn func(io.Writer) error) error {
	if path == "-" {
		return fn(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
