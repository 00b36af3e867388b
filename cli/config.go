package cli

import (
	"fmt"

	"github.com/memmaker/voxelengine/settings"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func configCmd(opts *options) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect settings files",
	}

	c.AddCommand(&cobra.Command{
		Use:   "init <path>",
		Short: "Write the default settings to a new file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.SaveDefault(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary("Settings created", []row{{"file", args[0]}}))
			return nil
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings after applying flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := toml.Marshal(opts.settings)
			if err != nil {
				return errors.Wrap(err, "failed encoding settings")
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})
	return c
}
