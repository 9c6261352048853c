package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCacheCommand creates the "cache" command group.
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the extractor cache",
		Long: `Extractor output is cached by the content digest of the bundle, so a
bundle is only handed to UnityPy once. These commands show and clear the
cache directory (cache.dir in the config file).`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			c, err := openCache(cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), c.Dir())
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every cached snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			c, err := openCache(cfg)
			if err != nil {
				return err
			}
			if err := c.Clear(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", c.Dir())
			return err
		},
	})

	return cmd
}
