package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netnem/waveshare-1.7-epaper-info/internal/config"
)

func newSnapshotCommand(configPath *string) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Sample once and write every page as a PNG",
		Long: `Take one telemetry sample and render the status page and the three graphs
to PNG files, upright and enlarged by --scale. The panel is not touched.

Examples:
  epaper-info snapshot
  epaper-info snapshot --out /tmp/pages --scale 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			a, err := newApp(cfg, logger, 0)
			if err != nil {
				return err
			}
			paths, err := a.Snapshot(cmd.Context(), out, cfg.Panel.Scale)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "snapshots", "output directory")
	return cmd
}
