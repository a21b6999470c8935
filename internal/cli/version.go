package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netnem/waveshare-1.7-epaper-info/internal/buildinfo"
)

func newVersionCommand() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), buildinfo.Short())
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the version")
	return cmd
}
