package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sonemaro/packitor/pkg/archive"
)

func newFormatsCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the supported archive formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.NoColor {
				color.NoColor = true
			}

			name := color.New(color.FgCyan, color.Bold)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Supported formats:")
			for _, f := range archive.Formats() {
				fmt.Fprintf(out, "  %-8s .%-7s %s\n",
					name.Sprint(string(f)), f.Ext(), f.Description())
			}
			return nil
		},
	}
}
