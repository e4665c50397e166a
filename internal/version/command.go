package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AttachCobraVersionCommand attaches a `version` subcommand to the provided root command.
// With --short only the semantic version is printed.
func AttachCobraVersionCommand(root *cobra.Command) {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		Long: `Print the version of ` + root.Name() + ` with its commit hash and build timestamp.
The values are injected at build time through ldflags.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if short {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), Short())
				return
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), root.Name()+" "+Full())
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "print only the semantic version")
	root.AddCommand(cmd)
}
