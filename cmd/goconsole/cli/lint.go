package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func LintCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Validate the configuration and report risky settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromViper(v)
			if err := cfg.Validate(); err != nil {
				return errors.Wrap(err, "invalid configuration")
			}

			out := cmd.OutOrStdout()
			warnings := cfg.Lint()
			if len(warnings) == 0 {
				fmt.Fprintln(out, "No warnings.")
				return nil
			}
			for _, w := range warnings {
				fmt.Fprintf(out, "%-4s %s: %s\n", w.Severity, w.Code, w.Message)
			}
			return nil
		},
	}

	return cmd
}
