package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func LogoutCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and remove the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, done, err := openConsole(cmd, v)
			if err != nil {
				return err
			}
			defer done()

			if _, err := c.Logout(cmd.Context()); err != nil {
				return errors.Wrap(err, "failed to sign out")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}

	return cmd
}
