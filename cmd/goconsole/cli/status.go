package cli

import (
	"fmt"

	"github.com/MrEthical07/goConsole/access"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func StatusCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current session and menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, done, err := openConsole(cmd, v)
			if err != nil {
				return err
			}
			defer done()

			printStatus(cmd.OutOrStdout(), c.Status())
			return nil
		},
	}

	return cmd
}

func RoutesCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List every console route and whether the session may open it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, done, err := openConsole(cmd, v)
			if err != nil {
				return err
			}
			defer done()

			out := cmd.OutOrStdout()
			for _, r := range access.AllRoutes() {
				mark := " "
				if c.CanAccess(r) {
					mark = "x"
				}
				fmt.Fprintf(out, "[%s] %s\n", mark, r)
			}
			return nil
		},
	}

	return cmd
}

func OpenCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open ROUTE",
		Short: "Check that the session may open a route",
		Long:  `Exits non-zero when the route is unknown or not permitted for the current session.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			route, ok := access.ParseRoute(args[0])
			if !ok {
				return errors.Errorf("unknown route %q", args[0])
			}

			c, done, err := openConsole(cmd, v)
			if err != nil {
				return err
			}
			defer done()

			if _, err := c.Open(cmd.Context(), route); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Access denied: %s\n", route)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", route)
			return nil
		},
	}

	return cmd
}
