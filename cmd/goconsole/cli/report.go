package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func ReportCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the effective security settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, done, err := openConsole(cmd, v)
			if err != nil {
				return err
			}
			defer done()

			r := c.SecurityReport()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Storage: %s (durable=%t)\n", r.StorageBackend, r.StorageDurable)
			fmt.Fprintf(out, "Auth: %s (tls=%t, timeout=%s)\n", r.AuthBaseURL, r.AuthTLS, r.AuthTimeout)
			fmt.Fprintf(out, "Policy: %s (custom=%t)\n", r.Policy, r.CustomProfiles)
			for _, role := range []string{"admin", "super-admin"} {
				fmt.Fprintf(out, "  %s: %s\n", role, strings.Join(r.Profiles[role], ", "))
			}
			fmt.Fprintf(out, "Audit: enabled=%t blocking=%t\n", r.AuditEnabled, r.AuditBlocking)
			fmt.Fprintf(out, "Metrics: enabled=%t latency=%t\n", r.MetricsEnabled, r.LatencyMetrics)
			if len(r.LintHighWarning) > 0 {
				fmt.Fprintf(out, "High warnings: %s\n", strings.Join(r.LintHighWarning, ", "))
			}
			return nil
		},
	}

	return cmd
}
