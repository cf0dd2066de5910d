package cli

import (
	"os"
	"strings"

	goConsole "github.com/MrEthical07/goConsole"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func RootCmd() *cobra.Command {
	v := viper.New()
	defaults := goConsole.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "goconsole",
		Short: "Admin console session and access control",
		Long: `goconsole keeps a single admin session on disk (or in Redis), signs in against the
admin-login endpoint, and shows which console routes the signed-in role may open.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "path to a config file (yaml, json, or toml)")

	flags.String("storage", defaults.Storage.Backend, "session storage backend: bolt, redis, or memory")
	flags.String("key", defaults.Storage.Key, "session slot name")
	flags.String("db-path", defaults.Storage.BoltPath, "bolt database file")
	flags.String("bolt-bucket", defaults.Storage.BoltBucket, "bolt bucket name")
	flags.Duration("bolt-timeout", defaults.Storage.BoltTimeout, "how long to wait for the bolt file lock")
	flags.String("redis-addr", defaults.Storage.RedisAddr, "redis address")
	flags.Int("redis-db", defaults.Storage.RedisDB, "redis database number")
	flags.String("redis-prefix", defaults.Storage.RedisPrefix, "redis key prefix")

	flags.String("base-url", defaults.Auth.BaseURL, "auth backend base URL")
	flags.String("login-path", defaults.Auth.LoginPath, "admin login path")
	flags.Duration("timeout", defaults.Auth.Timeout, "auth request timeout")

	flags.String("policy", defaults.Access.Policy, "access policy: standard or extended")

	flags.Bool("audit", defaults.Audit.Enabled, "write audit events to the log")
	flags.String("log-level", defaults.Log.Level, "log level")
	flags.String("log-format", defaults.Log.Format, "log format: console or json")

	cmd.AddCommand(LoginCmd(v))
	cmd.AddCommand(LogoutCmd(v))
	cmd.AddCommand(StatusCmd(v))
	cmd.AddCommand(RoutesCmd(v))
	cmd.AddCommand(OpenCmd(v))
	cmd.AddCommand(LintCmd(v))
	cmd.AddCommand(ReportCmd(v))

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	return cmd
}

func InitAndExecute() {
	if err := RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
