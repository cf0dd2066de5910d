package cli

import (
	goConsole "github.com/MrEthical07/goConsole"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func initConfig(v *viper.Viper, cmd *cobra.Command) error {
	v.SetEnvPrefix("GOCONSOLE")
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "failed to bind flags")
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config file %s", path)
		}
	}
	return nil
}

// configFromViper maps flags, environment and config file onto a console config.
func configFromViper(v *viper.Viper) goConsole.Config {
	cfg := goConsole.DefaultConfig()

	cfg.Storage.Backend = v.GetString("storage")
	cfg.Storage.Key = v.GetString("key")
	cfg.Storage.BoltPath = v.GetString("db-path")
	cfg.Storage.BoltBucket = v.GetString("bolt-bucket")
	cfg.Storage.BoltTimeout = v.GetDuration("bolt-timeout")
	cfg.Storage.RedisAddr = v.GetString("redis-addr")
	cfg.Storage.RedisDB = v.GetInt("redis-db")
	cfg.Storage.RedisPrefix = v.GetString("redis-prefix")

	cfg.Auth.BaseURL = v.GetString("base-url")
	cfg.Auth.LoginPath = v.GetString("login-path")
	cfg.Auth.Timeout = v.GetDuration("timeout")

	cfg.Access.Policy = v.GetString("policy")
	if profiles := v.GetStringMapStringSlice("profiles"); len(profiles) > 0 {
		cfg.Access.Profiles = profiles
	}

	cfg.Audit.Enabled = v.GetBool("audit")
	cfg.Log.Level = v.GetString("log-level")
	cfg.Log.Format = v.GetString("log-format")

	return cfg
}
