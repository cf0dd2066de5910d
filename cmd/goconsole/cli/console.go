package cli

import (
	"context"
	"fmt"
	"io"

	goConsole "github.com/MrEthical07/goConsole"
	"github.com/MrEthical07/goConsole/internal/logger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// openConsole builds the console from v, starts the startup load and waits for it.
// The returned func closes the console and flushes the logger.
func openConsole(cmd *cobra.Command, v *viper.Viper) (*goConsole.Console, func(), error) {
	cfg := configFromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid configuration")
	}

	log, err := logger.NewWriter(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create logger")
	}
	warnLint(log, cfg)

	b := goConsole.New().WithConfig(cfg).WithLogger(log)
	if cfg.Audit.Enabled {
		b = b.WithAuditSink(goConsole.NewZapSink(log))
	}
	c, err := b.Build()
	if err != nil {
		_ = log.Sync()
		return nil, nil, errors.Wrap(err, "failed to build console")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c.Start(ctx)
	if _, err := c.Await(ctx); err != nil {
		_ = c.Close()
		_ = log.Sync()
		return nil, nil, errors.Wrap(err, "failed to load session")
	}

	return c, func() {
		if err := c.Close(); err != nil {
			log.Warn("close console", zap.Error(err))
		}
		_ = log.Sync()
	}, nil
}

func warnLint(log *zap.Logger, cfg goConsole.Config) {
	for _, w := range cfg.Lint().BySeverity(goConsole.LintHigh) {
		log.Warn(w.Message, zap.String("code", w.Code))
	}
}

func printStatus(w io.Writer, st goConsole.Status) {
	fmt.Fprintf(w, "State: %s\n", st.State)
	if st.Role != "" {
		fmt.Fprintf(w, "User: %s <%s> (%s)\n", st.UserName, st.Email, st.Role)
	}
	if st.InitialRoute != "" {
		fmt.Fprintf(w, "Start: %s\n", st.InitialRoute)
	}
	printMenu(w, st.Menu)
}

func printMenu(w io.Writer, menu []string) {
	fmt.Fprintf(w, "Menu:\n")
	for _, r := range menu {
		fmt.Fprintf(w, "  - %s\n", r)
	}
}
