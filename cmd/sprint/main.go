// Command sprint plans who does what during a sprint.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/idilsaglam/sprint/internal/cli"
	"github.com/idilsaglam/sprint/internal/config"
	"github.com/idilsaglam/sprint/internal/logging"
	"github.com/idilsaglam/sprint/internal/plan"
	"github.com/idilsaglam/sprint/internal/store"
	"github.com/idilsaglam/sprint/internal/store/jsonstore"
	"github.com/idilsaglam/sprint/internal/tui"
	"github.com/idilsaglam/sprint/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	configPath := flag.String("config", config.FileName, "config file")
	storeURL := flag.String("store", "", "store directory or afs URL (overrides config)")
	themeName := flag.String("theme", "", "classic, neon or mono (overrides config)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = func() { cli.PrintHelp(os.Stderr) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stderr)
		os.Exit(cli.ExitUsage)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, args, *configPath, *storeURL, *themeName, *verbose)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, configPath, storeURL, themeName string, verbose bool) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return cli.ExitError
	}
	if storeURL != "" {
		cfg.Store = storeURL
	}
	if themeName != "" {
		name, ok := config.ThemeName(themeName)
		if !ok {
			ui.Fail(os.Stderr, ui.Named(cfg.Theme),
				fmt.Sprintf("-theme: unknown theme %q (want %s)", themeName, strings.Join(config.Themes, ", ")))
			return cli.ExitUsage
		}
		cfg.Theme = name
	}
	theme := ui.Named(cfg.Theme)

	logger, err := logging.New(cfg.Log, verbose)
	if err != nil {
		ui.Fail(os.Stderr, theme, err.Error())
		return cli.ExitError
	}
	defer logger.Close()

	kv, err := store.New(ctx, cfg.Store)
	if err != nil {
		logger.Error("open store", "url", cfg.Store, "err", err)
		ui.Fail(os.Stderr, theme, err.Error())
		return cli.ExitError
	}
	logger.Debug("store opened", "url", kv.URL(), "config", configPath)

	r := &cli.Runner{
		Out:        os.Stdout,
		Err:        os.Stderr,
		Store:      jsonstore.New(kv, logger.Logger),
		Theme:      theme,
		Logger:     logger.Logger,
		ConfigPath: configPath,
		Interactive: func(ctx context.Context, p *plan.Plan) (*plan.Plan, bool, error) {
			return tui.Run(ctx, p, theme, logger.With(slog.String("view", "tui")))
		},
	}
	return r.Run(ctx, args)
}
