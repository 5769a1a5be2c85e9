/*
Package main implements command-line functionality.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vigo/cvelookup/internal/httpclient"
	"github.com/vigo/cvelookup/internal/lookup"
	"github.com/vigo/cvelookup/internal/presenter"
	"github.com/vigo/cvelookup/internal/renderer"
	"github.com/vigo/cvelookup/internal/source"
	"github.com/vigo/cvelookup/internal/tlog"
	"github.com/vigo/cvelookup/internal/useragent"
	"github.com/vigo/cvelookup/internal/version"
)

const (
	envPrefix = "CVELOOKUP"

	defaultUserAgents = "user-agents"
	defaultTimeout    = httpclient.DefaultTimeout
	defaultLogLevel   = ""
	defaultLogColor   = false
	defaultRender     = false
	defaultWidth      = presenter.DefaultWidth
)

// sentinel errors.
var (
	errReported    = errors.New("reported") // already logged by the command
	errCVERequired = errors.New(`required flag(s) "cve" not set`)
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errReported):
		return 1
	default:
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "cvelookup",
		Short:         "quick CVE info aggregator",
		Long:          "cvelookup fetches publication date, description, base score and references of a CVE.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLookup(cmd.Context(), v, stdout, stderr)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringP("cve", "c", "", "CVE identifier, e.g. CVE-2021-34527 (required)")
	flags.String("user-agents", defaultUserAgents, "newline delimited user agent list")
	flags.Duration("timeout", defaultTimeout, "per request timeout")
	flags.Bool("render", defaultRender, "render pages in a headless browser")
	flags.String("log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	flags.Bool("log-color", defaultLogColor, "colorize logs")
	flags.Int("width", defaultWidth, "description wrap width")
	flags.String("registry-url", source.RegistryURL, "registry page template")
	flags.String("database-url", source.DatabaseURL, "database page template")

	_ = flags.MarkHidden("registry-url")
	_ = flags.MarkHidden("database-url")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(flags)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "display version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Version)
		},
	})

	return cmd
}

func runLookup(ctx context.Context, v *viper.Viper, stdout, stderr io.Writer) error {
	id := v.GetString("cve")
	if id == "" {
		return errCVERequired
	}

	logger := tlog.New(stderr, v.GetString("log-level"), v.GetBool("log-color"))

	agents, err := useragent.LoadFile(v.GetString("user-agents"))
	if err != nil {
		logger.Error("load user agents", "err", err)
		return errReported
	}

	fetcher, err := newFetcher(v, logger)
	if err != nil {
		logger.Error("instantiate fetcher", "err", err)
		return errReported
	}

	lk, err := lookup.New(
		[]source.Extractor{
			source.NewRegistry(fetcher, agents, v.GetString("registry-url")),
			source.NewDatabase(fetcher, agents, v.GetString("database-url")),
		},
		lookup.WithLogger(logger),
	)
	if err != nil {
		logger.Error("instantiate lookup", "err", err)
		return errReported
	}

	out, err := lk.Run(ctx, id)
	if err != nil {
		if ctx.Err() != nil {
			logger.Debug("interrupted")
			return nil
		}

		logger.Error("lookup", "cve", id, "err", err)
		return errReported
	}

	logger.Debug("outcome", "cve", out.ID, "kind", out.Kind)

	p, err := presenter.New(stdout, presenter.WithWidth(v.GetInt("width")))
	if err != nil {
		logger.Error("instantiate presenter", "err", err)
		return errReported
	}

	if err = p.Present(out); err != nil {
		logger.Error("present", "err", err)
		return errReported
	}

	return nil
}

func newFetcher(v *viper.Viper, logger *slog.Logger) (source.Fetcher, error) {
	timeout := v.GetDuration("timeout")

	if v.GetBool("render") {
		r, err := renderer.New(
			renderer.WithTimeout(timeout),
			renderer.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		return r, nil
	}

	c, err := httpclient.New(
		httpclient.WithTimeout(timeout),
		httpclient.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}
