package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/njprem/storefront/internal/apiclient"
	"github.com/njprem/storefront/internal/config"
	"github.com/njprem/storefront/internal/credentials"
	"github.com/njprem/storefront/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg := config.LoadClient()
	log := logging.NewWithOutput(stderr, logging.Options{Level: cfg.LogLevel, Development: true})

	path := cfg.CredentialsPath
	if path == "" {
		var err error
		if path, err = credentials.DefaultPath(); err != nil {
			fmt.Fprintf(stderr, "storefront: locate credentials: %v\n", err)
			return 1
		}
	}

	a := newApp(cfg, credentials.NewFileStore(path), stdout, log)
	if err := a.dispatch(ctx, args); err != nil {
		if err == errUsage {
			fmt.Fprint(stderr, usage)
			return 2
		}
		fmt.Fprintf(stderr, "storefront: %v\n", err)
		return 1
	}
	return 0
}

func newApp(cfg config.ClientConfig, store credentials.Store, out io.Writer, log zerolog.Logger) *app {
	tokens := credentials.TokenSource(store, credentials.AuthTokenKey)
	return &app{
		store: store,
		out:   out,
		log:   log,
		api: apiclient.New(cfg.APIBaseURL, tokens,
			apiclient.WithTimeout(cfg.RequestTimeout),
			apiclient.WithLogger(log),
		),
	}
}
