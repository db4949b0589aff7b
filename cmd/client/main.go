package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/fishlog/internal/client/auth"
	"github.com/iudanet/fishlog/internal/client/cli"
	"github.com/iudanet/fishlog/internal/client/iocli"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app := cli.New(iocli.NewStdio(),
		cli.WithVersion(fmt.Sprintf("%s (built %s, commit %s)", Version, BuildDate, GitCommit)),
	)
	err := app.Execute(ctx, os.Args[1:])
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", auth.ErrorMessage(err))
		os.Exit(1)
	}
}
