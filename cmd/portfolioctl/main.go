package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/google/subcommands"

	"github.com/ndewijer/portfolio-tracker/internal/cli"
	"github.com/ndewijer/portfolio-tracker/internal/config"
	"github.com/ndewijer/portfolio-tracker/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(int(subcommands.ExitFailure))
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	cli.Register(commander, &cli.Env{
		Currency: cfg.Reporting.Currency,
		Out:      os.Stdout,
		Logger:   logging.NewLogger(cfg.Log.Level),
		Now:      time.Now,
	})

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
