package main

import (
	"os"
	"runtime/debug"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/gekatateam/loggate/config"
	"github.com/gekatateam/loggate/logger"
	"github.com/gekatateam/loggate/relay/api"
)

var Version = "v.0.0.0"

var cliController = api.Cli(nil)

func main() {
	defer func() {
		if r := recover(); r != nil {
			logger.Default.Error(
				"unexpected panic recovered",
				"error", r,
				"stack_trace", string(debug.Stack()),
			)
		}
	}()

	nameFlag := &cli.StringFlag{
		Name:     "name",
		Aliases:  []string{"n"},
		Required: true,
		Usage:    "gate name",
	}

	app := &cli.App{
		Name:    "loggate",
		Version: Version,
		Usage:   "runtime switchable log gates",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run daemon with configured gates",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Value: "config.toml",
						Usage: "path to configuration file",
					},
				},
				Action: run,
			},
			{
				Name:  "gate",
				Usage: "cli commands for gate management",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "server-address",
						Aliases: []string{"s"},
						Value:   "http://localhost" + config.Default.Common.HttpAddr,
						Usage:   "daemon http api server address; if sheme is HTTPS, tls transport will be used",
					},
					&cli.DurationFlag{
						Name:    "request-timeout",
						Aliases: []string{"t"},
						Value:   10 * time.Second,
						Usage:   "api call timeout",
					},
					&cli.StringFlag{
						Name:  "tls-key-file",
						Usage: "path to TLS key file",
					},
					&cli.StringFlag{
						Name:  "tls-cert-file",
						Usage: "path to TLS certificate file",
					},
					&cli.StringFlag{
						Name:  "tls-ca-file",
						Usage: "path to TLS CA file",
					},
					&cli.BoolFlag{
						Name:  "tls-skip-verify",
						Usage: "skip TLS certificate verification",
					},
				},
				Before: cliController.Init,
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "list all gates with their filters",
						Action: cliController.List,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "format",
								Value: "plain",
								Usage: "list format (plain, json, yaml supported)",
							},
						},
					},
					{
						Name:      "state",
						Usage:     "show gate filter state",
						UsageText: "state --name kafka-debug [--format yaml]",
						Flags: []cli.Flag{
							nameFlag,
							&cli.StringFlag{
								Name:  "format",
								Value: "toml",
								Usage: "state printing format (json, toml, yaml supported)",
							},
						},
						Action: cliController.State,
					},
					{
						Name:      "start",
						Usage:     "start gate filter; omitted filters match everything",
						UsageText: "start --name kafka-debug --category app.db --level debug --force-level --filter timeout",
						Flags: []cli.Flag{
							nameFlag,
							&cli.StringFlag{
								Name:    "category",
								Aliases: []string{"c"},
								Usage:   "exact event category",
							},
							&cli.StringFlag{
								Name:    "filter",
								Aliases: []string{"f"},
								Usage:   "regular expression for event message",
							},
							&cli.StringFlag{
								Name:    "level",
								Aliases: []string{"l"},
								Usage:   "minimal event level (trace, debug, info, warn, error, fatal)",
							},
							&cli.BoolFlag{
								Name:  "force-level",
								Usage: "lower category level in logger registry while gate is running",
							},
						},
						Action: cliController.Start,
					},
					{
						Name:      "stop",
						Usage:     "stop gate filter and restore forced level",
						UsageText: "stop --name kafka-debug",
						Flags: []cli.Flag{
							nameFlag,
						},
						Action: cliController.Stop,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Default.Error("we're failed",
			"error", err,
		)
		os.Exit(1)
	}
}
