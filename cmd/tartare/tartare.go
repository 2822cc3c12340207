package main

import (
	"os"
	"time"

	"github.com/crocme10/tartare-tools/pkg/config"
	"github.com/crocme10/tartare-tools/pkg/filter"
	"github.com/crocme10/tartare-tools/pkg/merger"
	"github.com/crocme10/tartare-tools/pkg/rules"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	env := config.GetEnvironment()

	if !env.JSONLogs {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if env.Debug {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "tartare",
		Description: "Merge NTFS datasets and apply regrouping rules",

		Commands: []*cli.Command{
			merger.RegisterCLI(),
			rules.RegisterCLI(),
			filter.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
