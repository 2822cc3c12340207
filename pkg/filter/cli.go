package filter

import (
	"errors"

	"github.com/crocme10/tartare-tools/pkg/config"
	"github.com/crocme10/tartare-tools/pkg/snapshot"
	"github.com/urfave/cli/v2"
)

func jobFromFlags(c *cli.Context) (*config.FilterJob, error) {
	job := &config.FilterJob{}

	if path := c.String("config"); path != "" {
		loaded, err := config.LoadJob(path)
		if err != nil {
			return nil, err
		}
		if loaded.Filter != nil {
			job = loaded.Filter
		}
	}

	if c.IsSet("input") {
		job.Input = c.String("input")
	}
	if c.IsSet("output") {
		job.Output = c.String("output")
	}

	switch {
	case c.IsSet("extract") && c.IsSet("remove"):
		return nil, errors.New("--extract and --remove are mutually exclusive")
	case c.IsSet("extract"):
		job.Action, job.Expression = string(Extract), c.String("extract")
	case c.IsSet("remove"):
		job.Action, job.Expression = string(Remove), c.String("remove")
	}

	if job.Input == "" || job.Output == "" {
		return nil, errors.New("both --input and --output are required")
	}
	if job.Expression == "" {
		return nil, errors.New("one of --extract or --remove is required")
	}

	return job, nil
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "filter",
		Usage: "Keep or drop trips matching an expression",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "input",
				Usage: "Dataset to filter",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "Where to write the filtered dataset",
			},
			&cli.StringFlag{
				Name:  "extract",
				Usage: "Keep only the trips matching this expression",
			},
			&cli.StringFlag{
				Name:  "remove",
				Usage: "Drop the trips matching this expression",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML job file",
			},
		},
		Action: func(c *cli.Context) error {
			job, err := jobFromFlags(c)
			if err != nil {
				return err
			}

			collections, err := snapshot.Load(job.Input)
			if err != nil {
				return err
			}

			if err := Apply(collections, Filter{Action: Action(job.Action), Expression: job.Expression}); err != nil {
				return err
			}

			return snapshot.Save(job.Output, collections)
		},
	}
}
