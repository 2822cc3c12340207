package merger

import (
	"fmt"
	"os"

	"github.com/crocme10/tartare-tools/pkg/config"
	"github.com/crocme10/tartare-tools/pkg/model"
	"github.com/crocme10/tartare-tools/pkg/snapshot"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/iter"
	"github.com/urfave/cli/v2"
)

func jobFromFlags(c *cli.Context) (*config.MergeJob, error) {
	job := &config.MergeJob{}

	if path := c.String("config"); path != "" {
		loaded, err := config.LoadJob(path)
		if err != nil {
			return nil, err
		}
		if loaded.Merge != nil {
			job = loaded.Merge
		}
	}

	if c.Args().Len() > 0 {
		job.Inputs = c.Args().Slice()
	}
	if c.IsSet("output") {
		job.Output = c.String("output")
	}
	if c.IsSet("feed-infos") {
		job.FeedInfos = c.String("feed-infos")
	}

	if len(job.Inputs) < 2 {
		return nil, fmt.Errorf("at least 2 datasets are required to merge, got %d", len(job.Inputs))
	}
	if job.Output == "" {
		return nil, fmt.Errorf("--output is required")
	}

	return job, nil
}

// loadAll reads every input concurrently. Datasets come back in input order.
func loadAll(paths []string) ([]*model.Collections, error) {
	return iter.MapErr(paths, func(path *string) (*model.Collections, error) {
		return snapshot.Load(*path)
	})
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:      "merge",
		Usage:     "Merge several datasets into one",
		ArgsUsage: "INPUT...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "output",
				Usage: "Where to write the merged dataset",
			},
			&cli.StringFlag{
				Name:  "feed-infos",
				Usage: "JSON object of feed infos to set on the merged dataset",
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

			snapshots, err := loadAll(job.Inputs)
			if err != nil {
				return err
			}

			merged, err := MergeAll(snapshots)
			if err != nil {
				return err
			}

			if job.FeedInfos != "" {
				file, err := os.Open(job.FeedInfos)
				if err != nil {
					return err
				}
				feedInfos, err := ReadFeedInfos(file)
				file.Close()
				if err != nil {
					return err
				}
				AppendFeedInfos(merged, feedInfos)
			}

			if err := snapshot.Save(job.Output, merged); err != nil {
				return err
			}

			log.Info().
				Int("datasets", len(snapshots)).
				Int("trips", merged.VehicleJourneys.Len()).
				Str("output", job.Output).
				Msg("Merge complete")

			return nil
		},
	}
}
