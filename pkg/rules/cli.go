package rules

import (
	"fmt"
	"io"
	"os"

	"github.com/crocme10/tartare-tools/pkg/config"
	"github.com/crocme10/tartare-tools/pkg/report"
	"github.com/crocme10/tartare-tools/pkg/snapshot"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func readFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	file, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, err
	}
	defer file.Close()

	return read(file)
}

func jobFromFlags(c *cli.Context) (*config.ApplyRulesJob, error) {
	job := &config.ApplyRulesJob{}

	if path := c.String("config"); path != "" {
		loaded, err := config.LoadJob(path)
		if err != nil {
			return nil, err
		}
		if loaded.ApplyRules != nil {
			job = loaded.ApplyRules
		}
	}

	if c.IsSet("input") {
		job.Input = c.String("input")
	}
	if c.IsSet("output") {
		job.Output = c.String("output")
	}
	if c.IsSet("object-rules") {
		job.ObjectRules = c.String("object-rules")
	}
	if c.IsSet("routes-consolidation") {
		job.RoutesConsolidation = c.String("routes-consolidation")
	}
	if c.IsSet("complementary-code-rules") {
		job.ComplementaryCodeRules = c.StringSlice("complementary-code-rules")
	}
	if c.IsSet("report") {
		job.Report = c.String("report")
	}

	if job.Input == "" || job.Output == "" {
		return nil, fmt.Errorf("both --input and --output are required")
	}

	return job, nil
}

func readOptions(job *config.ApplyRulesJob, sink report.Sink) (Options, error) {
	var options Options

	if job.ObjectRules != "" {
		configuration, err := readFile(job.ObjectRules, ReadObjectRules)
		if err != nil {
			return options, fmt.Errorf("%s: %w", job.ObjectRules, err)
		}
		options.ObjectRules = configuration
	}

	if job.RoutesConsolidation != "" {
		consolidations, err := readFile(job.RoutesConsolidation, func(reader io.Reader) ([]RouteConsolidation, error) {
			return ReadRouteConsolidations(reader, job.RoutesConsolidation, sink)
		})
		if err != nil {
			return options, fmt.Errorf("%s: %w", job.RoutesConsolidation, err)
		}
		options.RouteConsolidations = consolidations
	}

	for _, path := range job.ComplementaryCodeRules {
		codes, err := readFile(path, func(reader io.Reader) ([]ComplementaryCode, error) {
			return ReadComplementaryCodes(reader, path, sink)
		})
		if err != nil {
			return options, fmt.Errorf("%s: %w", path, err)
		}
		options.ComplementaryCodes = append(options.ComplementaryCodes, codes...)
	}

	return options, nil
}

func writeReport(r *report.Report, path string) error {
	data, err := r.JSON()
	if err != nil {
		return err
	}

	if path == "" {
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "apply-rules",
		Usage: "Regroup objects, consolidate routes and add complementary codes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "input",
				Usage: "Dataset to transform",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "Where to write the transformed dataset",
			},
			&cli.StringFlag{
				Name:  "object-rules",
				Usage: "JSON file of network and mode regrouping rules",
			},
			&cli.StringFlag{
				Name:  "routes-consolidation",
				Usage: "CSV file of lines and networks whose routes are consolidated",
			},
			&cli.StringSliceFlag{
				Name:  "complementary-code-rules",
				Usage: "CSV files of codes to add to objects",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Where to write the JSON report, stdout if absent",
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

			r := report.New()

			options, err := readOptions(job, r)
			if err != nil {
				return err
			}

			collections, err := snapshot.Load(job.Input)
			if err != nil {
				return err
			}

			result, err := Apply(collections, options, r)
			if err != nil {
				return err
			}

			if err := snapshot.Save(job.Output, result); err != nil {
				return err
			}

			log.Info().
				Int("errors", len(r.Errors)).
				Int("warnings", len(r.Warnings)).
				Str("output", job.Output).
				Msg("Rules applied")

			return writeReport(r, job.Report)
		},
	}
}
