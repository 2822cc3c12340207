package config

import (
	"fmt"
	"os"

	"github.com/crocme10/tartare-tools/pkg/util"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Job describes a run of one or more commands. Flags given on the command
// line take precedence over the job file.
type Job struct {
	Merge      *MergeJob      `yaml:"merge"`
	ApplyRules *ApplyRulesJob `yaml:"apply_rules"`
	Filter     *FilterJob     `yaml:"filter"`
}

type MergeJob struct {
	Inputs    []string `yaml:"inputs" validate:"min=2,dive,required"`
	Output    string   `yaml:"output" validate:"required"`
	FeedInfos string   `yaml:"feed_infos"`
}

type ApplyRulesJob struct {
	Input                  string   `yaml:"input" validate:"required"`
	Output                 string   `yaml:"output" validate:"required"`
	ObjectRules            string   `yaml:"object_rules"`
	RoutesConsolidation    string   `yaml:"routes_consolidation"`
	ComplementaryCodeRules []string `yaml:"complementary_code_rules" validate:"dive,required"`
	Report                 string   `yaml:"report"`
}

type FilterJob struct {
	Input      string `yaml:"input" validate:"required"`
	Output     string `yaml:"output" validate:"required"`
	Action     string `yaml:"action" validate:"required,oneof=extract remove"`
	Expression string `yaml:"expression" validate:"required"`
}

func ParseJob(data []byte) (*Job, error) {
	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, err
	}

	v := validator.New()
	// sections are optional; validate the ones present
	if job.Merge != nil {
		if err := v.Struct(job.Merge); err != nil {
			return nil, err
		}
	}
	if job.ApplyRules != nil {
		if err := v.Struct(job.ApplyRules); err != nil {
			return nil, err
		}
	}
	if job.Filter != nil {
		if err := v.Struct(job.Filter); err != nil {
			return nil, err
		}
	}

	return &job, nil
}

func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	job, err := ParseJob(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return job, nil
}

type Environment struct {
	JSONLogs bool
	Debug    bool
}

func GetEnvironment() Environment {
	env := util.GetEnvironmentVariables("TARTARE_")

	return Environment{
		JSONLogs: env["TARTARE_LOG_FORMAT"] == "JSON",
		Debug:    env["TARTARE_DEBUG"] == "YES",
	}
}
