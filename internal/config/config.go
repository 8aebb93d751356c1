package config

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/ddlrun/ddlrun/internal/deploy"
)

// DefaultFileName is the configuration file expected at the repository root.
const DefaultFileName = "ddlrun.yml"

type Config struct {
	Version string   `yaml:"version"`
	Project string   `yaml:"project"`
	Glob    string   `yaml:"glob"`
	Dialect string   `yaml:"dialect,omitempty"`
	Branch  string   `yaml:"branch,omitempty"`
	Filters []string `yaml:"filters,omitempty"`
	Runner  Runner   `yaml:"runner,omitempty"`
}

// Runner configures the external query command invoked per candidate file.
type Runner struct {
	Command         string `yaml:"command,omitempty"`
	Location        string `yaml:"location,omitempty"`
	CredentialsFile string `yaml:"credentials_file,omitempty"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}
	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	applyDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Dialect == "" {
		config.Dialect = "standard"
	}
	if config.Runner.Command == "" {
		config.Runner.Command = "bq"
	}
}

func validate(config *Config) error {
	if config.Version == "" {
		return fmt.Errorf("missing required field: version")
	}
	if config.Project == "" {
		return fmt.Errorf("missing required field: project")
	}
	if config.Glob == "" {
		return fmt.Errorf("missing required field: glob")
	}
	if !doublestar.ValidatePattern(config.Glob) {
		return fmt.Errorf("invalid glob pattern: %s", config.Glob)
	}

	validDialects := []string{"standard", "legacy"}
	valid := false
	for _, dialect := range validDialects {
		if config.Dialect == dialect {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid dialect '%s', must be one of: %v", config.Dialect, validDialects)
	}

	// Compile the filters with the same environment the run will use, so
	// load-time validation and run-time compilation cannot disagree.
	if len(config.Filters) > 0 {
		if _, err := deploy.NewFilterSet(config.Filters); err != nil {
			return fmt.Errorf("invalid filters: %w", err)
		}
	}

	return nil
}
