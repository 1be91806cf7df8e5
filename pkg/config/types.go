package config

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Export represents the full config for one catalog export
type Export struct {
	Name           string      `yaml:"name"`                      // Output file name without extension
	BaseURL        string      `yaml:"base_url"`                  // API base URL
	Endpoint       string      `yaml:"endpoint"`                  // Content export path
	HitFields      []string    `yaml:"hit_fields,omitempty"`      // Empty means all fields
	RequestedTypes []string    `yaml:"requested_types,omitempty"` // Empty means all types except "query"
	Pagination     Pagination  `yaml:"pagination"`
	Output         Output      `yaml:"output"`
	Timeout        Duration    `yaml:"timeout,omitempty"`
	Credentials    Credentials `yaml:"credentials"`
	Log            Log         `yaml:"log"`
	MetricsFile    string      `yaml:"metrics_file,omitempty"` // Optional Prometheus textfile
}

// Pagination selects how the next page is requested
type Pagination struct {
	Type     PaginationType `yaml:"type"`
	PageSize int            `yaml:"page_size"` // 1..MaxPageSize
}

// PaginationType defines supported pagination types
type PaginationType string

const (
	PaginationTypePage PaginationType = "page"
	PaginationTypeLink PaginationType = "link"
)

// MaxPageSize is the largest page the content export endpoint serves.
const MaxPageSize = 500

// Output defines where the CSV file is written
type Output struct {
	Dir string `yaml:"dir"`
}

// Credentials names the environment variables holding the keys.
// The keys themselves never live in the config file.
type Credentials struct {
	TrackerIDEnv string `yaml:"tracker_id_env"`
	APIKeyEnv    string `yaml:"api_key_env"`
}

// Log configures the zerolog output
type Log struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Duration wraps time.Duration so it can be written as "30s" in YAML
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a Go duration string
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}
