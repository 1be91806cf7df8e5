package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/saturnines/catalog-export/pkg/errors"
)

// Defaults used when the config file leaves a field empty.
const (
	DefaultName         = "luigisbox_catalog_export"
	DefaultBaseURL      = "https://live.luigisbox.com"
	DefaultEndpoint     = "/v1/content_export"
	DefaultOutputDir    = "catalog"
	DefaultTimeout      = 30 * time.Second
	DefaultTrackerIDEnv = "TRACKER_ID"
	DefaultAPIKeyEnv    = "API_KEY"
)

type ValidationError struct {
	Field   string
	Message string
}

type Validator interface {
	Validate(config *Export) []ValidationError
}

// Returns the string representation of validation error
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DefaultValueSetter Handles the interface for setting default values
type DefaultValueSetter interface {
	SetDefaults(config *Export)
}

// VariableExpander defines the interface for expanding variables
type VariableExpander interface {
	Expand(data []byte) []byte
}

// EnvExpander implements VariableExpander using environment variables
type EnvExpander struct{}

// Expand expands environment variables with the given data
func (e *EnvExpander) Expand(data []byte) []byte {
	expanded := os.Expand(string(data), os.Getenv)
	return []byte(expanded)
}

// ExportLoader loads Export configurations
type ExportLoader struct {
	expander      VariableExpander
	validators    []Validator
	defaultSetter DefaultValueSetter
}

// NewExportLoader creates a new ExportLoader with the given components
func NewExportLoader(
	expander VariableExpander,
	defaultSetter DefaultValueSetter,
	validators ...Validator,
) *ExportLoader {
	return &ExportLoader{
		expander:      expander,
		validators:    validators,
		defaultSetter: defaultSetter,
	}
}

// NewDefaultLoader wires the expander, defaults and every validator.
func NewDefaultLoader() *ExportLoader {
	return NewExportLoader(
		&EnvExpander{},
		&ExportDefaults{},
		&RequiredFieldValidator{},
		&PaginationValidator{},
		&OutputValidator{},
	)
}

// Load an export config from a YAML file
func (l *ExportLoader) Load(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrConfiguration, "read config file")
	}

	return l.Parse(data)
}

// Parse parses a yaml config. Empty input yields the defaults.
func (l *ExportLoader) Parse(data []byte) (*Export, error) {
	if l.expander != nil {
		data = l.expander.Expand(data)
	}

	var export Export
	if err := yaml.Unmarshal(data, &export); err != nil {
		return nil, errors.WrapError(err, errors.ErrConfiguration, "parse YAML")
	}

	if l.defaultSetter != nil {
		l.defaultSetter.SetDefaults(&export)
	}

	var allErrors []ValidationError
	for _, validator := range l.validators {
		allErrors = append(allErrors, validator.Validate(&export)...)
	}

	if len(allErrors) > 0 {
		return nil, errors.WrapError(
			fmt.Errorf("%w: %v", errors.ErrValidation, allErrors),
			errors.ErrConfiguration,
			"validate config",
		)
	}

	return &export, nil
}

// ExportDefaults implements DefaultValueSetter for Export
type ExportDefaults struct{}

// SetDefaults fills every unset field
func (d *ExportDefaults) SetDefaults(export *Export) {
	if export.Name == "" {
		export.Name = DefaultName
	}
	if export.BaseURL == "" {
		export.BaseURL = DefaultBaseURL
	}
	export.BaseURL = strings.TrimRight(export.BaseURL, "/")
	if export.Endpoint == "" {
		export.Endpoint = DefaultEndpoint
	}
	if export.Pagination.Type == "" {
		export.Pagination.Type = PaginationTypePage
	}
	if export.Pagination.PageSize == 0 {
		export.Pagination.PageSize = MaxPageSize
	}
	if export.Output.Dir == "" {
		export.Output.Dir = DefaultOutputDir
	}
	if export.Timeout.Duration == 0 {
		export.Timeout.Duration = DefaultTimeout
	}
	if export.Credentials.TrackerIDEnv == "" {
		export.Credentials.TrackerIDEnv = DefaultTrackerIDEnv
	}
	if export.Credentials.APIKeyEnv == "" {
		export.Credentials.APIKeyEnv = DefaultAPIKeyEnv
	}
	if export.Log.Level == "" {
		export.Log.Level = "info"
	}
}

// OutputPath is <output dir>/<name>.csv
func (e *Export) OutputPath() string {
	return filepath.Join(e.Output.Dir, e.Name+".csv")
}

// RequiredFieldValidator validates required fields
type RequiredFieldValidator struct{}

// Validate checks that all required fields are present
func (v *RequiredFieldValidator) Validate(export *Export) []ValidationError {
	var errs []ValidationError

	if export.Name == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "is required"})
	}
	if strings.ContainsAny(export.Name, `/\`) {
		errs = append(errs, ValidationError{Field: "name", Message: "must not contain path separators"})
	}
	if !strings.HasPrefix(export.BaseURL, "http://") && !strings.HasPrefix(export.BaseURL, "https://") {
		errs = append(errs, ValidationError{Field: "base_url", Message: "must be an http(s) URL"})
	}
	if !strings.HasPrefix(export.Endpoint, "/") {
		errs = append(errs, ValidationError{Field: "endpoint", Message: "must start with /"})
	}
	if export.Timeout.Duration < 0 {
		errs = append(errs, ValidationError{Field: "timeout", Message: "must not be negative"})
	}

	return errs
}

// PaginationValidator validates pagination configuration
type PaginationValidator struct{}

// Validate checks that pagination configuration is valid
func (v *PaginationValidator) Validate(export *Export) []ValidationError {
	var errs []ValidationError

	switch export.Pagination.Type {
	case PaginationTypePage, PaginationTypeLink:
	default:
		errs = append(errs, ValidationError{
			Field:   "pagination.type",
			Message: fmt.Sprintf("unknown pagination type: %s", export.Pagination.Type),
		})
	}

	if export.Pagination.PageSize < 1 || export.Pagination.PageSize > MaxPageSize {
		errs = append(errs, ValidationError{
			Field:   "pagination.page_size",
			Message: fmt.Sprintf("must be between 1 and %d", MaxPageSize),
		})
	}

	return errs
}

// OutputValidator validates where the export goes
type OutputValidator struct{}

// Validate checks the output settings
func (v *OutputValidator) Validate(export *Export) []ValidationError {
	var errs []ValidationError

	if export.Output.Dir == "" {
		errs = append(errs, ValidationError{Field: "output.dir", Message: "is required"})
	}
	if export.Credentials.TrackerIDEnv == export.Credentials.APIKeyEnv {
		errs = append(errs, ValidationError{
			Field:   "credentials",
			Message: "tracker_id_env and api_key_env must name different variables",
		})
	}

	return errs
}
