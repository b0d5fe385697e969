package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gyeh/vaxup/internal/acuity"
	"github.com/gyeh/vaxup/internal/validate"
)

// ErrConfig marks configuration problems. They abort a run before any record
// is processed.
var ErrConfig = errors.New("configuration error")

// RunDateLayout is the accepted format of the date argument.
const RunDateLayout = "2006-01-02"

// Environment variable names.
const (
	EnvAcuityUserID = "ACUITY_USER_ID"
	EnvAcuityAPIKey = "ACUITY_API_KEY"
	EnvEnrollerURL  = "VAXUP_ENROLLER_URL"
	EnvUsername     = "VAXUP_USERNAME"
	EnvPassword     = "VAXUP_PASSWORD"
	EnvJournalDSN   = "VAXUP_JOURNAL_DSN"
)

// Config holds all runtime configuration for a vaxup run.
type Config struct {
	ConfigPath string
	LogFormat  string // "text" or "json"
	LogLevel   string

	AcuityUserID  string
	AcuityAPIKey  string
	AcuityBaseURL string

	EnrollerURL string
	Username    string
	Password    string

	JournalDSN string

	AllowedStates   []string
	MinAgeYears     int
	HealthInsurance validate.InsurancePolicy
	FormID          int64
	FieldIDs        map[int64]string
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	AllowedStates   []string         `yaml:"allowed_states"`
	MinAgeYears     *int             `yaml:"min_age_years"`
	HealthInsurance string           `yaml:"health_insurance"`
	FormID          int64            `yaml:"form_id"`
	FieldIDs        map[int64]string `yaml:"field_ids"`
}

// Default returns a Config with the default validation rules.
func Default() Config {
	r := validate.DefaultRules()
	return Config{
		LogFormat:       "text",
		LogLevel:        "info",
		AllowedStates:   r.AllowedStates,
		MinAgeYears:     r.MinAgeYears,
		HealthInsurance: r.HealthInsurance,
	}
}

// LoadEnv fills unset credentials from the environment.
func (c *Config) LoadEnv() {
	set := func(dst *string, key string) {
		if *dst == "" {
			*dst = os.Getenv(key)
		}
	}
	set(&c.AcuityUserID, EnvAcuityUserID)
	set(&c.AcuityAPIKey, EnvAcuityAPIKey)
	set(&c.EnrollerURL, EnvEnrollerURL)
	set(&c.Username, EnvUsername)
	set(&c.Password, EnvPassword)
	set(&c.JournalDSN, EnvJournalDSN)
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Keys absent from the file keep their current values.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read config file: %v", ErrConfig, err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("%w: parse config file: %v", ErrConfig, err)
	}
	if len(yc.AllowedStates) > 0 {
		c.AllowedStates = make([]string, len(yc.AllowedStates))
		for i, s := range yc.AllowedStates {
			c.AllowedStates[i] = strings.ToUpper(strings.TrimSpace(s))
		}
	}
	if yc.MinAgeYears != nil {
		c.MinAgeYears = *yc.MinAgeYears
	}
	if yc.HealthInsurance != "" {
		c.HealthInsurance = validate.InsurancePolicy(yc.HealthInsurance)
	}
	if yc.FormID != 0 {
		c.FormID = yc.FormID
	}
	if len(yc.FieldIDs) > 0 {
		c.FieldIDs = yc.FieldIDs
	}
	if err := c.Rules().Check(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConfig, path, err)
	}
	return nil
}

// Rules returns the validation rules in effect.
func (c *Config) Rules() validate.Rules {
	return validate.Rules{
		AllowedStates:   c.AllowedStates,
		MinAgeYears:     c.MinAgeYears,
		HealthInsurance: c.HealthInsurance,
	}
}

// Schema returns the source field table with any file overrides applied.
func (c *Config) Schema() acuity.Schema {
	return acuity.DefaultSchema().WithOverrides(c.FormID, c.FieldIDs)
}

// ValidateSource checks the source API credentials.
func (c *Config) ValidateSource() error {
	if c.AcuityUserID == "" || c.AcuityAPIKey == "" {
		return fmt.Errorf("%w: %s and %s are required", ErrConfig, EnvAcuityUserID, EnvAcuityAPIKey)
	}
	return nil
}

// ValidateDestination checks the enrollment sidecar settings. Username and
// password may still be prompted for, so only their presence after
// prompting is checked here.
func (c *Config) ValidateDestination() error {
	if err := c.ValidateSource(); err != nil {
		return err
	}
	if c.EnrollerURL == "" {
		return fmt.Errorf("%w: --enroller-url or %s is required", ErrConfig, EnvEnrollerURL)
	}
	if c.Username == "" || c.Password == "" {
		return fmt.Errorf("%w: destination username and password are required", ErrConfig)
	}
	return nil
}

// NeedsCredentials reports whether the destination login must be prompted for.
func (c *Config) NeedsCredentials() bool {
	return c.Username == "" || c.Password == ""
}

// ParseRunDate validates a YYYY-MM-DD date argument and returns it unchanged.
func ParseRunDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(RunDateLayout, s); err != nil {
		return "", fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrConfig, s)
	}
	return s, nil
}
