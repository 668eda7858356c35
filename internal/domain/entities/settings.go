package entities

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRoot        = "."
	DefaultRegistry    = "pub.dev"
	DefaultRegistryURL = "https://pub.dev"
	DefaultTimeout     = time.Duration(0)
	DefaultUserAgent   = "pubcheck"
)

// ErrConfigNotFound is returned when no settings file exists in the default locations.
var ErrConfigNotFound = errors.New("config file not found in default locations")

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Settings holds the runtime configuration of a check run.
type Settings struct {
	Root        string        // Directory scanned for pubspec.yaml files
	Registry    string        // Registry implementation used for lookups
	RegistryURL string        // Base URL of the package registry
	Timeout     time.Duration // Per-request timeout, zero disables it
	Concurrency int           // Maximum in-flight lookups, zero is unlimited
	UserAgent   string        // User-Agent header sent to the registry
}

// settingsFile mirrors the YAML layout of a settings file.
type settingsFile struct {
	Root        string `yaml:"root"`
	Registry    string `yaml:"registry"`
	RegistryURL string `yaml:"registry_url"`
	Timeout     string `yaml:"timeout"`
	Concurrency int    `yaml:"concurrency"`
	UserAgent   string `yaml:"user_agent"`
}

// DefaultSettings returns the settings used when no config file is present.
func DefaultSettings() *Settings {
	return &Settings{
		Root:        DefaultRoot,
		Registry:    DefaultRegistry,
		RegistryURL: DefaultRegistryURL,
		Timeout:     DefaultTimeout,
		Concurrency: 0,
		UserAgent:   DefaultUserAgent,
	}
}

// NewSettings reads and parses a settings file, filling unset values with
// defaults and expanding environment variables.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var raw settingsFile
	if unmarshalErr := yaml.Unmarshal(data, &raw); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings := DefaultSettings()
	if raw.Root != "" {
		settings.Root = raw.Root
	}
	if raw.Registry != "" {
		settings.Registry = raw.Registry
	}
	if raw.RegistryURL != "" {
		settings.RegistryURL = expandEnv(raw.RegistryURL)
	}
	if raw.UserAgent != "" {
		settings.UserAgent = expandEnv(raw.UserAgent)
	}
	if raw.Timeout != "" {
		timeout, parseErr := time.ParseDuration(raw.Timeout)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", raw.Timeout, parseErr)
		}
		settings.Timeout = timeout
	}
	settings.Concurrency = raw.Concurrency

	if validateErr := settings.Validate(); validateErr != nil {
		return nil, validateErr
	}

	return settings, nil
}

// LoadSettings loads the settings file at path; an empty path falls back to
// FindConfigFile and then to DefaultSettings when nothing is found.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		found, err := FindConfigFile()
		if errors.Is(err, ErrConfigNotFound) {
			logger.Debug("No config file found, using defaults")
			return DefaultSettings(), nil
		}
		path = found
	}

	logger.Debugf("Using config file: %s", path)
	return NewSettings(path)
}

// FindConfigFile searches for a settings file in standard locations.
// Returns the path to the first file found or ErrConfigNotFound.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".pubcheck.yaml",
		".pubcheck.yml",
		"pubcheck.yaml",
		"pubcheck.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", ErrConfigNotFound
}

// Validate checks the settings for values the run cannot work with.
func (s *Settings) Validate() error {
	if s.Root == "" {
		return errors.New("root is required")
	}
	if s.Registry == "" {
		return errors.New("registry is required")
	}

	parsed, err := url.Parse(s.RegistryURL)
	if err != nil {
		return fmt.Errorf("invalid registry_url %q: %w", s.RegistryURL, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("registry_url %q must be an absolute http(s) URL", s.RegistryURL)
	}

	if s.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", s.Timeout)
	}
	if s.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", s.Concurrency)
	}

	return nil
}

// expandEnv replaces ${ENV_VAR} references with their values.
func expandEnv(raw string) string {
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}
