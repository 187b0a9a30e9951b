// Package config reads the optional YAML configuration of the jsv command.
package config

import (
	"errors"
	"io/fs"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	jsvfs "github.com/andyballingall/json-schema-validator/internal/fs"
)

const (
	// FileName is looked up in the working directory when neither --config nor
	// EnvVar names a file.
	FileName = ".jsv.yml"
	EnvVar   = "JSV_CONFIG"
)

const DefaultConfigContent = `# jsv configuration

# Dialect used when a schema has no $schema and --version is not given.
# One of: draft1, draft2, draft3, draft4, draft6 (or a metaschema URI).
defaultVersion: "draft4"

# JSON backend: json (encoding/json) or jsonv2 (jsontext).
jsonBackend: "json"

# Require every declared property and reject undeclared ones.
strict: false

# Check schemas against their metaschema before validating data.
validateSchema: false

remote:
  # Allow schemas and data to be fetched over http, https and ftp.
  enabled: true
  timeout: "30s"
`

// Remote controls network access.
type Remote struct {
	Enabled *bool  `yaml:"enabled"`
	Timeout string `yaml:"timeout"`

	timeout time.Duration
}

type Config struct {
	DefaultVersion string `yaml:"defaultVersion"`
	JSONBackend    string `yaml:"jsonBackend"`
	Strict         bool   `yaml:"strict"`
	ValidateSchema bool   `yaml:"validateSchema"`
	Remote         Remote `yaml:"remote"`

	// Path is the file the configuration came from, empty for defaults.
	Path string `yaml:"-"`
}

// Supported lists the values the running validator accepts.
type Supported struct {
	Versions []string
	Backends []string
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{}
}

// Path picks the configuration file: the explicit flag, then EnvVar, then
// FileName in the working directory.
func Path(flag string, env jsvfs.EnvProvider) (path string, explicit bool) {
	if flag != "" {
		return flag, true
	}
	if p := env.Get(EnvVar); p != "" {
		return p, true
	}
	return FileName, false
}

// Load reads and validates the file at path. A missing file yields the
// defaults unless the path was given explicitly.
func Load(path string, explicit bool, s Supported) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if explicit {
			return nil, &MissingConfigError{Path: path}
		}
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}
	cfg.Path = path

	if vErr := cfg.Validate(s); vErr != nil {
		return nil, vErr
	}
	return &cfg, nil
}

func (c *Config) Validate(s Supported) error {
	if c.DefaultVersion != "" && !slices.Contains(s.Versions, c.DefaultVersion) {
		return &InvalidVersionError{Value: c.DefaultVersion, Supported: s.Versions}
	}
	if c.JSONBackend != "" && !slices.Contains(s.Backends, c.JSONBackend) {
		return &InvalidBackendError{Value: c.JSONBackend, Supported: s.Backends}
	}
	if c.Remote.Timeout != "" {
		d, err := time.ParseDuration(c.Remote.Timeout)
		if err != nil || d <= 0 {
			return &InvalidTimeoutError{Value: c.Remote.Timeout, Wrapped: err}
		}
		c.Remote.timeout = d
	}
	return nil
}

// RemoteEnabled reports whether network fetches are allowed. It defaults to
// true.
func (c *Config) RemoteEnabled() bool {
	return c.Remote.Enabled == nil || *c.Remote.Enabled
}

// Timeout returns the configured remote timeout, or zero when unset.
func (c *Config) Timeout() time.Duration {
	return c.Remote.timeout
}
