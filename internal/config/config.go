package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the solrmapper service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Solr     SolrConfig     `yaml:"solr"`
	Index    IndexConfig    `yaml:"index"`
	Search   SearchConfig   `yaml:"search"`
	Mappings MappingsConfig `yaml:"mappings"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SolrConfig holds engine connection settings.
type SolrConfig struct {
	BaseURL          string `yaml:"base_url"`
	Core             string `yaml:"core"`
	Username         string `yaml:"username"`
	Password         string `yaml:"password"`
	TimeoutSec       int    `yaml:"timeout_sec"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
}

// IndexConfig holds document building and batching settings.
type IndexConfig struct {
	BatchSize     int `yaml:"batch_size"`
	RetryDelaySec int `yaml:"retry_delay_sec"`
	// ServerScope and Scope prefix document ids when several
	// installations or logical indexes share one core.
	ServerScope string `yaml:"server_scope"`
	Scope       string `yaml:"scope"`
	// Support names an optional profile of extra required fields.
	Support       string   `yaml:"support"`
	ExtraRequired []string `yaml:"extra_required_fields"`
}

// SearchConfig holds query compilation settings.
type SearchConfig struct {
	DefaultRows int   `yaml:"default_rows"`
	MaxRows     int   `yaml:"max_rows"`
	MaxClauses  int   `yaml:"max_clauses"`
	PublicOnly  bool  `yaml:"public_only"`
	SiteID      int64 `yaml:"site_id"`
	// TextFields are the physical fields free text expands across.
	TextFields []string `yaml:"text_fields"`
	// Boosts are default per-field relevance weights.
	Boosts map[string]float64 `yaml:"boosts"`
}

// MappingsConfig holds the field map declarations, generic plus
// per-kind overlays.
type MappingsConfig struct {
	Generic []FieldMapConfig            `yaml:"generic"`
	ByKind  map[string][]FieldMapConfig `yaml:"by_kind"`
}

// FieldMapConfig declares one field map.
type FieldMapConfig struct {
	Field string         `yaml:"field"`
	Path  string         `yaml:"path"`
	Pool  PoolConfig     `yaml:"pool"`
	Set   SettingsConfig `yaml:"settings"`
}

// PoolConfig holds value pool filters.
type PoolConfig struct {
	Visibility           string   `yaml:"visibility"` // "", public, private
	DataTypes            []string `yaml:"data_types"`
	DataTypesExclude     []string `yaml:"data_types_exclude"`
	ValuePattern         string   `yaml:"value_pattern"`
	URIPattern           string   `yaml:"uri_pattern"`
	ResourcesQuery       string   `yaml:"resources_query"`
	LinkedResourcesQuery string   `yaml:"linked_resources_query"`
}

// SettingsConfig holds value formatting settings.
type SettingsConfig struct {
	Formatter      string            `yaml:"formatter"`
	Normalizations []string          `yaml:"normalizations"`
	MaxLength      int               `yaml:"max_length"`
	Table          map[string]string `yaml:"table"`
	Languages      []string          `yaml:"languages"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Solr.Core == "" {
		c.Solr.Core = "solrmapper"
	}
	if c.Solr.TimeoutSec <= 0 {
		c.Solr.TimeoutSec = 30
	}
	if c.Solr.ReadinessTimeout <= 0 {
		c.Solr.ReadinessTimeout = 30
	}
	if c.Index.BatchSize <= 0 {
		c.Index.BatchSize = 50
	}
	if c.Index.RetryDelaySec <= 0 {
		c.Index.RetryDelaySec = 2
	}
	if c.Search.DefaultRows <= 0 {
		c.Search.DefaultRows = 20
	}
	if c.Search.MaxRows <= 0 {
		c.Search.MaxRows = 1000
	}
	if c.Search.MaxClauses <= 0 {
		c.Search.MaxClauses = 1024
	}
	if len(c.Search.TextFields) == 0 {
		c.Search.TextFields = []string{"full_text_txt", "title_txt", "description_txt"}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Solr.BaseURL == "" {
		return fmt.Errorf("solr.base_url is required")
	}
	switch c.Index.Support {
	case "", "shared", "dedicated":
		// ok
	default:
		return fmt.Errorf("index.support must be \"shared\" or \"dedicated\", got %q", c.Index.Support)
	}
	if c.Index.Support == "shared" && c.Index.Scope == "" {
		return fmt.Errorf("index.scope is required when index.support is \"shared\"")
	}
	for i, m := range c.Mappings.Generic {
		if m.Field == "" {
			return fmt.Errorf("mappings.generic[%d].field is required", i)
		}
	}
	for kind, maps := range c.Mappings.ByKind {
		for i, m := range maps {
			if m.Field == "" {
				return fmt.Errorf("mappings.by_kind.%s[%d].field is required", kind, i)
			}
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
