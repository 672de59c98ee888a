package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/transync/foundation/core/error"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "TRANSYNC_"

// Config holds the complete application configuration
type Config struct {
	General      GeneralConfig      `toml:"general" yaml:"general"`
	Translations TranslationsConfig `toml:"translations" yaml:"translations"`
	Scan         ScanConfig         `toml:"scan" yaml:"scan"`
	Sync         SyncConfig         `toml:"sync" yaml:"sync"`
	Report       ReportConfig       `toml:"report" yaml:"report"`
	History      HistoryConfig      `toml:"history" yaml:"history"`
	Watch        WatchConfig        `toml:"watch" yaml:"watch"`

	// Source is the file the configuration was read from, empty for defaults
	Source string `toml:"-" yaml:"-"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name      string `toml:"name" yaml:"name"`
	DataDir   string `toml:"data_dir" yaml:"data_dir"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
	LogFile   string `toml:"log_file" yaml:"log_file"`
}

// TranslationsConfig describes the translation file
type TranslationsConfig struct {
	File      string   `toml:"file" yaml:"file"`
	Languages []string `toml:"languages" yaml:"languages"`
	// DeployOutput is where `deploy` writes the comment-free copy
	DeployOutput string `toml:"deploy_output" yaml:"deploy_output"`
}

// ScanConfig holds source scanner settings
type ScanConfig struct {
	Roots            []string `toml:"roots" yaml:"roots"`
	Include          []string `toml:"include" yaml:"include"`
	Exclude          []string `toml:"exclude" yaml:"exclude"`
	Functions        []string `toml:"functions" yaml:"functions"`
	ContextFunctions []string `toml:"context_functions" yaml:"context_functions"`
}

// SyncConfig holds synchronization switches. The zero value runs the full
// pipeline: founding comments are refreshed, ordinals are written and
// unmatched entries are marked deprecated.
type SyncConfig struct {
	KeepFoundingComments bool `toml:"keep_founding_comments" yaml:"keep_founding_comments"`
	OmitLineOrdinal      bool `toml:"omit_line_ordinal" yaml:"omit_line_ordinal"`
	SkipDeprecation      bool `toml:"skip_deprecation" yaml:"skip_deprecation"`
}

// ReportConfig holds report rendering settings
type ReportConfig struct {
	Format  string `toml:"format" yaml:"format"`
	NoColor bool   `toml:"no_color" yaml:"no_color"`
}

// HistoryConfig holds run history settings
type HistoryConfig struct {
	Disabled bool   `toml:"disabled" yaml:"disabled"`
	Path     string `toml:"path" yaml:"path"`
	KeepRuns int    `toml:"keep_runs" yaml:"keep_runs"`
}

// WatchConfig holds watch mode settings
type WatchConfig struct {
	Debounce Duration `toml:"debounce" yaml:"debounce"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// ReportFormats lists the accepted report formats
var ReportFormats = []string{"text", "json", "yaml"}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, mdwerror.New("config file not found").
			WithCode(mdwerror.CodeMissingConfig).
			WithDetail("path", path)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "read config").WithCode(mdwerror.CodeIO)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		_, err = toml.Decode(string(data), &cfg)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeInvalidConfig).
			WithDetail("path", path)
	}

	cfg.Source = path
	cfg.applyDefaults()
	cfg.expandEnvVars()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads .env, then the file named by TRANSYNC_CONFIG or the first
// default location that exists. Without any file the defaults are returned.
func LoadFromEnv() (*Config, error) {
	LoadDotEnv()

	path := os.Getenv(EnvPrefix + "CONFIG")
	if path == "" {
		for _, p := range DefaultPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		cfg := Default()
		cfg.applyEnvOverrides()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Load(path)
}

// DefaultPaths returns the config search order used by LoadFromEnv
func DefaultPaths() []string {
	return []string{
		"./transync.toml",
		"./.transync.yaml",
		filepath.Join(os.Getenv("HOME"), ".config/transync/config.toml"),
	}
}

// LoadDotEnv loads variables from the given files (default ".env") without
// overriding variables already set. Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		_ = godotenv.Load(f)
	}
}

// Validate checks values that defaults cannot repair
func (c *Config) Validate() error {
	if !contains(ReportFormats, c.Report.Format) {
		return mdwerror.Newf("unknown report format %q", c.Report.Format).
			WithCode(mdwerror.CodeInvalidConfig).
			WithDetail("allowed", strings.Join(ReportFormats, ","))
	}
	for _, lang := range c.Translations.Languages {
		if strings.TrimSpace(lang) == "" {
			return mdwerror.New("empty language in translations.languages").
				WithCode(mdwerror.CodeInvalidConfig)
		}
	}
	if c.Watch.Debounce.Duration < 0 {
		return mdwerror.New("watch.debounce must not be negative").
			WithCode(mdwerror.CodeInvalidConfig)
	}
	if c.History.KeepRuns < 0 {
		return mdwerror.New("history.keep_runs must not be negative").
			WithCode(mdwerror.CodeInvalidConfig)
	}
	return nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "transync"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./.transync"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "console"
	}

	// Translations
	if c.Translations.File == "" {
		c.Translations.File = "translations.xml"
	}
	if c.Translations.DeployOutput == "" {
		c.Translations.DeployOutput = "translations.deploy.xml"
	}

	// Scan
	if len(c.Scan.Roots) == 0 {
		c.Scan.Roots = []string{"."}
	}
	if len(c.Scan.Include) == 0 {
		c.Scan.Include = []string{"**.go", "**.{c,cc,cpp,h,hpp}", "**.{js,ts,py}"}
	}
	if len(c.Scan.Exclude) == 0 {
		c.Scan.Exclude = []string{
			"{.git,vendor,node_modules}/**",
			"**/{.git,vendor,node_modules}/**",
		}
	}

	// Report
	if c.Report.Format == "" {
		c.Report.Format = "text"
	}

	// History
	if c.History.Path == "" {
		c.History.Path = filepath.Join(c.General.DataDir, "history.db")
	}
	if c.History.KeepRuns == 0 {
		c.History.KeepRuns = 100
	}

	// Watch
	if c.Watch.Debounce.Duration == 0 {
		c.Watch.Debounce.Duration = 500 * time.Millisecond
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.General.LogFile = os.ExpandEnv(c.General.LogFile)
	c.Translations.File = os.ExpandEnv(c.Translations.File)
	c.Translations.DeployOutput = os.ExpandEnv(c.Translations.DeployOutput)
	c.History.Path = os.ExpandEnv(c.History.Path)
	for i, root := range c.Scan.Roots {
		c.Scan.Roots[i] = os.ExpandEnv(root)
	}
}

// applyEnvOverrides applies TRANSYNC_* variables over file values
func (c *Config) applyEnvOverrides() {
	overrides := map[string]*string{
		"LOG_LEVEL":     &c.General.LogLevel,
		"LOG_FORMAT":    &c.General.LogFormat,
		"LOG_FILE":      &c.General.LogFile,
		"DATA_DIR":      &c.General.DataDir,
		"FILE":          &c.Translations.File,
		"DEPLOY_OUTPUT": &c.Translations.DeployOutput,
		"REPORT_FORMAT": &c.Report.Format,
		"HISTORY_PATH":  &c.History.Path,
	}
	for name, target := range overrides {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
			*target = v
		}
	}

	if v := os.Getenv(EnvPrefix + "LANGUAGES"); v != "" {
		c.Translations.Languages = splitList(v)
	}
	if v := os.Getenv(EnvPrefix + "WATCH_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Watch.Debounce.Duration = d
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
