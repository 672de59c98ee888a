package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	mdwerror "github.com/msto63/transync/foundation/core/error"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"milliseconds", "250ms", 250 * time.Millisecond, false},
		{"seconds", "2s", 2 * time.Second, false},
		{"complex", "1m30s", 90 * time.Second, false},
		{"invalid", "soon", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	d := Duration{500 * time.Millisecond}
	result, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(result) != "500ms" {
		t.Errorf("MarshalText() = %v, want 500ms", string(result))
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.General.Name != "transync" {
		t.Errorf("General.Name = %v, want transync", cfg.General.Name)
	}
	if cfg.General.LogLevel != "info" {
		t.Errorf("General.LogLevel = %v, want info", cfg.General.LogLevel)
	}
	if cfg.Translations.File != "translations.xml" {
		t.Errorf("Translations.File = %v, want translations.xml", cfg.Translations.File)
	}
	if len(cfg.Scan.Roots) != 1 || cfg.Scan.Roots[0] != "." {
		t.Errorf("Scan.Roots = %v, want [.]", cfg.Scan.Roots)
	}
	if len(cfg.Scan.Include) == 0 || len(cfg.Scan.Exclude) == 0 {
		t.Error("Scan include/exclude defaults should be set")
	}
	if cfg.Report.Format != "text" {
		t.Errorf("Report.Format = %v, want text", cfg.Report.Format)
	}
	if cfg.History.Path != filepath.Join("./.transync", "history.db") {
		t.Errorf("History.Path = %v", cfg.History.Path)
	}
	if cfg.History.KeepRuns != 100 {
		t.Errorf("History.KeepRuns = %v, want 100", cfg.History.KeepRuns)
	}
	if cfg.Watch.Debounce.Duration != 500*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want 500ms", cfg.Watch.Debounce.Duration)
	}
	if cfg.Sync.KeepFoundingComments || cfg.Sync.OmitLineOrdinal || cfg.Sync.SkipDeprecation {
		t.Error("Sync zero value should run the full pipeline")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/transync.toml")
	if !mdwerror.HasCode(err, mdwerror.CodeMissingConfig) {
		t.Errorf("Load() error = %v, want %s", err, mdwerror.CodeMissingConfig)
	}
}

func TestLoad_TOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "transync.toml")

	configContent := `
[general]
log_level = "debug"

[translations]
file = "i18n/app.xml"
languages = ["de", "fr"]

[scan]
roots = ["src"]
functions = ["T"]

[sync]
omit_line_ordinal = true

[watch]
debounce = "2s"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Source != configPath {
		t.Errorf("Source = %v, want %v", cfg.Source, configPath)
	}
	if cfg.General.LogLevel != "debug" {
		t.Errorf("General.LogLevel = %v, want debug", cfg.General.LogLevel)
	}
	if cfg.Translations.File != "i18n/app.xml" {
		t.Errorf("Translations.File = %v, want i18n/app.xml", cfg.Translations.File)
	}
	if len(cfg.Translations.Languages) != 2 || cfg.Translations.Languages[1] != "fr" {
		t.Errorf("Translations.Languages = %v, want [de fr]", cfg.Translations.Languages)
	}
	if cfg.Scan.Roots[0] != "src" || cfg.Scan.Functions[0] != "T" {
		t.Errorf("Scan = %+v", cfg.Scan)
	}
	if !cfg.Sync.OmitLineOrdinal {
		t.Error("Sync.OmitLineOrdinal = false, want true")
	}
	if cfg.Watch.Debounce.Duration != 2*time.Second {
		t.Errorf("Watch.Debounce = %v, want 2s", cfg.Watch.Debounce.Duration)
	}
	// defaults for missing values
	if cfg.Report.Format != "text" {
		t.Errorf("Report.Format = %v, want text (default)", cfg.Report.Format)
	}
}

func TestLoad_YAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".transync.yaml")

	configContent := `
translations:
  file: locale.xml
  languages: [de-AT]
report:
  format: json
history:
  disabled: true
watch:
  debounce: 150ms
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Translations.File != "locale.xml" {
		t.Errorf("Translations.File = %v, want locale.xml", cfg.Translations.File)
	}
	if cfg.Report.Format != "json" {
		t.Errorf("Report.Format = %v, want json", cfg.Report.Format)
	}
	if !cfg.History.Disabled {
		t.Error("History.Disabled = false, want true")
	}
	if cfg.Watch.Debounce.Duration != 150*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want 150ms", cfg.Watch.Debounce.Duration)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"broken toml", "bad.toml", "[general\nname ="},
		{"broken yaml", "bad.yaml", "general: [unclosed"},
		{"unknown report format", "fmt.toml", "[report]\nformat = \"html\""},
		{"empty language", "lang.toml", "[translations]\nlanguages = [\"de\", \" \"]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
				t.Errorf("Load() error = %v, want %s", err, mdwerror.CodeInvalidConfig)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TRANSYNC_FILE", "override.xml")
	t.Setenv("TRANSYNC_LANGUAGES", "de, fr ,,it")
	t.Setenv("TRANSYNC_WATCH_DEBOUNCE", "1s")
	t.Setenv("TRANSYNC_REPORT_FORMAT", "yaml")

	path := filepath.Join(t.TempDir(), "transync.toml")
	if err := os.WriteFile(path, []byte("[translations]\nfile = \"file.xml\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Translations.File != "override.xml" {
		t.Errorf("Translations.File = %v, want override.xml", cfg.Translations.File)
	}
	want := []string{"de", "fr", "it"}
	if len(cfg.Translations.Languages) != len(want) {
		t.Fatalf("Translations.Languages = %v, want %v", cfg.Translations.Languages, want)
	}
	for i := range want {
		if cfg.Translations.Languages[i] != want[i] {
			t.Errorf("Languages[%d] = %v, want %v", i, cfg.Translations.Languages[i], want[i])
		}
	}
	if cfg.Watch.Debounce.Duration != time.Second {
		t.Errorf("Watch.Debounce = %v, want 1s", cfg.Watch.Debounce.Duration)
	}
	if cfg.Report.Format != "yaml" {
		t.Errorf("Report.Format = %v, want yaml", cfg.Report.Format)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TRANSYNC_TEST_ROOT", "/srv/app")

	path := filepath.Join(t.TempDir(), "transync.toml")
	content := "[translations]\nfile = \"$TRANSYNC_TEST_ROOT/i18n.xml\"\n[scan]\nroots = [\"${TRANSYNC_TEST_ROOT}/src\"]\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Translations.File != "/srv/app/i18n.xml" {
		t.Errorf("Translations.File = %v, want /srv/app/i18n.xml", cfg.Translations.File)
	}
	if cfg.Scan.Roots[0] != "/srv/app/src" {
		t.Errorf("Scan.Roots[0] = %v, want /srv/app/src", cfg.Scan.Roots[0])
	}
}

func TestLoadFromEnv_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("TRANSYNC_CONFIG", "")
	t.Setenv("HOME", t.TempDir())

	originalWd, _ := os.Getwd()
	tmpDir := t.TempDir()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(originalWd)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %v, want empty", cfg.Source)
	}
	if cfg.Translations.File != "translations.xml" {
		t.Errorf("Translations.File = %v, want default", cfg.Translations.File)
	}
}

func TestLoadFromEnv_DotEnvAndSearchPath(t *testing.T) {
	t.Setenv("TRANSYNC_CONFIG", "")
	t.Setenv("HOME", t.TempDir())
	// Registered so t.Setenv restores it after .env sets it.
	t.Setenv("TRANSYNC_LOG_LEVEL", "")
	os.Unsetenv("TRANSYNC_LOG_LEVEL")

	originalWd, _ := os.Getwd()
	tmpDir := t.TempDir()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(originalWd)

	if err := os.WriteFile(".env", []byte("TRANSYNC_LOG_LEVEL=warn\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("transync.toml", []byte("[translations]\nfile = \"found.xml\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Translations.File != "found.xml" {
		t.Errorf("Translations.File = %v, want found.xml", cfg.Translations.File)
	}
	if cfg.General.LogLevel != "warn" {
		t.Errorf("General.LogLevel = %v, want warn from .env", cfg.General.LogLevel)
	}
}
