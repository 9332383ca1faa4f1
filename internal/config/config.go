// Package config provides configuration types and defaults for xpm.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SoloveyLS/xml-prompt-manager/internal/log"
)

// Config holds all configuration options for xpm.
type Config struct {
	Editor  EditorConfig  `mapstructure:"editor"`
	Storage StorageConfig `mapstructure:"storage"`
	LLM     LLMConfig     `mapstructure:"llm"`
	UI      UIConfig      `mapstructure:"ui"`
	Tracing TracingConfig `mapstructure:"tracing"`

	// Flags turns on opt-in features by name. Unknown names are ignored.
	Flags map[string]bool `mapstructure:"flags"`
}

// EditorConfig holds editing behaviour.
type EditorConfig struct {
	// IndentWidth is the indentation stop. Only 4 is supported.
	IndentWidth int `mapstructure:"indent_width"`
	// SyncDebounce is the quiet period before a live tag rename runs.
	SyncDebounce time.Duration `mapstructure:"sync_debounce"`
	// AutoSave is how often the session buffer is persisted. Zero disables it.
	AutoSave time.Duration `mapstructure:"auto_save"`
}

// StorageConfig locates the template store.
type StorageConfig struct {
	// Path is the SQLite database file.
	// Default: ~/.config/xpm/xpm.db
	Path string `mapstructure:"path"`
}

// LLMConfig configures the prompt critique backend.
type LLMConfig struct {
	Provider string `mapstructure:"provider"` // openai (default), anthropic, google, ollama
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base_url"` // empty uses the provider default
	APIKey   string `mapstructure:"api_key"`  // or XPM_LLM_API_KEY

	// PreserveAPIKey controls whether the key is written back to the config
	// file when settings are saved from the editor.
	PreserveAPIKey bool `mapstructure:"preserve_api_key"`

	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar bool   `mapstructure:"show_status_bar"`
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
}

// TracingConfig holds tracing configuration for store and critique calls.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/xpm/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`
}

// Providers lists the supported critique backends.
var Providers = []string{"openai", "anthropic", "google", "ollama"}

// DefaultModels maps each provider to the model used when none is set.
var DefaultModels = map[string]string{
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-3-5-haiku-latest",
	"google":    "gemini-1.5-flash",
	"ollama":    "llama3.1",
}

// Dir returns ~/.config/xpm, or an empty string if the home directory is
// unavailable.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "xpm")
}

// DefaultStoragePath returns the default template database path.
func DefaultStoragePath() string {
	dir := Dir()
	if dir == "" {
		return "xpm.db"
	}
	return filepath.Join(dir, "xpm.db")
}

// DefaultTracesFilePath returns the default path for trace file export.
func DefaultTracesFilePath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Editor: EditorConfig{
			IndentWidth:  4,
			SyncDebounce: 50 * time.Millisecond,
			AutoSave:     30 * time.Second,
		},
		Storage: StorageConfig{
			Path: DefaultStoragePath(),
		},
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       DefaultModels["openai"],
			MaxTokens:   3000,
			Temperature: 0.3,
			Timeout:     60 * time.Second,
			CacheTTL:    10 * time.Minute,
		},
		UI: UIConfig{
			ShowStatusBar: true,
			MarkdownStyle: "dark",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     DefaultTracesFilePath(),
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := ValidateEditor(c.Editor); err != nil {
		return err
	}
	if err := ValidateLLM(c.LLM); err != nil {
		return err
	}
	if err := ValidateUI(c.UI); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateEditor checks editor configuration for errors.
func ValidateEditor(e EditorConfig) error {
	if e.IndentWidth != 0 && e.IndentWidth != 4 {
		return fmt.Errorf("editor.indent_width must be 4, got %d", e.IndentWidth)
	}
	if e.SyncDebounce < 0 {
		return fmt.Errorf("editor.sync_debounce must not be negative, got %s", e.SyncDebounce)
	}
	if e.AutoSave < 0 {
		return fmt.Errorf("editor.auto_save must not be negative, got %s", e.AutoSave)
	}
	return nil
}

// ValidateLLM checks critique backend configuration for errors.
// Missing keys are not an error here; the critique command reports them.
func ValidateLLM(l LLMConfig) error {
	if l.Provider != "" && DefaultModels[l.Provider] == "" {
		return fmt.Errorf("llm.provider must be \"openai\", \"anthropic\", \"google\", or \"ollama\", got %q", l.Provider)
	}
	if l.Temperature < 0 || l.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2, got %v", l.Temperature)
	}
	if l.MaxTokens < 0 {
		return fmt.Errorf("llm.max_tokens must not be negative, got %d", l.MaxTokens)
	}
	return nil
}

// ValidateUI checks UI configuration for errors.
func ValidateUI(u UIConfig) error {
	switch u.MarkdownStyle {
	case "", "dark", "light":
		return nil
	}
	return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", u.MarkdownStyle)
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// ModelOrDefault returns the configured model or the provider's default.
func (l LLMConfig) ModelOrDefault() string {
	if l.Model != "" {
		return l.Model
	}
	return DefaultModels[l.Provider]
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# xpm configuration

editor:
  indent_width: 4        # Tab / Shift+Tab stop (only 4 is supported)
  sync_debounce: 50ms    # Delay before a tag rename is copied to its partner
  auto_save: 30s         # Session auto-save interval, 0 disables

# storage:
#   path: ~/.config/xpm/xpm.db

# Prompt critique backend
llm:
  provider: openai       # openai, anthropic, google, or ollama
  # model: gpt-4o-mini
  # base_url: https://api.openai.com/v1
  # api_key: ""          # Prefer XPM_LLM_API_KEY
  preserve_api_key: false
  max_tokens: 3000
  temperature: 0.3
  timeout: 60s
  cache_ttl: 10m

ui:
  show_status_bar: true
  # markdown_style: dark # "dark" (default) or "light"

# tracing:
#   enabled: false
#   exporter: file       # none, file, stdout, otlp
#   file_path: ~/.config/xpm/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0

# Opt-in features
# flags:
#   prettify-on-save: false  # Prettify the buffer before Ctrl+S writes it
#   watch-file: false        # Reload an unmodified buffer when the file changes on disk
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
