package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SoloveyLS/xml-prompt-manager/internal/app"
	"github.com/SoloveyLS/xml-prompt-manager/internal/config"
	"github.com/SoloveyLS/xml-prompt-manager/internal/critique"
	"github.com/SoloveyLS/xml-prompt-manager/internal/flags"
	"github.com/SoloveyLS/xml-prompt-manager/internal/infrastructure/sqlite"
	"github.com/SoloveyLS/xml-prompt-manager/internal/log"
	"github.com/SoloveyLS/xml-prompt-manager/internal/paths"
	"github.com/SoloveyLS/xml-prompt-manager/internal/templates"
	"github.com/SoloveyLS/xml-prompt-manager/internal/tracing"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// localConfigPath is checked before the user config.
const localConfigPath = ".xpm/config.yaml"

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config

	closeLog func()
	tracer   *tracing.Provider
)

var rootCmd = &cobra.Command{
	Use:   "xpm [file]",
	Short: "A terminal editor for XML-structured LLM prompts",
	Long: `xpm edits prompts written as XML-like tags. Renaming an opening tag
renames its closing partner, typing <> creates a new pair, and Tab/Shift+Tab
indent by four spaces.

Without a file argument the editor opens the buffer saved from the last
session. Templates are kept in a local SQLite store.`,
	Version:           version,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runApp,
}

func init() {
	cobra.OnInitialize(initConfig)
	cobra.OnFinalize(teardown)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/xpm/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false,
		"write a debug log to ~/.config/xpm/debug.log")
	rootCmd.PersistentFlags().String("db", "",
		"template store (default: ~/.config/xpm/xpm.db)")

	_ = viper.BindPFlag("storage.path", rootCmd.PersistentFlags().Lookup("db"))
}

func setDefaults(d config.Config) {
	viper.SetDefault("debug", false)
	viper.SetDefault("editor.indent_width", d.Editor.IndentWidth)
	viper.SetDefault("editor.sync_debounce", d.Editor.SyncDebounce)
	viper.SetDefault("editor.auto_save", d.Editor.AutoSave)
	viper.SetDefault("storage.path", d.Storage.Path)
	viper.SetDefault("llm.provider", d.LLM.Provider)
	viper.SetDefault("llm.model", d.LLM.Model)
	viper.SetDefault("llm.base_url", d.LLM.BaseURL)
	viper.SetDefault("llm.api_key", d.LLM.APIKey)
	viper.SetDefault("llm.preserve_api_key", d.LLM.PreserveAPIKey)
	viper.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	viper.SetDefault("llm.temperature", d.LLM.Temperature)
	viper.SetDefault("llm.timeout", d.LLM.Timeout)
	viper.SetDefault("llm.cache_ttl", d.LLM.CacheTTL)
	viper.SetDefault("ui.show_status_bar", d.UI.ShowStatusBar)
	viper.SetDefault("ui.markdown_style", d.UI.MarkdownStyle)
	viper.SetDefault("tracing.enabled", d.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", d.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", d.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	viper.SetDefault("flags", map[string]bool{})
}

func initConfig() {
	setDefaults(config.Defaults())

	// XPM_LLM_API_KEY overrides llm.api_key, and so on.
	viper.SetEnvPrefix("XPM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .xpm/config.yaml (current directory)
		// 2. ~/.config/xpm/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			viper.AddConfigPath(config.Dir())
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create the user default.
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && config.Dir() != "" {
			defaultPath := filepath.Join(config.Dir(), "config.yaml")
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// configPath is where settings changes are written.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	if cfgFile != "" {
		return cfgFile
	}
	return filepath.Join(config.Dir(), "config.yaml")
}

func setup(_ *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if debug || viper.GetBool("debug") {
		path := filepath.Join(config.Dir(), "debug.log")
		closeFn, err := log.InitWithTeaLog(path, "xpm")
		if err != nil {
			return fmt.Errorf("initializing debug log: %w", err)
		}
		closeLog = closeFn
		log.SetMinLevel(log.LevelDebug)
		log.Info(log.CatConfig, "Starting", "version", version, "config", viper.ConfigFileUsed())
	}

	tp, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	tracer = tp
	return nil
}

func teardown() {
	if tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := tracer.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatConfig, "Tracing shutdown failed", err)
		}
		cancel()
		tracer = nil
	}
	if closeLog != nil {
		closeLog()
		closeLog = nil
	}
}

// store is an open template database.
type store struct {
	db  *sqlite.DB
	svc *templates.Service
}

func openStore() (*store, error) {
	path := paths.ResolveStore(cfg.Storage.Path)
	if path == "" {
		path = config.DefaultStoragePath()
	}
	db, err := sqlite.NewDB(path)
	if err != nil {
		return nil, fmt.Errorf("opening template store: %w", err)
	}
	return &store{db: db, svc: templates.NewService(db.TemplateRepository(), db.SessionRepository())}, nil
}

func (s *store) Close() {
	s.svc.Close()
	if err := s.db.Close(); err != nil {
		log.ErrorErr(log.CatDB, "Closing template store failed", err)
	}
}

// newCritic returns nil when the LLM section is incomplete; the editor
// then reports critique.ErrNotConfigured.
func newCritic() (*critique.Critic, error) {
	if !critique.Configured(cfg.LLM) {
		return nil, nil //nolint:nilnil // unconfigured is not an error here
	}
	return critique.New(cfg.LLM)
}

func runApp(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := st.svc.Seed(ctx); err != nil {
		log.Warn(log.CatDB, "Seeding templates failed", "error", err)
	}

	var path, content string
	if len(args) == 1 {
		path = args[0]
		data, err := os.ReadFile(path) //nolint:gosec // G304: the user names the file
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		content = string(data)
	}

	critic, err := newCritic()
	if err != nil {
		return fmt.Errorf("configuring critique: %w", err)
	}

	zone.NewGlobal()
	model := app.New(app.Config{
		Settings:  cfg,
		Templates: st.svc,
		Critic:    critic,
		Path:      path,
		Content:   content,
		Flags:     flags.New(cfg.Flags),
	})
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err = p.Run()

	// Stop listeners and pending syncs
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command. Ctrl+C cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
