package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/SoloveyLS/xml-prompt-manager/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the xpm config file",
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runConfigInit(cmd.OutOrStdout(), configPath(), configInitForce)
	},
}

func runConfigInit(out io.Writer, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if err := config.WriteDefaultConfig(path); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, "Wrote", path)
	return nil
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), configPath())
	},
}

var (
	llmProvider string
	llmModel    string
	llmBaseURL  string
	llmAPIKey   string
)

var configLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Set the LLM provider used for critiques",
	Long: `Update the llm section of the config file, keeping comments and other
settings. The API key is only written with --api-key; otherwise set
XPM_LLM_API_KEY in the environment.

Examples:
  xpm config llm --provider anthropic --model claude-sonnet-4-20250514
  xpm config llm --provider ollama --model llama3.1 --base-url http://gpu-box:11434`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		llm := cfg.LLM
		if cmd.Flags().Changed("provider") {
			llm.Provider = llmProvider
		}
		if cmd.Flags().Changed("model") {
			llm.Model = llmModel
		}
		if cmd.Flags().Changed("base-url") {
			llm.BaseURL = llmBaseURL
		}
		llm.PreserveAPIKey = cmd.Flags().Changed("api-key")
		if llm.PreserveAPIKey {
			llm.APIKey = llmAPIKey
		}
		return runConfigLLM(cmd.OutOrStdout(), configPath(), llm)
	},
}

func runConfigLLM(out io.Writer, path string, llm config.LLMConfig) error {
	if err := config.ValidateLLM(llm); err != nil {
		return err
	}
	if err := config.SaveLLM(path, llm); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "LLM set to %s (%s) in %s\n", llm.Provider, llm.ModelOrDefault(), path)
	return nil
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
	configLLMCmd.Flags().StringVar(&llmProvider, "provider", "", "openai, anthropic, google or ollama")
	configLLMCmd.Flags().StringVar(&llmModel, "model", "", "model name (empty uses the provider default)")
	configLLMCmd.Flags().StringVar(&llmBaseURL, "base-url", "", "API root (empty uses the provider default)")
	configLLMCmd.Flags().StringVar(&llmAPIKey, "api-key", "", "store this API key in the config file")
	configCmd.AddCommand(configInitCmd, configPathCmd, configLLMCmd)
	rootCmd.AddCommand(configCmd)
}
