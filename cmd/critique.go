package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/SoloveyLS/xml-prompt-manager/internal/critique"
	"github.com/SoloveyLS/xml-prompt-manager/internal/ui/markdown"
)

// critiqueWidth is the wrap width for rendered replies.
const critiqueWidth = 80

var (
	critiqueFocus  string
	critiqueRender bool
)

var critiqueCmd = &cobra.Command{
	Use:   "critique questions|analysis FILE",
	Short: "Ask the configured LLM about a prompt",
	Long: `questions asks for clarifying questions that would improve the prompt.
analysis asks the model to explain how it understands the prompt.

--focus narrows either one to a specific concern. Replies are cached for
llm.cache_ttl. Configure llm.provider, llm.model and llm.api_key (or
XPM_LLM_API_KEY) first; ollama needs no key.

Examples:
  xpm critique questions prompt.xml
  xpm critique analysis --focus "output format" prompt.xml`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{string(critique.Questions), string(critique.Analysis)},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := critique.ParseKind(args[0])
		if err != nil {
			return err
		}
		prompt, err := readInput(cmd.InOrStdin(), args[1])
		if err != nil {
			return err
		}
		if !critique.Configured(cfg.LLM) {
			return critique.ErrNotConfigured
		}
		critic, err := critique.New(cfg.LLM)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), kind.Progress())
		return runCritique(cmd.Context(), cmd.OutOrStdout(), critic, critique.Request{Kind: kind, Prompt: prompt, Focus: critiqueFocus}, critiqueRender)
	},
}

func runCritique(ctx context.Context, out io.Writer, critic *critique.Critic, req critique.Request, render bool) error {
	res, err := critic.Run(ctx, req)
	if err != nil {
		return err
	}
	text := res.Text
	if render {
		r, err := markdown.New(critiqueWidth, cfg.UI.MarkdownStyle)
		if err != nil {
			return fmt.Errorf("creating markdown renderer: %w", err)
		}
		text = r.Render(text)
	}
	_, _ = fmt.Fprintln(out, text)
	return nil
}

func init() {
	critiqueCmd.Flags().StringVar(&critiqueFocus, "focus", "", "concern to focus on")
	critiqueCmd.Flags().BoolVarP(&critiqueRender, "render", "r", false, "render the markdown reply for the terminal")
	rootCmd.AddCommand(critiqueCmd)
}
