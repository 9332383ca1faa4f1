package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SoloveyLS/xml-prompt-manager/internal/presentation"
	"github.com/SoloveyLS/xml-prompt-manager/internal/templates"
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"templates", "t"},
	Short:   "Manage structure and field templates",
	Long: `Templates live in the local store. Structure templates are whole prompts
and must be well formed; field templates are snippets inserted at the caret
and must also have a single root element.

KIND is structure or field (plural forms are accepted).`,
}

var (
	templateKindFilter string
	templateListJSON   bool
)

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		kinds := templates.Kinds
		if templateKindFilter != "" {
			kind, err := templates.ParseKind(templateKindFilter)
			if err != nil {
				return err
			}
			kinds = []templates.Kind{kind}
		}
		return withStore(func(svc *templates.Service) error {
			return runTemplateList(cmd.Context(), cmd.OutOrStdout(), svc, kinds, templateListJSON)
		})
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show KIND NAME",
	Short: "Print a template",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := templates.ParseKind(args[0])
		if err != nil {
			return err
		}
		return withStore(func(svc *templates.Service) error {
			t, err := svc.Get(cmd.Context(), kind, args[1])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), t.Content)
			return nil
		})
	},
}

var templateSaveCmd = &cobra.Command{
	Use:   "save KIND NAME FILE",
	Short: "Validate a file and store it as a template",
	Long: `Validate FILE for KIND and store it under NAME, replacing any template
of the same kind and name. Use - to read stdin.

Examples:
  xpm template save structure "Code Review" review.xml
  echo '<step></step>' | xpm template save field Step -`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := templates.ParseKind(args[0])
		if err != nil {
			return err
		}
		content, err := readInput(cmd.InOrStdin(), args[2])
		if err != nil {
			return err
		}
		return withStore(func(svc *templates.Service) error {
			t, err := svc.Save(cmd.Context(), kind, args[1], content)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s template %q saved\n", t.Kind.Label(), t.Name)
			return nil
		})
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:     "delete KIND NAME",
	Aliases: []string{"rm"},
	Short:   "Delete a template",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := templates.ParseKind(args[0])
		if err != nil {
			return err
		}
		return withStore(func(svc *templates.Service) error {
			if err := svc.Delete(cmd.Context(), kind, args[1]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted template %q\n", strings.TrimSpace(args[1]))
			return nil
		})
	},
}

var templateSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add the built-in templates to empty lists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(func(svc *templates.Service) error {
			n, err := svc.Seed(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d templates\n", n)
			return nil
		})
	},
}

func withStore(fn func(*templates.Service) error) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st.svc)
}

func runTemplateList(ctx context.Context, out io.Writer, svc *templates.Service, kinds []templates.Kind, asJSON bool) error {
	var all []presentation.TemplateDTO
	for i, kind := range kinds {
		list, err := svc.List(ctx, kind)
		if err != nil {
			return err
		}
		if asJSON {
			all = append(all, presentation.FromTemplates(list, true)...)
			continue
		}
		if i > 0 {
			_, _ = fmt.Fprintln(out)
		}
		_, _ = fmt.Fprintf(out, "%ss (%d)\n", kind.Label(), len(list))
		for _, t := range list {
			_, _ = fmt.Fprintf(out, "  %s\n", t.Name)
		}
	}
	if asJSON {
		return presentation.NewFormatter(out).FormatTemplates(all)
	}
	return nil
}

func init() {
	templateListCmd.Flags().StringVarP(&templateKindFilter, "kind", "k", "", "only list structure or field templates")
	templateListCmd.Flags().BoolVar(&templateListJSON, "json", false, "print templates with content as JSON")
	templateCmd.AddCommand(templateListCmd, templateShowCmd, templateSaveCmd, templateDeleteCmd, templateSeedCmd)
	rootCmd.AddCommand(templateCmd)
}
