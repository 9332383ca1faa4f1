package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/SoloveyLS/xml-prompt-manager/internal/templates"
)

var (
	exportOutput  string
	exportSession bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every template to a JSON file",
	Long: `Write all templates, and with --session the saved editor buffer, as a
JSON export compatible with the XML Prompt Builder web app.

Examples:
  xpm export -o prompts.json
  xpm export --session | jq '.templates.structures | keys'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(func(svc *templates.Service) error {
			data, err := runExport(cmd.Context(), svc, exportSession)
			if err != nil {
				return err
			}
			if exportOutput == "" || exportOutput == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := writeOutput(exportOutput, string(data)); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Exported templates to", exportOutput)
			return nil
		})
	},
}

func runExport(ctx context.Context, svc *templates.Service, withSession bool) ([]byte, error) {
	var session *templates.Session
	if withSession {
		s, err := svc.LoadSession(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading session: %w", err)
		}
		session = s
	}
	env, err := svc.Export(ctx, session)
	if err != nil {
		return nil, err
	}
	return env.Marshal()
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Merge templates from a JSON export",
	Long: `Merge templates from an export file. Imported templates replace ones
with the same kind and name. A saved editor buffer in the file replaces the
current session. Use - to read stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		return withStore(func(svc *templates.Service) error {
			return runImport(cmd.Context(), cmd.OutOrStdout(), svc, []byte(data))
		})
	},
}

func runImport(ctx context.Context, out io.Writer, svc *templates.Service, data []byte) error {
	imp, err := templates.ParseImport(data)
	if err != nil {
		return err
	}
	res, err := svc.Import(ctx, imp)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Imported %d structure and %d field templates", res.Structures, res.Fields)
	if res.Session {
		_, _ = fmt.Fprint(out, " and the session")
	}
	_, _ = fmt.Fprintln(out)
	return nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().BoolVarP(&exportSession, "session", "s", false, "include the saved editor buffer")
	rootCmd.AddCommand(exportCmd, importCmd)
}
