package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/SoloveyLS/xml-prompt-manager/internal/buffer"
	"github.com/SoloveyLS/xml-prompt-manager/internal/editor"
	"github.com/SoloveyLS/xml-prompt-manager/internal/livesync"
	"github.com/SoloveyLS/xml-prompt-manager/internal/log"
	"github.com/SoloveyLS/xml-prompt-manager/internal/newline"
	"github.com/SoloveyLS/xml-prompt-manager/internal/presentation"
	"github.com/SoloveyLS/xml-prompt-manager/internal/templates"
	"github.com/SoloveyLS/xml-prompt-manager/internal/textdiff"
)

// diffContext is how many unchanged lines --diff shows around a change.
const diffContext = 3

// ErrInvalid is returned when validation finds a problem. The details have
// already been printed.
var ErrInvalid = errors.New("validation failed")

// readInput reads path, or stdin when path is "-".
func readInput(in io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: the user names the file
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// writeOutput replaces path keeping its permissions.
func writeOutput(path, content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	log.Debug(log.CatIO, "Wrote file", "path", path, "bytes", len(content))
	return nil
}

var (
	validateField bool
	validateJSON  bool
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE...",
	Short: "Check that prompt files are well formed",
	Long: `Check every opening tag has a matching closing tag in the right order.

With --field each file must also hold exactly one root element, the rule
for field templates. Use - to read stdin.

Examples:
  xpm validate prompt.xml
  xpm validate --field snippets/*.xml
  pbpaste | xpm validate -`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := templates.Structure
		if validateField {
			kind = templates.Field
		}
		return runValidate(cmd.InOrStdin(), cmd.OutOrStdout(), args, kind, validateJSON)
	},
}

func runValidate(in io.Reader, out io.Writer, paths []string, kind templates.Kind, asJSON bool) error {
	failed := 0
	results := make([]presentation.ValidationDTO, 0, len(paths))
	for _, path := range paths {
		text, err := readInput(in, path)
		if err != nil {
			return err
		}
		res := kind.Validate(text)
		if !res.Valid {
			failed++
		}
		if asJSON {
			results = append(results, presentation.FromValidation(path, res))
			continue
		}
		if res.Valid {
			_, _ = fmt.Fprintf(out, "%s: ok\n", path)
			continue
		}
		_, _ = fmt.Fprintf(out, "%s: %s\n", path, res.Err)
	}
	if asJSON {
		if err := presentation.NewFormatter(out).FormatValidations(results); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files", ErrInvalid, failed, len(paths))
	}
	return nil
}

// transform is a whole-buffer rewrite offered as a command.
type transform struct {
	name  string
	short string
	long  string
	apply func(string) string
}

var transforms = []transform{
	{
		name:  "prettify",
		short: "Restore newlines and re-indent a prompt",
		long: `Turn literal \n back into newlines (outside quoted strings), then put
every tag on its own line indented four spaces per level.`,
		apply: func(text string) string { return editor.Prettify(buffer.New(text, 0)).Text },
	},
	{
		name:  "lessen",
		short: `Collapse a prompt to one line with literal \n`,
		long:  `Replace every newline with the two characters \n so the prompt fits in a JSON string or a single-line field.`,
		apply: newline.Lessen,
	},
	{
		name:  "restore",
		short: `Turn literal \n back into newlines`,
		long:  `Replace literal \n with newlines, leaving quoted strings and code fences untouched.`,
		apply: newline.Restore,
	},
}

func newTransformCmd(t transform) *cobra.Command {
	var write, diff bool
	cmd := &cobra.Command{
		Use:   t.name + " FILE",
		Short: t.short,
		Long: t.long + `

By default the result is printed. --write replaces the file and --diff
prints the changed lines instead. Use - to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(cmd.InOrStdin(), cmd.OutOrStdout(), args[0], t.apply, write, diff)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the file")
	cmd.Flags().BoolVar(&diff, "diff", false, "print a line diff instead of the result")
	return cmd
}

func runTransform(in io.Reader, out io.Writer, path string, apply func(string) string, write, diff bool) error {
	if write && path == "-" {
		return errors.New("--write needs a file, not stdin")
	}
	text, err := readInput(in, path)
	if err != nil {
		return err
	}
	result := apply(text)
	if result != "" && result[len(result)-1] != '\n' {
		result += "\n"
	}

	if diff {
		_, _ = io.WriteString(out, textdiff.Format(textdiff.Lines(text, result), diffContext))
	}
	if write {
		if result == text {
			return nil
		}
		return writeOutput(path, result)
	}
	if !diff {
		_, _ = io.WriteString(out, result)
	}
	return nil
}

var (
	syncCursor int
	syncWrite  bool
)

var syncCmd = &cobra.Command{
	Use:   "sync FILE",
	Short: "Copy an edited tag name to its partner",
	Long: `Run one live sync pass as if the caret sat at --cursor (a byte offset).
If the caret is inside a tag name whose partner differs, the partner is
renamed to match. The file is printed, or rewritten with --write.

Examples:
  xpm sync --cursor 4 prompt.xml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], syncCursor, syncWrite)
	},
}

func runSync(in io.Reader, out, errOut io.Writer, path string, cursor int, write bool) error {
	text, err := readInput(in, path)
	if err != nil {
		return err
	}
	res, ok := livesync.Sync(text, cursor)
	if !ok {
		_, _ = fmt.Fprintln(errOut, "nothing to synchronize")
		if !write {
			_, _ = io.WriteString(out, text)
		}
		return nil
	}
	_, _ = fmt.Fprintf(errOut, "renamed <%s> to <%s>\n", res.Renamed.From, res.Renamed.To)
	if write {
		return writeOutput(path, res.Text)
	}
	_, _ = io.WriteString(out, res.Text)
	return nil
}

func init() {
	validateCmd.Flags().BoolVarP(&validateField, "field", "f", false, "require a single root element")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "print results as JSON")
	rootCmd.AddCommand(validateCmd)

	for _, t := range transforms {
		rootCmd.AddCommand(newTransformCmd(t))
	}

	syncCmd.Flags().IntVar(&syncCursor, "cursor", 0, "caret byte offset")
	syncCmd.Flags().BoolVarP(&syncWrite, "write", "w", false, "write the result back to the file")
	_ = syncCmd.MarkFlagRequired("cursor")
	rootCmd.AddCommand(syncCmd)
}
