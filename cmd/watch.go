package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/SoloveyLS/xml-prompt-manager/internal/log"
	"github.com/SoloveyLS/xml-prompt-manager/internal/templates"
	"github.com/SoloveyLS/xml-prompt-manager/internal/watcher"
)

var watchField bool

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Validate a prompt file every time it is saved",
	Long: `Validate FILE now and again after each save, printing one timestamped
line per check. Stops on Ctrl+C.

Examples:
  xpm watch prompt.xml
  xpm watch --field snippets/step.xml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := templates.Structure
		if watchField {
			kind = templates.Field
		}
		return runWatch(cmd.Context(), cmd.OutOrStdout(), args[0], kind)
	},
}

func runWatch(ctx context.Context, out io.Writer, path string, kind templates.Kind) error {
	w, err := watcher.New(path, watcher.DefaultDebounce)
	if err != nil {
		return err
	}
	changes, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	check := func() {
		stamp := time.Now().Format(time.TimeOnly)
		data, err := os.ReadFile(path) //nolint:gosec // G304: the user names the file
		if err != nil {
			log.Warn(log.CatWatcher, "Could not read watched file", "path", path, "error", err)
			_, _ = fmt.Fprintf(out, "%s %s: %v\n", stamp, path, err)
			return
		}
		res := kind.Validate(string(data))
		if res.Valid {
			_, _ = fmt.Fprintf(out, "%s %s: ok\n", stamp, path)
			return
		}
		_, _ = fmt.Fprintf(out, "%s %s: %s\n", stamp, path, res.Err)
	}

	check()
	for range changes {
		check()
	}
	return nil
}

func init() {
	watchCmd.Flags().BoolVarP(&watchField, "field", "f", false, "also require a single root element")
	rootCmd.AddCommand(watchCmd)
}
