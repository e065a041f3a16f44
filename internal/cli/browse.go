package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/five82/gallery/internal/app"
)

func newBrowseCmd() *cobra.Command {
	var opts app.Options

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the gallery in the terminal",
		Long: `Browse opens the justified grid. Thumbnails load as you scroll, enter opens
the lightbox, and the sort choice is remembered between runs.

The terminal belongs to the interface while it runs, so logs go to the file
under the configured log_dir. Use "gallery logs" to read them.`,
		Example: `  gallery browse
  gallery browse --sort name-asc
  gallery browse --open '#img-44215106'
  gallery browse --manifest public/images.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)

			logPath := cfg.LogPath()
			if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
				return fmt.Errorf("create log dir: %w", err)
			}
			logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log: %w", err)
			}
			defer logFile.Close()

			opts.Config = cfg
			opts.Logger = newLogger(logFile, loggerFromContext(ctx).GetLevel())
			return runBrowse(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.SortOverride, "sort", "", "sort order: date-desc, date-asc, name-asc, name-desc, random")
	cmd.Flags().StringVar(&opts.Open, "open", "", "photo to open once loaded: id, #img-<id> or a share link")
	cmd.Flags().StringVar(&opts.ManifestPath, "manifest", "", "read a local images.json instead of the site")
	cmd.Flags().StringVar(&opts.PrefsPath, "prefs", "", "preferences file (default ~/.config/gallery/prefs.toml)")

	return cmd
}

// runBrowse treats a cancelled context as a normal exit.
func runBrowse(ctx context.Context, opts app.Options) error {
	err := app.Run(ctx, opts)
	if err != nil && ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
