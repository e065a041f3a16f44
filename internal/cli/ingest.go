package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/gallery/internal/ingest"
	"github.com/five82/gallery/internal/photo"
)

func newIngestCmd() *cobra.Command {
	var (
		force     bool
		workers   int
		originals string
		markdown  string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Build thumbnails and images.json from originals",
		Long: `Ingest scans the originals directory, reads the matching markdown notes,
renders the missing thumbnails and writes images.json.

A file named <id>-default.<ext> is a placeholder record; its note is
<id>-default.md when present, else <id>.md.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			logger := loggerFromContext(ctx)
			if cmd.Flags().Changed("originals") {
				cfg.OriginalsDir = originals
			}
			if cmd.Flags().Changed("markdown") {
				cfg.MarkdownDir = markdown
			}
			if !cmd.Flags().Changed("workers") {
				workers = cfg.Workers
			}

			prog := newProgress(logger)
			sum, err := ingest.Run(ctx, ingest.Options{
				OriginalsDir: cfg.OriginalsDir,
				MarkdownDir:  cfg.MarkdownDir,
				ThumbsDir:    cfg.ThumbsDir,
				ManifestPath: cfg.ManifestPath(),
				Thumbs:       photo.ThumbScheme{Ext: photo.DefaultThumbScheme().Ext, Widths: cfg.ThumbWidths},
				Quality:      cfg.ThumbQuality,
				Workers:      workers,
				Force:        force,
				Logger:       logger,
			})
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}
			prog.done(fmt.Sprintf("Ingested %d photos", sum.Photos),
				"thumbs", sum.ThumbsWritten, "skipped", sum.ThumbsSkipped, "manifest", sum.Manifest)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "re-render thumbnails that already exist")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "parallel workers (default: number of CPUs)")
	cmd.Flags().StringVar(&originals, "originals", "", "originals directory")
	cmd.Flags().StringVar(&markdown, "markdown", "", "markdown notes directory")

	return cmd
}
