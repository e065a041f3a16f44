package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/gallery/internal/seed"
)

func newSeedCmd() *cobra.Command {
	var (
		opts    seed.Options
		cleanup bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate fake photos and notes for local testing",
		Long: `Seed writes solid-colour originals and markdown notes with frontmatter into
the configured originals and markdown directories. The first --defaults
photos are placeholder records; the rest are dated across Oct-Dec 2025.

Run "gallery ingest" afterwards to build thumbnails and images.json.
--cleanup removes regular seeded files and keeps the placeholders.`,
		Example: `  gallery seed --count 120 --seed 7
  gallery seed --cleanup`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			logger := loggerFromContext(ctx)

			if cleanup {
				n, err := seed.Cleanup(cfg.OriginalsDir, cfg.MarkdownDir)
				if err != nil {
					return fmt.Errorf("cleanup: %w", err)
				}
				logger.Info(fmt.Sprintf("Removed %d seeded files", n))
				return nil
			}

			opts.OriginalsDir = cfg.OriginalsDir
			opts.MarkdownDir = cfg.MarkdownDir
			opts.Logger = logger
			prog := newProgress(logger)
			res, err := seed.Run(opts)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			prog.done(fmt.Sprintf("Seeded %d photos", len(res.IDs)), "defaults", len(res.Defaults), "originals", cfg.OriginalsDir)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Count, "count", "n", seed.DefaultCount, "number of photos")
	cmd.Flags().IntVar(&opts.Defaults, "defaults", seed.DefaultDefaults, "how many of them are placeholder records")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 1, "random seed; equal seeds give equal output")
	cmd.Flags().IntVar(&opts.Scale, "scale", seed.DefaultScale, "divide image sizes by this factor")
	cmd.Flags().BoolVar(&cleanup, "cleanup", false, "remove seeded files instead of generating")

	return cmd
}
