// Package cli implements the gallery command line.
//
// # Commands
//
//   - browse: the terminal gallery
//   - serve: HTTP server for images.json, the images and /api/layout
//   - ingest: build thumbnails and images.json from originals and notes
//   - seed: generate fake originals and notes for local testing
//   - layout: print the justified layout of a manifest
//   - logs: show the tail of the browse log
//
// Every command loads the TOML config (--config), GALLERY_* overrides from
// the environment and an optional .env file (--env-file), then applies its own
// flags. The logger and config travel in the command context.
package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/five82/gallery/internal/config"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets what --version prints. main passes ldflags values.
func SetVersion(v, c, d string) {
	if v != "" {
		version = v
	}
	commit = c
	date = d
}

// Execute runs the gallery CLI until ctx is cancelled or the command returns.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		envFile    string
		verbose    bool
	)

	root := &cobra.Command{
		Use:           "gallery",
		Short:         "A justified photo gallery for the terminal",
		Long:          `gallery browses a photo manifest as a justified grid with infinite scroll and a lightbox, and ships the tooling that builds and serves that manifest.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)

			env, err := config.LoadEnv(envFile, ".env")
			if err != nil {
				return err
			}
			cfg, err := config.Load(configPath, env)
			if err != nil {
				return err
			}
			logger.Debug("config loaded", "site", cfg.SiteURL, "public", cfg.PublicDir)

			ctx := withLogger(cmd.Context(), logger)
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("gallery %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/gallery/config.toml)")
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file with GALLERY_* overrides (default ./.env)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newBrowseCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newIngestCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newLayoutCmd())
	root.AddCommand(newLogsCmd())

	return root
}
