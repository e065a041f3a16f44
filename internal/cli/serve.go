package cli

import (
	"github.com/spf13/cobra"

	"github.com/five82/gallery/internal/photo"
	"github.com/five82/gallery/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		listen    string
		publicDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve images.json, the images and the layout API",
		Long: `Serve publishes the gallery over HTTP:

  GET /images.json   the manifest, re-read on every request
  GET /api/layout    justified boxes for ?width&rowHeight&spacing&sort
  GET /images/...    thumbnails under <public_dir>/images, originals under /images/original
  GET /healthz       liveness`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
			}
			if cmd.Flags().Changed("public") {
				cfg.PublicDir = publicDir
			}

			srv := server.New(server.Options{
				Addr:         cfg.Listen,
				PublicDir:    cfg.PublicDir,
				OriginalsDir: cfg.OriginalsDir,
				ManifestPath: cfg.ManifestPath(),
				RowHeight:    cfg.RowHeight,
				Spacing:      cfg.Spacing,
				DefaultSort:  cfg.DefaultSort,
				Thumbs:       photo.ThumbScheme{Dir: photo.DefaultThumbScheme().Dir, Widths: cfg.ThumbWidths},
				ThumbWidth:   cfg.ThumbWidth,
				Logger:       loggerFromContext(ctx),
			})
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (default from config, 127.0.0.1:8080)")
	cmd.Flags().StringVar(&publicDir, "public", "", "public directory holding images.json and images/")

	return cmd
}
