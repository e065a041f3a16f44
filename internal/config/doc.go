// Package config loads the gallery configuration file.
//
// # Resolution order
//
//  1. Built-in defaults (Default)
//  2. ~/.config/gallery/config.toml, or the path given with --config
//  3. GALLERY_* variables from the process environment
//  4. GALLERY_* variables from a .env file (LoadEnv)
//
// Command-line flags are applied on top by the cli package. A missing config
// file is not an error. An unknown default_sort or a malformed duration is.
//
// # TOML format
//
//	site_url      = "https://gallery.example.com/"
//	manifest_url  = "https://gallery.example.com/images.json"
//	default_sort  = "date-desc"
//	staff_authors = ["inventory69"]
//	initial_batch = 20
//	batch_size    = 10
//	row_height    = 220
//	spacing       = 10
//	poll_interval = "30s"
//	listen        = "127.0.0.1:8080"
//	public_dir    = "~/gallery/public"
//	originals_dir = "~/gallery/originals"
//	markdown_dir  = "~/gallery/markdown"
//	thumb_widths  = [200, 400, 800]
//
// Every field is optional. Paths get tilde expansion and are made absolute.
package config
