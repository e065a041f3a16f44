// Package ingest turns a directory of original photographs plus optional
// markdown notes into thumbnails and an images.json manifest.
//
// Files in the originals directory with a .png, .jpg, .jpeg, .webp or .bmp
// extension are ingested in file-name order, which becomes manifest order.
// A "-default" suffix on the base name marks a placeholder record; the id is
// the base name without it.
//
// For each photo the markdown note <id>-default.md (defaults only) or <id>.md
// is read. Its YAML frontmatter supplies title, caption, author and date and
// the remaining text becomes the body. Without a frontmatter date the EXIF
// DateTimeOriginal is used.
//
// Thumbnails are written as {id}[-default]-{width}.{ext} for every configured
// width, resized with Lanczos. Existing thumbnails are kept unless Force is
// set. Photos are processed by a bounded pool of workers and the manifest is
// replaced atomically once every photo has been handled.
package ingest
