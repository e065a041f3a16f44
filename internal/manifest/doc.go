// Package manifest loads images.json, the ordered list of photo records.
//
// Two sources exist. Client fetches the manifest over HTTP and adds a
// t=<unix ms> query parameter plus no-cache headers to every request, so a
// refresh always sees the current file. FileSource reads it from disk, which
// is what `gallery browse --manifest` uses against a local build.
//
// Both sources drop duplicate ids (first occurrence wins) and log the dropped
// ids as a warning. Both also implement Prober, which the browser uses to
// decide whether a thumbnail loaded.
//
// WriteFile is the inverse used by ingest: it validates and replaces the
// manifest atomically via a temp file and rename.
package manifest
