// Package state holds the manifest snapshot shared between the background
// watcher and the UI.
//
// The watcher refetches the manifest on an interval and calls Update; the UI
// reads Snapshot when drawing the header. A failed fetch keeps the last good
// manifest and bumps ConsecutiveFailures, so the header can show an offline
// marker after two misses without blanking the grid.
//
// Update returns true when the manifest content (by Fingerprint) differs from
// what was stored, which is the watcher's cue to broadcast a refresh.
//
// The zero Store is ready to use. Snapshot returns deep copies, so callers may
// keep or modify them freely.
package state
