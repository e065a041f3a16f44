// Package app is the composition root of the gallery browser.
//
// Run loads preferences, picks a manifest source (HTTP endpoint or local
// images.json), starts the background watcher and hands everything to the
// terminal UI, which blocks until the user quits or the context ends.
//
//	Run()
//	  ├─> prefs.Load()          theme and persisted sort
//	  ├─> Source()              manifest.Client or manifest.FileSource
//	  ├─> state.Store{}         shared snapshot for the header
//	  ├─> events.NewBus()       sort/refresh broadcast
//	  ├─> StartWatcher()        background refetch
//	  └─> ui.Run()              TUI (blocks)
//
// # Watcher
//
// The watcher refetches the manifest every PollInterval and records the
// result in the store. When the content fingerprint changes after the first
// successful fetch it publishes a refresh event, which the UI answers by
// reloading the grid. Consecutive failures back off exponentially up to five
// minutes; the header shows the gallery as offline after two.
//
// # Sort precedence
//
// The initial sort is --sort, then the sort saved in prefs.toml, then the
// configured default_sort, then date-desc. Invalid values are skipped.
package app
