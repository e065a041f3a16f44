// Package lightbox coordinates the full-screen viewer that sits on top of the
// photo grid.
//
// The viewer is always bound to the currently rendered window. Whenever that
// window is replaced it is torn down and rebound with Bind; only the pending
// deep link survives the swap. The owner signals Ready once the new list has
// settled, and only then may a deep link open the viewer, at most once.
//
// Share and ViewOriginal never return errors: failures become a Notice that
// the adapter shows until a delayed ClearNotice removes it.
package lightbox
