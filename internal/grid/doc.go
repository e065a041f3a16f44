// Package grid implements the incremental paginator behind the photo grid.
//
// # State machine
//
//	Idle ──Begin──> Loading ──Apply/Fail──> Ready ⇄ LoadingMore
//	  any ──Begin──> Refreshing ──Apply/Fail──> Ready
//
// Only the first VisibleCount items of the sorted view are materialised by
// Items; the rest are withheld entirely. A proximity trigger calls
// RequestMore, the owner waits a short pacing delay and calls CompleteMore
// with the returned Ticket. At most one batch is in flight: repeated
// triggers while LoadingMore are refused.
//
// # Generations
//
// Begin and ChangeSort bump the generation. Every asynchronous result
// (manifest fetch, batch completion) carries the Ticket it was issued with,
// and results from an older generation are dropped. A slow batch can
// therefore never clobber the state produced by a newer refresh or sort.
//
// # Sorting
//
// The sorted view is always derived from the original manifest snapshot,
// never from the revealed window, so growing the window later agrees with a
// full re-sort.
//
// # Load tracking
//
// Tracker follows each thumbnail through loading, loaded and error. A failure
// schedules a retry with a t=<unix ms> cache buster; retries are linear
// (n * Delay) and capped at MaxRetries, after which the tile stays in error.
package grid
