// Package ui is the Bubble Tea front end of the gallery browser.
//
// The model is a thin adapter over gallery.Session: key presses, mouse
// clicks and timer messages become session calls, and the []gallery.Action
// each call returns is turned into tea.Cmd values by runActions (manifest
// fetches, thumbnail probes and tea.Tick timers). Every delayed message carries
// the ticket, binding, epoch or sequence number it was scheduled with, so the
// session drops it when it arrives stale.
//
// # Layout
//
// The rendered window is laid out with layout.Justify in terminal cells.
// Aspect ratios are doubled because a cell is about twice as tall as wide, and
// the configured pixel row height is divided down to a handful of rows. Line n
// of the grid content is y = n in layout coordinates, which lets mouse clicks
// go straight to layout.HitTest after subtracting the header and adding the
// viewport offset.
//
// # Infinite scroll
//
// The status line below the last row acts as the sentinel: whenever it comes
// within half a screen of the viewport, or the selection reaches the last
// row, Session.NearEnd is called. The session refuses overlapping requests.
//
// # Events
//
// Sort and refresh requests are published on the events bus and applied when
// they come back through the model's own subscription, so any other
// subscriber sees the same stream. Without a bus they are applied directly.
package ui
