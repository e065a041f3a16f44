// Package gallery composes the paginator, the lightbox coordinator and the
// thumbnail load tracker into one headless session.
//
// Session methods never sleep or perform I/O. They return Actions (fetch the
// manifest, load a thumbnail, call back after a delay) that an adapter turns
// into real work, feeding the outcome back through the matching method. Every
// delayed callback carries the ticket, binding or epoch it was issued under,
// so callbacks that outlive a refresh or sort change are no-ops.
//
// Ordering contracts:
//
//   - A deep link widens the window to include its target before the viewer
//     is rebound, and the viewer opens it only after ViewerReady.
//   - The viewer is rebound after every change of the rendered window, never
//     while the window is still changing.
package gallery
