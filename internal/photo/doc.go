// Package photo defines the manifest record shared by every gallery component.
//
// A Record is one entry of images.json. Records are treated as immutable once a
// manifest is fetched: sorting and pagination derive new slices and never write
// back into the snapshot.
//
// # Fallback rules
//
//   - DisplayText: caption, then body, then title, then id
//   - AspectRatio: width/height when both are positive, otherwise 1.5
//   - Time: parsed Date, otherwise the Unix epoch
//
// # Thumbnails
//
// Thumbnails are addressed purely by naming convention,
// {dir}/{id}[-default]-{width}.{ext}, with widths 200/400/800 by default. The
// 2x variant of a URL is built by substituting the width marker (see Retina).
package photo
