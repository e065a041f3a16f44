// Package layout computes justified photo-grid geometry.
//
// # Algorithm
//
// [Justify] is a single greedy pass over the aspect ratios:
//
//  1. Append the next image to the current row and add its ratio to rowSum.
//  2. Measure the row at the target height: rowSum*target + (n-1)*spacing.
//  3. Once that reaches the container width the row is full. Its height
//     becomes (containerWidth - (n-1)*spacing) / rowSum and each image gets
//     width round(height*ratio), laid out left to right with spacing gaps.
//     The running top advances by round(height) + spacing.
//  4. A trailing row that never filled keeps the target height and stays
//     short of the container width.
//
// Dimensions are rounded independently, so a full row may miss the container
// width by up to one pixel per image. That drift is accepted as is.
//
// # Inputs
//
// Non-positive or non-finite ratios fall back to 1.5, a non-positive
// container width to 800, a non-positive row height to 220 and negative
// spacing to zero. Every emitted width and height is at least 1.
//
// # Usage
//
//	res := layout.Justify(photo.AspectRatios(records), 1200, 220, 6)
//	for i, b := range res.Boxes {
//		draw(records[i], b.Left, b.Top, b.Width, b.Height)
//	}
//
// The function is cheap and stateless; call it again whenever the container
// width changes.
package layout
