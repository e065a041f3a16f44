package layout

import "math"

// Fallbacks applied to unusable inputs.
const (
	DefaultContainerWidth  = 800
	DefaultTargetRowHeight = 220
	DefaultAspectRatio     = 1.5
)

// Box is the pixel rectangle assigned to one image.
type Box struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the exclusive right edge.
func (b Box) Right() int { return b.Left + b.Width }

// Bottom returns the exclusive bottom edge.
func (b Box) Bottom() int { return b.Top + b.Height }

// Contains reports whether the point lies inside b.
func (b Box) Contains(x, y int) bool {
	return x >= b.Left && x < b.Right() && y >= b.Top && y < b.Bottom()
}

// Result is the output of one layout pass.
type Result struct {
	Boxes       []Box `json:"boxes"`
	TotalHeight int   `json:"totalHeight"`
}

type rowItem struct {
	idx   int
	ratio float64
}

// Justify packs images with the given aspect ratios into rows that exactly
// fill containerWidth. Images are appended to the current row until the row,
// rendered at targetRowHeight, would reach the container width; the row is then
// scaled to fill the width. A trailing row that never fills is rendered at
// targetRowHeight and left short.
//
// Boxes are returned in input order. TotalHeight is the vertical offset after
// the last row, trailing spacing included. Justify is pure and holds no state
// between calls.
func Justify(ratios []float64, containerWidth, targetRowHeight, spacing int) Result {
	if containerWidth <= 0 {
		containerWidth = DefaultContainerWidth
	}
	if targetRowHeight <= 0 {
		targetRowHeight = DefaultTargetRowHeight
	}
	spacing = max(spacing, 0)

	boxes := make([]Box, len(ratios))
	row := make([]rowItem, 0, 8)
	rowSum := 0.0
	top := 0

	width := float64(containerWidth)
	target := float64(targetRowHeight)
	space := float64(spacing)

	place := func(height float64) {
		h := atLeastOne(round(height))
		left := 0
		for _, it := range row {
			w := atLeastOne(round(height * it.ratio))
			boxes[it.idx] = Box{Left: left, Top: top, Width: w, Height: h}
			left += w + spacing
		}
		top += h + spacing
		row = row[:0]
		rowSum = 0
	}

	for i, r := range ratios {
		r = sanitizeRatio(r)
		row = append(row, rowItem{idx: i, ratio: r})
		rowSum += r

		gaps := float64(len(row)-1) * space
		if rowSum*target+gaps >= width {
			place((width - gaps) / rowSum)
		}
	}
	if len(row) > 0 {
		place(target)
	}

	return Result{Boxes: boxes, TotalHeight: top}
}

// Rows groups box indexes by row, top to bottom, left to right.
func Rows(res Result) [][]int {
	var rows [][]int
	lastTop := math.MinInt
	for i, b := range res.Boxes {
		if b.Top != lastTop {
			rows = append(rows, nil)
			lastTop = b.Top
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], i)
	}
	return rows
}

// HitTest returns the index of the box containing (x, y), or -1.
func HitTest(res Result, x, y int) int {
	for i, b := range res.Boxes {
		if b.Contains(x, y) {
			return i
		}
	}
	return -1
}

func sanitizeRatio(r float64) float64 {
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return DefaultAspectRatio
	}
	return r
}

// round matches browser Math.round: halves go towards +Inf.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

func atLeastOne(v int) int {
	return max(v, 1)
}
