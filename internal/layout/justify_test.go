package layout

import (
	"math"
	"math/rand/v2"
	"reflect"
	"testing"
)

func TestJustify_EmptyInput(t *testing.T) {
	res := Justify(nil, 1000, 200, 10)
	if len(res.Boxes) != 0 || res.TotalHeight != 0 {
		t.Fatalf("Justify(nil) = %#v, want empty", res)
	}
}

func TestJustify_LastRowKeepsTargetHeight(t *testing.T) {
	res := Justify([]float64{1.0, 1.0}, 1000, 200, 10)
	want := []Box{
		{Left: 0, Top: 0, Width: 200, Height: 200},
		{Left: 210, Top: 0, Width: 200, Height: 200},
	}
	if !reflect.DeepEqual(res.Boxes, want) {
		t.Fatalf("boxes = %#v, want %#v", res.Boxes, want)
	}
	if res.TotalHeight != 210 {
		t.Fatalf("TotalHeight = %d, want 210", res.TotalHeight)
	}
}

func TestJustify_FullRowFillsContainer(t *testing.T) {
	// 3 * 1.5 * 200 + 2*10 = 920 < 1010; the fourth image closes the row.
	res := Justify([]float64{1.5, 1.5, 1.5, 1.5, 1.0}, 1010, 200, 10)

	// height = (1010 - 30) / 6 = 163.33 -> 163; width = round(163.33*1.5) = 245
	for i := 0; i < 4; i++ {
		b := res.Boxes[i]
		if b.Top != 0 || b.Height != 163 || b.Width != 245 {
			t.Fatalf("box %d = %#v, want top=0 h=163 w=245", i, b)
		}
		if b.Left != i*(245+10) {
			t.Fatalf("box %d left = %d, want %d", i, b.Left, i*255)
		}
	}

	last := res.Boxes[4]
	if last.Top != 173 || last.Height != 200 || last.Width != 200 || last.Left != 0 {
		t.Fatalf("trailing box = %#v", last)
	}
	if res.TotalHeight != 173+210 {
		t.Fatalf("TotalHeight = %d, want %d", res.TotalHeight, 173+210)
	}
}

func TestJustify_SingleWideImageClosesItsOwnRow(t *testing.T) {
	res := Justify([]float64{10, 1}, 1000, 200, 10)
	first := res.Boxes[0]
	if first.Width != 1000 || first.Height != 100 || first.Top != 0 {
		t.Fatalf("wide box = %#v, want 1000x100 at top 0", first)
	}
	second := res.Boxes[1]
	if second.Top != 110 || second.Height != 200 {
		t.Fatalf("second box = %#v, want top=110 h=200", second)
	}
}

func TestJustify_DegenerateInputsUseFallbacks(t *testing.T) {
	res := Justify([]float64{0, -2, math.NaN(), math.Inf(1)}, 0, 0, -5)
	for i, b := range res.Boxes {
		if b.Width <= 0 || b.Height <= 0 {
			t.Fatalf("box %d = %#v, want positive dimensions", i, b)
		}
	}
	// 1.5 ratios at 220px with no spacing: the third image reaches 990 >= 800
	// and closes the first row at height round(800/4.5) = 178.
	if res.Boxes[2].Top != 0 || res.Boxes[3].Top != 178 {
		t.Fatalf("unexpected rows: %#v", res.Boxes)
	}
}

func TestJustify_ExtremeRatiosStayPositive(t *testing.T) {
	res := Justify([]float64{0.0001, 50000}, 300, 200, 4)
	for i, b := range res.Boxes {
		if b.Width < 1 || b.Height < 1 {
			t.Fatalf("box %d = %#v, want >= 1px", i, b)
		}
	}
}

func TestJustify_PropertiesOnRandomInput(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 200; trial++ {
		n := rng.IntN(60)
		ratios := make([]float64, n)
		for i := range ratios {
			ratios[i] = 0.3 + rng.Float64()*2.5
		}
		width := 300 + rng.IntN(1500)
		target := 80 + rng.IntN(300)
		spacing := rng.IntN(12)

		res := Justify(ratios, width, target, spacing)
		again := Justify(ratios, width, target, spacing)
		if !reflect.DeepEqual(res, again) {
			t.Fatalf("trial %d: layout not deterministic", trial)
		}
		if len(res.Boxes) != n {
			t.Fatalf("trial %d: %d boxes for %d ratios", trial, len(res.Boxes), n)
		}

		rows := Rows(res)
		for ri, row := range rows {
			prev := -1
			for _, idx := range row {
				b := res.Boxes[idx]
				if b.Width <= 0 || b.Height <= 0 {
					t.Fatalf("trial %d: box %d = %#v", trial, idx, b)
				}
				if idx <= prev {
					t.Fatalf("trial %d: row %d indexes out of order", trial, ri)
				}
				prev = idx
			}
			if ri == len(rows)-1 {
				continue
			}
			// Every row but the last is full: widths plus gaps fill the
			// container to within one pixel per image.
			sum := 0
			for _, idx := range row {
				sum += res.Boxes[idx].Width
			}
			sum += spacing * (len(row) - 1)
			if diff := sum - width; diff > len(row) || diff < -len(row) {
				t.Fatalf("trial %d row %d: filled %d of %d (n=%d)", trial, ri, sum, width, len(row))
			}
		}
	}
}

func TestRowsAndHitTest(t *testing.T) {
	res := Justify([]float64{1, 1, 1, 1, 1}, 400, 100, 0)
	rows := Rows(res)
	if len(rows) != 2 || len(rows[0]) != 4 || rows[1][0] != 4 {
		t.Fatalf("Rows = %v", rows)
	}
	if got := HitTest(res, 150, 50); got != 1 {
		t.Fatalf("HitTest(150,50) = %d, want 1", got)
	}
	if got := HitTest(res, 399, 150); got != -1 {
		t.Fatalf("HitTest outside short row = %d, want -1", got)
	}
	if len(Rows(Result{})) != 0 {
		t.Fatalf("Rows(empty) should be empty")
	}
}
