package photo

import (
	"errors"
	"testing"
	"time"
)

func TestRecord_DisplayTextPrecedence(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{"caption wins", Record{ID: "a", Title: "T", Caption: "C", Body: "B"}, "C"},
		{"body before title", Record{ID: "a", Title: "T", Body: "B"}, "B"},
		{"title", Record{ID: "a", Title: "T"}, "T"},
		{"blank values skipped", Record{ID: "a", Caption: "  ", Body: "\n"}, "a"},
		{"id last", Record{ID: "a"}, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.DisplayText(); got != tt.want {
				t.Fatalf("DisplayText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecord_AspectRatio(t *testing.T) {
	if got := (Record{Width: 1600, Height: 900}).AspectRatio(); got != 1600.0/900.0 {
		t.Fatalf("AspectRatio = %v, want %v", got, 1600.0/900.0)
	}
	if got := (Record{Width: 1600}).AspectRatio(); got != DefaultAspectRatio {
		t.Fatalf("AspectRatio without height = %v, want %v", got, DefaultAspectRatio)
	}
	if got := (Record{Width: -1, Height: 10}).AspectRatio(); got != DefaultAspectRatio {
		t.Fatalf("AspectRatio with negative width = %v, want %v", got, DefaultAspectRatio)
	}
}

func TestRecord_TimeFallsBackToEpoch(t *testing.T) {
	tests := []struct {
		date string
		want time.Time
	}{
		{"2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2025-10-03T14:05:06", time.Date(2025, 10, 3, 14, 5, 6, 0, time.UTC)},
		{"2025-10-03 14:05:06", time.Date(2025, 10, 3, 14, 5, 6, 0, time.UTC)},
		{"2025-10-03T14:05:06+02:00", time.Date(2025, 10, 3, 12, 5, 6, 0, time.UTC)},
		{"", Epoch},
		{"not a date", Epoch},
	}
	for _, tt := range tests {
		got := Record{Date: tt.date}.Time()
		if !got.Equal(tt.want) {
			t.Fatalf("Time(%q) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestValidate_ReportsDuplicates(t *testing.T) {
	err := Validate([]Record{{ID: "a"}, {ID: "b"}, {ID: "a"}})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("Validate error = %v, want ErrDuplicateID", err)
	}
	if err := Validate([]Record{{ID: "a"}, {ID: "b"}}); err != nil {
		t.Fatalf("Validate returned %v, want nil", err)
	}
	if err := Validate([]Record{{ID: " "}}); err == nil {
		t.Fatalf("Validate returned nil for empty id")
	}
}

func TestDedupe_KeepsFirstOccurrence(t *testing.T) {
	kept, dropped := Dedupe([]Record{{ID: "a", Title: "first"}, {ID: "b"}, {ID: "a", Title: "second"}, {ID: ""}})
	if len(kept) != 2 || kept[0].Title != "first" || kept[1].ID != "b" {
		t.Fatalf("kept = %#v, want a(first), b", kept)
	}
	if len(dropped) != 2 || dropped[0] != "a" {
		t.Fatalf("dropped = %#v, want [a \"\"]", dropped)
	}
}

func TestClone_IsIndependent(t *testing.T) {
	orig := []Record{{ID: "a"}}
	dup := Clone(orig)
	dup[0].ID = "z"
	if orig[0].ID != "a" {
		t.Fatalf("Clone shares backing array")
	}
	if Clone(nil) != nil {
		t.Fatalf("Clone(nil) should be nil")
	}
}

func TestThumbScheme_URLs(t *testing.T) {
	s := DefaultThumbScheme()

	rec := Record{ID: "31736163", IsDefault: true}
	if got := s.URL(rec, 400); got != "/images/thumbs/31736163-default-400.jpg" {
		t.Fatalf("URL = %q", got)
	}

	oneX, twoX := s.SrcSet(Record{ID: "abc"}, 400)
	if oneX != "/images/thumbs/abc-400.jpg" || twoX != "/images/thumbs/abc-800.jpg" {
		t.Fatalf("SrcSet = %q, %q", oneX, twoX)
	}

	explicit := Record{ID: "x", ThumbBase: "https://cdn.example.com/t/x"}
	if got := s.URL(explicit, 200); got != "https://cdn.example.com/t/x-200.jpg" {
		t.Fatalf("URL with ThumbBase = %q", got)
	}
}

func TestRetina_OnlyTouchesWidthMarker(t *testing.T) {
	if got := Retina("/t/a-400-400.webp", 400, 800); got != "/t/a-400-800.webp" {
		t.Fatalf("Retina = %q", got)
	}
	if got := Retina("/t/a.webp", 400, 800); got != "/t/a.webp" {
		t.Fatalf("Retina without marker = %q", got)
	}
}

func TestSplitStem(t *testing.T) {
	id, def := SplitStem("123-default")
	if id != "123" || !def {
		t.Fatalf("SplitStem = %q,%v", id, def)
	}
	id, def = SplitStem("123")
	if id != "123" || def {
		t.Fatalf("SplitStem = %q,%v", id, def)
	}
	if FileStem("123", true) != "123-default" {
		t.Fatalf("FileStem mismatch")
	}
}
