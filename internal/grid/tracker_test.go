package grid

import (
	"net/url"
	"testing"
	"time"
)

func fixedTracker(policy RetryPolicy) *Tracker {
	tr := NewTracker(policy)
	tr.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return tr
}

func TestTracker_LoadLifecycle(t *testing.T) {
	tr := fixedTracker(RetryPolicy{})
	if tr.State("a") != LoadUnknown {
		t.Fatalf("unknown id state = %v", tr.State("a"))
	}
	if !tr.Begin("a", "/t/a-400.jpg") {
		t.Fatalf("Begin returned false for new id")
	}
	if tr.Begin("a", "/t/a-400.jpg") {
		t.Fatalf("Begin returned true for known id")
	}
	if tr.State("a") != LoadLoading {
		t.Fatalf("state = %v, want loading", tr.State("a"))
	}
	tr.Loaded("a")
	if tr.State("a") != LoadLoaded {
		t.Fatalf("state = %v, want loaded", tr.State("a"))
	}
}

func TestTracker_BoundedLinearRetries(t *testing.T) {
	tr := fixedTracker(RetryPolicy{MaxRetries: 3, Delay: 500 * time.Millisecond})
	tr.Begin("a", "/t/a-400.jpg?v=2")

	for attempt := 1; attempt <= 3; attempt++ {
		r, ok := tr.Failed("a")
		if !ok {
			t.Fatalf("attempt %d: no retry scheduled", attempt)
		}
		if r.Attempt != attempt || r.Delay != time.Duration(attempt)*500*time.Millisecond {
			t.Fatalf("attempt %d: got attempt=%d delay=%v", attempt, r.Attempt, r.Delay)
		}
		u, err := url.Parse(r.URL)
		if err != nil {
			t.Fatalf("retry url: %v", err)
		}
		if u.Query().Get("t") != "1700000000000" || u.Query().Get("v") != "2" {
			t.Fatalf("retry url = %q, want cache buster and original query", r.URL)
		}
		if !tr.Due(r) {
			t.Fatalf("attempt %d: Due refused", attempt)
		}
		if tr.State("a") != LoadLoading {
			t.Fatalf("state after Due = %v, want loading", tr.State("a"))
		}
	}

	if _, ok := tr.Failed("a"); ok {
		t.Fatalf("retry scheduled beyond MaxRetries")
	}
	if tr.State("a") != LoadError {
		t.Fatalf("exhausted state = %v, want error", tr.State("a"))
	}
	if tr.Attempts("a") != 3 {
		t.Fatalf("Attempts = %d, want 3", tr.Attempts("a"))
	}
}

func TestTracker_ResetInvalidatesPendingRetries(t *testing.T) {
	tr := fixedTracker(RetryPolicy{})
	tr.Begin("a", "/a.jpg")
	r, _ := tr.Failed("a")
	tr.Reset()
	tr.Begin("a", "/a.jpg")
	if tr.Due(r) {
		t.Fatalf("retry from previous epoch applied")
	}
}

func TestTracker_DueIgnoredWhenAlreadyLoaded(t *testing.T) {
	tr := fixedTracker(RetryPolicy{})
	tr.Begin("a", "/a.jpg")
	r, _ := tr.Failed("a")
	tr.Loaded("a")
	if tr.Due(r) {
		t.Fatalf("Due moved a loaded image back to loading")
	}
}

func TestCacheBust_InvalidURLUnchanged(t *testing.T) {
	if got := CacheBust("%zz", time.Now()); got != "%zz" {
		t.Fatalf("CacheBust = %q", got)
	}
}
