package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/five82/gallery/internal/photo"
)

// Snapshot represents the latest manifest seen by the watcher.
type Snapshot struct {
	Photos              []photo.Record
	HasManifest         bool
	Fingerprint         string
	LastUpdated         time.Time
	LastChanged         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive fetch failures
}

// IsOffline returns true when the manifest has been unreachable for multiple fetches.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	now      func() time.Time
}

// Update replaces the stored manifest and reports whether its content changed.
// When err is non-nil the previous manifest is kept but the error is recorded
// for visibility.
func (s *Store) Update(photos []photo.Record, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = now
		s.snapshot.ConsecutiveFailures++
		return false
	}

	fp := Fingerprint(photos)
	changed := !s.snapshot.HasManifest || fp != s.snapshot.Fingerprint
	s.snapshot.Photos = photo.Clone(photos)
	s.snapshot.HasManifest = true
	s.snapshot.Fingerprint = fp
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = now
	s.snapshot.ConsecutiveFailures = 0
	if changed {
		s.snapshot.LastChanged = now
	}
	return changed
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Photos = photo.Clone(s.snapshot.Photos)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// Fingerprint hashes the manifest content, including order.
func Fingerprint(photos []photo.Record) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range photos {
		_ = enc.Encode(p)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
