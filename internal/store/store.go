package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/prite36/aquaponics-iot-system/internal/config"
	"github.com/prite36/aquaponics-iot-system/internal/diagnosis"
	"github.com/prite36/aquaponics-iot-system/internal/models"
)

// ErrMalformedPayload marks an inbound telemetry payload that could not be
// decoded. Callers drop the payload and keep ingesting.
var ErrMalformedPayload = errors.New("malformed telemetry payload")

// Recorder receives every ingested reading for best-effort persistence. It
// must swallow its own errors; the ingest path never sees them.
type Recorder interface {
	Append(models.Reading)
}

// Store holds the bounded reading history plus the latest reading. The pair
// is guarded by one mutex and always updated together, so readers can never
// observe a latest reading that history does not yet end with. Nothing slow
// happens under the lock; decoding, diagnosis and persistence all run
// outside it.
type Store struct {
	mu      sync.Mutex
	latest  *models.Reading
	history []models.Reading

	capacity   int
	thresholds config.ThresholdConfig
	recorder   Recorder
}

// New creates a store with the given history capacity. recorder may be nil.
func New(capacity int, thresholds config.ThresholdConfig, recorder Recorder) *Store {
	if capacity <= 0 {
		capacity = 500
	}
	return &Store{
		history:    make([]models.Reading, 0, capacity),
		capacity:   capacity,
		thresholds: thresholds,
		recorder:   recorder,
	}
}

// Ingest decodes a telemetry payload, attaches the diagnosis, and commits
// the reading as one atomic update of (latest, history). The oldest reading
// is evicted once the history is at capacity.
func (s *Store) Ingest(payload []byte) (models.Reading, error) {
	r, err := models.DecodeReading(payload)
	if err != nil {
		return models.Reading{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	r.Diagnosis = diagnosis.Diagnose(r, s.thresholds)

	s.mu.Lock()
	s.latest = &r
	if len(s.history) >= s.capacity {
		s.history = append(s.history[1:], r)
	} else {
		s.history = append(s.history, r)
	}
	s.mu.Unlock()

	if s.recorder != nil {
		go s.recorder.Append(r)
	}

	return r, nil
}

// Latest returns a copy of the most recent reading, if any.
func (s *Store) Latest() (models.Reading, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return models.Reading{}, false
	}
	return *s.latest, true
}

// History returns a copy of the most recent min(limit, length) readings,
// oldest first. A non-positive limit returns the full history.
func (s *Store) History(limit int) []models.Reading {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.history)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]models.Reading, limit)
	copy(out, s.history[n-limit:])
	return out
}

// Count returns the number of readings currently held.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// Thresholds returns the threshold configuration the store diagnoses with.
func (s *Store) Thresholds() config.ThresholdConfig {
	return s.thresholds
}
