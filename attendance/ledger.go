/*
ledger.go - Attendance history with per-date uniqueness enforcement

PURPOSE:
  The Ledger is the persisted collection of attendance records, newest
  first. The critical invariant: at most one record per calendar date.
  You cannot be "at the office" twice on March 10th.

INVARIANT:
  No two records share the same Date. Enforced at append time, before
  anything is persisted. The decision policy also checks it up front so
  a duplicate day is rejected before a distance is ever computed.

MUTATIONS:
  - Append: add a record for a not-yet-marked date
  - Remove: delete a record by id
  Records are never edited.

PERSISTENCE:
  Write-through: every successful mutation serializes the full history
  and flushes it to the store before returning. On a store failure the
  in-memory state is NOT rolled back - it remains the best-effort source
  of truth until the next successful write - but the error is returned
  so the caller can surface it.

SEE ALSO:
  - store/store.go: the persistence contract
  - policy.go: consults HasEntryFor for the duplicate-day check
*/
package attendance

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/wfo/attendance-engine/store"
)

// HistoryKey is the store key holding the serialized history.
const HistoryKey = "attendanceHistory"

// =============================================================================
// LEDGER
// =============================================================================

// Ledger owns the attendance history. All mutations go through its
// methods and serialize on its mutex.
type Ledger struct {
	mu      sync.RWMutex
	kv      store.KV
	records []Record // newest first
}

// NewLedger creates an empty ledger backed by kv. Call Load to recover
// previously persisted history.
func NewLedger(kv store.KV) *Ledger {
	return &Ledger{kv: kv}
}

// Load replaces the in-memory history with the persisted one.
func (l *Ledger) Load(ctx context.Context) error {
	raw, ok, err := l.kv.Get(ctx, HistoryKey)
	if err != nil {
		return fmt.Errorf("failed to load attendance history: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !ok || raw == "" {
		l.records = nil
		return nil
	}

	records, err := unmarshalHistory(raw)
	if err != nil {
		return fmt.Errorf("failed to decode attendance history: %w", err)
	}
	l.records = records
	return nil
}

// Append adds a record, newest first. Returns a DuplicateDayError if a
// record already exists for the same date.
func (l *Ledger) Append(ctx context.Context, r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, existing := range l.records {
		if existing.Date.Equal(r.Date) {
			return &DuplicateDayError{
				Date:         r.Date,
				ExistingID:   existing.ID,
				ExistingStat: existing.Status,
			}
		}
	}

	l.records = append([]Record{r}, l.records...)
	return l.persistLocked(ctx)
}

// Remove deletes the record with the given id.
func (l *Ledger) Remove(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, r := range l.records {
		if r.ID == id {
			l.records = append(l.records[:i], l.records[i+1:]...)
			return l.persistLocked(ctx)
		}
	}
	return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
}

// HasEntryFor reports whether a record exists for the given date.
func (l *Ledger) HasEntryFor(date Date) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, r := range l.records {
		if r.Date.Equal(date) {
			return true
		}
	}
	return false
}

// RecordFor returns the record for the given date, if any.
func (l *Ledger) RecordFor(date Date) (Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, r := range l.records {
		if r.Date.Equal(date) {
			return r, true
		}
	}
	return Record{}, false
}

// Records returns a copy of the history, newest first.
func (l *Ledger) Records() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// persistLocked flushes the full history. Caller holds l.mu.
// On failure the in-memory state is kept; only the error is reported.
func (l *Ledger) persistLocked(ctx context.Context) error {
	raw, err := marshalHistory(l.records)
	if err != nil {
		return fmt.Errorf("failed to encode attendance history: %w", err)
	}
	if err := l.kv.Set(ctx, HistoryKey, raw); err != nil {
		return fmt.Errorf("failed to persist attendance history: %w", err)
	}
	return nil
}

// =============================================================================
// SERIALIZATION - Stable, versionless key/value format
// =============================================================================

// storedRecord is the on-disk shape of a record. The date travels as a
// DD/MM/YYYY string, matching the display format.
type storedRecord struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Day    string `json:"day"`
	Status Status `json:"status"`
}

func marshalHistory(records []Record) (string, error) {
	stored := make([]storedRecord, len(records))
	for i, r := range records {
		stored[i] = storedRecord{
			ID:     r.ID,
			Date:   r.Date.String(),
			Day:    r.Day,
			Status: r.Status,
		}
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalHistory(raw string) ([]Record, error) {
	var stored []storedRecord
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, err
	}

	records := make([]Record, len(stored))
	for i, s := range stored {
		date, err := ParseDate(s.Date)
		if err != nil {
			return nil, err
		}
		records[i] = Record{ID: s.ID, Date: date, Day: s.Day, Status: s.Status}
	}
	return records, nil
}
