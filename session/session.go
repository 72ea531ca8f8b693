/*
Package session holds the configurable state: office location, allowed
radius, and change notification.

PURPOSE:
  A single owned Manager, passed to whichever component needs it - not a
  process-wide singleton. All reads go through accessors so tests can
  inject fixtures.

STATE MACHINE:
  Unconfigured -> Configured   on first SetOfficeLocation
  Configured   -> Configured   on later SetOfficeLocation (overwrite)
  Configured   -> Unconfigured on ResetOfficeLocation

  Overwrite is allowed at any time. A set-once lock would provide no
  safety benefit and creates a recovery dead-end when the location was
  mis-set, so this is a deliberate behavior choice, not an oversight.

RADIUS:
  User input arrives as a string. It is parsed with shopspring/decimal
  so "50", "50.0" and "0050" validate and persist exactly; non-numeric
  and non-positive input is rejected before anything is stored, and the
  previous value stays in effect.

CONCURRENCY:
  All fields are guarded by one RWMutex; readers never observe a
  half-written value. Listeners are invoked outside the lock.

SEE ALSO:
  - attendance/policy.go: consumes OfficeConfig via the Manager
  - store/store.go: persistence contract
*/
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/wfo/attendance-engine/attendance"
	"github.com/wfo/attendance-engine/geo"
	"github.com/wfo/attendance-engine/store"
)

// Store keys. Same names the persisted values have always used.
const (
	OfficeLocationKey  = "officeLocation"
	AllowedDistanceKey = "allowedDistanceMeters"
)

// DefaultAllowedRadiusMeters applies until the user saves a radius.
const DefaultAllowedRadiusMeters = 2

// ErrRadiusNotPositive is returned for a radius that is not a number
// greater than zero. Nothing is persisted in that case.
var ErrRadiusNotPositive = errors.New("allowed radius must be a number greater than zero")

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns the office location and allowed radius for one session.
type Manager struct {
	mu     sync.RWMutex
	kv     store.KV
	office *geo.Point
	radius decimal.Decimal

	listenerMu sync.Mutex
	listeners  map[int]func(Change)
	nextListen int
}

// Change describes a configuration change delivered to listeners.
type Change struct {
	Office       *geo.Point // nil after a reset
	RadiusMeters float64
}

// NewManager creates a Manager with the default radius and no office.
// Call Load to recover persisted state.
func NewManager(kv store.KV) *Manager {
	return &Manager{
		kv:        kv,
		radius:    decimal.NewFromInt(DefaultAllowedRadiusMeters),
		listeners: make(map[int]func(Change)),
	}
}

// Load recovers office location and radius from the store. Corrupt
// persisted values are logged and skipped rather than failing startup.
func (m *Manager) Load(ctx context.Context) error {
	raw, ok, err := m.kv.Get(ctx, OfficeLocationKey)
	if err != nil {
		return fmt.Errorf("failed to load office location: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if ok && raw != "" {
		var p geo.Point
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			log.Printf("[Session] Ignoring corrupt office location: %v", err)
		} else if p, err := geo.New(p.Latitude, p.Longitude); err != nil {
			log.Printf("[Session] Ignoring out-of-range office location: %v", err)
		} else {
			m.office = &p
		}
	}

	raw, ok, err = m.kv.Get(ctx, AllowedDistanceKey)
	if err != nil {
		return fmt.Errorf("failed to load allowed radius: %w", err)
	}
	if ok && raw != "" {
		r, err := decimal.NewFromString(raw)
		if err != nil || !r.IsPositive() {
			log.Printf("[Session] Ignoring invalid stored radius %q", raw)
		} else {
			m.radius = r
		}
	}
	return nil
}

// =============================================================================
// OFFICE LOCATION
// =============================================================================

// SetOfficeLocation stores p as the office reference point, overwriting
// any previous value, and persists it before returning.
func (m *Manager) SetOfficeLocation(ctx context.Context, p geo.Point) (attendance.OfficeConfig, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return attendance.OfficeConfig{}, fmt.Errorf("failed to encode office location: %w", err)
	}
	if err := m.kv.Set(ctx, OfficeLocationKey, string(raw)); err != nil {
		return attendance.OfficeConfig{}, fmt.Errorf("failed to persist office location: %w", err)
	}

	m.mu.Lock()
	m.office = &p
	cfg := attendance.OfficeConfig{Location: p, AllowedRadiusMeters: m.radiusMetersLocked()}
	m.mu.Unlock()

	m.notify()
	return cfg, nil
}

// ResetOfficeLocation clears the stored location. Subsequent policy
// evaluations see no office configured.
func (m *Manager) ResetOfficeLocation(ctx context.Context) error {
	if err := m.kv.Remove(ctx, OfficeLocationKey); err != nil {
		return fmt.Errorf("failed to remove office location: %w", err)
	}

	m.mu.Lock()
	m.office = nil
	m.mu.Unlock()

	m.notify()
	return nil
}

// OfficeConfig returns the current office configuration, or nil when no
// office is set.
func (m *Manager) OfficeConfig() *attendance.OfficeConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.office == nil {
		return nil
	}
	return &attendance.OfficeConfig{
		Location:            *m.office,
		AllowedRadiusMeters: m.radiusMetersLocked(),
	}
}

// Configured reports whether an office location is set.
func (m *Manager) Configured() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.office != nil
}

// =============================================================================
// ALLOWED RADIUS
// =============================================================================

// SetAllowedRadius validates and stores the radius from user input.
// Non-numeric or non-positive input returns ErrRadiusNotPositive and
// leaves the previous value in effect.
func (m *Manager) SetAllowedRadius(ctx context.Context, input string) error {
	r, err := decimal.NewFromString(input)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrRadiusNotPositive, input)
	}
	if !r.IsPositive() {
		return fmt.Errorf("%w: %s", ErrRadiusNotPositive, r)
	}

	if err := m.kv.Set(ctx, AllowedDistanceKey, r.String()); err != nil {
		return fmt.Errorf("failed to persist allowed radius: %w", err)
	}

	m.mu.Lock()
	m.radius = r
	m.mu.Unlock()

	m.notify()
	return nil
}

// AllowedRadiusMeters returns the current radius as a float.
func (m *Manager) AllowedRadiusMeters() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.radiusMetersLocked()
}

func (m *Manager) radiusMetersLocked() float64 {
	f, _ := m.radius.Float64()
	return f
}

// =============================================================================
// CHANGE LISTENERS
// =============================================================================

// Subscribe registers fn to run after every configuration change. The
// returned disposer unregisters it and is safe to call more than once;
// it takes effect exactly once.
func (m *Manager) Subscribe(fn func(Change)) (dispose func()) {
	m.listenerMu.Lock()
	id := m.nextListen
	m.nextListen++
	m.listeners[id] = fn
	m.listenerMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.listenerMu.Lock()
			delete(m.listeners, id)
			m.listenerMu.Unlock()
		})
	}
}

func (m *Manager) notify() {
	m.mu.RLock()
	change := Change{Office: m.office, RadiusMeters: m.radiusMetersLocked()}
	m.mu.RUnlock()

	m.listenerMu.Lock()
	fns := make([]func(Change), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.listenerMu.Unlock()

	for _, fn := range fns {
		fn(change)
	}
}
