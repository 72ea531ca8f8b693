/*
Package reminder computes and installs the daily attendance reminder.

PURPOSE:
  Two layers. NextTrigger is the pure policy: given a configured HH:MM
  and the current instant, produce the next firing instant, rolling to
  tomorrow when today's slot has passed. Service is the plumbing: it
  persists the configured time and (re)installs the repeating
  notification through notify.Scheduler.

ROLLOVER:
  NextTrigger operates on local wall-clock fields, not elapsed seconds,
  so midnight rollover and daylight-saving transitions come out right.
  It is idempotent: asking again at a slightly later now that is still
  before the returned instant yields the same instant.

SEE ALSO:
  - notify/notify.go: the scheduler contract
*/
package reminder

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/wfo/attendance-engine/notify"
	"github.com/wfo/attendance-engine/store"
)

// TimeKey is the store key holding the configured "HH:MM".
const TimeKey = "notificationTime"

// Default reminder time applied when none was configured.
const (
	DefaultHour   = 11
	DefaultMinute = 45
)

// =============================================================================
// CONFIG - The configured wall-clock time
// =============================================================================

type Config struct {
	Hour   int
	Minute int
}

// ParseTime parses "HH:MM" into a Config.
func ParseTime(s string) (Config, error) {
	var c Config
	if _, err := fmt.Sscanf(s, "%d:%d", &c.Hour, &c.Minute); err != nil {
		return Config{}, fmt.Errorf("invalid reminder time %q: %w", s, err)
	}
	if c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 {
		return Config{}, fmt.Errorf("invalid reminder time %q: out of range", s)
	}
	return c, nil
}

func (c Config) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// =============================================================================
// NEXT TRIGGER - Pure scheduling policy
// =============================================================================

// NextTrigger returns the next instant the reminder fires at or after
// now: today at c.Hour:c.Minute, or the same time tomorrow when that
// candidate is at or before now.
func NextTrigger(c Config, now time.Time) time.Time {
	candidate := time.Date(now.Year(), now.Month(), now.Day(), c.Hour, c.Minute, 0, 0, now.Location())
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}

// =============================================================================
// SERVICE - Persisted config plus notification plumbing
// =============================================================================

// Service owns the configured reminder time. Reschedules cancel any
// prior schedule before installing the new one.
type Service struct {
	mu        sync.Mutex
	kv        store.KV
	scheduler notify.Scheduler
	cfg       Config
}

func NewService(kv store.KV, scheduler notify.Scheduler) *Service {
	return &Service{
		kv:        kv,
		scheduler: scheduler,
		cfg:       Config{Hour: DefaultHour, Minute: DefaultMinute},
	}
}

// Load recovers the persisted time (keeping the default when absent)
// and installs the schedule.
func (s *Service) Load(ctx context.Context) error {
	raw, ok, err := s.kv.Get(ctx, TimeKey)
	if err != nil {
		return fmt.Errorf("failed to load reminder time: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ok && raw != "" {
		cfg, err := ParseTime(raw)
		if err != nil {
			log.Printf("[Reminder] Ignoring invalid stored time %q", raw)
		} else {
			s.cfg = cfg
		}
	}

	s.installLocked()
	return nil
}

// SetTime validates and persists a new "HH:MM", then reschedules.
func (s *Service) SetTime(ctx context.Context, hhmm string) error {
	cfg, err := ParseTime(hhmm)
	if err != nil {
		return err
	}

	if err := s.kv.Set(ctx, TimeKey, cfg.String()); err != nil {
		return fmt.Errorf("failed to persist reminder time: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.installLocked()
	return nil
}

// Config returns the active reminder configuration.
func (s *Service) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// NextTriggerAfter returns the next firing instant relative to now.
func (s *Service) NextTriggerAfter(now time.Time) time.Time {
	return NextTrigger(s.Config(), now)
}

// installLocked reinstalls the schedule. Caller holds s.mu.
// Cancel-before-schedule keeps exactly one reminder active.
func (s *Service) installLocked() {
	s.scheduler.CancelAll()
	s.scheduler.ScheduleRepeatingDaily(s.cfg.Hour, s.cfg.Minute, notify.Payload{
		Title:  "Daily Attendance Reminder",
		Body:   "Don't forget to record your attendance today!",
		Screen: "Home",
	})
	log.Printf("[Reminder] Daily reminder set for %s", s.cfg)
}
