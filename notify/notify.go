/*
Package notify defines the local notification scheduler contract.

PURPOSE:
  The reminder service needs exactly two operations from the platform's
  notification facility: cancel everything, and install one repeating
  daily notification. Rescheduling always cancels first so a changed
  reminder time never leaves a duplicate behind.

SEE ALSO:
  - reminder/reminder.go: the only caller
*/
package notify

import "log"

// Payload is the content of a delivered reminder.
type Payload struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Screen string `json:"screen,omitempty"`
}

// Scheduler installs and cancels repeating daily notifications.
type Scheduler interface {
	// CancelAll removes every scheduled notification.
	CancelAll()

	// ScheduleRepeatingDaily installs a notification that fires every
	// day at hour:minute local time.
	ScheduleRepeatingDaily(hour, minute int, payload Payload)
}

// =============================================================================
// LOG SCHEDULER - Default implementation for a server process
// =============================================================================

// LogScheduler records the active schedule and logs transitions. A
// server process has no OS notification facility; this keeps the
// contract observable and testable.
type LogScheduler struct {
	scheduled bool
	hour      int
	minute    int
	payload   Payload
}

func NewLogScheduler() *LogScheduler {
	return &LogScheduler{}
}

func (s *LogScheduler) CancelAll() {
	if s.scheduled {
		log.Printf("[Notify] Canceled daily reminder at %02d:%02d", s.hour, s.minute)
	}
	s.scheduled = false
}

func (s *LogScheduler) ScheduleRepeatingDaily(hour, minute int, payload Payload) {
	s.scheduled = true
	s.hour = hour
	s.minute = minute
	s.payload = payload
	log.Printf("[Notify] Daily reminder scheduled at %02d:%02d: %s", hour, minute, payload.Title)
}

// Scheduled returns the active schedule, if any.
func (s *LogScheduler) Scheduled() (hour, minute int, ok bool) {
	return s.hour, s.minute, s.scheduled
}
