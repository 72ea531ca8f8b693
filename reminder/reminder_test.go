package reminder_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfo/attendance-engine/notify"
	"github.com/wfo/attendance-engine/reminder"
	"github.com/wfo/attendance-engine/store"
)

// =============================================================================
// NEXT TRIGGER POLICY
// =============================================================================

func TestNextTrigger_BeforeSlot_FiresToday(t *testing.T) {
	// now = 08:00, reminder at 09:00 -> today 09:00
	cfg := reminder.Config{Hour: 9, Minute: 0}
	now := time.Date(2025, time.March, 11, 8, 0, 0, 0, time.Local)

	next := reminder.NextTrigger(cfg, now)
	assert.Equal(t, time.Date(2025, time.March, 11, 9, 0, 0, 0, time.Local), next)
}

func TestNextTrigger_AfterSlot_RollsToTomorrow(t *testing.T) {
	// now = 09:30, reminder at 09:00 -> tomorrow 09:00
	cfg := reminder.Config{Hour: 9, Minute: 0}
	now := time.Date(2025, time.March, 11, 9, 30, 0, 0, time.Local)

	next := reminder.NextTrigger(cfg, now)
	assert.Equal(t, time.Date(2025, time.March, 12, 9, 0, 0, 0, time.Local), next)
}

func TestNextTrigger_ExactlyAtSlot_RollsToTomorrow(t *testing.T) {
	// A candidate at or before now advances by one day.
	cfg := reminder.Config{Hour: 9, Minute: 0}
	now := time.Date(2025, time.March, 11, 9, 0, 0, 0, time.Local)

	next := reminder.NextTrigger(cfg, now)
	assert.Equal(t, 12, next.Day())
}

func TestNextTrigger_Idempotent(t *testing.T) {
	// Asking again later, but still before the returned instant,
	// yields the same instant.
	cfg := reminder.Config{Hour: 9, Minute: 0}
	now := time.Date(2025, time.March, 11, 7, 0, 0, 0, time.Local)

	first := reminder.NextTrigger(cfg, now)
	second := reminder.NextTrigger(cfg, now.Add(45*time.Minute))

	assert.True(t, first.Equal(second))
}

func TestNextTrigger_MonthRollover(t *testing.T) {
	cfg := reminder.Config{Hour: 6, Minute: 15}
	now := time.Date(2025, time.March, 31, 23, 0, 0, 0, time.Local)

	next := reminder.NextTrigger(cfg, now)
	assert.Equal(t, time.Date(2025, time.April, 1, 6, 15, 0, 0, time.Local), next)
}

// =============================================================================
// TIME PARSING
// =============================================================================

func TestParseTime(t *testing.T) {
	tests := []struct {
		input   string
		want    reminder.Config
		wantErr bool
	}{
		{"09:00", reminder.Config{Hour: 9, Minute: 0}, false},
		{"11:45", reminder.Config{Hour: 11, Minute: 45}, false},
		{"23:59", reminder.Config{Hour: 23, Minute: 59}, false},
		{"00:00", reminder.Config{Hour: 0, Minute: 0}, false},
		{"24:00", reminder.Config{}, true},
		{"12:60", reminder.Config{}, true},
		{"-1:30", reminder.Config{}, true},
		{"noon", reminder.Config{}, true},
		{"", reminder.Config{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := reminder.ParseTime(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_String(t *testing.T) {
	assert.Equal(t, "09:05", reminder.Config{Hour: 9, Minute: 5}.String())
	assert.Equal(t, "11:45", reminder.Config{Hour: 11, Minute: 45}.String())
}

// =============================================================================
// SERVICE
// =============================================================================

func newTestService(t *testing.T) (*reminder.Service, *store.Memory, *notify.LogScheduler) {
	kv := store.NewMemory()
	scheduler := notify.NewLogScheduler()
	svc := reminder.NewService(kv, scheduler)
	require.NoError(t, svc.Load(context.Background()))
	return svc, kv, scheduler
}

func TestService_DefaultTime(t *testing.T) {
	svc, _, scheduler := newTestService(t)

	assert.Equal(t, reminder.Config{Hour: 11, Minute: 45}, svc.Config())

	hour, minute, ok := scheduler.Scheduled()
	assert.True(t, ok, "load should install the default schedule")
	assert.Equal(t, 11, hour)
	assert.Equal(t, 45, minute)
}

func TestService_SetTime_PersistsAndReschedules(t *testing.T) {
	svc, kv, scheduler := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetTime(ctx, "09:30"))

	assert.Equal(t, reminder.Config{Hour: 9, Minute: 30}, svc.Config())

	raw, ok, err := kv.Get(ctx, reminder.TimeKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "09:30", raw)

	hour, minute, scheduled := scheduler.Scheduled()
	assert.True(t, scheduled)
	assert.Equal(t, 9, hour)
	assert.Equal(t, 30, minute)
}

func TestService_SetTime_RejectsInvalid(t *testing.T) {
	svc, kv, _ := newTestService(t)
	ctx := context.Background()

	assert.Error(t, svc.SetTime(ctx, "25:00"))

	// Previous config intact, nothing persisted.
	assert.Equal(t, reminder.Config{Hour: 11, Minute: 45}, svc.Config())
	_, ok, err := kv.Get(ctx, reminder.TimeKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_LoadRecoversStoredTime(t *testing.T) {
	kv := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, reminder.TimeKey, "07:15"))

	svc := reminder.NewService(kv, notify.NewLogScheduler())
	require.NoError(t, svc.Load(ctx))

	assert.Equal(t, reminder.Config{Hour: 7, Minute: 15}, svc.Config())
}
