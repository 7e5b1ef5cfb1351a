// Package storetest holds the behavior every sickpay.Store must share. Each
// implementation's tests call Run with its own constructor.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/vacancy-engine/generic"
	"github.com/warp/vacancy-engine/sickpay"
)

// Run exercises a fresh store from newStore for every subtest.
func Run(t *testing.T, newStore func(t *testing.T) sickpay.Store) {
	t.Run("holidays", func(t *testing.T) { testHolidays(t, newStore(t)) })
	t.Run("delete missing holiday", func(t *testing.T) { testDeleteMissingHoliday(t, newStore(t)) })
	t.Run("runs", func(t *testing.T) { testRuns(t, newStore(t)) })
	t.Run("missing run", func(t *testing.T) { testMissingRun(t, newStore(t)) })
	t.Run("duplicate run", func(t *testing.T) { testDuplicateRun(t, newStore(t)) })
	t.Run("retention", func(t *testing.T) { testRetention(t, newStore(t)) })
}

func testHolidays(t *testing.T, s sickpay.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveHoliday(ctx, generic.Holiday{Date: generic.MustParseDate("2025-12-25"), Name: "Juldagen", Major: true}))
	require.NoError(t, s.SaveHoliday(ctx, generic.Holiday{Date: generic.MustParseDate("2025-05-01"), Name: "Första maj"}))
	// Saving the same date again updates it.
	require.NoError(t, s.SaveHoliday(ctx, generic.Holiday{Date: generic.MustParseDate("2025-05-01"), Name: "Första maj", Major: false}))

	hs, err := s.ListHolidays(ctx)
	require.NoError(t, err)
	require.Len(t, hs, 2)
	assert.Equal(t, "2025-05-01", hs[0].Date.Key())
	assert.Equal(t, "Juldagen", hs[1].Name)
	assert.True(t, hs[1].Major)

	cal, err := sickpay.LoadCalendar(ctx, s)
	require.NoError(t, err)
	assert.True(t, cal.IsMajorHoliday(generic.MustParseDate("2025-12-25")))
	assert.True(t, cal.IsHoliday(generic.MustParseDate("2025-05-01")))

	require.NoError(t, s.DeleteHoliday(ctx, generic.MustParseDate("2025-05-01")))
	hs, err = s.ListHolidays(ctx)
	require.NoError(t, err)
	assert.Len(t, hs, 1)
}

func testDeleteMissingHoliday(t *testing.T, s sickpay.Store) {
	err := s.DeleteHoliday(context.Background(), generic.MustParseDate("2025-01-01"))
	assert.ErrorIs(t, err, generic.ErrHolidayNotFound)
}

func sampleRun(id string, created time.Time) sickpay.Run {
	day := generic.MustParseDate("2025-03-04")
	start := day.At(generic.NewClockTime(21, 0))
	return sickpay.Run{
		ID:        id,
		Label:     "march",
		CreatedAt: created,
		InputJSON: `{"intervals":[]}`,
		Segments: []sickpay.Segment{
			{
				PersonID: "P", Date: day, Start: start, End: start.Add(time.Hour),
				Hours: generic.HoursOf(time.Hour), OBClass: sickpay.OBEvening,
				Status: sickpay.StatusPaidDay1, PaidHours: generic.HoursOf(time.Hour),
			},
			{
				PersonID: "P", Date: day, Start: start.Add(time.Hour), End: start.Add(3 * time.Hour),
				Hours: generic.HoursOf(2 * time.Hour), OBClass: sickpay.OBNight,
				Status: sickpay.StatusWaitingPeriod, PaidHours: generic.HoursOf(0),
			},
		},
	}
}

func testRuns(t *testing.T, s sickpay.Store) {
	ctx := context.Background()
	older := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	require.NoError(t, s.SaveRun(ctx, sampleRun("run-b", newer)))
	require.NoError(t, s.SaveRun(ctx, sampleRun("run-a", older)))

	run, err := s.GetRun(ctx, "run-a")
	require.NoError(t, err)
	assert.Equal(t, "march", run.Label)
	assert.True(t, older.Equal(run.CreatedAt))
	assert.Equal(t, `{"intervals":[]}`, run.InputJSON)
	require.Len(t, run.Segments, 2)

	want := sampleRun("run-a", older).Segments
	for i := range want {
		assert.Equal(t, want[i].PersonID, run.Segments[i].PersonID)
		assert.True(t, want[i].Date.Equal(run.Segments[i].Date))
		assert.True(t, want[i].Start.Equal(run.Segments[i].Start))
		assert.True(t, want[i].End.Equal(run.Segments[i].End))
		assert.True(t, want[i].Hours.Equal(run.Segments[i].Hours))
		assert.True(t, want[i].PaidHours.Equal(run.Segments[i].PaidHours))
		assert.Equal(t, want[i].OBClass, run.Segments[i].OBClass)
		assert.Equal(t, want[i].Status, run.Segments[i].Status)
	}

	infos, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "run-b", infos[0].ID, "newest first")
	assert.Equal(t, 2, infos[0].SegmentCount)
}

func testMissingRun(t *testing.T, s sickpay.Store) {
	_, err := s.GetRun(context.Background(), "nope")
	assert.ErrorIs(t, err, generic.ErrRunNotFound)
	assert.True(t, generic.IsNotFound(err))
}

func testDuplicateRun(t *testing.T, s sickpay.Store) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRun(ctx, sampleRun("same", now)))
	assert.ErrorIs(t, s.SaveRun(ctx, sampleRun("same", now)), generic.ErrDuplicateRun)
}

func testRetention(t *testing.T, s sickpay.Store) {
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"r0", "r1", "r2"} {
		require.NoError(t, s.SaveRun(ctx, sampleRun(id, base.Add(time.Duration(i)*24*time.Hour))))
	}

	n, err := s.DeleteRunsBefore(ctx, base.Add(36*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	infos, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "r2", infos[0].ID)

	_, err = s.GetRun(ctx, "r0")
	assert.ErrorIs(t, err, generic.ErrRunNotFound)
}
