package sickpay_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/vacancy-engine/sickpay"
)

func TestSummarize(t *testing.T) {
	res := compute(t, sickpay.Input{
		Intervals: []sickpay.SickInterval{
			interval(tuesday, "08:00", "12:00", true),
			interval(tuesday, "19:00", "23:00", true),
			interval(tuesday.AddDays(1), "08:00", "10:00", true),
		},
		KarensEntries: karensOn(tuesday, 2*time.Hour),
	})

	summaries := sickpay.Summarize(res.Segments)
	require.Len(t, summaries, 1)
	s := summaries[0]

	assert.Equal(t, person, s.PersonID)
	assertHours(t, "10", s.TotalHours)
	assertHours(t, "2", s.WaitingHours)
	assertHours(t, "8", s.PaidHours)
	assert.True(t, s.BeyondDay14.IsZero())
	assertHours(t, "3", s.PaidByOBClass[sickpay.OBEvening])
	assertHours(t, "1", s.PaidByOBClass[sickpay.OBNight])

	// Rows follow report order: night before evening before day.
	require.NotEmpty(t, s.ByClass)
	assert.Equal(t, sickpay.OBNight, s.ByClass[0].OBClass)
	assert.Equal(t, sickpay.OBDay, s.ByClass[len(s.ByClass)-1].OBClass)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Empty(t, sickpay.Summarize(nil))
}
