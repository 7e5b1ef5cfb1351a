package sickpay_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/vacancy-engine/generic"
	"github.com/warp/vacancy-engine/sickpay"
)

func segment(p generic.EntityID, start, end time.Time, ob sickpay.OBClass, status sickpay.Status) sickpay.Segment {
	return sickpay.Segment{
		PersonID: p,
		Date:     generic.DateOf(start),
		Start:    start,
		End:      end,
		Hours:    generic.HoursOf(end.Sub(start)),
		OBClass:  ob,
		Status:   status,
	}
}

func TestMerge_CoalescesAdjacentSegments(t *testing.T) {
	in := []sickpay.Segment{
		segment(person, at(tuesday, "10:00"), at(tuesday, "12:00"), sickpay.OBDay, sickpay.StatusPaidDay1),
		segment(person, at(tuesday, "08:00"), at(tuesday, "10:00"), sickpay.OBDay, sickpay.StatusPaidDay1),
		segment(person, at(tuesday, "12:00"), at(tuesday, "13:00"), sickpay.OBDay, sickpay.StatusWaitingPeriod),
	}

	out := sickpay.Merge(in)
	require.Len(t, out, 2)
	assert.True(t, at(tuesday, "08:00").Equal(out[0].Start))
	assert.True(t, at(tuesday, "12:00").Equal(out[0].End))
	assertHours(t, "4", out[0].Hours)
	assert.Equal(t, sickpay.StatusWaitingPeriod, out[1].Status)
}

func TestMerge_KeepsGapsAndDates(t *testing.T) {
	wednesday := tuesday.AddDays(1)
	in := []sickpay.Segment{
		segment(person, at(tuesday, "08:00"), at(tuesday, "10:00"), sickpay.OBDay, sickpay.StatusPaidDay1),
		segment(person, at(tuesday, "11:00"), at(tuesday, "12:00"), sickpay.OBDay, sickpay.StatusPaidDay1),
		segment(person, at(tuesday, "22:00"), at(wednesday, "00:00"), sickpay.OBNight, sickpay.StatusPaidDay1),
		segment(person, at(wednesday, "00:00"), at(wednesday, "02:00"), sickpay.OBNight, sickpay.StatusPaidDay1),
	}

	assert.Len(t, sickpay.Merge(in), 4)
}

func TestMerge_Idempotent(t *testing.T) {
	in := []sickpay.Segment{
		segment(person, at(tuesday, "08:00"), at(tuesday, "10:00"), sickpay.OBDay, sickpay.StatusPaidDay1),
		segment(person, at(tuesday, "10:00"), at(tuesday, "12:00"), sickpay.OBDay, sickpay.StatusPaidDay1),
		segment(person, at(tuesday, "19:00"), at(tuesday, "22:00"), sickpay.OBEvening, sickpay.StatusPaidDay1),
	}

	once := sickpay.Merge(in)
	assert.Equal(t, once, sickpay.Merge(once))
	assert.Nil(t, sickpay.Merge(nil))
}

func TestTagPaidHours(t *testing.T) {
	segs := []sickpay.Segment{
		segment(person, at(tuesday, "08:00"), at(tuesday, "10:00"), sickpay.OBDay, sickpay.StatusWaitingPeriod),
		segment(person, at(tuesday, "10:00"), at(tuesday, "11:30"), sickpay.OBDay, sickpay.StatusPaidDay1),
		segment(person, at(tuesday, "12:00"), at(tuesday, "13:00"), sickpay.OBDay, sickpay.StatusPaidDay2To14),
		segment(person, at(tuesday, "13:00"), at(tuesday, "14:00"), sickpay.OBDay, sickpay.StatusBeyondDay14),
	}

	sickpay.TagPaidHours(segs)
	assert.True(t, segs[0].PaidHours.IsZero())
	assertHours(t, "1.5", segs[1].PaidHours)
	assertHours(t, "1", segs[2].PaidHours)
	assert.True(t, segs[3].PaidHours.IsZero())
}

func TestPostProcess_OrdersByPersonThenTime(t *testing.T) {
	other := generic.EntityID("A")
	in := []sickpay.Segment{
		segment(person, at(tuesday, "08:00"), at(tuesday, "09:00"), sickpay.OBDay, sickpay.StatusPaidDay1),
		segment(person, at(monday, "08:00"), at(monday, "09:00"), sickpay.OBDay, sickpay.StatusPaidDay1),
		segment(other, at(tuesday, "08:00"), at(tuesday, "09:00"), sickpay.OBDay, sickpay.StatusPaidDay1),
	}

	out := sickpay.PostProcess(in)
	require.Len(t, out, 3)
	assert.Equal(t, other, out[0].PersonID)
	assert.True(t, out[1].Date.Equal(monday))
	assert.True(t, out[2].Date.Equal(tuesday))
	assertHours(t, "1", out[2].PaidHours)
}
