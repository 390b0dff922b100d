package slots

import (
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 19.10.2026 - понедельник
var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func mondayMorning() WorkingHours {
	return WorkingHours{
		time.Monday: {{Start: MustClock("09:00"), End: MustClock("12:00")}},
	}
}

func at(date time.Time, hhmm string) time.Time {
	return MustClock(hhmm).On(date)
}

func TestSlots_BackToBack(t *testing.T) {
	e := NewEngine(0)

	got := FormatClocks(e.Slots(mondayMorning(), monday, 45*time.Minute, Commitments{}))

	assert.Equal(t, []string{"09:00", "09:45", "10:30", "11:15"}, got)
}

func TestSlots_ExistingAppointmentRemovesSlot(t *testing.T) {
	e := NewEngine(0)
	busy := Commitments{Appointments: []Interval{{Start: at(monday, "10:30"), End: at(monday, "11:15")}}}

	got := FormatClocks(e.Slots(mondayMorning(), monday, 45*time.Minute, busy))

	assert.Equal(t, []string{"09:00", "09:45", "11:15"}, got)
}

func TestSlots_VacationCoversWholeDay(t *testing.T) {
	e := NewEngine(0)
	busy := Commitments{Vacations: []Interval{{
		Start: monday.AddDate(0, 0, -2),
		End:   monday.AddDate(0, 0, 1),
	}}}

	got := e.Slots(mondayMorning(), monday, 45*time.Minute, busy)

	assert.Empty(t, got)
}

func TestSlots_PartialOverlapExcludesWholeCandidate(t *testing.T) {
	e := NewEngine(0)
	// Отпуск 10:00-10:05 задевает только кандидата 09:45-10:30
	busy := Commitments{Vacations: []Interval{{Start: at(monday, "10:00"), End: at(monday, "10:05")}}}

	got := FormatClocks(e.Slots(mondayMorning(), monday, 45*time.Minute, busy))

	assert.Equal(t, []string{"09:00", "10:30", "11:15"}, got)
}

func TestSlots_MultipleShifts(t *testing.T) {
	e := NewEngine(0)
	hours := WorkingHours{
		// порядок смен во входных данных не важен
		time.Monday: {
			{Start: MustClock("14:00"), End: MustClock("17:00")},
			{Start: MustClock("09:00"), End: MustClock("12:30")},
		},
	}

	got := FormatClocks(e.Slots(hours, monday, time.Hour, Commitments{}))

	// 12:00-13:00 не влезает в утреннюю смену и не перекидывается через обед
	assert.Equal(t, []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00"}, got)
}

func TestSlots_ShiftUntilMidnight(t *testing.T) {
	e := NewEngine(0)
	hours := WorkingHours{time.Monday: {{Start: MustClock("22:00"), End: EndOfDay}}}
	busy := Commitments{Appointments: []Interval{{Start: at(monday, "22:00"), End: at(monday, "23:00")}}}

	got := FormatClocks(e.Slots(hours, monday, time.Hour, busy))

	assert.Equal(t, []string{"23:00"}, got)
}

func TestSlots_EmptyCases(t *testing.T) {
	e := NewEngine(0)

	tests := []struct {
		name     string
		hours    WorkingHours
		date     time.Time
		duration time.Duration
	}{
		{"day off", mondayMorning(), monday.AddDate(0, 0, 1), 45 * time.Minute},
		{"zero duration", mondayMorning(), monday, 0},
		{"negative duration", mondayMorning(), monday, -30 * time.Minute},
		{"longer than shift", mondayMorning(), monday, 4 * time.Hour},
		{"no working hours", nil, monday, 30 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, e.Slots(tt.hours, tt.date, tt.duration, Commitments{}))
		})
	}
}

func TestSlots_FixedStep(t *testing.T) {
	e := NewEngine(15 * time.Minute)
	hours := WorkingHours{time.Monday: {{Start: MustClock("09:00"), End: MustClock("10:00")}}}
	busy := Commitments{Appointments: []Interval{{Start: at(monday, "09:00"), End: at(monday, "09:15")}}}

	got := FormatClocks(e.Slots(hours, monday, 30*time.Minute, busy))

	assert.Equal(t, []string{"09:15", "09:30"}, got)
}

func TestCandidates_Restartable(t *testing.T) {
	e := NewEngine(0)
	seq := e.Candidates(mondayMorning(), monday, 45*time.Minute, Commitments{})

	first := slices.Collect(seq)
	second := slices.Collect(seq)

	require.Len(t, first, 4)
	assert.Equal(t, first, second)
}

func TestCandidates_StopEarly(t *testing.T) {
	e := NewEngine(0)

	var got []Clock
	for c := range e.Candidates(mondayMorning(), monday, 45*time.Minute, Commitments{}) {
		got = append(got, c)
		if len(got) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"09:00", "09:45"}, FormatClocks(got))
}

func TestCheck(t *testing.T) {
	e := NewEngine(0)
	booked := Commitments{Appointments: []Interval{{Start: at(monday, "10:30"), End: at(monday, "11:15")}}}

	tests := []struct {
		name     string
		start    string
		duration time.Duration
		busy     Commitments
		reason   ConflictReason
	}{
		{"free", "09:00", 45 * time.Minute, booked, ""},
		{"touching end", "09:45", 45 * time.Minute, booked, ""},
		{"touching start", "11:15", 45 * time.Minute, booked, ""},
		{"off grid inside shift", "09:10", 20 * time.Minute, booked, ""},
		{"overlaps appointment", "10:30", 45 * time.Minute, booked, ReasonAppointmentOverlap},
		{"partial overlap", "10:00", 45 * time.Minute, booked, ReasonAppointmentOverlap},
		{"ends after shift", "11:30", 45 * time.Minute, booked, ReasonOutsideShift},
		{"before shift", "08:30", 45 * time.Minute, booked, ReasonOutsideShift},
		{"past midnight", "23:30", time.Hour, booked, ReasonOutsideShift},
		{"vacation", "09:00", 45 * time.Minute, Commitments{
			Vacations: []Interval{{Start: at(monday, "09:30"), End: at(monday, "09:40")}},
		}, ReasonVacationOverlap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.Check(mondayMorning(), monday, MustClock(tt.start), tt.duration, tt.busy)
			if tt.reason == "" {
				assert.NoError(t, err)
				assert.True(t, e.Fits(mondayMorning(), monday, MustClock(tt.start), tt.duration, tt.busy))
				return
			}
			var conflict *Conflict
			require.ErrorAs(t, err, &conflict)
			assert.Equal(t, tt.reason, conflict.Reason)
		})
	}
}

func TestCheck_InvalidDuration(t *testing.T) {
	e := NewEngine(0)

	err := e.Check(mondayMorning(), monday, MustClock("09:00"), 0, Commitments{})

	assert.ErrorIs(t, err, ErrInvalidDuration)
	assert.False(t, e.Fits(mondayMorning(), monday, MustClock("09:00"), 0, Commitments{}))
}

func TestSlots_CancellationFreesSlot(t *testing.T) {
	e := NewEngine(0)
	appointment := Interval{Start: at(monday, "10:30"), End: at(monday, "11:15")}

	booked := e.Fits(mondayMorning(), monday, MustClock("10:30"), 45*time.Minute, Commitments{Appointments: []Interval{appointment}})
	// отменённые записи в Commitments не попадают
	freed := e.Fits(mondayMorning(), monday, MustClock("10:30"), 45*time.Minute, Commitments{})

	assert.False(t, booked)
	assert.True(t, freed)
}

func TestSlots_DSTDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// 25.10.2026 переход на зимнее время, воскресенье
	sunday := time.Date(2026, 10, 25, 0, 0, 0, 0, loc)
	hours := WorkingHours{time.Sunday: {{Start: MustClock("01:00"), End: MustClock("04:00")}}}
	e := NewEngine(0)

	got := FormatClocks(e.Slots(hours, sunday, time.Hour, Commitments{}))

	assert.Equal(t, []string{"01:00", "02:00", "03:00"}, got)
}

// 29.03.2026 в Берлине часы переводятся с 02:00 на 03:00, воскресенье
func TestSlots_SpringForwardDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}
	sunday := time.Date(2026, 3, 29, 0, 0, 0, 0, loc)
	hours := WorkingHours{time.Sunday: {{Start: MustClock("01:00"), End: MustClock("04:00")}}}
	e := NewEngine(0)

	assert.Equal(t, []string{"01:00", "03:00"}, FormatClocks(e.Slots(hours, sunday, time.Hour, Commitments{})))

	busy := Commitments{Appointments: []Interval{{Start: at(sunday, "03:00"), End: at(sunday, "04:00")}}}
	assert.Equal(t, []string{"01:00"}, FormatClocks(e.Slots(hours, sunday, time.Hour, busy)))

	var conflict *Conflict
	require.ErrorAs(t, e.Check(hours, sunday, MustClock("02:00"), time.Hour, busy), &conflict)
	assert.Equal(t, ReasonOutsideShift, conflict.Reason)
	require.ErrorAs(t, e.Check(hours, sunday, MustClock("03:00"), time.Hour, busy), &conflict)
	assert.Equal(t, ReasonAppointmentOverlap, conflict.Reason)
}

// Час услуги с 01:30 в день перевода заканчивается в 03:30 по часам,
// то есть после конца смены в 03:00
func TestSlots_SpringForwardStaysInsideShift(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}
	sunday := time.Date(2026, 3, 29, 0, 0, 0, 0, loc)
	hours := WorkingHours{time.Sunday: {{Start: MustClock("01:30"), End: MustClock("03:00")}}}
	e := NewEngine(0)

	assert.Empty(t, e.Slots(hours, sunday, time.Hour, Commitments{}))
	assert.False(t, e.Fits(hours, sunday, MustClock("01:30"), time.Hour, Commitments{}))
}

func TestClock_Window(t *testing.T) {
	w, ok := MustClock("09:15").Window(monday, 45*time.Minute)
	require.True(t, ok)
	assert.Equal(t, at(monday, "09:15"), w.Start)
	assert.Equal(t, at(monday, "10:00"), w.End)
}

// Бронируем случайные слоты, пока они есть, и проверяем инварианты:
// слот внутри смены, монотонное сужение, отсутствие пересечений.
func TestSlots_RandomBookingProperties(t *testing.T) {
	hours := WorkingHours{
		time.Monday: {
			{Start: MustClock("08:00"), End: MustClock("12:00")},
			{Start: MustClock("13:00"), End: MustClock("19:30")},
		},
	}
	durations := []time.Duration{15 * time.Minute, 30 * time.Minute, 45 * time.Minute, 50 * time.Minute, 90 * time.Minute}

	for seed := uint64(1); seed <= 25; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed*31))
		e := NewEngine(time.Duration(rng.IntN(3)*5) * time.Minute)
		var busy Commitments

		for {
			duration := durations[rng.IntN(len(durations))]
			before := e.Slots(hours, monday, duration, busy)
			if len(before) == 0 {
				break
			}

			for _, s := range before {
				assertInsideShift(t, hours, s, duration)
			}
			assert.Equal(t, before, e.Slots(hours, monday, duration, busy), "idempotent")

			picked := before[rng.IntN(len(before))]
			require.NoError(t, e.Check(hours, monday, picked, duration, busy))
			busy.Appointments = append(busy.Appointments, Interval{
				Start: picked.On(monday),
				End:   picked.Add(duration).On(monday),
			})

			after := e.Slots(hours, monday, duration, busy)
			assert.NotContains(t, after, picked)
			for _, s := range after {
				assert.Contains(t, before, s, "slot appeared after booking")
			}
		}

		for i := range busy.Appointments {
			for j := i + 1; j < len(busy.Appointments); j++ {
				assert.False(t, busy.Appointments[i].Overlaps(busy.Appointments[j]),
					"seed %d: %s overlaps %s", seed, busy.Appointments[i], busy.Appointments[j])
			}
		}
	}
}

func assertInsideShift(t *testing.T, hours WorkingHours, start Clock, duration time.Duration) {
	t.Helper()
	for _, shift := range hours.For(time.Monday) {
		if shift.Contains(start, start.Add(duration)) {
			return
		}
	}
	t.Errorf("slot %s+%s is outside every shift", start, duration)
}
