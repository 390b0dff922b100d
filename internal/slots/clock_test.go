package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:05", want: 9*60 + 5},
		{in: " 23:59 ", want: 23*60 + 59},
		{in: "24:00", want: EndOfDay},
		{in: "24:01", wantErr: true},
		{in: "9:00", wantErr: true},
		{in: "09:60", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "", wantErr: true},
		{in: "09-00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidClock)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClock_String(t *testing.T) {
	assert.Equal(t, "07:05", Clock(7*60+5).String())
	assert.Equal(t, "24:00", EndOfDay.String())
	assert.Equal(t, "11:15", MustClock("10:30").Add(45*time.Minute).String())
}

func TestClock_On(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	date := time.Date(2026, 10, 19, 17, 42, 0, 0, loc)

	got := MustClock("09:30").On(date)

	assert.Equal(t, time.Date(2026, 10, 19, 9, 30, 0, 0, loc), got)
	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, loc), EndOfDay.On(date))
	assert.Equal(t, MustClock("17:42"), ClockOf(date))
}

func TestDayBounds(t *testing.T) {
	date := time.Date(2026, 10, 19, 13, 0, 0, 0, time.UTC)

	day := DayBounds(date)

	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), day.Start)
	assert.Equal(t, 24*time.Hour, day.Duration())
}

func TestWorkingHours_Validate(t *testing.T) {
	tests := []struct {
		name    string
		hours   WorkingHours
		wantErr bool
	}{
		{"empty", WorkingHours{}, false},
		{"two shifts with lunch", WorkingHours{time.Tuesday: {
			{Start: MustClock("13:00"), End: MustClock("18:00")},
			{Start: MustClock("09:00"), End: MustClock("12:00")},
		}}, false},
		{"touching shifts", WorkingHours{time.Tuesday: {
			{Start: MustClock("09:00"), End: MustClock("12:00")},
			{Start: MustClock("12:00"), End: MustClock("18:00")},
		}}, false},
		{"until midnight", WorkingHours{time.Friday: {{Start: MustClock("18:00"), End: EndOfDay}}}, false},
		{"overlapping shifts", WorkingHours{time.Tuesday: {
			{Start: MustClock("09:00"), End: MustClock("13:00")},
			{Start: MustClock("12:00"), End: MustClock("18:00")},
		}}, true},
		{"start after end", WorkingHours{time.Tuesday: {{Start: MustClock("18:00"), End: MustClock("09:00")}}}, true},
		{"empty shift", WorkingHours{time.Tuesday: {{Start: MustClock("09:00"), End: MustClock("09:00")}}}, true},
		{"start at 24:00", WorkingHours{time.Tuesday: {{Start: EndOfDay, End: EndOfDay}}}, true},
		{"unknown weekday", WorkingHours{time.Weekday(9): {{Start: MustClock("09:00"), End: MustClock("10:00")}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.hours.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidShift)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInterval_Overlaps(t *testing.T) {
	base := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	iv := func(from, to int) Interval {
		return Interval{Start: base.Add(time.Duration(from) * time.Minute), End: base.Add(time.Duration(to) * time.Minute)}
	}

	assert.True(t, iv(0, 10).Overlaps(iv(5, 15)))
	assert.True(t, iv(5, 15).Overlaps(iv(0, 10)))
	assert.True(t, iv(0, 30).Overlaps(iv(10, 20)))
	assert.False(t, iv(0, 10).Overlaps(iv(10, 20)), "touching endpoints")
	assert.False(t, iv(10, 20).Overlaps(iv(0, 10)), "touching endpoints")
	assert.False(t, iv(0, 10).Overlaps(iv(20, 30)))
}
