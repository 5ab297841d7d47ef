package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateTime_Layouts(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-03-01", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2025-03-01 08:15", time.Date(2025, 3, 1, 8, 15, 0, 0, time.UTC)},
		{"2025-03-01T08:15", time.Date(2025, 3, 1, 8, 15, 0, 0, time.UTC)},
		{"2025-03-01T08:15:30", time.Date(2025, 3, 1, 8, 15, 30, 0, time.UTC)},
		{"2025-03-01T08:15:30Z", time.Date(2025, 3, 1, 8, 15, 30, 0, time.UTC)},
		{"2025-03-01T08:15:30.123Z", time.Date(2025, 3, 1, 8, 15, 30, 123000000, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDateTime(tt.in, time.UTC)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestParseDateTime_Rejects(t *testing.T) {
	for _, in := range []string{"", "   ", "tomorrow", "03/01/2025"} {
		_, err := ParseDateTime(in, time.UTC)
		assert.Error(t, err, in)
	}
}

func TestDateTimePick_FirstDateDefaultsToMidnight(t *testing.T) {
	day := time.Date(2025, 5, 20, 17, 45, 0, 0, time.UTC)

	p := NewDateTimePick(nil).SetDate(&day)

	require.NotNil(t, p.Value())
	assert.Equal(t, time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC), *p.Value())
}

func TestDateTimePick_DateChangeKeepsTime(t *testing.T) {
	current := time.Date(2025, 5, 20, 14, 30, 0, 0, time.UTC)
	newDay := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	p := NewDateTimePick(&current).SetDate(&newDay)

	assert.Equal(t, time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC), *p.Value())
}

func TestDateTimePick_TimeChangeKeepsDate(t *testing.T) {
	current := time.Date(2025, 5, 20, 14, 30, 0, 0, time.UTC)

	p, err := NewDateTimePick(&current).SetTime("09:05")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 5, 20, 9, 5, 0, 0, time.UTC), *p.Value())
}

func TestDateTimePick_TimeWithoutDate(t *testing.T) {
	p, err := NewDateTimePick(nil).SetTime("09:05")
	assert.ErrorIs(t, err, ErrTimeWithoutDate)
	assert.Nil(t, p.Value())
}

func TestDateTimePick_InvalidTime(t *testing.T) {
	current := time.Date(2025, 5, 20, 14, 30, 0, 0, time.UTC)

	p, err := NewDateTimePick(&current).SetTime("25:99")
	assert.Error(t, err)
	assert.Equal(t, current, *p.Value(), "failed time pick must leave the value unchanged")
}

func TestDateTimePick_ClearDateClearsTime(t *testing.T) {
	current := time.Date(2025, 5, 20, 14, 30, 0, 0, time.UTC)

	p := NewDateTimePick(&current).SetDate(nil)

	assert.Nil(t, p.Value())
	assert.Empty(t, p.String())
}

func TestDateTimePick_DoesNotAliasInput(t *testing.T) {
	current := time.Date(2025, 5, 20, 14, 30, 0, 0, time.UTC)
	p := NewDateTimePick(&current)

	current = current.Add(48 * time.Hour)

	assert.Equal(t, 20, p.Value().Day())
}
