package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	now := time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want string
	}{
		{in: "today", want: "2024-03-01"},
		{in: "Today", want: "2024-03-01"},
		{in: "yesterday", want: "2024-02-29"},
		{in: "tomorrow", want: "2024-03-02"},
		{in: "2023-12-31", want: "2023-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDay(tt.in, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseDayRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "someday", "2024-13-01", "01-02-2024"} {
		_, err := parseDay(in, time.Now())
		var usage *usageError
		assert.ErrorAs(t, err, &usage, in)
	}
}

func TestDayAndRank(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	day, rank, err := dayAndRank([]string{"yesterday", "3"}, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", day.Format("2006-01-02"))
	assert.Equal(t, 3, rank)

	_, _, err = dayAndRank([]string{"today", "three"}, now)
	assert.Error(t, err)
}
