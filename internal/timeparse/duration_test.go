package timeparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDurationMinutes(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"for 45 minutes", 45},
		{"90 mins", 90},
		{"2 hours", 120},
		{"1.5 hrs", 90},
		{"for about 30 min", 30},
		{"half an hour", 30},
		{"a quarter hour", 15},
		{"an hour and a half", 90},
		{"2 and a half hours", 150},
		{"1 hour 20 minutes", 80},
		{"2h and 15m", 135},
	}
	for _, tc := range cases {
		got, ok := ParseDurationMinutes(tc.text)
		require.True(t, ok, tc.text)
		assert.Equal(t, tc.want, got, tc.text)
	}
}

func TestParseDurationMinutes_NoMatch(t *testing.T) {
	for _, text := range []string{"gym tomorrow at 7am", "a while", ""} {
		_, ok := ParseDurationMinutes(text)
		assert.False(t, ok, text)
	}
}
