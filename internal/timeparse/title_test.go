package timeparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTitle_StripsSchedulingTokens(t *testing.T) {
	cases := map[string]string{
		"add gym tomorrow at 7am for 1 hour":          "Gym",
		"schedule team meeting friday 2-3pm":          "Team Meeting",
		"book dentist appointment on june 20th":       "Dentist Appointment",
		"plan study session tonight for 2 hours":      "Study Session",
		"remind me to call mom tomorrow at 6pm":       "Call Mom",
		"add piano practice every tuesday for 4 weeks": "Piano Practice",
	}
	for text, want := range cases {
		assert.Equal(t, want, ExtractTitle(text), text)
	}
}

func TestExtractTitle_PreservesIntentionalCasing(t *testing.T) {
	assert.Equal(t, "HW session 2", ExtractTitle("add HW session 2 tomorrow at 5pm"))
}

func TestExtractTitle_ArticlesDropped(t *testing.T) {
	assert.Equal(t, "Meeting", ExtractTitle("schedule a meeting at 3pm"))
	assert.Equal(t, "Gym", ExtractTitle("add my gym at 7am"))
}

func TestExtractTitle_Default(t *testing.T) {
	assert.Equal(t, DefaultTitle, ExtractTitle("add at 3pm"))
	assert.Equal(t, DefaultTitle, ExtractTitle(""))
}
