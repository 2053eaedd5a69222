package llm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleResult struct {
	Stage      string  `json:"stage"`
	Confidence float64 `json:"confidence"`
}

func validateSample(r sampleResult) error {
	if r.Stage == "" {
		return fmt.Errorf("missing stage")
	}
	return nil
}

func TestExtractJSON_Plain(t *testing.T) {
	got, err := ExtractJSON(`{"stage": "CREATE", "confidence": 0.9}`, validateSample)
	require.NoError(t, err)
	assert.Equal(t, "CREATE", got.Stage)
	assert.Equal(t, 0.9, got.Confidence)
}

func TestExtractJSON_StripsCodeFences(t *testing.T) {
	raw := "```json\n{\"stage\": \"EDIT\", \"confidence\": 0.7}\n```"
	got, err := ExtractJSON(raw, validateSample)
	require.NoError(t, err)
	assert.Equal(t, "EDIT", got.Stage)
}

func TestExtractJSON_FindsObjectInProse(t *testing.T) {
	raw := `Sure! Here is the answer: {"stage": "CHECK", "confidence": 0.8} Hope that helps.`
	got, err := ExtractJSON(raw, validateSample)
	require.NoError(t, err)
	assert.Equal(t, "CHECK", got.Stage)
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	raw := `{"stage": "CREATE {nested}", "confidence": 0.5}`
	got, err := ExtractJSON(raw, validateSample)
	require.NoError(t, err)
	assert.Equal(t, "CREATE {nested}", got.Stage)
}

func TestExtractJSON_NullIsInvalid(t *testing.T) {
	_, err := ExtractJSON("null", validateSample)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_ValidatorRejects(t *testing.T) {
	_, err := ExtractJSON(`{"confidence": 0.9}`, validateSample)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_Garbage(t *testing.T) {
	_, err := ExtractJSON("I cannot help with that.", validateSample)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}
