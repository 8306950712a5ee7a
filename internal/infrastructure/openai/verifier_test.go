package openai

import (
	"testing"

	"github.com/lookscan/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseVerification(t *testing.T) {
	t.Run("parses a valid verdict", func(t *testing.T) {
		v := parseVerification(`{"score": 95, "verdict": "MATCH"}`)

		assert.Equal(t, 95.0, v.Score)
		assert.Equal(t, domain.VerdictMatch, v.Verdict)
	})

	t.Run("strips markdown code fences", func(t *testing.T) {
		v := parseVerification("```json\n{\"score\": 60, \"verdict\": \"SIMILAR\"}\n```")

		assert.Equal(t, 60.0, v.Score)
		assert.Equal(t, domain.VerdictSimilar, v.Verdict)
	})

	t.Run("unparseable output falls back", func(t *testing.T) {
		v := parseVerification("I think this is probably the same top")

		assert.Equal(t, fallbackVerification, v)
	})

	t.Run("unknown verdict falls back", func(t *testing.T) {
		v := parseVerification(`{"score": 80, "verdict": "MAYBE"}`)

		assert.Equal(t, fallbackVerification, v)
	})

	t.Run("out of range score falls back", func(t *testing.T) {
		v := parseVerification(`{"score": 130, "verdict": "MATCH"}`)

		assert.Equal(t, fallbackVerification, v)

		v = parseVerification(`{"score": -5, "verdict": "MISMATCH"}`)

		assert.Equal(t, fallbackVerification, v)
	})

	t.Run("zero score mismatch is valid", func(t *testing.T) {
		v := parseVerification(`{"score": 0, "verdict": "MISMATCH"}`)

		assert.Equal(t, 0.0, v.Score)
		assert.Equal(t, domain.VerdictMismatch, v.Verdict)
	})
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"score": 50}`, stripCodeFences("```json\n{\"score\": 50}\n```"))
	assert.Equal(t, `{"score": 50}`, stripCodeFences("```\n{\"score\": 50}\n```"))
	assert.Equal(t, `{"score": 50}`, stripCodeFences(`{"score": 50}`))
}
