package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanifahuq/MelloBackend/chat"
)

func TestExtractObjectFromProse(t *testing.T) {
	raw := `Sure! Here is the emotional breakdown you asked for:

{"Angry": 10, "Fear": 5, "Happy": 60, "Sad": 20, "Surprise": 5}

Let me know if you'd like me to go deeper into any of these.`

	var scores map[string]float64
	require.NoError(t, ExtractObject(raw, &scores))

	assert.Equal(t, 60.0, scores["Happy"])
	assert.Equal(t, 5.0, scores["Surprise"])

	total := 0.0
	for _, v := range scores {
		total += v
	}
	assert.Equal(t, 100.0, total)
}

func TestExtractObjectFromCodeFence(t *testing.T) {
	raw := "```json\n{\"Angry\": 0, \"Fear\": 0, \"Happy\": 100, \"Sad\": 0, \"Surprise\": 0}\n```"

	var scores map[string]float64
	require.NoError(t, ExtractObject(raw, &scores))
	assert.Equal(t, 100.0, scores["Happy"])
}

func TestExtractObjectNoJSON(t *testing.T) {
	var scores map[string]float64
	err := ExtractObject("I'm sorry, I can't help with that.", &scores)
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestExtractObjectMalformed(t *testing.T) {
	var scores map[string]float64
	err := ExtractObject(`{"Angry": 10, "Fear":}`, &scores)
	assert.ErrorIs(t, err, ErrMalformedJSON)
}

func TestExtractArrayOfSuggestions(t *testing.T) {
	raw := `Here are two ideas that might help:

[
  {"title": "Go for a walk", "description": "A short walk to get some fresh air and move your body."},
  {"title": "Practice deep breathing", "description": "Spend 5 minutes on deep breathing exercises to reduce stress."}
]

Both of these fit nicely into a busy day.`

	var suggestions []chat.Suggestion
	require.NoError(t, ExtractArray(raw, &suggestions))
	require.Len(t, suggestions, 2)
	assert.Equal(t, "Go for a walk", suggestions[0].Title)
	assert.NotEmpty(t, suggestions[1].Description)
}

func TestExtractArrayNoJSON(t *testing.T) {
	var suggestions []chat.Suggestion
	err := ExtractArray("Take a walk, or maybe meditate for a bit.", &suggestions)
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestExtractArrayMalformed(t *testing.T) {
	var suggestions []chat.Suggestion
	err := ExtractArray(`[{"title": "Go for a walk", "description": ]`, &suggestions)
	assert.ErrorIs(t, err, ErrMalformedJSON)
}
