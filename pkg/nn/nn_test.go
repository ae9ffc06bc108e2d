package nn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLabel(t *testing.T) {
	require.Equal(t, LabelPerson, ParseLabel("person"))
	require.Equal(t, LabelDog, ParseLabel("dog"))
	require.Equal(t, LabelUnknown, ParseLabel("boat"))
	require.Equal(t, LabelUnknown, ParseLabel(""))
	require.Equal(t, "person", LabelPerson.String())
	require.Equal(t, "unknown", LabelUnknown.String())
}

func TestColorForLabel(t *testing.T) {
	gray := ColorForLabel(LabelUnknown)
	require.Equal(t, gray.R, gray.G)
	require.Equal(t, gray.G, gray.B)
	require.NotEqual(t, ColorForLabel(LabelPerson), gray)
}

func TestSelectBest(t *testing.T) {
	candidates := []Candidate{
		{Label: "person", Confidence: 0.5, Box: Rect{X: 0.1, Y: 0.1, Width: 0.2, Height: 0.2}},
		{Label: "dog", Confidence: 0.8, Box: Rect{X: 0.4, Y: 0.4, Width: 0.1, Height: 0.1}},
		{Label: "cat", Confidence: 0.2, Box: Rect{X: 0.7, Y: 0.7, Width: 0.1, Height: 0.1}},
	}
	best, ok := SelectBest(candidates, DefaultConfidenceThreshold)
	require.True(t, ok)
	require.Equal(t, LabelDog, best.Label)
	require.Equal(t, float32(0.8), best.Confidence)

	// Nothing above the threshold
	_, ok = SelectBest([]Candidate{{Label: "person", Confidence: 0.3}}, 0.3)
	require.False(t, ok)
	_, ok = SelectBest(nil, 0.3)
	require.False(t, ok)

	// Unknown labels still qualify, they just map to LabelUnknown
	best, ok = SelectBest([]Candidate{{Label: "giraffe", Confidence: 0.9}}, 0.3)
	require.True(t, ok)
	require.Equal(t, LabelUnknown, best.Label)
}
