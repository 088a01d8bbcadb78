package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewClassificationResult(t *testing.T) {
	labels := Labels{Names: []string{"0 NEG", "1 KWH"}, ValidIdx: 1}

	res := NewClassificationResult([2]float64{0.1, 0.9}, labels)
	require.Equal(t, LabelValid, res.Label)
	require.Equal(t, "1 KWH", res.LabelName)
	require.InDelta(t, 0.9, res.ValidProb, 1e-9)
	require.InDelta(t, 0.1, res.NegativeProb, 1e-9)

	res = NewClassificationResult([2]float64{0.8, 0.2}, labels)
	require.Equal(t, LabelNegative, res.Label)
	require.Equal(t, "0 NEG", res.LabelName)
}

func TestNewClassificationResult_TieFavoursValid(t *testing.T) {
	labels := Labels{Names: []string{"KWH", "NEG"}, ValidIdx: 0}

	res := NewClassificationResult([2]float64{0.5, 0.5}, labels)
	require.Equal(t, LabelValid, res.Label)
}
