package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fiveScores(scores ...float64) []CategoryScore {
	ids := []string{"fitness", "calories", "expenses", "attendance", "todos"}
	out := make([]CategoryScore, len(scores))
	for i, s := range scores {
		out[i] = CategoryScore{ID: ids[i%len(ids)], Score: s}
	}
	return out
}

func percentageSum(slices []Slice) int {
	sum := 0
	for _, s := range slices {
		sum += s.Percentage
	}
	return sum
}

func TestNormalizeSlicesSumsToExactlyOneHundred(t *testing.T) {
	cases := [][]float64{
		{1, 1, 1, 1, 1},
		{0.33, 0.33, 0.34, 0, 0},
		{1, 0, 0, 0, 0},
		{0.1, 0.7, 0.05, 1, 0.9},
		{3, 7, 11, 13, 17},
	}
	for _, scores := range cases {
		slices := NormalizeSlices(fiveScores(scores...))
		require.Len(t, slices, 5)
		assert.Equalf(t, 100, percentageSum(slices), "scores %v", scores)
	}
}

func TestNormalizeSlicesAllZeroSplitsEqually(t *testing.T) {
	slices := NormalizeSlices(fiveScores(0, 0, 0, 0, 0))
	require.Len(t, slices, 5)
	for _, s := range slices {
		assert.Equal(t, 20, s.Percentage)
		assert.InDelta(t, 0.2, s.Contribution, 1e-9)
	}
	assert.Equal(t, 100, percentageSum(slices))
}

func TestNormalizeSlicesLastSlotAbsorbsRoundingDrift(t *testing.T) {
	// Equal thirds: 33 + 33 and the final slot picks up the leftover 34.
	slices := NormalizeSlices(fiveScores(1, 1, 1))
	require.Len(t, slices, 3)
	assert.Equal(t, 33, slices[0].Percentage)
	assert.Equal(t, 33, slices[1].Percentage)
	assert.Equal(t, 34, slices[2].Percentage)
}

func TestNormalizeSlicesPreservesOrderAndLabels(t *testing.T) {
	in := []CategoryScore{
		{ID: "fitness", Label: "Fitness Energy", Score: 0.5, Detail: "2/4 moves", Color: "#ff4fa3"},
		{ID: "todos", Label: "Task Magic", Score: 0.5, Detail: "1/5 done", Color: "#c7b8ff"},
	}
	slices := NormalizeSlices(in)
	require.Len(t, slices, 2)
	assert.Equal(t, "fitness", slices[0].ID)
	assert.Equal(t, "2/4 moves", slices[0].ValueLabel)
	assert.Equal(t, "#c7b8ff", slices[1].Color)
	assert.Equal(t, 50, slices[0].Percentage)
	assert.Equal(t, 50, slices[1].Percentage)
}
