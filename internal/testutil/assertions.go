package testutil

import (
	"math"
	"testing"

	"github.com/udisondev/statsector/internal/model"
)

// AssertNonNegativeGrid fails the test if any armor cell is negative.
func AssertNonNegativeGrid(t testing.TB, grid *model.ArmorGrid) {
	t.Helper()

	for r, row := range grid.Cells() {
		for c, v := range row {
			if v < 0 {
				t.Fatalf("armor cell (%d,%d) is negative: %v", r, c, v)
			}
		}
	}
}

// AssertProbabilities проверяет, что вероятности в [0,1] и их сумма не больше 1.
func AssertProbabilities(t testing.TB, probs []float64) {
	t.Helper()

	var sum float64
	for i, p := range probs {
		if p < 0 || p > 1 || math.IsNaN(p) {
			t.Fatalf("probability %d out of range: %v", i, p)
		}
		sum += p
	}
	if sum > 1+1e-9 {
		t.Fatalf("probabilities sum to %v > 1", sum)
	}
}
