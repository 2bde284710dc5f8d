package normalize

import (
	"math"
	"unicode/utf16"
)

// Seed folds a study id into [0, 1) with a 31-multiplier string hash over
// UTF-16 code units in wrapping 32-bit arithmetic. Same id, same seed.
func Seed(studyID string) float64 {
	var h int32
	for _, cu := range utf16.Encode([]rune(studyID)) {
		h = (h << 5) - h + int32(cu)
	}

	m := h % 100
	if m < 0 {
		m = -m
	}
	return float64(m) / 100
}

// Variations are the additive per-study offsets applied to raw counters
type Variations struct {
	Active   int // floor(seed*10)
	Query    int // floor((1-seed)*15)
	Visit    int // floor(seed*5)
	DaysOpen int // floor(seed*7)
}

// VariationsFor derives the offsets for a seed
func VariationsFor(seed float64) Variations {
	return Variations{
		Active:   int(math.Floor(seed * 10)),
		Query:    int(math.Floor((1 - seed) * 15)),
		Visit:    int(math.Floor(seed * 5)),
		DaysOpen: int(math.Floor(seed * 7)),
	}
}
