package stats

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Correction is a multiple-comparison adjustment applied across buckets
type Correction string

const (
	CorrectionNone       Correction = "none"
	CorrectionBonferroni Correction = "bonferroni"
	CorrectionHolm       Correction = "holm"
)

// ParseCorrection reads a correction name; empty means none
func ParseCorrection(s string) (Correction, error) {
	switch Correction(strings.ToLower(strings.TrimSpace(s))) {
	case "", CorrectionNone:
		return CorrectionNone, nil
	case CorrectionBonferroni:
		return CorrectionBonferroni, nil
	case CorrectionHolm:
		return CorrectionHolm, nil
	}
	return "", fmt.Errorf("unknown correction %q (want none, bonferroni or holm)", s)
}

// Adjust returns corrected p-values in the input order.
// Values are capped at 1 and Holm adjustments are kept monotone.
func Adjust(pvalues []float64, c Correction) []float64 {
	m := len(pvalues)
	out := make([]float64, m)
	copy(out, pvalues)
	if m == 0 {
		return out
	}

	switch c {
	case CorrectionBonferroni:
		for i, p := range pvalues {
			out[i] = math.Min(1, p*float64(m))
		}

	case CorrectionHolm:
		order := make([]int, m)
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool {
			return pvalues[order[i]] < pvalues[order[j]]
		})

		running := 0.0
		for rank, idx := range order {
			adj := math.Min(1, pvalues[idx]*float64(m-rank))
			running = math.Max(running, adj)
			out[idx] = running
		}
	}

	return out
}
