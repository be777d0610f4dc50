package stats

import (
	"fmt"
	"sort"
	"strings"
)

// Mode chooses how (successes, trials) are derived from scroll-bucket counts
type Mode string

const (
	// ModeExactBucket compares the share of visitors recorded exactly at a
	// bucket, relative to the minimum observed bucket of the same period.
	ModeExactBucket Mode = "exact"
	// ModeFunnel compares the share of all visitors that reached a bucket or
	// deeper.
	ModeFunnel Mode = "funnel"
)

// Label is the human readable name shown next to results
func (m Mode) Label() string {
	switch m {
	case ModeExactBucket:
		return "visitors at exactly X% (vs. minimum bucket)"
	case ModeFunnel:
		return "visitors reaching at least X% (vs. all visitors)"
	}
	return string(m)
}

// ParseMode reads a mode name; empty means funnel
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeFunnel, "cumulative":
		return ModeFunnel, nil
	case ModeExactBucket, "exact_bucket":
		return ModeExactBucket, nil
	}
	return "", fmt.Errorf("unknown mode %q (want exact or funnel)", s)
}

// ScrollCounts maps a scroll-depth bucket to its visitor count for one period
type ScrollCounts map[int]int64

// Total is the visitor count over all buckets
func (c ScrollCounts) Total() int64 {
	var total int64
	for _, n := range c {
		if n > 0 {
			total += n
		}
	}
	return total
}

// Reference returns the minimum bucket with visitors and its count
func (c ScrollCounts) Reference() (depth int, count int64, ok bool) {
	for d, n := range c {
		if n <= 0 {
			continue
		}
		if !ok || d < depth {
			depth, count, ok = d, n, true
		}
	}
	return depth, count, ok
}

// AtLeast sums the visitors at buckets >= depth
func (c ScrollCounts) AtLeast(depth int) int64 {
	var n int64
	for d, v := range c {
		if d >= depth && v > 0 {
			n += v
		}
	}
	return n
}

// Depths returns the bucket keys in ascending order
func (c ScrollCounts) Depths() []int {
	depths := make([]int, 0, len(c))
	for d := range c {
		depths = append(depths, d)
	}
	sort.Ints(depths)
	return depths
}

// Derive builds the proportion for one bucket. A period without visitors
// yields zero trials, which the test reports as insufficient data.
// In exact-bucket mode successes may exceed trials; see CompareBuckets.
func Derive(counts ScrollCounts, depth int, mode Mode) ProportionInput {
	switch mode {
	case ModeExactBucket:
		_, trials, ok := counts.Reference()
		if !ok {
			return ProportionInput{}
		}
		successes := counts[depth]
		if successes < 0 {
			successes = 0
		}
		return ProportionInput{Successes: successes, Trials: trials}

	default:
		return ProportionInput{Successes: counts.AtLeast(depth), Trials: counts.Total()}
	}
}

// BucketComparison is the test result at one scroll depth.
// Verdict is derived from PAdjusted; Result keeps the uncorrected statistic.
type BucketComparison struct {
	Depth     int     `json:"depth"`
	Result    Result  `json:"result"`
	PAdjusted float64 `json:"p_adjusted"`
	Verdict   Verdict `json:"verdict,omitempty"`
}

// Comparison groups the per-bucket tests of one A/B run
type Comparison struct {
	Mode       Mode               `json:"mode"`
	ModeLabel  string             `json:"mode_label"`
	Correction Correction         `json:"correction"`
	Buckets    []BucketComparison `json:"buckets"`
	Tested     int                `json:"tested"`
}

// CompareBuckets runs one test per depth and applies the correction across
// the computed tests only.
func CompareBuckets(a, b ScrollCounts, depths []int, mode Mode, correction Correction) (Comparison, error) {
	out := Comparison{
		Mode:       mode,
		ModeLabel:  mode.Label(),
		Correction: correction,
		Buckets:    make([]BucketComparison, 0, len(depths)),
	}

	var (
		pvalues  []float64
		computed []int
	)
	for _, depth := range depths {
		res, err := compareDerived(Derive(a, depth, mode), Derive(b, depth, mode))
		if err != nil {
			return Comparison{}, fmt.Errorf("depth %d: %w", depth, err)
		}
		bc := BucketComparison{Depth: depth, Result: res}
		if res.Computed() {
			pvalues = append(pvalues, res.PValue)
			computed = append(computed, len(out.Buckets))
		}
		out.Buckets = append(out.Buckets, bc)
	}

	adjusted := Adjust(pvalues, correction)
	for i, idx := range computed {
		bc := &out.Buckets[idx]
		bc.PAdjusted = adjusted[i]
		bc.Verdict = Classify(bc.PAdjusted, bc.Result.RateA, bc.Result.RateB)
	}
	out.Tested = len(computed)

	return out, nil
}

// compareDerived reports a bucket larger than its reference bucket as
// exceeds_reference instead of testing a rate above 100%.
func compareDerived(a, b ProportionInput) (Result, error) {
	if (a.Trials > 0 && a.Successes > a.Trials) || (b.Trials > 0 && b.Successes > b.Trials) {
		return Result{Outcome: OutcomeExceedsReference, A: a, B: b}, nil
	}
	return TwoProportionZTest(a, b)
}

// CompareAtCutoff is the single test at one slider depth
func CompareAtCutoff(a, b ScrollCounts, depth int, mode Mode) (BucketComparison, error) {
	cmp, err := CompareBuckets(a, b, []int{depth}, mode, CorrectionNone)
	if err != nil {
		return BucketComparison{}, err
	}
	return cmp.Buckets[0], nil
}
