package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwoProportionZTestScenario(t *testing.T) {
	res, err := TwoProportionZTest(
		ProportionInput{Successes: 80, Trials: 1000},
		ProportionInput{Successes: 120, Trials: 1000},
	)
	require.NoError(t, err)

	assert.Equal(t, OutcomeComputed, res.Outcome)
	assert.InDelta(t, 0.08, res.RateA, 1e-12)
	assert.InDelta(t, 0.12, res.RateB, 1e-12)
	assert.InDelta(t, 2.9814, res.Z, 1e-3)
	assert.InDelta(t, 0.0029, res.PValue, 1e-4)
	assert.Less(t, res.PValue, Alpha)
	assert.Equal(t, VerdictImproved, res.Verdict)
}

func TestTwoProportionZTestVerdicts(t *testing.T) {
	tests := []struct {
		name string
		a, b ProportionInput
		want Verdict
	}{
		{"worsened", ProportionInput{120, 1000}, ProportionInput{80, 1000}, VerdictWorsened},
		{"inconclusive", ProportionInput{50, 500}, ProportionInput{52, 500}, VerdictInconclusive},
		{"equal rates", ProportionInput{10, 100}, ProportionInput{10, 100}, VerdictInconclusive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := TwoProportionZTest(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Verdict)
		})
	}
}

func TestTwoProportionZTestSymmetry(t *testing.T) {
	pairs := [][2]ProportionInput{
		{{80, 1000}, {120, 1000}},
		{{3, 40}, {17, 55}},
		{{999, 1000}, {950, 1200}},
	}

	for _, p := range pairs {
		ab, err := TwoProportionZTest(p[0], p[1])
		require.NoError(t, err)
		ba, err := TwoProportionZTest(p[1], p[0])
		require.NoError(t, err)

		assert.InDelta(t, -ab.Z, ba.Z, 1e-12)
		assert.InDelta(t, ab.PValue, ba.PValue, 1e-12)
	}
}

func TestTwoProportionZTestMonotoneInB(t *testing.T) {
	a := ProportionInput{Successes: 40, Trials: 200}
	prev := math.Inf(-1)
	for x := int64(1); x < 300; x++ {
		res, err := TwoProportionZTest(a, ProportionInput{Successes: x, Trials: 300})
		require.NoError(t, err)
		require.True(t, res.Computed())
		assert.GreaterOrEqual(t, res.Z, prev, "x_b=%d", x)
		prev = res.Z
	}
}

func TestTwoProportionZTestInsufficientData(t *testing.T) {
	res, err := TwoProportionZTest(ProportionInput{}, ProportionInput{Successes: 5, Trials: 10})
	require.NoError(t, err)

	assert.Equal(t, OutcomeInsufficientData, res.Outcome)
	assert.False(t, res.Computed())
	assert.False(t, math.IsNaN(res.Z))
	assert.False(t, math.IsNaN(res.PValue))
	assert.Empty(t, res.Verdict)
}

func TestTwoProportionZTestUndefined(t *testing.T) {
	for _, p := range [][2]ProportionInput{
		{{0, 10}, {0, 20}},
		{{10, 10}, {20, 20}},
	} {
		res, err := TwoProportionZTest(p[0], p[1])
		require.NoError(t, err)
		assert.Equal(t, OutcomeUndefined, res.Outcome)
		assert.Zero(t, res.Z)
		assert.Zero(t, res.PValue)
	}
}

func TestTwoProportionZTestRejectsInvalidInput(t *testing.T) {
	_, err := TwoProportionZTest(ProportionInput{Successes: 11, Trials: 10}, ProportionInput{Successes: 1, Trials: 10})
	assert.ErrorIs(t, err, ErrInvalidProportion)

	_, err = TwoProportionZTest(ProportionInput{Successes: 1, Trials: 10}, ProportionInput{Successes: -1, Trials: 10})
	assert.ErrorIs(t, err, ErrInvalidProportion)
}

func TestPValueBounds(t *testing.T) {
	assert.InDelta(t, 1.0, PValue(0), 1e-12)
	assert.InDelta(t, 0.05, PValue(1.959964), 1e-6)
	assert.GreaterOrEqual(t, PValue(40), 0.0)
}

func TestAdjust(t *testing.T) {
	p := []float64{0.01, 0.04, 0.03, 0.5}

	assert.Equal(t, p, Adjust(p, CorrectionNone))
	assert.InDeltaSlice(t, []float64{0.04, 0.16, 0.12, 1}, Adjust(p, CorrectionBonferroni), 1e-12)

	// sorted: 0.01*4, 0.03*3, 0.04*2, 0.5*1 -> 0.04, 0.09, 0.08->0.09, 0.5
	assert.InDeltaSlice(t, []float64{0.04, 0.09, 0.09, 0.5}, Adjust(p, CorrectionHolm), 1e-12)

	assert.Empty(t, Adjust(nil, CorrectionHolm))
}

func TestParseModeAndCorrection(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeFunnel, m)

	m, err = ParseMode("EXACT")
	require.NoError(t, err)
	assert.Equal(t, ModeExactBucket, m)

	_, err = ParseMode("median")
	assert.Error(t, err)

	c, err := ParseCorrection("holm")
	require.NoError(t, err)
	assert.Equal(t, CorrectionHolm, c)

	c, err = ParseCorrection("")
	require.NoError(t, err)
	assert.Equal(t, CorrectionNone, c)

	_, err = ParseCorrection("fdr")
	assert.Error(t, err)
}

func TestDerive(t *testing.T) {
	counts := ScrollCounts{0: 0, 5: 400, 50: 250, 100: 100}

	exact := Derive(counts, 50, ModeExactBucket)
	assert.Equal(t, ProportionInput{Successes: 250, Trials: 400}, exact)

	funnel := Derive(counts, 50, ModeFunnel)
	assert.Equal(t, ProportionInput{Successes: 350, Trials: 750}, funnel)

	assert.Equal(t, ProportionInput{}, Derive(ScrollCounts{}, 50, ModeExactBucket))
	assert.Equal(t, ProportionInput{}, Derive(ScrollCounts{}, 50, ModeFunnel))

	over := Derive(ScrollCounts{10: 5, 20: 9}, 20, ModeExactBucket)
	assert.Equal(t, ProportionInput{Successes: 9, Trials: 5}, over)
}

func TestCompareBucketsAboveReference(t *testing.T) {
	a := ScrollCounts{10: 5, 20: 9, 50: 2}
	b := ScrollCounts{10: 50, 20: 40, 50: 10}

	cmp, err := CompareBuckets(a, b, []int{20, 50}, ModeExactBucket, CorrectionBonferroni)
	require.NoError(t, err)
	require.Len(t, cmp.Buckets, 2)

	over := cmp.Buckets[0]
	assert.Equal(t, OutcomeExceedsReference, over.Result.Outcome)
	assert.Equal(t, ProportionInput{Successes: 9, Trials: 5}, over.Result.A)
	assert.Zero(t, over.Result.RateA)
	assert.Empty(t, over.Verdict)

	assert.True(t, cmp.Buckets[1].Result.Computed())
	assert.Equal(t, 1, cmp.Tested, "the bucket above its reference is not corrected for")
	assert.Equal(t, cmp.Buckets[1].Result.PValue, cmp.Buckets[1].PAdjusted)

	funnel, err := CompareBuckets(a, b, []int{20}, ModeFunnel, CorrectionNone)
	require.NoError(t, err)
	assert.True(t, funnel.Buckets[0].Result.Computed(), "funnel counts never exceed the total")
}

func TestCompareBuckets(t *testing.T) {
	a := ScrollCounts{0: 1000, 50: 80, 100: 10}
	b := ScrollCounts{0: 1000, 50: 120, 100: 10}
	depths := []int{0, 50, 100}

	raw, err := CompareBuckets(a, b, depths, ModeExactBucket, CorrectionNone)
	require.NoError(t, err)
	require.Len(t, raw.Buckets, 3)
	assert.Equal(t, ModeExactBucket, raw.Mode)
	assert.NotEmpty(t, raw.ModeLabel)

	// depth 0 is the reference in both periods: 1000/1000 vs 1000/1000
	assert.Equal(t, OutcomeUndefined, raw.Buckets[0].Result.Outcome)
	assert.Equal(t, VerdictImproved, raw.Buckets[1].Verdict)
	assert.Equal(t, raw.Buckets[1].Result.PValue, raw.Buckets[1].PAdjusted)
	assert.Equal(t, 2, raw.Tested)

	corrected, err := CompareBuckets(a, b, depths, ModeExactBucket, CorrectionBonferroni)
	require.NoError(t, err)
	assert.InDelta(t, raw.Buckets[1].Result.PValue*2, corrected.Buckets[1].PAdjusted, 1e-12)
}

func TestCompareBucketsEmptyPeriod(t *testing.T) {
	cmp, err := CompareBuckets(ScrollCounts{}, ScrollCounts{0: 10, 50: 5}, []int{0, 50}, ModeFunnel, CorrectionHolm)
	require.NoError(t, err)
	for _, bc := range cmp.Buckets {
		assert.Equal(t, OutcomeInsufficientData, bc.Result.Outcome)
		assert.Empty(t, bc.Verdict)
	}
	assert.Zero(t, cmp.Tested)
}

func TestCompareAtCutoff(t *testing.T) {
	a := ScrollCounts{0: 500, 25: 300, 75: 200}
	b := ScrollCounts{0: 500, 25: 200, 75: 300}

	bc, err := CompareAtCutoff(a, b, 75, ModeFunnel)
	require.NoError(t, err)
	assert.Equal(t, 75, bc.Depth)
	assert.Equal(t, ProportionInput{Successes: 200, Trials: 1000}, bc.Result.A)
	assert.Equal(t, ProportionInput{Successes: 300, Trials: 1000}, bc.Result.B)
	assert.Equal(t, VerdictImproved, bc.Verdict)
}
