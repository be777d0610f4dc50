package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Alpha is the significance threshold; a comparison is significant when p < Alpha
const Alpha = 0.05

// ErrInvalidProportion is returned when successes fall outside [0, trials]
var ErrInvalidProportion = errors.New("invalid proportion: need 0 <= successes <= trials")

// Outcome tells whether a test produced a statistic
type Outcome string

const (
	OutcomeComputed         Outcome = "computed"
	OutcomeInsufficientData Outcome = "insufficient_data"
	OutcomeUndefined        Outcome = "undefined"
	// exact-bucket mode only: the bucket holds more visitors than the
	// period's reference bucket, so it is not a proportion of it
	OutcomeExceedsReference Outcome = "exceeds_reference"
)

// Verdict classifies a computed comparison of B against A
type Verdict string

const (
	VerdictImproved     Verdict = "Improved"
	VerdictWorsened     Verdict = "Worsened"
	VerdictInconclusive Verdict = "Inconclusive"
)

// ProportionInput is a (successes, trials) pair for one period
type ProportionInput struct {
	Successes int64 `json:"successes"`
	Trials    int64 `json:"trials"`
}

// Validate checks 0 <= successes <= trials
func (p ProportionInput) Validate() error {
	if p.Trials < 0 || p.Successes < 0 || p.Successes > p.Trials {
		return fmt.Errorf("%w: %d/%d", ErrInvalidProportion, p.Successes, p.Trials)
	}
	return nil
}

// Rate returns successes/trials, 0 for an empty period
func (p ProportionInput) Rate() float64 {
	if p.Trials == 0 {
		return 0
	}
	return float64(p.Successes) / float64(p.Trials)
}

// Result is the outcome of a two-proportion z-test.
// Z, PValue and Verdict are only meaningful when Outcome is computed;
// they are zero otherwise, never NaN.
type Result struct {
	Outcome Outcome         `json:"outcome"`
	A       ProportionInput `json:"a"`
	B       ProportionInput `json:"b"`
	RateA   float64         `json:"rate_a"`
	RateB   float64         `json:"rate_b"`
	Z       float64         `json:"z"`
	PValue  float64         `json:"p_value"`
	Verdict Verdict         `json:"verdict,omitempty"`
}

// Computed reports whether the result carries a statistic
func (r Result) Computed() bool {
	return r.Outcome == OutcomeComputed
}

// TwoProportionZTest compares B against A with a pooled-variance z-test.
// A zero-trial period yields insufficient_data and a zero standard error
// yields undefined; neither is an error.
func TwoProportionZTest(a, b ProportionInput) (Result, error) {
	if err := a.Validate(); err != nil {
		return Result{}, fmt.Errorf("period A: %w", err)
	}
	if err := b.Validate(); err != nil {
		return Result{}, fmt.Errorf("period B: %w", err)
	}

	res := Result{A: a, B: b, RateA: a.Rate(), RateB: b.Rate()}
	if a.Trials == 0 || b.Trials == 0 {
		res.Outcome = OutcomeInsufficientData
		return res, nil
	}

	na, nb := float64(a.Trials), float64(b.Trials)
	pool := float64(a.Successes+b.Successes) / (na + nb)
	se := math.Sqrt(pool * (1 - pool) * (1/na + 1/nb))
	if se == 0 || math.IsNaN(se) {
		res.Outcome = OutcomeUndefined
		return res, nil
	}

	res.Outcome = OutcomeComputed
	res.Z = (res.RateB - res.RateA) / se
	res.PValue = PValue(res.Z)
	res.Verdict = Classify(res.PValue, res.RateA, res.RateB)
	return res, nil
}

// PValue is the two-tailed p-value of a standard normal statistic
func PValue(z float64) float64 {
	p := 2 * (1 - distuv.UnitNormal.CDF(math.Abs(z)))
	return math.Min(1, math.Max(0, p))
}

// Classify turns a p-value and the two rates into a verdict
func Classify(p, rateA, rateB float64) Verdict {
	if !(p < Alpha) {
		return VerdictInconclusive
	}
	if rateB > rateA {
		return VerdictImproved
	}
	return VerdictWorsened
}
