package aggregate

import (
	"math"

	mstats "github.com/montanaflynn/stats"
)

// crossCheckQuantile recomputes a quantile with an independent
// implementation (montanaflynn/stats) and returns the absolute
// difference against gonum's result. The two libraries use different
// interpolation rules: gonum's LinInterp interpolates the empirical CDF,
// while montanaflynn averages the two neighbouring order statistics when
// q·n is not a whole number. They agree when q·n is whole (e.g. the
// median of an even-length sample) and can differ otherwise (q1 and q3
// of {1,2,3,4,5} differ by 0.25). Returns 0 when montanaflynn rejects
// the input, which it does for an empty sample or when q·n is below 1.
func crossCheckQuantile(sorted []float64, q float64, gonumValue float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	got, err := mstats.Percentile(mstats.Float64Data(sorted), q*100)
	if err != nil {
		return 0
	}
	return math.Abs(got - gonumValue)
}

// crossCheckCohensD recomputes Cohen's d using montanaflynn/stats'
// sample standard deviation instead of gonum's, as an independent check
// on the pooled-variance computation in cohensD.
func crossCheckCohensD(a, b []float64) (float64, bool) {
	if len(a) < 2 || len(b) < 2 {
		return 0, false
	}
	meanA, errA := mstats.Mean(mstats.Float64Data(a))
	meanB, errB := mstats.Mean(mstats.Float64Data(b))
	stdA, errC := mstats.StandardDeviationSample(mstats.Float64Data(a))
	stdB, errD := mstats.StandardDeviationSample(mstats.Float64Data(b))
	if errA != nil || errB != nil || errC != nil || errD != nil {
		return 0, false
	}

	n1, n2 := float64(len(a)), float64(len(b))
	pooledVar := ((n1-1)*stdA*stdA + (n2-1)*stdB*stdB) / (n1 + n2 - 2)
	if pooledVar <= 0 {
		return 0, false
	}
	return (meanA - meanB) / math.Sqrt(pooledVar), true
}
