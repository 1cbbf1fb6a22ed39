// Package aggregate groups validated results by (sut, caseClass),
// computes descriptive summary statistics per metric, and runs
// pairwise statistical comparisons between a primary SUT and its
// declared baselines.
package aggregate

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/justapithecus/graphbench/types"
)

// summarize computes SummaryStats over values, which must be the
// already-filtered (non-NaN, non-absent) samples for one metric within
// one (sut, caseClass) partition.
func summarize(sutID, caseClass, metric string, values []float64) types.SummaryStats {
	n := len(values)
	s := types.SummaryStats{SutID: sutID, CaseClass: caseClass, Metric: metric, N: n}
	if n == 0 {
		return s
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	s.Mean = stat.Mean(sorted, nil)
	s.Min = sorted[0]
	s.Max = sorted[n-1]
	s.Median = stat.Quantile(0.5, stat.LinInterp, sorted, nil)
	s.Q1 = stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	s.Q3 = stat.Quantile(0.75, stat.LinInterp, sorted, nil)
	if n >= 2 {
		std := stat.StdDev(sorted, nil)
		s.Std = &std
	}

	s.QuantileCheckDelta = max(
		crossCheckQuantile(sorted, 0.5, s.Median),
		crossCheckQuantile(sorted, 0.25, s.Q1),
		crossCheckQuantile(sorted, 0.75, s.Q3),
	)

	return s
}
