package aggregate

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/justapithecus/graphbench/types"
)

var standardNormal = distuv.Normal{Mu: 0, Sigma: 1}

// compare runs the pairwise comparison between a primary sample and a
// baseline sample for one metric. When the two samples have equal
// length they are treated as paired (matched by repetition index) and
// a Wilcoxon signed-rank test is used; otherwise a Mann-Whitney U test
// on unpaired samples is used. Both fall back to the normal
// approximation for the p-value, which the contract permits at any n.
func compare(primary, baseline string, metric, caseClass string, primaryValues, baselineValues []float64) types.PairwiseComparison {
	n := len(primaryValues)
	if len(baselineValues) < n {
		n = len(baselineValues)
	}

	cmp := types.PairwiseComparison{
		Primary:   primary,
		Baseline:  baseline,
		Metric:    metric,
		CaseClass: caseClass,
		N:         n,
	}

	if len(primaryValues) == 0 || len(baselineValues) == 0 {
		cmp.Test = "none"
		return cmp
	}

	if len(primaryValues) == len(baselineValues) {
		stat, z := wilcoxonSignedRank(primaryValues, baselineValues)
		cmp.Test = "wilcoxon-signed-rank"
		cmp.Statistic = stat
		cmp.PValue = twoSidedNormalP(z)
	} else {
		u, z := mannWhitneyU(primaryValues, baselineValues)
		cmp.Test = "mann-whitney-u"
		cmp.Statistic = u
		cmp.PValue = twoSidedNormalP(z)
	}

	if d, ok := cohensD(primaryValues, baselineValues); ok {
		cmp.EffectSize = d
		cmp.EffectSizeID = "cohens-d"
		if checkD, checkOk := crossCheckCohensD(primaryValues, baselineValues); checkOk {
			cmp.EffectSizeCheckDelta = math.Abs(d - checkD)
		}
	} else {
		cmp.EffectSize = cliffsDelta(primaryValues, baselineValues)
		cmp.EffectSizeID = "cliffs-delta"
	}

	cmp.MeanDelta = stat_Mean(primaryValues) - stat_Mean(baselineValues)
	baselineMean := stat_Mean(baselineValues)
	if baselineMean == 0 {
		cmp.MeanRatio = math.Inf(1)
	} else {
		cmp.MeanRatio = stat_Mean(primaryValues) / baselineMean
	}

	return cmp
}

func stat_Mean(values []float64) float64 {
	return stat.Mean(values, nil)
}

// twoSidedNormalP converts a z-statistic into a two-sided p-value using
// the standard normal distribution.
func twoSidedNormalP(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	p := 2 * (1 - standardNormal.CDF(math.Abs(z)))
	if p > 1 {
		p = 1
	}
	if p < 0 {
		p = 0
	}
	return p
}

// ranks assigns 1-based ranks to values, averaging ranks across tied
// groups. values is not modified; the returned ranks are in the same
// order as values.
func ranks(values []float64) []float64 {
	type indexed struct {
		v   float64
		idx int
	}
	items := make([]indexed, len(values))
	for i, v := range values {
		items[i] = indexed{v: v, idx: i}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].v < items[j].v })

	out := make([]float64, len(values))
	i := 0
	for i < len(items) {
		j := i
		for j < len(items) && items[j].v == items[i].v {
			j++
		}
		avgRank := float64(i+j+1) / 2 // ranks are 1-based; i..j-1 are 0-based positions
		for k := i; k < j; k++ {
			out[items[k].idx] = avgRank
		}
		i = j
	}
	return out
}

// wilcoxonSignedRank computes the signed-rank statistic and its normal
// approximation z for paired samples a (primary) and b (baseline).
// Zero differences are dropped before ranking, per the standard
// Wilcoxon procedure.
func wilcoxonSignedRank(a, b []float64) (w, z float64) {
	diffs := make([]float64, 0, len(a))
	for i := range a {
		d := a[i] - b[i]
		if d != 0 {
			diffs = append(diffs, d)
		}
	}
	n := len(diffs)
	if n == 0 {
		return 0, 0
	}

	abs := make([]float64, n)
	for i, d := range diffs {
		abs[i] = math.Abs(d)
	}
	r := ranks(abs)

	var wPlus, wMinus float64
	for i, d := range diffs {
		if d > 0 {
			wPlus += r[i]
		} else {
			wMinus += r[i]
		}
	}
	w = wPlus

	meanW := float64(n*(n+1)) / 4
	varW := float64(n*(n+1)*(2*n+1)) / 24
	if varW <= 0 {
		return w, 0
	}
	z = (w - meanW) / math.Sqrt(varW)
	return w, z
}

// mannWhitneyU computes the U statistic and its normal approximation z
// for unpaired samples a (primary) and b (baseline).
func mannWhitneyU(a, b []float64) (u, z float64) {
	n1, n2 := len(a), len(b)
	if n1 == 0 || n2 == 0 {
		return 0, 0
	}

	combined := make([]float64, 0, n1+n2)
	combined = append(combined, a...)
	combined = append(combined, b...)
	r := ranks(combined)

	var rankSumA float64
	for i := 0; i < n1; i++ {
		rankSumA += r[i]
	}

	uA := rankSumA - float64(n1*(n1+1))/2
	u = uA

	meanU := float64(n1*n2) / 2
	varU := float64(n1*n2*(n1+n2+1)) / 12
	if varU <= 0 {
		return u, 0
	}
	z = (u - meanU) / math.Sqrt(varU)
	return u, z
}

// cohensD computes Cohen's d using the pooled standard deviation. Undefined
// (ok=false) when either sample has fewer than 2 observations.
func cohensD(a, b []float64) (d float64, ok bool) {
	if len(a) < 2 || len(b) < 2 {
		return 0, false
	}
	meanA, stdA := stat.MeanStdDev(a, nil)
	meanB, stdB := stat.MeanStdDev(b, nil)

	n1, n2 := float64(len(a)), float64(len(b))
	pooledVar := ((n1-1)*stdA*stdA + (n2-1)*stdB*stdB) / (n1 + n2 - 2)
	if pooledVar <= 0 {
		return 0, false
	}
	return (meanA - meanB) / math.Sqrt(pooledVar), true
}

// cliffsDelta computes Cliff's delta, a non-parametric measure of
// stochastic dominance in [-1, 1].
func cliffsDelta(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var greater, less int
	for _, x := range a {
		for _, y := range b {
			switch {
			case x > y:
				greater++
			case x < y:
				less++
			}
		}
	}
	return float64(greater-less) / float64(len(a)*len(b))
}

// EffectMagnitude classifies |effectSize| per the id's interpretation
// scale: Cohen's d uses {negligible, small, medium, very-large}, with
// every |d| >= 0.8 reported as very-large; Cliff's delta / rank-biserial
// use {negligible, small, medium, large}.
func EffectMagnitude(effectSizeID string, effectSize float64) string {
	abs := math.Abs(effectSize)
	if effectSizeID == "cohens-d" {
		switch {
		case abs < 0.2:
			return "negligible"
		case abs < 0.5:
			return "small"
		case abs < 0.8:
			return "medium"
		default:
			return "very-large"
		}
	}
	switch {
	case abs < 0.147:
		return "negligible"
	case abs < 0.33:
		return "small"
	case abs < 0.474:
		return "medium"
	default:
		return "large"
	}
}
