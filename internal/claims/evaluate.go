// Package claims matches declared EvaluationClaim hypotheses against
// aggregated results and issues a satisfied/violated/inconclusive
// verdict for each, mirroring the exit-code-authoritative classification
// style used elsewhere in this codebase for outcome determination.
package claims

import (
	"fmt"
	"math"

	"github.com/justapithecus/graphbench/types"
)

// groupKey identifies one summary partition by (sut, caseClass, metric).
type groupKey struct {
	sutID     string
	caseClass string
	metric    string
}

// Evaluate evaluates every claim against agg and returns one
// ClaimEvaluation per claim, in the same order as claims.
func Evaluate(claims []types.EvaluationClaim, agg types.AggregatedResult) []types.ClaimEvaluation {
	summaries := indexSummaries(agg.Summaries)
	comparisons := indexComparisons(agg.Comparisons)

	out := make([]types.ClaimEvaluation, 0, len(claims))
	for _, claim := range claims {
		out = append(out, evaluateOne(claim, summaries, comparisons))
	}
	return out
}

func indexSummaries(summaries []types.SummaryStats) map[groupKey]types.SummaryStats {
	idx := make(map[groupKey]types.SummaryStats, len(summaries))
	for _, s := range summaries {
		idx[groupKey{s.SutID, s.CaseClass, s.Metric}] = s
	}
	return idx
}

type comparisonKey struct {
	primary   string
	baseline  string
	caseClass string
	metric    string
}

func indexComparisons(comparisons []types.PairwiseComparison) map[comparisonKey]types.PairwiseComparison {
	idx := make(map[comparisonKey]types.PairwiseComparison, len(comparisons))
	for _, c := range comparisons {
		idx[comparisonKey{c.Primary, c.Baseline, c.CaseClass, c.Metric}] = c
	}
	return idx
}

func evaluateOne(claim types.EvaluationClaim, summaries map[groupKey]types.SummaryStats, comparisons map[comparisonKey]types.PairwiseComparison) types.ClaimEvaluation {
	caseClasses := scopedCaseClasses(claim, summaries)

	var primaryTotal, baselineTotal float64
	var primaryCount, baselineCount int
	var sampleComparison *types.PairwiseComparison

	for _, caseClass := range caseClasses {
		if p, ok := summaries[groupKey{claim.Sut, caseClass, claim.Metric}]; ok && p.N > 0 {
			primaryTotal += p.Mean * float64(p.N)
			primaryCount += p.N
		}
		if b, ok := summaries[groupKey{claim.Baseline, caseClass, claim.Metric}]; ok && b.N > 0 {
			baselineTotal += b.Mean * float64(b.N)
			baselineCount += b.N
		}
		if c, ok := comparisons[comparisonKey{claim.Sut, claim.Baseline, caseClass, claim.Metric}]; ok {
			cc := c
			sampleComparison = &cc
		}
	}

	if primaryCount == 0 {
		return inconclusive(claim, fmt.Sprintf("no results found for primary sut %q on metric %q within the claim's scope", claim.Sut, claim.Metric))
	}
	if baselineCount == 0 {
		return inconclusive(claim, fmt.Sprintf("no results found for baseline sut %q on metric %q within the claim's scope", claim.Baseline, claim.Metric))
	}

	primaryMean := primaryTotal / float64(primaryCount)
	baselineMean := baselineTotal / float64(baselineCount)

	evidence := types.ClaimEvidence{
		PrimaryValue:  primaryMean,
		BaselineValue: baselineMean,
		Delta:         primaryMean - baselineMean,
	}
	if baselineMean == 0 {
		evidence.Ratio = math.Inf(1)
	} else {
		evidence.Ratio = primaryMean / baselineMean
	}

	if sampleComparison != nil {
		p := sampleComparison.PValue
		e := sampleComparison.EffectSize
		n := sampleComparison.N
		evidence.PValue = &p
		evidence.EffectSize = &e
		evidence.N = &n
	}

	if math.IsNaN(evidence.Delta) {
		return inconclusive(claim, "primary or baseline mean is not a number")
	}

	sig := claim.EffectiveSignificanceLevel()
	if evidence.PValue != nil && *evidence.PValue > sig {
		return inconclusive(claim, fmt.Sprintf("p-value %.4f exceeds significance level %.4f", *evidence.PValue, sig))
	}
	if claim.MinEffectSize != nil && evidence.EffectSize != nil && math.Abs(*evidence.EffectSize) < *claim.MinEffectSize {
		return inconclusive(claim, fmt.Sprintf("effect size %.4f is below the minimum %.4f", *evidence.EffectSize, *claim.MinEffectSize))
	}

	satisfied := decide(claim, evidence.Delta)
	status := types.StatusViolated
	if satisfied {
		status = types.StatusSatisfied
	}

	return types.ClaimEvaluation{Claim: claim, Status: status, Evidence: evidence}
}

// decide applies the claim's direction to delta = primary - baseline.
func decide(claim types.EvaluationClaim, delta float64) bool {
	switch claim.Direction {
	case types.DirectionGreater:
		if claim.Threshold != nil {
			return delta >= *claim.Threshold
		}
		return delta > 0
	case types.DirectionLess:
		if claim.Threshold != nil {
			return delta <= -*claim.Threshold
		}
		return delta < 0
	case types.DirectionEqual:
		threshold := types.DefaultEqualityThreshold
		if claim.Threshold != nil {
			threshold = *claim.Threshold
		}
		return math.Abs(delta) <= threshold
	default:
		return false
	}
}

func inconclusive(claim types.EvaluationClaim, reason string) types.ClaimEvaluation {
	return types.ClaimEvaluation{
		Claim:              claim,
		Status:             types.StatusInconclusive,
		Evidence:           types.ClaimEvidence{PrimaryValue: math.NaN(), BaselineValue: math.NaN()},
		InconclusiveReason: reason,
	}
}

// scopedCaseClasses returns the case classes a claim applies to: every
// case class with a primary-sut summary when scope is global, or the
// explicit set named in scopeConstraints for caseClass/parameterRange
// scopes.
func scopedCaseClasses(claim types.EvaluationClaim, summaries map[groupKey]types.SummaryStats) []string {
	if claim.Scope == types.ScopeGlobal || claim.ScopeConstraints == nil {
		seen := make(map[string]struct{})
		var out []string
		for k := range summaries {
			if k.sutID != claim.Sut {
				continue
			}
			if _, ok := seen[k.caseClass]; !ok {
				seen[k.caseClass] = struct{}{}
				out = append(out, k.caseClass)
			}
		}
		return out
	}

	raw, ok := claim.ScopeConstraints["caseClass"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
