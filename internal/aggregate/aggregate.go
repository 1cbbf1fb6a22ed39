package aggregate

import (
	"math"
	"sort"

	"github.com/justapithecus/graphbench/types"
)

// partitionKey groups results by (sut, caseClass).
type partitionKey struct {
	sutID     string
	caseClass string
}

// Aggregate groups results by (sut, caseClass), computes summary
// statistics for every metric present in a partition, and runs a
// pairwise comparison between every primary-role SUT and every other
// SUT sharing its case class, for every metric they have in common.
func Aggregate(results []types.EvaluationResult) types.AggregatedResult {
	partitions := make(map[partitionKey][]types.EvaluationResult)
	sutRoles := make(map[string]types.SutRole)
	for _, r := range results {
		key := partitionKey{sutID: r.Run.SutID, caseClass: r.CaseClass}
		partitions[key] = append(partitions[key], r)
		sutRoles[r.Run.SutID] = r.SutRole
	}

	keys := make([]partitionKey, 0, len(partitions))
	for k := range partitions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].sutID != keys[j].sutID {
			return keys[i].sutID < keys[j].sutID
		}
		return keys[i].caseClass < keys[j].caseClass
	})

	var summaries []types.SummaryStats
	metricsByPartition := make(map[partitionKey]map[string][]float64)

	for _, key := range keys {
		partResults := partitions[key]
		byMetric := make(map[string][]float64)
		for _, r := range partResults {
			for metric, v := range r.Metrics.Numeric {
				if math.IsNaN(v) {
					continue
				}
				byMetric[metric] = append(byMetric[metric], v)
			}
		}
		metricsByPartition[key] = byMetric

		metricNames := make([]string, 0, len(byMetric))
		for m := range byMetric {
			metricNames = append(metricNames, m)
		}
		sort.Strings(metricNames)
		for _, metric := range metricNames {
			summaries = append(summaries, summarize(key.sutID, key.caseClass, metric, byMetric[metric]))
		}
	}

	var comparisons []types.PairwiseComparison
	caseClasses := make(map[string]struct{})
	for _, k := range keys {
		caseClasses[k.caseClass] = struct{}{}
	}
	classNames := make([]string, 0, len(caseClasses))
	for c := range caseClasses {
		classNames = append(classNames, c)
	}
	sort.Strings(classNames)

	for _, caseClass := range classNames {
		sutsInClass := make([]string, 0)
		for _, k := range keys {
			if k.caseClass == caseClass {
				sutsInClass = append(sutsInClass, k.sutID)
			}
		}
		sort.Strings(sutsInClass)

		for _, primarySut := range sutsInClass {
			if sutRoles[primarySut] != types.RolePrimary {
				continue
			}
			primaryMetrics := metricsByPartition[partitionKey{primarySut, caseClass}]
			for _, baselineSut := range sutsInClass {
				if baselineSut == primarySut {
					continue
				}
				baselineMetrics := metricsByPartition[partitionKey{baselineSut, caseClass}]
				metricNames := make([]string, 0)
				for m := range primaryMetrics {
					if _, ok := baselineMetrics[m]; ok {
						metricNames = append(metricNames, m)
					}
				}
				sort.Strings(metricNames)
				for _, metric := range metricNames {
					comparisons = append(comparisons, compare(primarySut, baselineSut, metric, caseClass, primaryMetrics[metric], baselineMetrics[metric]))
				}
			}
		}
	}

	return types.AggregatedResult{Summaries: summaries, Comparisons: comparisons}
}
