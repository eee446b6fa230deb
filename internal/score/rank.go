// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"sort"

	"github.com/mzhao/paper-curator/pkg/types"
)

// RankAndSelect scores every candidate independently, sorts descending by
// relevance score, and truncates to topN. The sort is stable, so equal
// scores preserve the original fetch order and the output is deterministic
// for a given input order. Empty input returns an empty slice, never an
// error. Duplicate detection is not done here; the ingestion stage dedups
// by external identifier.
func RankAndSelect(papers []types.Candidate, topN int) []types.Candidate {
	scored := make([]types.Candidate, len(papers))
	for i, p := range papers {
		total, breakdown := Score(p)
		p.RelevanceScore = total
		p.ScoreBreakdown = &breakdown
		scored[i] = p
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})

	if topN >= 0 && len(scored) > topN {
		scored = scored[:topN]
	}

	return scored
}
