package retrieval

import (
	"math"

	"github.com/sweetpotato0/ai-reasoner/vector"
)

// diversify reorders matches by maximal marginal relevance and keeps at most
// limit of them. lambda weighs relevance against similarity to the matches
// already picked. Scores in the result stay the query similarities.
func diversify(matches []vector.Match, lambda float32, limit int) []vector.Match {
	remaining := make([]vector.Match, 0, len(matches))
	for _, m := range matches {
		if m.Embedding != nil {
			remaining = append(remaining, m)
		}
	}

	selected := make([]vector.Match, 0, min(limit, len(remaining)))
	for len(remaining) > 0 && len(selected) < limit {
		bestIdx := -1
		bestScore := float32(math.Inf(-1))
		for idx, cand := range remaining {
			var penalty float32
			for _, picked := range selected {
				if len(picked.Embedding.Vector) != len(cand.Embedding.Vector) {
					continue
				}
				penalty = max(penalty, vector.CosineSimilarity(cand.Embedding.Vector, picked.Embedding.Vector))
			}
			score := lambda*cand.Score - (1-lambda)*penalty
			if score > bestScore {
				bestScore = score
				bestIdx = idx
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return selected
}
