package vectorstore

import (
	"math"

	"github.com/graphline/graphline/pkg/models"
)

// mmrLambda balances relevance against diversity: 0.5 weighs both equally.
const mmrLambda = 0.5

// selectMMR runs greedy Maximal-Marginal-Relevance selection over the
// candidates, which arrive ordered by descending similarity to the query.
// The single most-similar document is picked first; each further pick
// maximizes lambda*sim(doc) - (1-lambda)*max_sim(doc, selected) until topK
// documents are chosen or candidates run out.
func selectMMR(candidates []*models.Document, topK int, lambda float64) []*models.Document {
	if len(candidates) == 0 || topK <= 0 {
		return []*models.Document{}
	}

	selected := make([]*models.Document, 0, topK)
	remaining := make([]*models.Document, len(candidates))
	copy(remaining, candidates)

	selected = append(selected, remaining[0])
	remaining = remaining[1:]

	for len(selected) < topK && len(remaining) > 0 {
		bestIdx := 0
		bestScore := math.Inf(-1)

		for i, candidate := range remaining {
			redundancy := math.Inf(-1)
			for _, chosen := range selected {
				if sim := cosineSimilarity(candidate.Embedding, chosen.Embedding); sim > redundancy {
					redundancy = sim
				}
			}

			score := lambda*candidate.Similarity - (1-lambda)*redundancy
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}

// cosineSimilarity returns the cosine of the angle between two vectors, or
// 0 when either vector is empty, zero-length or of mismatched dimension.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64

	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
