package postprocess

import (
	"math"
	"sort"
)

// Softmax converts raw scores into a probability distribution. The
// maximum score is subtracted before exponentiating so arbitrarily large
// inputs cannot overflow.
func Softmax(scores []float32) []float32 {
	if len(scores) == 0 {
		return nil
	}
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}
	exps := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		e := math.Exp(float64(s - maxScore))
		exps[i] = e
		sum += e
	}
	probs := make([]float32, len(scores))
	for i, e := range exps {
		probs[i] = float32(e / sum)
	}
	return probs
}

// Prediction pairs a class index with its probability.
type Prediction struct {
	Index       int
	Probability float32
}

// TopK returns the k highest-probability classes in descending order,
// with k clamped to the vector length.
func TopK(probs []float32, k int) []Prediction {
	if k > len(probs) {
		k = len(probs)
	}
	if k <= 0 {
		return nil
	}
	ranked := make([]Prediction, len(probs))
	for i, p := range probs {
		ranked[i] = Prediction{Index: i, Probability: p}
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].Probability > ranked[j].Probability
	})
	return ranked[:k]
}
