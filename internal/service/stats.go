package service

import "moodscale/internal/model"

// OverallAverages returns the mean intensity per emotion. Emotions without
// entries are absent from the result.
func OverallAverages(entries []model.Entry) map[string]float64 {
	sums := make(map[string]int64)
	counts := make(map[string]int)
	for _, e := range entries {
		sums[e.Emotion] += int64(e.Intensity)
		counts[e.Emotion]++
	}

	avg := make(map[string]float64, len(sums))
	for emotion, sum := range sums {
		avg[emotion] = float64(sum) / float64(counts[emotion])
	}
	return avg
}

// PerQuestionAverages returns, per emotion, the mean weight recorded under
// each question key that appears in at least one of its entries.
func PerQuestionAverages(entries []model.Entry) map[string]map[string]float64 {
	type acc struct {
		sum   int64
		count int
	}
	byEmotion := make(map[string]map[string]*acc)
	for _, e := range entries {
		qs, ok := byEmotion[e.Emotion]
		if !ok {
			qs = make(map[string]*acc)
			byEmotion[e.Emotion] = qs
		}
		for key, weight := range e.Responses {
			a, ok := qs[key]
			if !ok {
				a = &acc{}
				qs[key] = a
			}
			a.sum += int64(weight)
			a.count++
		}
	}

	avg := make(map[string]map[string]float64, len(byEmotion))
	for emotion, qs := range byEmotion {
		m := make(map[string]float64, len(qs))
		for key, a := range qs {
			m[key] = float64(a.sum) / float64(a.count)
		}
		avg[emotion] = m
	}
	return avg
}

// Counts returns the number of entries per emotion
func Counts(entries []model.Entry) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.Emotion]++
	}
	return counts
}

// ComputeStats aggregates the full history. An empty history yields two
// empty, non-nil maps.
func ComputeStats(entries []model.Entry) *model.Stats {
	return &model.Stats{
		Overall:    OverallAverages(entries),
		ByQuestion: PerQuestionAverages(entries),
	}
}
