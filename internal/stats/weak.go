package stats

import (
	"sort"

	"github.com/verte-zerg/typetest/internal/model"
)

// CharBreakdown counts outcomes per expected symbol over the processed prefix.
// Results are sorted by symbol.
func CharBreakdown(chars []model.Character) []model.CharAggregate {
	idx := map[rune]int{}
	var out []model.CharAggregate
	for _, ch := range chars {
		if ch.Status != model.StatusCorrect && ch.Status != model.StatusIncorrect {
			continue
		}
		i, ok := idx[ch.Char]
		if !ok {
			i = len(out)
			idx[ch.Char] = i
			out = append(out, model.CharAggregate{Char: string(ch.Char)})
		}
		if ch.Status == model.StatusCorrect {
			out[i].Correct++
		} else {
			out[i].Incorrect++
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Char < out[j].Char })
	return out
}

// WeakChars returns up to top symbols with at least one miss, lowest accuracy
// first. Ties break on more misses, then on the symbol itself.
func WeakChars(aggs []model.CharAggregate, top int) []model.CharAggregate {
	candidates := make([]model.CharAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Incorrect > 0 {
			candidates = append(candidates, agg)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai, aj := charAccuracy(candidates[i]), charAccuracy(candidates[j])
		if ai != aj {
			return ai < aj
		}
		if candidates[i].Incorrect != candidates[j].Incorrect {
			return candidates[i].Incorrect > candidates[j].Incorrect
		}
		return candidates[i].Char < candidates[j].Char
	})
	if top > 0 && top < len(candidates) {
		candidates = candidates[:top]
	}
	return candidates
}

func charAccuracy(agg model.CharAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}

// CharLabel makes whitespace symbols readable in tables.
func CharLabel(ch string) string {
	switch ch {
	case " ":
		return "<space>"
	case "\n":
		return "<enter>"
	case "\t":
		return "<tab>"
	default:
		return ch
	}
}
