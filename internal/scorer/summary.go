package scorer

import "math"

// Summary aggregates a batch of scored records.
type Summary struct {
	Total             int                   `json:"total"`
	ByPriority        map[Priority]int      `json:"by_priority"`
	AverageScore      float64               `json:"average_score"`
	AverageDimensions map[Dimension]float64 `json:"average_dimensions"`
	TopScore          int                   `json:"top_score"`
}

// Summarize counts priorities and averages scores over leads. Averages are
// rounded to one decimal place.
func Summarize(leads []ScoredRecord) Summary {
	s := Summary{
		Total:             len(leads),
		ByPriority:        make(map[Priority]int, len(Priorities)),
		AverageDimensions: make(map[Dimension]float64, len(Dimensions)),
	}
	for _, p := range Priorities {
		s.ByPriority[p] = 0
	}
	if len(leads) == 0 {
		return s
	}

	var total float64
	dims := make(map[Dimension]float64, len(Dimensions))
	for _, l := range leads {
		s.ByPriority[l.Priority]++
		total += float64(l.TotalScore)
		s.TopScore = max(s.TopScore, l.TotalScore)
		for _, d := range Dimensions {
			dims[d] += float64(l.Breakdown[d].Score)
		}
	}
	n := float64(len(leads))
	s.AverageScore = round1(total / n)
	for _, d := range Dimensions {
		s.AverageDimensions[d] = round1(dims[d] / n)
	}
	return s
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
