package scoring

import (
	"errors"
	"math"

	"github.com/montanaflynn/stats"

	"aireadiness/internal/model"
)

// ErrNoAnswers is returned when no category has any answered question.
// Callers must not treat this as a zero score.
var ErrNoAnswers = errors.New("no answered questions to score")

// CategoryScore is the derived score for one question category
type CategoryScore struct {
	Category        string  `json:"category"`
	RawAverage      float64 `json:"rawAverage"`      // mean Likert value, -2..2
	NormalizedScore float64 `json:"normalizedScore"` // rescaled to 0..10
	Answered        int     `json:"answered"`
	Total           int     `json:"total"`
}

// Result is the output of a scoring pass
type Result struct {
	Categories []CategoryScore `json:"categories"`
	Overall    int             `json:"overall"` // 0..100
}

// Normalize maps a -2..2 raw average linearly onto the 0..10 scale
func Normalize(rawAverage float64) float64 {
	return (rawAverage + 2) * 2.5
}

// Score maps answers plus the question catalog into per-category scores
// and one overall score. Pure: same inputs always yield the same output.
// Answers referencing unknown question ids are ignored to tolerate
// catalog drift; categories with zero answered questions are excluded.
func Score(answers []model.Answer, questions []model.Question) (*Result, error) {
	byID := make(map[int]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	// Group answered values by category, keeping catalog category order
	values := make(map[string][]float64)
	totals := make(map[string]int)
	order := []string{}
	for _, q := range questions {
		if totals[q.Category] == 0 {
			order = append(order, q.Category)
		}
		totals[q.Category]++
	}
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok || a.Value == nil {
			continue
		}
		values[q.Category] = append(values[q.Category], float64(*a.Value))
	}

	categories := []CategoryScore{}
	normalized := []float64{}
	for _, cat := range order {
		vals := values[cat]
		if len(vals) == 0 {
			continue
		}
		raw, err := stats.Mean(vals)
		if err != nil {
			continue
		}
		norm := Normalize(raw)
		categories = append(categories, CategoryScore{
			Category:        cat,
			RawAverage:      raw,
			NormalizedScore: norm,
			Answered:        len(vals),
			Total:           totals[cat],
		})
		normalized = append(normalized, norm)
	}

	if len(categories) == 0 {
		return nil, ErrNoAnswers
	}

	mean, err := stats.Mean(normalized)
	if err != nil {
		return nil, ErrNoAnswers
	}

	return &Result{
		Categories: categories,
		Overall:    int(math.Round(mean * 10)),
	}, nil
}
