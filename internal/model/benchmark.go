package model

import (
	"fmt"
	"time"
)

// BenchmarkScope selects the comparison population
type BenchmarkScope string

const (
	ScopeIndustry BenchmarkScope = "industry"
	ScopeGlobal   BenchmarkScope = "global"
)

// BenchmarkCategory positions one attempt's category score against the
// population mean. A nil average means "no data", never zero.
type BenchmarkCategory struct {
	Name            string   `json:"name"`
	UserScore       float64  `json:"userScore"`
	IndustryAverage *float64 `json:"industryAverage"`
	GlobalAverage   *float64 `json:"globalAverage"`
}

// BenchmarkSnapshot compares one attempt against all other completed
// attempts of the same survey template in one reporting quarter.
type BenchmarkSnapshot struct {
	Quarter    string              `json:"quarter"`
	SurveyID   string              `json:"surveyTemplateId"`
	Industry   string              `json:"industry,omitempty"`
	Scope      BenchmarkScope      `json:"scope"`
	Population int                 `json:"population"`
	Categories []BenchmarkCategory `json:"categories"`
}

// HasData reports whether any category carries a population average
func (s *BenchmarkSnapshot) HasData() bool {
	for _, c := range s.Categories {
		if c.IndustryAverage != nil || c.GlobalAverage != nil {
			return true
		}
	}
	return false
}

// QuarterOf returns the calendar quarter label for t in UTC, e.g. "2026-Q3"
func QuarterOf(t time.Time) string {
	t = t.UTC()
	q := (int(t.Month())-1)/3 + 1
	return fmt.Sprintf("%d-Q%d", t.Year(), q)
}

// QuarterBounds returns the [from, to) UTC interval of t's calendar quarter
func QuarterBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	q := (int(t.Month()) - 1) / 3
	from := time.Date(t.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 3, 0)
}
