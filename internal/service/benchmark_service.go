package service

import (
	"context"
	"log"
	"time"

	"github.com/montanaflynn/stats"

	"aireadiness/internal/cache"
	"aireadiness/internal/model"
	"aireadiness/internal/repository"
	"aireadiness/internal/scoring"
)

// MinIndustryPopulation is the minimum number of completed attempts
// (excluding the requester's) before an industry average is published.
// Below it every industryAverage is null - never zero, never synthetic.
const MinIndustryPopulation = 5

// BenchmarkService computes industry and global averages across
// completed attempts of one survey template and reporting quarter, and
// positions a single attempt against them. Pure read-only aggregation:
// deterministic, order-independent, safe under concurrent completions.
type BenchmarkService struct {
	attemptRepo repository.AttemptRepo
	catalogRepo repository.CatalogRepo
	cache       cache.BenchmarkCache
}

// NewBenchmarkService creates a new benchmark service
func NewBenchmarkService(attemptRepo repository.AttemptRepo, catalogRepo repository.CatalogRepo, benchmarkCache cache.BenchmarkCache) *BenchmarkService {
	return &BenchmarkService{
		attemptRepo: attemptRepo,
		catalogRepo: catalogRepo,
		cache:       benchmarkCache,
	}
}

// Compare builds a benchmark snapshot for one attempt. Industry scope
// requires the attempt to carry an industry and a population of at least
// MinIndustryPopulation; otherwise all averages are null and callers
// should fall back to global scope.
func (s *BenchmarkService) Compare(ctx context.Context, attemptID string, owner model.Owner, scope model.BenchmarkScope) (*model.BenchmarkSnapshot, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, ErrNotFound
	}
	if !attempt.Owner.Matches(owner) {
		return nil, ErrForbidden
	}

	catalog, err := s.catalogRepo.GetVersion(ctx, attempt.SurveyID, attempt.CatalogVersion)
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, ErrNotFound
	}

	userResult, err := scoring.Score(attempt.Answers, catalog.Questions)
	if err == scoring.ErrNoAnswers {
		// A fresh draft has nothing to position against the population
		return nil, ErrIncompleteAnswers
	}
	if err != nil {
		return nil, err
	}
	userScores := make(map[string]float64, len(userResult.Categories))
	for _, c := range userResult.Categories {
		userScores[c.Category] = c.NormalizedScore
	}

	at := time.Now().UTC()
	if attempt.CompletedOn != nil {
		at = *attempt.CompletedOn
	}
	quarter := model.QuarterOf(at)

	industry := ""
	if scope == model.ScopeIndustry {
		industry = attempt.Industry
	}

	agg, err := s.aggregate(ctx, attempt, catalog, at, scope, industry)
	if err != nil {
		return nil, err
	}

	publish := agg.Population >= 1
	if scope == model.ScopeIndustry {
		publish = industry != "" && agg.Population >= MinIndustryPopulation
	}

	snapshot := &model.BenchmarkSnapshot{
		Quarter:    quarter,
		SurveyID:   attempt.SurveyID,
		Industry:   industry,
		Scope:      scope,
		Population: agg.Population,
		Categories: []model.BenchmarkCategory{},
	}
	for _, cat := range catalog.Categories() {
		entry := model.BenchmarkCategory{
			Name:      cat,
			UserScore: userScores[cat],
		}
		if publish {
			if mean, ok := agg.Categories[cat]; ok {
				v := mean
				if scope == model.ScopeIndustry {
					entry.IndustryAverage = &v
				} else {
					entry.GlobalAverage = &v
				}
			}
		}
		snapshot.Categories = append(snapshot.Categories, entry)
	}

	return snapshot, nil
}

// aggregate computes (or reads back) the per-category mean normalized
// scores of all other completed attempts in the quarter.
func (s *BenchmarkService) aggregate(ctx context.Context, attempt *model.AssessmentAttempt, catalog *model.Catalog, at time.Time, scope model.BenchmarkScope, industry string) (*cache.Aggregate, error) {
	quarter := model.QuarterOf(at)
	// The requester's own attempt is excluded from the population, so
	// the cached aggregate is keyed per attempt.
	scopeKey := string(scope) + ":" + attempt.ID
	if scope == model.ScopeIndustry {
		scopeKey += ":" + industry
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, attempt.SurveyID, quarter, scopeKey)
		if err != nil {
			log.Printf("benchmark cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	from, to := model.QuarterBounds(at)
	population, err := s.attemptRepo.CompletedInQuarter(ctx, attempt.SurveyID, from, to, industry)
	if err != nil {
		return nil, err
	}

	values := make(map[string][]float64)
	count := 0
	for _, other := range population {
		if other.ID == attempt.ID {
			continue
		}
		result, err := scoring.Score(other.Answers, catalog.Questions)
		if err != nil {
			// Completed attempts always score; skip anything odd
			continue
		}
		count++
		for _, c := range result.Categories {
			values[c.Category] = append(values[c.Category], c.NormalizedScore)
		}
	}

	agg := &cache.Aggregate{
		Categories: make(map[string]float64, len(values)),
		Population: count,
		ComputedAt: time.Now().UTC(),
	}
	for cat, vals := range values {
		mean, err := stats.Mean(vals)
		if err != nil {
			continue
		}
		agg.Categories[cat] = mean
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, attempt.SurveyID, quarter, scopeKey, agg); err != nil {
			log.Printf("benchmark cache write failed: %v", err)
		}
	}
	return agg, nil
}
