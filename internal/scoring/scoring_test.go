package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aireadiness/internal/model"
)

func intPtr(v int) *int { return &v }

func catalog2x2() []model.Question {
	return []model.Question{
		{ID: 1, Category: "Strategy & Vision", Text: "We have an AI strategy"},
		{ID: 2, Category: "Strategy & Vision", Text: "Leadership sponsors AI"},
		{ID: 3, Category: "Data & Infrastructure", Text: "Our data is accessible"},
		{ID: 4, Category: "Data & Infrastructure", Text: "We have ML infrastructure"},
	}
}

func answers(vals map[int]*int) []model.Answer {
	out := []model.Answer{}
	for id := 1; id <= 4; id++ {
		out = append(out, model.Answer{QuestionID: id, Value: vals[id]})
	}
	return out
}

func TestScoreSplitCategories(t *testing.T) {
	// First category all agree, second all disagree -> 10 and 0, overall 50
	res, err := Score(answers(map[int]*int{
		1: intPtr(2), 2: intPtr(2), 3: intPtr(-2), 4: intPtr(-2),
	}), catalog2x2())
	require.NoError(t, err)
	require.Len(t, res.Categories, 2)

	assert.Equal(t, "Strategy & Vision", res.Categories[0].Category)
	assert.Equal(t, 2.0, res.Categories[0].RawAverage)
	assert.Equal(t, 10.0, res.Categories[0].NormalizedScore)

	assert.Equal(t, "Data & Infrastructure", res.Categories[1].Category)
	assert.Equal(t, -2.0, res.Categories[1].RawAverage)
	assert.Equal(t, 0.0, res.Categories[1].NormalizedScore)

	assert.Equal(t, 50, res.Overall)
}

func TestScoreAllNeutral(t *testing.T) {
	res, err := Score(answers(map[int]*int{
		1: intPtr(0), 2: intPtr(0), 3: intPtr(0), 4: intPtr(0),
	}), catalog2x2())
	require.NoError(t, err)
	for _, c := range res.Categories {
		assert.Equal(t, 5.0, c.NormalizedScore)
	}
	assert.Equal(t, 50, res.Overall)
}

func TestScoreUnansweredCategoryExcluded(t *testing.T) {
	// One category fully unanswered: it must be excluded, not treated as 0
	res, err := Score(answers(map[int]*int{
		1: intPtr(1), 2: intPtr(1),
	}), catalog2x2())
	require.NoError(t, err)
	require.Len(t, res.Categories, 1)
	assert.Equal(t, "Strategy & Vision", res.Categories[0].Category)
	assert.Equal(t, 7.5, res.Categories[0].NormalizedScore)
	assert.Equal(t, 75, res.Overall)
}

func TestScoreNoAnswers(t *testing.T) {
	_, err := Score(answers(nil), catalog2x2())
	assert.ErrorIs(t, err, ErrNoAnswers)
}

func TestScoreIgnoresUnknownQuestionIDs(t *testing.T) {
	ans := answers(map[int]*int{1: intPtr(2), 2: intPtr(2)})
	ans = append(ans, model.Answer{QuestionID: 99, Value: intPtr(-2)})
	res, err := Score(ans, catalog2x2())
	require.NoError(t, err)
	assert.Equal(t, 100, res.Overall)
}

func TestScoreRangesAndIdempotence(t *testing.T) {
	cases := []map[int]*int{
		{1: intPtr(-2), 2: intPtr(-2), 3: intPtr(-2), 4: intPtr(-2)},
		{1: intPtr(2), 2: intPtr(2), 3: intPtr(2), 4: intPtr(2)},
		{1: intPtr(-1), 2: intPtr(2), 3: intPtr(0), 4: intPtr(1)},
		{1: intPtr(1), 2: intPtr(-1), 3: intPtr(2), 4: intPtr(-2)},
	}
	for _, vals := range cases {
		first, err := Score(answers(vals), catalog2x2())
		require.NoError(t, err)
		second, err := Score(answers(vals), catalog2x2())
		require.NoError(t, err)
		assert.Equal(t, first, second)

		assert.GreaterOrEqual(t, first.Overall, 0)
		assert.LessOrEqual(t, first.Overall, 100)
		for _, c := range first.Categories {
			assert.GreaterOrEqual(t, c.NormalizedScore, 0.0)
			assert.LessOrEqual(t, c.NormalizedScore, 10.0)
		}
	}
}

func TestScoreMonotonicity(t *testing.T) {
	// Raising any single answer never decreases its category score or
	// the overall score.
	base := map[int]*int{1: intPtr(-1), 2: intPtr(0), 3: intPtr(1), 4: intPtr(-2)}
	baseRes, err := Score(answers(base), catalog2x2())
	require.NoError(t, err)

	for id := 1; id <= 4; id++ {
		for v := *base[id] + 1; v <= model.AnswerValueMax; v++ {
			raised := map[int]*int{}
			for k, p := range base {
				raised[k] = intPtr(*p)
			}
			raised[id] = intPtr(v)

			res, err := Score(answers(raised), catalog2x2())
			require.NoError(t, err)
			assert.GreaterOrEqual(t, res.Overall, baseRes.Overall)
			for i, c := range res.Categories {
				assert.GreaterOrEqual(t, c.NormalizedScore, baseRes.Categories[i].NormalizedScore)
			}
		}
	}
}
