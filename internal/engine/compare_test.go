package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/piwi3910/PresentPack/internal/model"
)

func TestBuildDefaultScenarios(t *testing.T) {
	scenarios := BuildDefaultScenarios(model.DefaultSettings())

	require.Len(t, scenarios, 4)
	assert.Equal(t, "Current Settings", scenarios[0].Name)
	assert.False(t, scenarios[1].Settings.MostConstrainedFirst)
	assert.True(t, scenarios[1].Settings.Memoize)
	assert.False(t, scenarios[2].Settings.Memoize)
	assert.False(t, scenarios[3].Settings.AreaPrecheck)
}

func TestBuildDefaultScenarios_AllDisabled(t *testing.T) {
	scenarios := BuildDefaultScenarios(model.SolveSettings{})
	require.Len(t, scenarios, 1, "nothing left to switch off")
}

func TestCompareScenarios_AgreeOnAnswers(t *testing.T) {
	p := smallPuzzle()
	results, err := CompareScenarios(BuildDefaultScenarios(model.DefaultSettings()), p, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, results, 4)
	for _, r := range results {
		assert.Equal(t, 4, r.OK, r.Scenario.Name)
		assert.Equal(t, smallAnswers, r.Result.Answers(), r.Scenario.Name)
		assert.Greater(t, r.TotalNodes, 0, r.Scenario.Name)
	}
	assert.Empty(t, Disagreements(results))
}

func TestCompareScenarios_PropagatesErrors(t *testing.T) {
	p := smallPuzzle()
	p.Regions = append(p.Regions, model.Region{Width: 2, Height: 2, Counts: []int{0, 0, 1}})

	_, err := CompareScenarios(BuildDefaultScenarios(model.DefaultSettings()), p, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownShape)
}

func TestDisagreements(t *testing.T) {
	agree := model.SolveResult{Regions: []model.RegionResult{{Feasible: true}, {Feasible: false}}}
	differ := model.SolveResult{Regions: []model.RegionResult{{Feasible: true}, {Feasible: true}}}
	short := model.SolveResult{Regions: []model.RegionResult{{Feasible: true}}}

	results := []ComparisonResult{
		{Scenario: ComparisonScenario{Name: "base"}, Result: agree},
		{Scenario: ComparisonScenario{Name: "same"}, Result: agree},
		{Scenario: ComparisonScenario{Name: "flipped"}, Result: differ},
		{Scenario: ComparisonScenario{Name: "short"}, Result: short},
	}

	assert.Equal(t, []string{"flipped", "short"}, Disagreements(results))
	assert.Nil(t, Disagreements(results[:1]))
}
