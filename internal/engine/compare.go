package engine

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/piwi3910/PresentPack/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.SolveSettings
}

// ComparisonResult holds the solve result and computed statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario   ComparisonScenario
	Result     model.SolveResult
	OK         int
	TotalNodes int
	MemoHits   int
	Duration   time.Duration
}

// CompareScenarios solves the puzzle once per scenario, in scenario order.
// This shows how much each search aid saves on a given input.
func CompareScenarios(scenarios []ComparisonScenario, p model.Puzzle, logger *zap.Logger) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		solver := New(scenario.Settings, logger)
		result, err := solver.Solve(p)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}

		results = append(results, ComparisonResult{
			Scenario:   scenario,
			Result:     result,
			OK:         result.OK(),
			TotalNodes: result.TotalNodes(),
			MemoHits:   result.TotalMemoHits(),
			Duration:   result.TotalDuration(),
		})
	}

	return results, nil
}

// Disagreements returns the names of scenarios whose answers differ from the
// first scenario. Every search aid is answer-preserving, so a non-empty
// result indicates a solver bug.
func Disagreements(results []ComparisonResult) []string {
	if len(results) < 2 {
		return nil
	}
	base := results[0].Result.Answers()

	var names []string
	for _, r := range results[1:] {
		answers := r.Result.Answers()
		if len(answers) != len(base) {
			names = append(names, r.Scenario.Name)
			continue
		}
		for i := range answers {
			if answers[i] != base[i] {
				names = append(names, r.Scenario.Name)
				break
			}
		}
	}
	return names
}

// BuildDefaultScenarios generates comparison scenarios from the current
// settings, switching off one search aid at a time.
func BuildDefaultScenarios(base model.SolveSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	if base.MostConstrainedFirst {
		s := base
		s.MostConstrainedFirst = false
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "First Shape Order",
			Settings: s,
		})
	}

	if base.Memoize {
		s := base
		s.Memoize = false
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No Memo",
			Settings: s,
		})
	}

	if base.AreaPrecheck {
		s := base
		s.AreaPrecheck = false
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No Area Precheck",
			Settings: s,
		})
	}

	return scenarios
}
