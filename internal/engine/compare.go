package engine

import (
	"context"
	"errors"

	"github.com/piwi3910/LoadPlanner/internal/mip"
	"github.com/piwi3910/LoadPlanner/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.SolveSettings
}

// ComparisonResult holds the plan and model statistics for a single scenario.
type ComparisonResult struct {
	Scenario     ComparisonScenario
	Plan         model.LoadPlan
	Err          error
	Vars         int
	Rows         int
	VehiclesUsed int
	WastePercent float64
}

// SolverFactory creates a solver configured for the given settings.
type SolverFactory func(model.SolveSettings) mip.Solver

// CompareScenarios builds and solves the instance once per scenario and
// returns the results in scenario order. Every scenario should reach the
// same optimal objective; the model size and search effort differ with the
// encoding and linking choices.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, in model.Instance, factory SolverFactory) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		res := ComparisonResult{Scenario: scenario}

		m, _, err := NewBuilder(scenario.Settings, nil).Build(in)
		if err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}
		res.Vars = m.NumVars()
		res.Rows = m.NumConstraints()

		// Verification stays on so a scenario that disagrees geometrically
		// shows up as an error rather than as a number.
		settings := scenario.Settings
		settings.Verify = true
		p := NewPlanner(factory(settings), settings)
		res.Plan, res.Err = p.Plan(ctx, in)
		res.VehiclesUsed = len(res.Plan.UsedVehicles())
		if res.Plan.Status == model.PlanOptimal {
			res.WastePercent = 100.0 - res.Plan.TotalEfficiency()
		}

		results = append(results, res)
	}

	return results
}

// Agree reports whether every optimal result reached the same objective
// within tol. Scenarios that did not reach optimality are ignored.
func Agree(results []ComparisonResult, tol float64) bool {
	first := true
	var ref float64
	for _, r := range results {
		if r.Err != nil || r.Plan.Status != model.PlanOptimal {
			continue
		}
		if first {
			ref, first = r.Plan.Objective+offsetOf(r), false
			continue
		}
		if d := r.Plan.Objective + offsetOf(r) - ref; d > tol || d < -tol {
			return false
		}
	}
	return true
}

// offsetOf restores the carton-volume constant dropped by DropVolumeOffset
// so objectives compare on the same scale.
func offsetOf(r ComparisonResult) float64 {
	if !r.Scenario.Settings.DropVolumeOffset {
		return 0
	}
	var v float64
	for _, veh := range r.Plan.Vehicles {
		v += veh.LoadedVolume()
	}
	return -v
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying the formulation choices that should not
// change the optimum.
func BuildDefaultScenarios(base model.SolveSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	// Scenario: Try the other orientation encoding
	alt := base
	if base.Encoding == model.EncodingFourBit {
		alt.Encoding = model.EncodingOneHot
		scenarios = append(scenarios, ComparisonScenario{Name: "One-hot Orientation", Settings: alt})
	} else {
		alt.Encoding = model.EncodingFourBit
		scenarios = append(scenarios, ComparisonScenario{Name: "Four-bit Orientation", Settings: alt})
	}

	// Scenario: Toggle the usage linking rows
	link := base
	link.LinkUsage = !base.LinkUsage
	name := "Without Usage Linking"
	if link.LinkUsage {
		name = "With Usage Linking"
	}
	scenarios = append(scenarios, ComparisonScenario{Name: name, Settings: link})

	// Scenario: Objective without the constant offset
	if !base.DropVolumeOffset {
		noOffset := base
		noOffset.DropVolumeOffset = true
		scenarios = append(scenarios, ComparisonScenario{Name: "No Volume Offset", Settings: noOffset})
	}

	return scenarios
}

// FirstError returns the first scenario error that is not an infeasibility
// verdict, or nil.
func FirstError(results []ComparisonResult) error {
	for _, r := range results {
		if r.Err != nil && !errors.Is(r.Err, ErrModelInfeasible) {
			return r.Err
		}
	}
	return nil
}
