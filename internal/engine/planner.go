package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/piwi3910/LoadPlanner/internal/mip"
	"github.com/piwi3910/LoadPlanner/internal/model"
)

// PlanCache stores optimal plans keyed by instance fingerprint.
type PlanCache interface {
	Get(ctx context.Context, key string) (model.LoadPlan, bool, error)
	Put(ctx context.Context, key string, plan model.LoadPlan) error
}

// Recorder receives one observation per planning call.
type Recorder interface {
	ObserveSolve(status model.PlanStatus, encoding model.Encoding, stats model.SolveStats, vars, rows int)
	ObserveCache(hit bool)
}

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// WithLogger sets the planner logger.
func WithLogger(l *slog.Logger) PlannerOption {
	return func(p *Planner) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithCache enables plan caching.
func WithCache(c PlanCache) PlannerOption {
	return func(p *Planner) { p.cache = c }
}

// WithRecorder enables solve metrics.
func WithRecorder(r Recorder) PlannerOption {
	return func(p *Planner) { p.recorder = r }
}

// Planner runs the whole pipeline for one instance: validate, build the
// model, solve it once, extract and verify the plan.
type Planner struct {
	solver   mip.Solver
	settings model.SolveSettings
	logger   *slog.Logger
	cache    PlanCache
	recorder Recorder
}

// NewPlanner creates a Planner around a solver.
func NewPlanner(solver mip.Solver, settings model.SolveSettings, opts ...PlannerOption) *Planner {
	p := &Planner{
		solver:   solver,
		settings: settings,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(p)
	}
	p.logger = p.logger.With("component", "planner")
	return p
}

// Settings returns the planner's solve settings.
func (p *Planner) Settings() model.SolveSettings { return p.settings }

// Plan solves the instance. The returned plan always carries the status
// and solver statistics; placements are present only when the status is
// optimal. Errors wrap ErrInputInconsistency, ErrModelInfeasible,
// ErrUnboundedOrUnknown or ErrPlanVerification.
func (p *Planner) Plan(ctx context.Context, in model.Instance) (plan model.LoadPlan, err error) {
	start := time.Now()
	defer func() {
		attrs := []any{"op", "plan", "status", string(plan.Status), "dur_ms", time.Since(start).Milliseconds()}
		if err != nil {
			p.logger.InfoContext(ctx, "plan finished", append(attrs, "error", err)...)
			return
		}
		p.logger.InfoContext(ctx, "plan finished", attrs...)
	}()

	if err := Validate(in); err != nil {
		return model.LoadPlan{}, err
	}
	fp := in.Fingerprint(p.settings)

	if p.cache != nil {
		cached, ok, cerr := p.cache.Get(ctx, fp)
		if cerr != nil {
			p.logger.WarnContext(ctx, "plan cache lookup failed", "error", cerr)
		}
		if p.recorder != nil {
			p.recorder.ObserveCache(ok)
		}
		if ok {
			p.logger.DebugContext(ctx, "plan cache hit", "fingerprint", fp)
			return rebind(cached, in), nil
		}
	}

	m, vm, err := NewBuilder(p.settings, p.logger).Build(in)
	if err != nil {
		return model.LoadPlan{}, fmt.Errorf("build model: %w", err)
	}

	solveCtx := ctx
	if p.settings.TimeLimit > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, p.settings.TimeLimit)
		defer cancel()
	}
	sol, err := p.solver.Solve(solveCtx, m)
	if err != nil {
		return model.LoadPlan{Status: model.PlanUnknown}, fmt.Errorf("solve: %w", err)
	}

	plan, err = Extract(in, vm, sol)
	plan.Fingerprint = fp
	if p.recorder != nil {
		p.recorder.ObserveSolve(plan.Status, vm.Encoding, plan.Stats, m.NumVars(), m.NumConstraints())
	}
	p.logger.DebugContext(ctx, "solver returned",
		"status", sol.Status.String(), "objective", sol.Objective,
		"nodes", sol.Stats.Nodes, "iterations", sol.Stats.Iterations)
	if err != nil {
		return plan, err
	}

	if p.settings.Verify {
		vs := Verify(in, plan)
		if !p.settings.LinkUsage {
			// Without n_j >= s_ij rows a vehicle carrying only weightless
			// cartons may legitimately stay unused.
			vs = dropKind(vs, ViolationUsage)
		}
		if len(vs) > 0 {
			return plan, fmt.Errorf("%w: %s", ErrPlanVerification, strings.Join(FormatViolations(vs), "; "))
		}
	}

	if p.cache != nil {
		if cerr := p.cache.Put(ctx, fp, plan); cerr != nil {
			p.logger.WarnContext(ctx, "plan cache store failed", "error", cerr)
		}
	}
	return plan, nil
}

// rebind returns a copy of a cached plan whose placements and vehicles
// carry the cartons and containers of in. The fingerprint ignores IDs and
// labels, so a hit may come from an instance that named them differently.
// The cached slices are shared with the cache and are never written.
func rebind(cached model.LoadPlan, in model.Instance) model.LoadPlan {
	if cached.Vehicles == nil {
		return cached
	}
	plan := cached
	plan.Vehicles = make([]model.VehicleLoad, len(cached.Vehicles))
	for vi, v := range cached.Vehicles {
		if v.ContainerIndex >= 0 && v.ContainerIndex < len(in.Containers) {
			v.Container = in.Containers[v.ContainerIndex]
		}
		placements := make([]model.Placement, len(v.Placements))
		for pi, pl := range v.Placements {
			if pl.CartonIndex >= 0 && pl.CartonIndex < len(in.Cartons) {
				pl.Carton = in.Cartons[pl.CartonIndex]
			}
			placements[pi] = pl
		}
		v.Placements = placements
		plan.Vehicles[vi] = v
	}
	return plan
}

// PlanRoutes asks the route provider for a binding and plans the result.
func (p *Planner) PlanRoutes(ctx context.Context, cartons []model.Carton, containers []model.Container, routes RouteProvider) (model.LoadPlan, error) {
	rb, err := routes.Routes(ctx, cartons, containers)
	if err != nil {
		return model.LoadPlan{}, fmt.Errorf("route provider: %w", err)
	}
	return p.Plan(ctx, model.Instance{Cartons: cartons, Containers: containers, Route: rb})
}

// IsInfeasible reports whether err means the instance has no valid load,
// either proven by the solver or detected in the input.
func IsInfeasible(err error) bool {
	return errors.Is(err, ErrModelInfeasible) || errors.Is(err, ErrInputInconsistency)
}
