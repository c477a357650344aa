package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/piwi3910/LoadPlanner/internal/model"
)

var (
	// Registry is the dedicated Prometheus registry for the planner
	Registry = prometheus.NewRegistry()
	// Solves counts planning runs by plan status and orientation encoding
	Solves = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "loadplanner_solves_total", Help: "Load plans solved by status and encoding."},
		[]string{"status", "encoding"},
	)
	// SolveDuration records solver wall time in seconds
	SolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "loadplanner_solve_duration_seconds", Help: "Solver wall time in seconds.", Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300}},
		[]string{"status"},
	)
	// BranchNodes records branch-and-bound nodes per solve
	BranchNodes = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "loadplanner_branch_nodes", Help: "Branch-and-bound nodes explored per solve.", Buckets: prometheus.ExponentialBuckets(1, 4, 10)},
	)
	// ModelSize holds the variable and row counts of the last model built
	ModelSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "loadplanner_model_size", Help: "Variables and rows of the last model."},
		[]string{"kind"},
	)
	// CacheLookups counts plan cache lookups by result
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "loadplanner_cache_lookups_total", Help: "Plan cache lookups by result."},
		[]string{"result"},
	)
)

// RegisterDefault registers collectors to the planner registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(Solves)
		Registry.MustRegister(SolveDuration)
		Registry.MustRegister(BranchNodes)
		Registry.MustRegister(ModelSize)
		Registry.MustRegister(CacheLookups)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once

// Recorder feeds planner observations into the collectors above.
type Recorder struct{}

// ObserveSolve records one solver run.
func (Recorder) ObserveSolve(status model.PlanStatus, enc model.Encoding, stats model.SolveStats, vars, rows int) {
	Solves.WithLabelValues(string(status), string(enc)).Inc()
	SolveDuration.WithLabelValues(string(status)).Observe(stats.WallTime.Seconds())
	BranchNodes.Observe(float64(stats.Nodes))
	ModelSize.WithLabelValues("vars").Set(float64(vars))
	ModelSize.WithLabelValues("rows").Set(float64(rows))
}

// ObserveCache records one cache lookup.
func (Recorder) ObserveCache(hit bool) {
	if hit {
		CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	CacheLookups.WithLabelValues("miss").Inc()
}

// WriteTextfile writes the registry in the text exposition format, for the
// node exporter textfile collector.
func WriteTextfile(path string) error {
	RegisterDefault()
	return prometheus.WriteToTextfile(path, Registry)
}
