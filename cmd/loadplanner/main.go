// LoadPlanner: exact 3D container loading for routed deliveries.
//
// Reads a project file (JSON or YAML) or carton and vehicle lists (CSV or
// Excel), builds the loading MIP, solves it with the built-in
// branch-and-bound solver and writes the plan to PDF, labels, Excel or DXF.
//
// Build:
//   go build -o loadplanner ./cmd/loadplanner
//
// Examples:
//   loadplanner -project route.yaml -pdf plan.pdf
//   loadplanner -cartons cartons.csv -vehicles Van,Van -route 0:4,2 -route 1:7
//   loadplanner -workbook load.xlsx -compare
//   loadplanner -restore backup.json

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	log "github.com/golang/glog"
	"github.com/joho/godotenv"

	"github.com/piwi3910/LoadPlanner/internal/cache"
	"github.com/piwi3910/LoadPlanner/internal/engine"
	"github.com/piwi3910/LoadPlanner/internal/export"
	"github.com/piwi3910/LoadPlanner/internal/importer"
	"github.com/piwi3910/LoadPlanner/internal/metrics"
	"github.com/piwi3910/LoadPlanner/internal/mip"
	"github.com/piwi3910/LoadPlanner/internal/model"
	"github.com/piwi3910/LoadPlanner/internal/project"
	"github.com/piwi3910/LoadPlanner/internal/solver/branchbound"
)

var (
	projectPath    = flag.String("project", "", "project file to plan (.json, .yaml)")
	cartonsPath    = flag.String("cartons", "", "carton list (.csv, .xlsx)")
	containersPath = flag.String("containers", "", "vehicle list (.csv, .xlsx)")
	workbookPath   = flag.String("workbook", "", "workbook with Cartons and Containers sheets")
	vehicles       = flag.String("vehicles", "", "comma-separated fleet preset names to load into")
	fleetPath      = flag.String("fleet", project.DefaultFleetPath(), "fleet preset file")
	configPath     = flag.String("config", project.DefaultConfigPath(), "application config file")
	envFile        = flag.String("env", ".env", "environment file")

	encoding   = flag.String("encoding", "", "orientation encoding: onehot or fourbit")
	timeLimit  = flag.Duration("time-limit", 0, "solver time limit (0 keeps the configured one)")
	nodeLimit  = flag.Int64("node-limit", 0, "branch-and-bound node limit")
	noLink     = flag.Bool("no-link", false, "omit the usage linking rows")
	dropOffset = flag.Bool("drop-offset", false, "omit the constant carton volume from the objective")
	noVerify   = flag.Bool("no-verify", false, "skip the geometric re-check of the plan")
	compare    = flag.Bool("compare", false, "solve every default scenario and compare them")
	verbose    = flag.Bool("verbose", false, "log model building and solver progress")

	pdfOut    = flag.String("pdf", "", "write the load plan PDF")
	labelsOut = flag.String("labels", "", "write QR carton labels PDF")
	xlsxOut   = flag.String("xlsx", "", "write the Excel load sheet")
	dxfOut    = flag.String("dxf", "", "write a 3D DXF wireframe")
	saveOut   = flag.String("save", "", "save the project with its plan (.json, .yaml)")
	backupOut = flag.String("backup", "", "export config and fleet to a backup file")
	restoreIn = flag.String("restore", "", "replace config and fleet with the contents of a backup file")

	routes stopFlag
)

func init() {
	flag.Var(&routes, "route", "container:stop,stop,... visiting order of one vehicle (repeatable)")
}

func main() {
	flag.Parse()
	defer log.Flush()

	if err := run(context.Background()); err != nil {
		log.Exitf("loadplanner: %v", err)
	}
}

func run(ctx context.Context) error {
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", *envFile, err)
	}

	if *restoreIn != "" {
		if err := restoreBackup(*restoreIn, *configPath, *fleetPath); err != nil {
			return err
		}
		log.Infof("Restored config and fleet from %s", *restoreIn)
	}

	cfg, err := project.LoadAppConfig(*configPath)
	if err != nil {
		return err
	}
	applyEnv(&cfg)

	fleet, err := project.LoadFleet(*fleetPath)
	if err != nil {
		return err
	}
	if *backupOut != "" {
		if err := project.ExportAllData(*backupOut, cfg, fleet); err != nil {
			return err
		}
		log.Infof("Backup written to %s", *backupOut)
	}
	if (*backupOut != "" || *restoreIn != "") && !hasInput() {
		return nil
	}

	p, err := loadProject(cfg, fleet)
	if err != nil {
		return err
	}
	if err := applyFlags(&p.Settings); err != nil {
		return err
	}
	if p.Settings.Backend != model.BackendBranchBound {
		return fmt.Errorf("unsupported solver backend %q", p.Settings.Backend)
	}

	est := model.CalculateLoadEstimate(p.Instance)
	fmt.Printf("Cartons: %d (volume %.0f, weight %.1f), vehicles: %d (volume %.0f, capacity %.1f)\n",
		len(p.Instance.Cartons), est.TotalCartonVolume, est.TotalCartonWeight,
		len(p.Instance.Containers), est.FleetVolume, est.FleetCapacity)
	if n := est.MinVehicles(); n > len(p.Instance.Containers) {
		log.Warningf("cartons exceed the fleet: at least %d vehicles needed, %d given", n, len(p.Instance.Containers))
	}
	for _, i := range est.OversizedCartons {
		log.Warningf("carton %d (%s) fits no vehicle in any orientation", i, p.Instance.Cartons[i].Label)
	}

	if err := bindRoutes(ctx, &p.Instance, routes); err != nil {
		return err
	}

	metrics.RegisterDefault()
	logger := newLogger()

	if *compare {
		return runCompare(ctx, p, logger)
	}

	opts := []engine.PlannerOption{engine.WithLogger(logger), engine.WithRecorder(metrics.Recorder{})}
	if pc, closer, err := newCache(ctx, cfg); err != nil {
		log.Warningf("plan cache disabled: %v", err)
	} else {
		defer closer()
		opts = append(opts, engine.WithCache(pc))
	}
	planner := engine.NewPlanner(newSolver(p.Settings, logger), p.Settings, opts...)

	plan, err := planner.Plan(ctx, p.Instance)
	writeMetrics(cfg.MetricsFile)
	if err != nil {
		if engine.IsInfeasible(err) {
			fmt.Println("No feasible load exists for this instance.")
		}
		return err
	}

	printPlan(os.Stdout, plan, p.Instance.Route)
	p.Plan = &plan

	return writeOutputs(p, cfg)
}

// restoreBackup writes the config and fleet stored in a backup file to
// their usual locations.
func restoreBackup(backupPath, cfgPath, fleetPath string) error {
	backup, err := project.ImportAllData(backupPath)
	if err != nil {
		return err
	}
	if err := project.SaveAppConfig(cfgPath, backup.Config); err != nil {
		return fmt.Errorf("failed to restore config: %w", err)
	}
	if err := project.SaveFleet(fleetPath, backup.Fleet); err != nil {
		return fmt.Errorf("failed to restore fleet: %w", err)
	}
	return nil
}

// hasInput reports whether any instance source was given.
func hasInput() bool {
	return *projectPath != "" || *workbookPath != "" || *cartonsPath != ""
}

// bindRoutes replaces the route binding with the -route stop sequences.
// Every mode, comparison included, plans the overridden binding.
func bindRoutes(ctx context.Context, in *model.Instance, seqs stopFlag) error {
	if len(seqs) == 0 {
		return nil
	}
	rb, err := engine.StopSequences(seqs).Routes(ctx, in.Cartons, in.Containers)
	if err != nil {
		return err
	}
	in.Route = rb
	return nil
}

// applyEnv lets environment variables override the stored config.
func applyEnv(cfg *model.AppConfig) {
	if v := os.Getenv("LOADPLANNER_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("LOADPLANNER_METRICS_FILE"); v != "" {
		cfg.MetricsFile = v
	}
	if v := os.Getenv("LOADPLANNER_TIME_LIMIT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Warningf("ignoring LOADPLANNER_TIME_LIMIT=%q: %v", v, err)
			return
		}
		cfg.DefaultTimeLimit = d
	}
}

// loadProject reads the instance from a project file or from imported lists.
func loadProject(cfg model.AppConfig, fleet model.Fleet) (model.Project, error) {
	if *projectPath != "" {
		p, err := project.LoadProject(*projectPath)
		if err != nil {
			return model.Project{}, err
		}
		if err := appendVehicles(&p, fleet); err != nil {
			return model.Project{}, err
		}
		return p, nil
	}

	p := model.NewProject()
	cfg.ApplyToSettings(&p.Settings)

	var results []importer.ImportResult
	switch {
	case *workbookPath != "":
		p.Name = *workbookPath
		results = append(results, importer.ImportWorkbook(*workbookPath))
	case *cartonsPath != "":
		p.Name = *cartonsPath
		results = append(results, importList(*cartonsPath, importer.KindCartons))
		if *containersPath != "" {
			results = append(results, importList(*containersPath, importer.KindContainers))
		}
	default:
		return model.Project{}, errors.New("nothing to plan: pass -project, -workbook or -cartons")
	}

	for _, r := range results {
		for _, w := range r.Warnings {
			log.Info(w)
		}
		if len(r.Errors) > 0 {
			return model.Project{}, fmt.Errorf("import failed: %s", strings.Join(r.Errors, "; "))
		}
		p.Instance.Cartons = append(p.Instance.Cartons, r.Cartons...)
		p.Instance.Containers = append(p.Instance.Containers, r.Containers...)
	}
	if err := appendVehicles(&p, fleet); err != nil {
		return model.Project{}, err
	}
	return p, nil
}

func importList(path string, kind importer.Kind) importer.ImportResult {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm") {
		return importer.ImportExcel(path, kind)
	}
	return importer.ImportCSV(path, kind)
}

// appendVehicles adds the fleet presets named by -vehicles.
func appendVehicles(p *model.Project, fleet model.Fleet) error {
	if *vehicles == "" {
		return nil
	}
	var names []string
	for _, n := range strings.Split(*vehicles, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	containers, unknown := fleet.Containers(names...)
	if len(unknown) > 0 {
		return fmt.Errorf("unknown vehicle presets %s (known: %s)", strings.Join(unknown, ", "), strings.Join(fleet.Names(), ", "))
	}
	p.Instance.Containers = append(p.Instance.Containers, containers...)
	return nil
}

// applyFlags overrides project settings with explicitly set flags.
func applyFlags(s *model.SolveSettings) error {
	var err error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "encoding":
			switch e := model.Encoding(*encoding); e {
			case model.EncodingOneHot, model.EncodingFourBit:
				s.Encoding = e
			default:
				err = fmt.Errorf("unknown encoding %q", *encoding)
			}
		case "time-limit":
			s.TimeLimit = *timeLimit
		case "node-limit":
			s.NodeLimit = *nodeLimit
		case "no-link":
			s.LinkUsage = !*noLink
		case "drop-offset":
			s.DropVolumeOffset = *dropOffset
		case "no-verify":
			s.Verify = !*noVerify
		}
	})
	return err
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newSolver(s model.SolveSettings, logger *slog.Logger) mip.Solver {
	return branchbound.New(
		branchbound.WithTimeLimit(s.TimeLimit),
		branchbound.WithNodeLimit(s.NodeLimit),
		branchbound.WithTolerance(s.Tolerance),
		branchbound.WithLogger(logger),
	)
}

// newCache returns the Redis cache when configured, otherwise an in-memory one.
func newCache(ctx context.Context, cfg model.AppConfig) (engine.PlanCache, func(), error) {
	if cfg.RedisURL == "" {
		return cache.NewMemory(time.Hour), func() {}, nil
	}
	rc, err := cache.NewRedis(cfg.RedisURL, 24*time.Hour)
	if err != nil {
		return nil, nil, err
	}
	if err := rc.Ping(ctx); err != nil {
		rc.Close()
		return nil, nil, err
	}
	return rc, func() { rc.Close() }, nil
}

func writeMetrics(path string) {
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(path); err != nil {
		log.Warningf("failed to write metrics: %v", err)
	}
}

func runCompare(ctx context.Context, p model.Project, logger *slog.Logger) error {
	scenarios := engine.BuildDefaultScenarios(p.Settings)
	results := engine.CompareScenarios(ctx, scenarios, p.Instance, func(s model.SolveSettings) mip.Solver {
		return newSolver(s, logger)
	})
	printComparison(os.Stdout, results)
	if !engine.Agree(results, 1e-6) {
		log.Warning("scenarios disagree on the optimum")
	}
	return engine.FirstError(results)
}

func writeOutputs(p model.Project, cfg model.AppConfig) error {
	plan, route := *p.Plan, p.Instance.Route
	outputs := []struct {
		path  string
		write func(string, model.LoadPlan, model.RouteBinding) error
	}{
		{*pdfOut, export.ExportPDF},
		{*labelsOut, export.ExportLabels},
		{*xlsxOut, export.ExportExcel},
		{*dxfOut, export.ExportDXF},
	}
	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		if err := o.write(o.path, plan, route); err != nil {
			return fmt.Errorf("failed to write %s: %w", o.path, err)
		}
		log.Infof("Wrote %s", o.path)
	}

	if *saveOut != "" {
		if err := project.SaveProject(*saveOut, p); err != nil {
			return err
		}
		cfg.AddRecentProject(*saveOut, 10)
		if err := project.SaveAppConfig(*configPath, cfg); err != nil {
			log.Warningf("failed to update config: %v", err)
		}
	}
	return nil
}
