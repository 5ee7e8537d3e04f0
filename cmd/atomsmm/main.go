package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/craabreu/atomsmm/internal/analysis"
	"github.com/craabreu/atomsmm/internal/config"
	"github.com/craabreu/atomsmm/internal/export"
	"github.com/craabreu/atomsmm/internal/integrator"
	"github.com/craabreu/atomsmm/internal/metrics"
	"github.com/craabreu/atomsmm/internal/sim"
	"github.com/craabreu/atomsmm/internal/storage"
	"github.com/craabreu/atomsmm/internal/tui"
)

var (
	dataDir    string
	dt         float64
	steps      int
	particles  int
	seed       int64
	model      string
	kT         float64
	tau        float64
	gamma      float64
	nloops     int
	loops      []int
	nsy        int
	springK    float64
	configFile string
	preset     string
	frameSteps int
	box        float64
	replicas   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "atomsmm",
		Short: "splitting integrators for molecular dynamics",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".atomsmm", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scheme]",
		Short: "run a simulation",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addSchemeFlags(runCmd)
	runCmd.Flags().Float64Var(&box, "box", 100, "coordinate bound for the stability metric")

	emitCmd := &cobra.Command{
		Use:   "emit [scheme]",
		Short: "print the step program a scheme compiles to",
		Args:  cobra.ExactArgs(1),
		RunE:  emitProgram,
	}
	addSchemeFlags(emitCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the energy trace of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scheme]",
		Short: "list available presets for a scheme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets(args[0])
			if len(names) == 0 {
				fmt.Printf("no presets for scheme: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, name := range names {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch [scheme]",
		Short: "run with a live energy view",
		Args:  cobra.ExactArgs(1),
		RunE:  watchSimulation,
	}
	addSchemeFlags(watchCmd)
	watchCmd.Flags().IntVar(&frameSteps, "frame-steps", 10, "integration steps per frame")

	compareCmd := &cobra.Command{
		Use:   "compare [scheme1] [scheme2] ...",
		Short: "compare schemes on the same system",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareSchemes,
	}
	addSchemeFlags(compareCmd)
	compareCmd.Flags().IntVar(&replicas, "replicas", 1, "independent replicas per scheme")

	benchCmd := &cobra.Command{
		Use:   "bench [scheme]",
		Short: "benchmark a scheme over a step-size grid",
		Args:  cobra.ExactArgs(1),
		RunE:  benchScheme,
	}
	addSchemeFlags(benchCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the energy trace",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the energy trace as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}

	rootCmd.AddCommand(runCmd, emitCmd, listCmd, plotCmd, exportCmd, presetsCmd, watchCmd, compareCmd, benchCmd, analyzeCmd, exportSVGCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSchemeFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().IntVar(&particles, "particles", config.DefaultParticles, "number of particles")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&model, "model", "harmonic", "force field model")
	cmd.Flags().Float64Var(&kT, "kt", config.DefaultKT, "thermal energy")
	cmd.Flags().Float64Var(&tau, "tau", config.DefaultTau, "thermostat time constant")
	cmd.Flags().Float64Var(&gamma, "gamma", config.DefaultGamma, "friction coefficient")
	cmd.Flags().IntVar(&nloops, "nloops", 1, "thermostat inner loops")
	cmd.Flags().IntSliceVar(&loops, "loops", nil, "respa loop counts, innermost first")
	cmd.Flags().IntVar(&nsy, "nsy", 0, "suzuki-yoshida order (1, 3, 7 or 15)")
	cmd.Flags().Float64Var(&springK, "k", config.DefaultK, "spring constant")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers preset, config file and explicit flags, in that order
// of increasing precedence.
func resolveConfig(cmd *cobra.Command, scheme string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(scheme, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(scheme))
		}
		clone := *p
		clone.Loops = append([]int(nil), p.Loops...)
		cfg = &clone
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	cfg.Scheme = scheme
	if cmd.Flags().Changed("dt") || cfg.Dt == 0 {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("steps") || cfg.Steps == 0 {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("particles") || cfg.Particles == 0 {
		cfg.Particles = particles
	}
	if cmd.Flags().Changed("model") || cfg.Model == "" {
		cfg.Model = model
	}
	if cmd.Flags().Changed("kt") || cfg.Thermostat.KT == 0 {
		cfg.Thermostat.KT = kT
	}
	if cmd.Flags().Changed("tau") || cfg.Thermostat.Tau == 0 {
		cfg.Thermostat.Tau = tau
	}
	if cmd.Flags().Changed("gamma") || cfg.Thermostat.Gamma == 0 {
		cfg.Thermostat.Gamma = gamma
	}
	if cmd.Flags().Changed("nloops") {
		cfg.Thermostat.NLoops = nloops
	}
	if cmd.Flags().Changed("loops") {
		cfg.Loops = loops
	}
	if cmd.Flags().Changed("nsy") {
		cfg.Nsy = nsy
	}
	if cmd.Flags().Changed("k") || cfg.Forces.K == 0 {
		cfg.Forces.K = springK
		cfg.Forces.KFast = 4 * springK
		cfg.Forces.KSlow = springK / 4
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildSimulator assembles the integrator, system and initial conditions a
// configuration describes.
func buildSimulator(cfg *config.Config) (*sim.Simulator, *sim.System, error) {
	ig, err := integrator.FromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	field, err := integrator.BuildField(cfg)
	if err != nil {
		return nil, nil, err
	}

	sys := sim.NewSystem(cfg.Particles, field)
	rng := rand.New(rand.NewSource(cfg.Seed + 1))
	for i := range sys.X {
		sys.X[i] = 0.5 * rng.NormFloat64()
	}

	switch cfg.Scheme {
	case "sinr":
		if err := ig.InitializeSINRVelocities(sys, cfg.Thermostat.KT, cfg.Thermostat.Tau, rng); err != nil {
			return nil, nil, err
		}
	default:
		integrator.InitializeVelocities(sys, cfg.Thermostat.KT, cfg.Dof(), rng)
	}

	s, err := ig.Simulator(sys, cfg.Seed)
	if err != nil {
		return nil, nil, err
	}
	return s, sys, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	s, sys, err := buildSimulator(cfg)
	if err != nil {
		return err
	}
	s.AddMetric(metrics.NewTemperature(sys.M, cfg.Dof()))
	s.AddMetric(metrics.NewMomentum(sys.M))
	s.AddMetric(metrics.NewEnergyDrift(sys.Force, sys.M))
	s.AddMetric(metrics.NewStability(box))

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s on %s...\n", cfg.Scheme, cfg.Model)
	start := time.Now()

	result, err := s.Run(context.Background(), cfg.Steps)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func emitProgram(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	ig, err := integrator.FromConfig(cfg)
	if err != nil {
		return err
	}
	fmt.Print(ig.Program().String())
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCHEME\tMODEL\tTIME\tSTEPS\tDT\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%g\t%.2e\n",
			run.ID,
			run.Scheme,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	_, energies, err := st.LoadEnergies(runID)
	if err != nil {
		return err
	}
	if len(energies) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scheme: %s on %s\n", meta.Scheme, meta.Model)
	fmt.Printf("samples: %d\n\n", len(energies))

	graph := asciigraph.Plot(energies,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("total energy vs time"),
	)
	fmt.Println(graph)

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func watchSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	s, _, err := buildSimulator(cfg)
	if err != nil {
		return err
	}
	return tui.Run(s, cfg, frameSteps)
}

func compareSchemes(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCHEME\tREPLICAS\tSTEPS\tDRIFT\tTEMPERATURE\tTIME")

	for _, scheme := range args {
		cfg, err := resolveConfig(cmd, scheme)
		if err != nil {
			return err
		}

		ens := sim.NewEnsemble(func(seed int64) (*sim.Simulator, error) {
			replica := *cfg
			replica.Loops = append([]int(nil), cfg.Loops...)
			replica.Seed = seed
			s, sys, err := buildSimulator(&replica)
			if err != nil {
				return nil, err
			}
			s.AddMetric(metrics.NewTemperature(sys.M, replica.Dof()))
			return s, nil
		}, replicas, cfg.Seed)

		start := time.Now()
		results, err := ens.Run(context.Background(), cfg.Steps)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		steps := 0
		drift := 0.0
		temperature := 0.0
		for _, result := range results {
			steps += result.StepsTaken
			drift += result.EnergyDrift
			temperature += result.Metrics["temperature"]
		}
		n := float64(len(results))

		fmt.Fprintf(w, "%s\t%d\t%d\t%.2e\t%.4f\t%v\n",
			scheme, len(results), steps, drift/n, temperature/n, elapsed)
	}

	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	_, energies, err := st.LoadEnergies(runID)
	if err != nil {
		return err
	}
	if len(energies) < 4 {
		return fmt.Errorf("not enough data to analyze")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scheme: %s on %s\n\n", meta.Scheme, meta.Model)

	ps := analysis.PowerSpectrum(energies)
	plotData := ps[:len(ps)/4]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("energy power spectrum"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(ps, meta.Dt)
	fmt.Printf("dominant frequency: %.3f\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f\n", 1.0/freq)
	}

	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	times, energies, err := st.LoadEnergies(runID)
	if err != nil {
		return err
	}

	svg := export.EnergyTraceToSVG(times, energies, 800, 400, "#00ff88")
	if svg == "" {
		return fmt.Errorf("no data to export")
	}
	fmt.Println(svg)
	return nil
}

func benchScheme(cmd *cobra.Command, args []string) error {
	scheme := args[0]
	dts := []float64{0.0005, 0.001, 0.002}
	stepCounts := []int{1000, 5000}

	fmt.Printf("benchmarking %s\n\n", scheme)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, benchDt := range dts {
		for _, n := range stepCounts {
			cfg, err := resolveConfig(cmd, scheme)
			if err != nil {
				return err
			}
			cfg.Dt = benchDt
			cfg.Steps = n

			s, _, err := buildSimulator(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := s.Run(context.Background(), cfg.Steps)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%g\t%d\t%v\t%.0f\n", benchDt, n, elapsed, stepsPerSec)
		}
	}

	return w.Flush()
}
