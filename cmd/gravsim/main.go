package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

var (
	dataDir   string
	storeKind string
	logLevel  string
	jsonLog   bool

	run runFlags

	// plot
	maxLineages int
	// distribution
	bins  int
	final bool
	// export-svg
	width  int
	height int
	output string
	// live
	stepsPerFrame int
	// ensemble
	numRuns int
	// bench
	benchSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "gravsim",
		Short:        "n-body gravity simulation with merging collisions",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "file", "run store (file, sqlite)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "log as json lines")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and store the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	run.register(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run summary",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot distance from origin of each lineage",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&maxLineages, "max", 8, "maximum lineages to plot")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "orbital period analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	distCmd := &cobra.Command{
		Use:   "distribution",
		Short: "angular momentum distribution of a population",
		Args:  cobra.NoArgs,
		RunE:  distribution,
	}
	run.register(distCmd)
	distCmd.Flags().IntVar(&bins, "bins", metrics.DefaultBins, "histogram bins")
	distCmd.Flags().BoolVar(&final, "final", false, "use the population after the run instead of the initial one")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and histories as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export x-y trajectories as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&width, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&height, "height", 800, "image height")
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	run.register(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerFrame, "speed", 10, "steps per frame")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run the scenario over consecutive seeds",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	run.register(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of runs")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the force loop over population sizes",
		Args:  cobra.NoArgs,
		RunE:  benchScenario,
	}
	benchCmd.Flags().IntVar(&benchSteps, "steps", 200, "steps per measurement")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list initial populations",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range experiment.NewRegistry().ListScenarios() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, showCmd, plotCmd, analyzeCmd, distCmd, exportJSONCmd,
		exportSVGCmd, liveCmd, ensembleCmd, benchCmd, presetsCmd, scenariosCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := run.resolve(cmd)
	if err != nil {
		return err
	}
	log := newLogger(logLevel, jsonLog)

	st, err := openStore(storeKind, dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	var bodies []*dynamo.Body
	if len(cfg.Bodies) > 0 {
		if bodies, err = cfg.InitialBodies(); err != nil {
			return err
		}
	}

	registry := experiment.NewRegistry()
	simCfg := cfg.SimConfig()
	exp := experiment.New(experiment.Config{
		Scenario:  scenarioLabel(cfg),
		NumBodies: cfg.NumBodies,
		Seed:      cfg.Seed,
		Sim:       simCfg,
		Bodies:    bodies,
	}, registry)
	if err := exp.Setup(registry.DefaultMetrics(simCfg), log); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	meta := storage.NewMetadata(scenarioLabel(cfg), cfg.Seed, len(exp.InitialBodies()), simCfg)
	id, err := st.Save(meta, result)
	if err != nil {
		return err
	}
	log.Info().Str("run", id).Dur("elapsed", time.Since(start)).Msg("run saved")

	saved, err := st.Load(id)
	if err != nil {
		return err
	}
	fmt.Println(viz.RunSummary(*saved))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore(storeKind, dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDT\tSTEPS\tBODIES\tMERGES")

	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%gs\t%d\t%d→%d\t%d\n",
			r.ID,
			r.Scenario,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Dt,
			r.Steps,
			r.NumBodies, r.FinalBodies,
			len(r.Merges),
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st, err := openStore(storeKind, dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	fmt.Println(viz.RunSummary(*meta))

	if len(meta.Merges) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STEP\tRESULT\tSOURCES\tMASS")
		for _, ev := range meta.Merges {
			fmt.Fprintf(w, "%d\t%d\t%v\t%.4e\n", ev.Step, ev.Result, ev.Sources, ev.Mass)
		}
		return w.Flush()
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := openStore(storeKind, dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	histories, err := st.LoadHistories(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("lineages: %d\n\n", len(histories))

	graph, err := viz.PlotRadii(histories, maxLineages, 80, 15)
	if err != nil {
		return err
	}
	fmt.Println(graph)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := openStore(storeKind, dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	histories, err := st.LoadHistories(runID)
	if err != nil {
		return err
	}

	periods, err := analysis.Periods(histories, meta.Dt)
	if err != nil {
		return err
	}
	if len(periods) == 0 {
		return fmt.Errorf("no lineage has %d samples", analysis.MinSamples)
	}

	fmt.Printf("period analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n\n", meta.Scenario)

	longest := periods[0]
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSAMPLES\tPERIOD (s)\tPERIOD (days)")
	for _, p := range periods {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.4e\t%.1f\n", p.ID, p.Name, p.Samples, p.Period, p.Period/86400)
		if p.Samples > longest.Samples {
			longest = p
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, h := range histories {
		if h.ID != longest.ID {
			continue
		}
		ps := analysis.Spectrum(h.Xs)
		fmt.Println()
		fmt.Println(asciigraph.Plot(ps[1:],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("power spectrum of x, lineage %d", h.ID)),
		))
	}
	return nil
}

func distribution(cmd *cobra.Command, args []string) error {
	cfg, err := run.resolve(cmd)
	if err != nil {
		return err
	}

	bodies, err := cfg.InitialBodies()
	if err != nil {
		return err
	}

	if final {
		s := sim.New()
		s.SetLogger(newLogger(logLevel, jsonLog))
		result, err := s.Run(cmd.Context(), bodies, cfg.SimConfig())
		if err != nil {
			return err
		}
		bodies = result.Bodies
	}
	physics.UpdateAngularMomenta(bodies)

	d, err := metrics.AngularMomentumDistribution(bodies, bins)
	if err != nil {
		return err
	}

	fmt.Println(viz.DistributionSummary(d))
	fmt.Println()
	for _, c := range d.Components() {
		fmt.Println(viz.PlotHistogram(c, 60, 8))
		fmt.Println()
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := openStore(storeKind, dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	histories, err := st.LoadHistories(runID)
	if err != nil {
		return err
	}

	return export.WriteJSON(os.Stdout, *meta, histories)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := openStore(storeKind, dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	histories, err := st.LoadHistories(runID)
	if err != nil {
		return err
	}

	l := initialL(meta)
	if output == "" {
		return export.WriteSVG(os.Stdout, histories, l, width, height)
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := export.WriteSVG(f, histories, l, width, height); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", output)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := run.resolve(cmd)
	if err != nil {
		return err
	}

	bodies, err := cfg.InitialBodies()
	if err != nil {
		return err
	}

	return viz.RunLive(bodies, cfg.SimConfig(), stepsPerFrame)
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	if err := checkRuns(numRuns); err != nil {
		return err
	}
	cfg, err := run.resolve(cmd)
	if err != nil {
		return err
	}
	if len(cfg.Bodies) > 0 {
		return fmt.Errorf("ensemble needs a scenario, not an explicit body list")
	}

	registry := experiment.NewRegistry()
	gen, err := registry.GetScenario(cfg.Scenario, cfg.NumBodies)
	if err != nil {
		return err
	}

	simCfg := cfg.SimConfig()
	base := sim.New()
	base.SetLogger(newLogger(logLevel, jsonLog))
	ens := sim.NewEnsemble(base, gen, numRuns, cfg.Seed)
	ens.NewMetrics = func() []sim.Metric { return registry.DefaultMetrics(simCfg) }

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := ens.Run(ctx, simCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tBODIES\tMERGES\tENERGY DRIFT\tMOMENTUM DRIFT")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%.3e\t%.3e\n",
			cfg.Seed+int64(i),
			len(r.Bodies),
			len(r.Merges),
			r.Metrics["energy_drift"],
			r.Metrics["momentum_drift"],
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d runs in %v\n", len(results), elapsed)
	return nil
}

func benchScenario(cmd *cobra.Command, args []string) error {
	sizes := []int{10, 50, 100, 200}
	workers := []int{1, 0}

	fmt.Printf("benchmarking random scenario, %d steps each\n\n", benchSteps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tWORKERS\tTIME\tSTEPS/SEC")

	for _, n := range sizes {
		for _, wk := range workers {
			cfg := config.DefaultConfig()
			cfg.NumBodies = n
			cfg.Seed = 42
			cfg.Steps = benchSteps
			cfg.ReportFreq = benchSteps
			cfg.Workers = wk

			bodies, err := cfg.InitialBodies()
			if err != nil {
				return err
			}

			start := time.Now()
			if _, err := sim.New().Run(context.Background(), bodies, cfg.SimConfig()); err != nil {
				return err
			}
			elapsed := time.Since(start)

			label := fmt.Sprint(wk)
			if wk == 0 {
				label = "auto"
			}
			fmt.Fprintf(w, "%d\t%s\t%v\t%.0f\n",
				n+1, label, elapsed, float64(benchSteps)/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSCENARIO\tBODIES\tDT\tSTEPS\tREPORT")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%d\t%d\n",
			name, p.Scenario, p.NumBodies, p.Dt, p.Steps, p.ReportFreq)
	}
	return w.Flush()
}
