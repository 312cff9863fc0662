package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/critter/internal/actuator"
	"github.com/san-kum/critter/internal/experiment"
	"github.com/san-kum/critter/internal/limb"
	"github.com/san-kum/critter/internal/metrics"
	"github.com/san-kum/critter/internal/optim"
	"github.com/san-kum/critter/internal/storage"
	"github.com/san-kum/critter/internal/store"
	"github.com/san-kum/critter/internal/tui"
)

func runWalk(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg, log)
	if err != nil {
		return err
	}

	start := time.Now()
	runID := storage.NewRunID(start)
	log = log.With(zap.String("run_id", runID))

	ctx, cancel := signalContext()
	defer cancel()

	var j *store.Journal
	if journal {
		db, err := store.NewDB(journalPath())
		if err != nil {
			return err
		}
		defer db.Close()
		j = store.NewJournal(ctx, db, runID)
		exp.Observe(j)
	}

	if watch {
		r := tui.NewLiveRenderer(os.Stdout, frameRate)
		exp.GetSimulator().AddObserver(r)
		r.Start()
		defer r.Stop()
	}

	log.Info("walk started",
		zap.Stringer("direction", cfg.Direction),
		zap.String("lock", cfg.Actuator.LockStrategy),
		zap.Float64("duration", cfg.Duration))

	result, err := exp.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if j != nil && j.Err() != nil {
		log.Error("journal write failed", zap.Error(j.Err()))
	}

	_, err = st.Save(storage.RunMetadata{
		ID:           runID,
		Preset:       preset,
		Timestamp:    start,
		Dt:           cfg.Dt,
		Duration:     cfg.Duration,
		Direction:    cfg.Direction,
		LockStrategy: cfg.Actuator.LockStrategy,
		Params:       cfg.Gait,
	}, result)
	if err != nil {
		return err
	}

	log.Info("walk finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("ticks", result.TicksTaken),
		zap.Int("transitions", len(result.Transitions)))

	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.TicksTaken)
	fmt.Printf("displacement: %.4f\n", result.Displacement)
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
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
	fmt.Fprintln(w, "ID\tTIME\tDURATION\tDT\tDIR\tLOCK\tDISPLACEMENT\tTIMEOUTS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.2fs\t%.4fs\t%s\t%s\t%.3f\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Direction,
			run.LockStrategy,
			run.Displacement,
			run.Completions["timeout"],
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

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("direction: %s\n", meta.Direction)
	fmt.Printf("samples: %d\n\n", len(samples))

	for _, side := range limb.Sides() {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = s.Progress[side]
		}
		plot(data, side.String()+" progress")
	}

	body := make([]float64, len(samples))
	for i, s := range samples {
		body[i] = s.BodyX
	}
	plot(body, "body x")
	return nil
}

func plot(data []float64, caption string) {
	graph := asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)
	fmt.Println()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	return store.WriteJSON(os.Stdout, store.ExportData{
		RunID:        meta.ID,
		Dt:           meta.Dt,
		Duration:     meta.Duration,
		Direction:    meta.Direction,
		Params:       meta.Params,
		Steps:        meta.Ticks,
		Displacement: meta.Displacement,
		Samples:      samples,
		Metrics:      meta.Metrics,
	})
}

func showJournal(cmd *cobra.Command, args []string) error {
	path := journalPath()
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no journal at %s: %w", path, err)
	}
	db, err := store.NewDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := store.ListByRun(cmd.Context(), db, args[0])
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no transitions recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEQ\tCLOCK\tFROM\tTO\tREASON\tELAPSED")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%.2fs\t%s\t%s\t%s\t%.2fs\n", e.SeqNo, e.Clock, e.From, e.To, e.Reason, e.Elapsed)
	}
	return w.Flush()
}

func driveManual(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, nil)
	if err != nil {
		return err
	}

	head, body := exp.Head(), exp.Body()
	manual := actuator.NewManual(head)
	for _, side := range limb.Sides() {
		manual.Set(side, driveInputs[side])
	}

	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	for i := 0; i < steps; i++ {
		manual.Apply()
		body.Step(cfg.Dt)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AXIS\tINPUT\tCOMMAND\tPROGRESS")
	for _, side := range limb.Sides() {
		fmt.Fprintf(w, "%s\t%.2f\t%s\t%.3f\n", side, driveInputs[side], limb.Motion(side, driveInputs[side]), body.NativeProgress(side))
	}
	fmt.Fprintf(w, "body x\t\t\t%.3f\n", body.X)
	return w.Flush()
}

func promMetrics(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, nil)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	exp.Observe(metrics.NewProm(reg))

	ctx, cancel := signalContext()
	defer cancel()

	if _, err := exp.Run(ctx); err != nil {
		return err
	}

	if err := writeExposition(os.Stdout, reg); err != nil {
		return err
	}

	if listenAddr == "" {
		return nil
	}
	srv := &http.Server{Addr: listenAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		srv.Shutdown(shutdownCtx)
	}()
	fmt.Printf("serving /metrics on %s\n", listenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// writeExposition encodes everything g gathers in the Prometheus text format.
func writeExposition(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func tuneGait(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(tuneParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}

	names := make([]string, 0, len(tuneParams))
	ranges := make([][]float64, 0, len(tuneParams))
	for _, p := range tuneParams {
		name, vals, err := parseParam(p)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}

	gs, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	best, val, err := gs.Search(ctx, cfg, tuneMetric)
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.4f\n", tuneMetric, val)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, best[name])
	}
	return nil
}
