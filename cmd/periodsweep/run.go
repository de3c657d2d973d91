package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/periodsweep/internal/analysis"
	"github.com/san-kum/periodsweep/internal/automation"
	"github.com/san-kum/periodsweep/internal/dynamo"
	"github.com/san-kum/periodsweep/internal/metrics"
	"github.com/san-kum/periodsweep/internal/sim"
	"github.com/san-kum/periodsweep/internal/storage"
	"github.com/san-kum/periodsweep/internal/sweep"
	"github.com/san-kum/periodsweep/internal/viz"
)

type sweepResult struct {
	summary sweep.Summary
	err     error
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	run, err := st.Create(cfg)
	if err != nil {
		return err
	}

	sinks := []sweep.Sink{run}
	var table *storage.TableWriter
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if table, err = storage.NewTableWriter(f, cfg.Orbits); err != nil {
			return err
		}
		sinks = append(sinks, table)
	}

	collector := metrics.NewCollector()
	if metricsAddr != "" {
		srv := serveMetrics(metricsAddr, collector, cmd.ErrOrStderr())
		defer srv.Shutdown(context.Background())
	}

	driver := sweep.NewDriver(cfg.SimConfig(), cfg.Plan()).
		WithWorkers(cfg.Sweep.Workers).
		WithMetrics(metrics.Standard).
		WithObserver(collector)

	out := cmd.OutOrStdout()
	total := len(cfg.Plan().Points())
	fmt.Fprintf(out, "sweeping %d samples (%s, dt=%g s, %d orbits)...\n", total, cfg.Name, cfg.Dt, cfg.Orbits)

	var res sweepResult
	if useTUI {
		res, err = runWithTUI(ctx, driver, cfg.Name, total, tee(sinks))
		if err != nil {
			return err
		}
	} else {
		sink := tee(sinks)
		if !quiet {
			sink = printing(out, total, sink)
		}
		res.summary, res.err = driver.Run(ctx, sink)
	}

	if table != nil {
		if err := table.Flush(); err != nil {
			res.err = errors.Join(res.err, err)
		}
	}
	if err := run.Finish(res.summary, res.err); err != nil {
		return errors.Join(res.err, err)
	}

	printSummary(out, run.ID(), res.summary)
	return res.err
}

func runWithTUI(ctx context.Context, driver *sweep.Driver, name string, total int, sink sweep.Sink) (sweepResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(viz.NewProgress(name, total, cancel))
	done := make(chan sweepResult, 1)

	go func() {
		summary, err := driver.Run(ctx, viz.Forward(p, sink))
		done <- sweepResult{summary: summary, err: err}
		p.Send(viz.DoneMsg{Summary: summary, Err: err})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return sweepResult{}, err
	}
	return <-done, nil
}

// tee writes every sample to each sink in turn.
func tee(sinks []sweep.Sink) sweep.Sink {
	return sweep.SinkFunc(func(s dynamo.Sample) error {
		for _, sink := range sinks {
			if err := sink.Write(s); err != nil {
				return err
			}
		}
		return nil
	})
}

func printing(w io.Writer, total int, next sweep.Sink) sweep.Sink {
	done := 0
	return sweep.SinkFunc(func(s dynamo.Sample) error {
		if err := next.Write(s); err != nil {
			return err
		}
		done++
		fmt.Fprintln(w, viz.StatusLine(done, total, s))
		return nil
	})
}

func serveMetrics(addr string, c *metrics.Collector, errOut io.Writer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(errOut, "metrics server: %v\n", err)
		}
	}()
	return srv
}

func printSummary(w io.Writer, runID string, summary sweep.Summary) {
	fmt.Fprintf(w, "\ncompleted in %v\n", summary.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "run id: %s\n", runID)
	fmt.Fprintf(w, "samples: %d\n", summary.Samples)
	fmt.Fprintf(w, "steps: %d\n", summary.Steps)

	outcomes := make([]dynamo.Outcome, 0, len(summary.Outcomes))
	for o := range summary.Outcomes {
		outcomes = append(outcomes, o)
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i] < outcomes[j] })
	fmt.Fprintln(w, "\noutcomes:")
	for _, o := range outcomes {
		fmt.Fprintf(w, "  %s %d\n", viz.OutcomeStyle(o).Render(fmt.Sprintf("%-14s", o)), summary.Outcomes[o])
	}
}

func checkCircular(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	simCfg := cfg.SimConfig()
	s := sim.New(simCfg)
	energy := metrics.NewEnergyDrift(s.Gravity())
	angular := metrics.NewAngularMomentumDrift(s.Gravity())
	s.AddMetric(energy)
	s.AddMetric(angular)

	vc := cfg.CircularVelocity()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "circular velocity: %.6f m/s\n", vc)
	fmt.Fprintf(out, "escape velocity:   %.6f m/s\n", s.Gravity().EscapeVelocity(cfg.OrbitRadius, cfg.PrimaryMass, cfg.SatelliteMass))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	start := time.Now()
	sample, err := s.Run(ctx, 0, vc)
	if err != nil {
		return err
	}

	kepler := analysis.KeplerPeriod(simCfg, vc)
	fmt.Fprintf(out, "kepler period:     %.6f s\n\n", kepler)

	periods := analysis.Periods(sample)
	for k, t := range sample.Times {
		fmt.Fprintf(out, "%s %s  period %s\n",
			viz.MetricLabel.Render(fmt.Sprintf("orbit %d", k+1)),
			viz.MetricValue.Render(viz.FormatTime(t)),
			viz.FormatTime(periods[k]),
		)
	}

	fmt.Fprintf(out, "\noutcome: %s (%d steps in %v)\n", viz.OutcomeStyle(sample.Outcome).Render(sample.Outcome.String()), sample.Steps, time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(out, "kepler residual: %.3e\n", analysis.KeplerResidual(simCfg, sample))
	fmt.Fprintf(out, "energy drift: %.3e\n", energy.Value())
	fmt.Fprintf(out, "angular momentum drift: %.3e\n", angular.Value())

	if sample.Outcome != dynamo.OutcomeCompleted {
		return fmt.Errorf("circular orbit did not complete: %s", sample.Outcome)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "scenario %s: %s\n", sc.Name, sc.Description)
	results, err := automation.RunScenario(ctx, sc, st, out)
	for _, r := range results {
		printSummary(out, r.RunID, r.Summary)
	}
	return err
}
