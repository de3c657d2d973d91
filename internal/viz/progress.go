package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/periodsweep/internal/dynamo"
	"github.com/san-kum/periodsweep/internal/sweep"
)

const barWidth = 50

type TickMsg time.Time

// SampleMsg delivers one emitted sample to the progress view.
type SampleMsg dynamo.Sample

// DoneMsg ends the progress view.
type DoneMsg struct {
	Summary sweep.Summary
	Err     error
}

// Progress is the bubbletea model shown while a sweep runs.
type Progress struct {
	name     string
	total    int
	done     int
	counts   map[dynamo.Outcome]int
	last     dynamo.Sample
	first    []float64
	start    time.Time
	frame    int
	finished bool
	stopping bool
	summary  sweep.Summary
	err      error
	cancel   func()
}

// NewProgress builds the view for a sweep of total samples. cancel is
// called when the user quits early.
func NewProgress(name string, total int, cancel func()) Progress {
	return Progress{
		name:   name,
		total:  total,
		counts: make(map[dynamo.Outcome]int),
		first:  make([]float64, 0, total),
		start:  time.Now(),
		cancel: cancel,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/10, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Progress) Init() tea.Cmd {
	return tick()
}

func (m Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.finished {
				return m, tea.Quit
			}
			// Keep drawing until the driver reports back.
			if !m.stopping && m.cancel != nil {
				m.cancel()
			}
			m.stopping = true
		}
	case SampleMsg:
		s := dynamo.Sample(msg)
		m.done++
		m.counts[s.Outcome]++
		m.last = s
		if len(s.Times) > 0 {
			m.first = append(m.first, s.Times[0])
		} else {
			m.first = append(m.first, math.NaN())
		}
	case DoneMsg:
		m.finished = true
		m.summary = msg.Summary
		m.err = msg.Err
		return m, tea.Quit
	case TickMsg:
		if m.finished {
			return m, nil
		}
		m.frame++
		return m, tick()
	}
	return m, nil
}

func (m Progress) Done() int { return m.done }

func (m Progress) Err() error { return m.err }

func (m Progress) View() string {
	var b strings.Builder

	status := StatusRunning.Render(AnimatedSpinner(m.frame) + " sweeping")
	switch {
	case m.finished && m.err != nil:
		status = StatusError.Render("✗ " + m.err.Error())
	case m.finished:
		status = StatusRunning.Render("✓ done")
	case m.stopping:
		status = StatusWarn.Render(AnimatedSpinner(m.frame) + " stopping")
	}
	b.WriteString(Title.Render("periodsweep "+m.name) + "  " + status + "\n\n")

	pct := 0.0
	if m.total > 0 {
		pct = float64(m.done) / float64(m.total)
	}
	b.WriteString(ProgressBar(pct, barWidth))
	b.WriteString(fmt.Sprintf("  %d/%d  %s\n\n", m.done, m.total, time.Since(m.start).Round(time.Second)))

	outcomes := make([]dynamo.Outcome, 0, len(m.counts))
	for o := range m.counts {
		outcomes = append(outcomes, o)
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i] < outcomes[j] })
	for _, o := range outcomes {
		b.WriteString(MetricLabel.Render(o.String()) + OutcomeStyle(o).Render(fmt.Sprint(m.counts[o])) + "\n")
	}

	if m.done > 0 {
		times := make([]string, len(m.last.Times))
		for i, t := range m.last.Times {
			times[i] = FormatTime(t)
		}
		b.WriteString("\n" + MetricLabel.Render("last v_tan") + MetricValue.Render(fmt.Sprintf("%.3f m/s", m.last.Velocity)))
		b.WriteString("\n" + MetricLabel.Render("times") + strings.Join(times, "  ") + "\n")
	}

	if chart := m.chart(); chart != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Render(chart) + "\n")
	}

	b.WriteString("\n" + KeyHint.Render("q: stop sweep"))
	return GlassPanel.Render(b.String())
}

func (m Progress) chart() string {
	finite := 0
	for _, t := range m.first {
		if !math.IsNaN(t) {
			finite++
		}
	}
	if finite < 2 {
		return ""
	}
	return asciigraph.Plot(m.first, asciigraph.Height(6), asciigraph.Width(barWidth), asciigraph.Caption("time_1 (s) by sample"))
}

// Forward wraps next so every written sample is also sent to the program.
func Forward(p *tea.Program, next sweep.Sink) sweep.Sink {
	return sweep.SinkFunc(func(s dynamo.Sample) error {
		if err := next.Write(s); err != nil {
			return err
		}
		p.Send(SampleMsg(s))
		return nil
	})
}
