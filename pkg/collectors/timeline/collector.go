// Package timeline records named measures while a request is handled and
// reports them relative to the request start.
package timeline

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-debugbar/pkg/assets"
	"github.com/goliatone/go-debugbar/pkg/collector"
	"github.com/goliatone/go-debugbar/pkg/host"
	"github.com/goliatone/go-debugbar/pkg/widgets"
)

// Name is the registry key of the timeline collector.
const Name = "time"

// KindTimeline renders measures as horizontal bars.
const KindTimeline widgets.Kind = "timeline"

// Measure is a completed span of work.
type Measure struct {
	Label         string        `json:"label"`
	Start         time.Time     `json:"start"`
	End           time.Time     `json:"end"`
	RelativeStart time.Duration `json:"relative_start"`
	Duration      time.Duration `json:"duration"`
	DurationStr   string        `json:"duration_str"`
}

// Timeline holds the measures of one request.
type Timeline struct {
	mu       sync.Mutex
	now      func() time.Time
	start    time.Time
	open     map[string]time.Time
	measures []Measure
}

// NewTimeline starts a timeline at start. A nil now uses time.Now.
func NewTimeline(start time.Time, now func() time.Time) *Timeline {
	if now == nil {
		now = time.Now
	}
	if start.IsZero() {
		start = now()
	}
	return &Timeline{now: now, start: start, open: make(map[string]time.Time)}
}

// Start opens a measure named label. Starting an open label restarts it.
func (t *Timeline) Start(label string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.open[label] = t.now()
}

// Stop closes the measure named label. Unknown labels are ignored.
func (t *Timeline) Stop(label string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	started, ok := t.open[label]
	if !ok {
		return
	}
	delete(t.open, label)
	t.add(label, started, t.now())
}

// Measure times fn under label.
func (t *Timeline) Measure(label string, fn func()) {
	t.Start(label)
	defer t.Stop(label)
	fn()
}

// AddMeasure records an already completed span.
func (t *Timeline) AddMeasure(label string, start, end time.Time) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.add(label, start, end)
}

func (t *Timeline) add(label string, start, end time.Time) {
	duration := end.Sub(start)
	t.measures = append(t.measures, Measure{
		Label:         label,
		Start:         start,
		End:           end,
		RelativeStart: start.Sub(t.start),
		Duration:      duration,
		DurationStr:   duration.String(),
	})
}

// snapshot closes open measures at the current time and returns the panel
// data.
func (t *Timeline) snapshot() collector.Data {
	t.mu.Lock()
	defer t.mu.Unlock()
	end := t.now()
	for label, started := range t.open {
		t.add(label, started, end)
	}
	t.open = make(map[string]time.Time)
	duration := end.Sub(t.start)
	return collector.Data{
		"start":        t.start,
		"end":          end,
		"duration":     duration,
		"duration_str": duration.String(),
		"measures":     append([]Measure{}, t.measures...),
	}
}

type timelineKey struct{}

// WithTimeline attaches tl to ctx.
func WithTimeline(ctx context.Context, tl *Timeline) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, timelineKey{}, tl)
}

// FromContext returns the timeline attached by WithTimeline.
func FromContext(ctx context.Context) (*Timeline, bool) {
	if ctx == nil {
		return nil, false
	}
	tl, ok := ctx.Value(timelineKey{}).(*Timeline)
	return tl, ok && tl != nil
}

// Collector reports the request timeline.
type Collector struct {
	now func() time.Time
}

var (
	_ collector.Collector      = (*Collector)(nil)
	_ collector.WidgetProvider = (*Collector)(nil)
	_ collector.AssetProvider  = (*Collector)(nil)
	_ collector.KindProvider   = (*Collector)(nil)
)

// New returns a timeline collector. A nil now uses time.Now.
func New(now func() time.Time) *Collector {
	if now == nil {
		now = time.Now
	}
	return &Collector{now: now}
}

func (c *Collector) Name() string { return Name }

// Collect reports the timeline attached to ctx. Without one it reports a
// single span from the scope start to now.
func (c *Collector) Collect(ctx context.Context, scope *host.Scope) (collector.Data, error) {
	tl, ok := FromContext(ctx)
	if !ok {
		var start time.Time
		if scope != nil {
			start = scope.StartedAt
		}
		tl = NewTimeline(start, c.now)
	}
	return tl.snapshot(), nil
}

func (c *Collector) Widgets() widgets.Table {
	return widgets.Table{
		"time": {
			Icon:    "clock-o",
			Tooltip: "Request duration",
			Widget:  widgets.KindText,
			Map:     widgets.Path(Name, "duration_str"),
			Default: "0ms",
		},
		"timeline": {
			Icon:    "tasks",
			Widget:  KindTimeline,
			Map:     widgets.Path(Name),
			Default: "{}",
		},
	}
}

func (c *Collector) WidgetKinds() map[widgets.Kind]string {
	return map[widgets.Kind]string{KindTimeline: "DebugBar.Widgets.TimelineWidget"}
}

func (c *Collector) Assets() assets.Descriptor {
	return assets.Descriptor{
		BasePath: "collectors/timeline",
		BaseURL:  "collectors/timeline",
		CSS:      "timeline.css",
		JS:       "timeline.js",
	}
}
