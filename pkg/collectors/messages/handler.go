package messages

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Message is a single log record captured for the panel.
type Message struct {
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Time    time.Time      `json:"time"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// Recorder accumulates the messages logged while handling one request.
type Recorder struct {
	mu       sync.Mutex
	limit    int
	dropped  int
	messages []Message
}

// DefaultLimit caps the number of messages a Recorder keeps.
const DefaultLimit = 500

// NewRecorder returns a recorder keeping at most limit messages; limit <= 0
// uses DefaultLimit.
func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Recorder{limit: limit}
}

// Add records msg, counting it as dropped once the limit is reached.
func (r *Recorder) Add(msg Message) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) >= r.limit {
		r.dropped++
		return
	}
	r.messages = append(r.messages, msg)
}

// Messages returns the recorded messages. It is never nil.
func (r *Recorder) Messages() []Message {
	if r == nil {
		return []Message{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message{}, r.messages...)
}

// Dropped reports how many messages exceeded the limit.
func (r *Recorder) Dropped() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

type recorderKey struct{}

// WithRecorder attaches rec to ctx so the Handler and Collector of the same
// request share it.
func WithRecorder(ctx context.Context, rec *Recorder) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, recorderKey{}, rec)
}

// RecorderFromContext returns the recorder attached by WithRecorder.
func RecorderFromContext(ctx context.Context) (*Recorder, bool) {
	if ctx == nil {
		return nil, false
	}
	rec, ok := ctx.Value(recorderKey{}).(*Recorder)
	return rec, ok && rec != nil
}

// Handler is a slog.Handler that copies records logged with a request
// context into that request's Recorder, then forwards them to next.
type Handler struct {
	next   slog.Handler
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

var _ slog.Handler = (*Handler)(nil)

// NewHandler wraps next. Records below level are not captured; next may be
// nil to capture without forwarding.
func NewHandler(next slog.Handler, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelDebug
	}
	return &Handler{next: next, level: level}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	if _, ok := RecorderFromContext(ctx); ok && level >= h.level.Level() {
		return true
	}
	return h.next != nil && h.next.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if rec, ok := RecorderFromContext(ctx); ok && record.Level >= h.level.Level() {
		rec.Add(h.message(record))
	}
	if h.next != nil && h.next.Enabled(ctx, record.Level) {
		return h.next.Handle(ctx, record)
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	prefix := strings.Join(h.groups, ".")
	for _, attr := range attrs {
		if prefix != "" {
			attr.Key = prefix + "." + attr.Key
		}
		clone.attrs = append(clone.attrs, attr)
	}
	if h.next != nil {
		clone.next = h.next.WithAttrs(attrs)
	}
	return clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	if h.next != nil {
		clone.next = h.next.WithGroup(name)
	}
	return clone
}

func (h *Handler) clone() *Handler {
	return &Handler{
		next:   h.next,
		level:  h.level,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}

func (h *Handler) message(record slog.Record) Message {
	msg := Message{
		Level:   record.Level.String(),
		Message: record.Message,
		Time:    record.Time,
	}
	if len(h.attrs) == 0 && record.NumAttrs() == 0 {
		return msg
	}
	msg.Attrs = make(map[string]any, len(h.attrs)+record.NumAttrs())
	for _, attr := range h.attrs {
		addAttr(msg.Attrs, "", attr)
	}
	prefix := strings.Join(h.groups, ".")
	record.Attrs(func(attr slog.Attr) bool {
		addAttr(msg.Attrs, prefix, attr)
		return true
	})
	return msg
}

func addAttr(out map[string]any, prefix string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	key := attr.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	if attr.Value.Kind() == slog.KindGroup {
		if attr.Key == "" {
			key = prefix
		}
		for _, nested := range attr.Value.Group() {
			addAttr(out, key, nested)
		}
		return
	}
	out[key] = attr.Value.Any()
}
