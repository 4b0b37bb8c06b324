package telemetry

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dom/league-rest-explorer/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const (
	AttrLayer     = attribute.Key("rest.layer")
	AttrComponent = attribute.Key("rest.component")
	AttrStatus    = attribute.Key("rest.status")
	AttrDetail    = attribute.Key("rest.detail")
)

// Layer tags a span as one hop of the layered request path.
func Layer(layer, component string) trace.SpanStartOption {
	return trace.WithAttributes(AttrLayer.String(layer), AttrComponent.String(component))
}

func SetStatus(span trace.Span, status string) {
	span.SetAttributes(AttrStatus.String(status))
}

func SetDetail(span trace.Span, detail string) {
	span.SetAttributes(AttrDetail.String(detail))
}

// LayerRecorder is a span processor that keeps the layer spans of watched
// traces in memory until they are taken.
type LayerRecorder struct {
	mu      sync.Mutex
	watched map[trace.TraceID][]sdktrace.ReadOnlySpan
}

var _ sdktrace.SpanProcessor = (*LayerRecorder)(nil)

func NewLayerRecorder() *LayerRecorder {
	return &LayerRecorder{
		watched: make(map[trace.TraceID][]sdktrace.ReadOnlySpan),
	}
}

// Watch starts collecting the spans of a trace.
func (r *LayerRecorder) Watch(id trace.TraceID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.watched[id]; !ok {
		r.watched[id] = nil
	}
}

// Take stops watching a trace and returns its ended layer spans ordered by
// start time.
func (r *LayerRecorder) Take(id trace.TraceID) []domain.LayerRecord {
	r.mu.Lock()
	spans := r.watched[id]
	delete(r.watched, id)
	r.mu.Unlock()

	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].StartTime().Before(spans[j].StartTime())
	})

	out := make([]domain.LayerRecord, 0, len(spans))
	for _, s := range spans {
		out = append(out, toRecord(s))
	}
	return out
}

func (r *LayerRecorder) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (r *LayerRecorder) OnEnd(s sdktrace.ReadOnlySpan) {
	if attrValue(s, AttrLayer) == "" {
		return
	}
	id := s.SpanContext().TraceID()

	r.mu.Lock()
	defer r.mu.Unlock()
	spans, ok := r.watched[id]
	if !ok {
		return
	}
	r.watched[id] = append(spans, s)
}

func (r *LayerRecorder) Shutdown(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.watched)
	return nil
}

func (r *LayerRecorder) ForceFlush(context.Context) error { return nil }

func toRecord(s sdktrace.ReadOnlySpan) domain.LayerRecord {
	status := attrValue(s, AttrStatus)
	if status == "" {
		status = "ok"
		if s.Status().Code == codes.Error {
			status = "error"
		}
	}
	return domain.LayerRecord{
		Layer:      attrValue(s, AttrLayer),
		Component:  attrValue(s, AttrComponent),
		Status:     status,
		DurationMs: float64(s.EndTime().Sub(s.StartTime())) / float64(time.Millisecond),
		Detail:     attrValue(s, AttrDetail),
	}
}

func attrValue(s sdktrace.ReadOnlySpan, key attribute.Key) string {
	for _, kv := range s.Attributes() {
		if kv.Key == key {
			return kv.Value.Emit()
		}
	}
	return ""
}
