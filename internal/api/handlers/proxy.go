package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dom/league-rest-explorer/internal/domain"
	"github.com/dom/league-rest-explorer/internal/riot"
	"github.com/dom/league-rest-explorer/internal/service"
	"github.com/dom/league-rest-explorer/internal/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// ProxyHandler serves GET /api?endpoint=... with a {"data":[...]} body.
type ProxyHandler struct {
	proxy    *service.ProxyService
	tracer   trace.Tracer
	recorder *telemetry.LayerRecorder
	logger   *zap.Logger
}

func NewProxyHandler(proxy *service.ProxyService, tracer trace.Tracer, recorder *telemetry.LayerRecorder, logger *zap.Logger) *ProxyHandler {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	if recorder == nil {
		recorder = telemetry.NewLayerRecorder()
	}
	return &ProxyHandler{
		proxy:    proxy,
		tracer:   tracer,
		recorder: recorder,
		logger:   logger,
	}
}

type DataResponse struct {
	Data any `json:"data"`
}

func (h *ProxyHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := service.ProxyRequest{
		Endpoint: q.Get("endpoint"),
		Year:     q.Get("year"),
		Champion: q.Get("champion"),
		Trace:    q.Get("trace") == "true",
		Config:   q.Get("config") == "true",
	}

	ctx, span := h.tracer.Start(r.Context(), "gateway "+req.Endpoint, telemetry.Layer("gateway", "api-gateway"))
	traceID := span.SpanContext().TraceID()
	if req.Trace {
		h.recorder.Watch(traceID)
	}

	resp, err := h.proxy.Handle(ctx, req)
	if err != nil {
		status, message := proxyError(err)
		telemetry.SetStatus(span, strconv.Itoa(status))
		span.End()
		if req.Trace {
			h.recorder.Take(traceID)
		}
		h.logger.Warn("proxy request failed",
			zap.String("endpoint", req.Endpoint),
			zap.Int("status", status),
			zap.Error(err),
		)
		writeError(w, status, message)
		return
	}

	telemetry.SetStatus(span, strconv.Itoa(http.StatusOK))
	span.End()

	w.Header().Set("X-Cache", resp.Cache)
	data := resp.Data
	if req.Trace {
		data = h.recorder.Take(traceID)
		w.Header().Set("Cache-Control", "no-store")
	} else {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(resp.MaxAge.Seconds())))
	}

	writeJSON(w, http.StatusOK, DataResponse{Data: data})
}

func proxyError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnknownEndpoint):
		return http.StatusBadRequest, "Unknown endpoint. Use one of: " + strings.Join(domain.Endpoints, ", ")
	case errors.Is(err, riot.ErrUnauthorized):
		return http.StatusForbidden, "Upstream rejected the API credentials"
	case errors.Is(err, domain.ErrChampionMissing):
		return http.StatusNotFound, "Champion not found. Sync champions first."
	case errors.Is(err, riot.ErrNotFound):
		return http.StatusNotFound, "Upstream resource not found"
	default:
		return http.StatusBadGateway, "Upstream request failed"
	}
}
