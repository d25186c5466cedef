package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mis-reports/internal/export"
	"mis-reports/internal/records"
	"mis-reports/internal/registry"
	"mis-reports/internal/report"
	"mis-reports/internal/stats"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Handler struct {
	deps Dependencies
	now  func() time.Time
}

func NewHandler(deps Dependencies) *Handler {
	if deps.CanExport == nil {
		deps.CanExport = func(string) bool { return true }
	}
	return &Handler{deps: deps, now: time.Now}
}

type moduleResponse struct {
	Key        registry.Module     `json:"key"`
	Label      string              `json:"label"`
	Exportable bool                `json:"exportable"`
	Categories []registry.Category `json:"categories"`
}

type reportResponse struct {
	Request     report.Request             `json:"request"`
	GeneratedAt time.Time                  `json:"generatedAt"`
	Summary     stats.Summary              `json:"summary"`
	Chart       stats.ChartSeries          `json:"chart"`
	Records     []records.NormalizedRecord `json:"records"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) ListModules(w http.ResponseWriter, r *http.Request) {
	var response []moduleResponse
	for _, m := range registry.Modules() {
		response = append(response, moduleResponse{
			Key:        m,
			Label:      m.Label(),
			Exportable: h.deps.CanExport(string(m)),
			Categories: h.deps.Registry.Categories(m),
		})
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	module, ok := registry.ParseModule(chi.URLParam(r, "module"))
	if !ok {
		writeJSON(w, r, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("unknown module %q", chi.URLParam(r, "module"))})
		return
	}
	writeJSON(w, r, http.StatusOK, h.deps.Registry.Categories(module))
}

func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	snap, err := h.generate(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, reportResponse{
		Request:     snap.Request,
		GeneratedAt: snap.GeneratedAt,
		Summary:     snap.Report.Summary,
		Chart:       snap.Report.Chart,
		Records:     snap.Report.Records,
	})
}

func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	renderer, ok := h.deps.Exporter.Renderer(format)
	if !ok {
		writeJSON(w, r, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("%s export is not available", format)})
		return
	}
	module, ok := registry.ParseModule(chi.URLParam(r, "module"))
	if !ok {
		writeError(w, r, fmt.Errorf("%w: module %q is not registered", report.ErrUnknownCategory, chi.URLParam(r, "module")))
		return
	}
	if !h.deps.CanExport(string(module)) {
		writeJSON(w, r, http.StatusForbidden, errorResponse{Error: "export is not permitted for this module"})
		return
	}

	snap, err := h.generate(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	meta := export.NewMetadata(h.deps.Registry, snap, h.deps.OrgName)
	var buf bytes.Buffer
	if err := renderer.Render(r.Context(), &buf, snap.Report, meta); err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.MIMEType())
	if format != export.FormatHTML {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(meta, format)))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to write export")
	}
}

func (h *Handler) generate(r *http.Request) (report.Snapshot, error) {
	query := r.URL.Query()
	filters := make(map[string]string)
	for key := range query {
		if key != "startDate" && key != "endDate" {
			filters[key] = query.Get(key)
		}
	}

	req, err := report.ParseRequest(chi.URLParam(r, "module"), chi.URLParam(r, "category"), query.Get("startDate"), query.Get("endDate"), filters)
	if err != nil {
		return report.Snapshot{}, err
	}
	rep, err := h.deps.Generator.Generate(r.Context(), req)
	if err != nil {
		return report.Snapshot{}, err
	}
	return report.Snapshot{Request: req, Report: rep, GeneratedAt: h.now()}, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, report.ErrUnknownCategory):
		return http.StatusNotFound
	case report.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, report.ErrFetchFailed):
		return http.StatusBadGateway
	case errors.Is(err, export.ErrNoReportAvailable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	logger := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Msg("report request failed")
	} else {
		logger.Debug().Err(err).Msg("report request rejected")
	}
	writeJSON(w, r, status, errorResponse{Error: report.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
