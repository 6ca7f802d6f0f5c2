package atlas

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/climfin/finance-atlas/pkg/adapters"
	"github.com/climfin/finance-atlas/pkg/models/api"
	"github.com/climfin/finance-atlas/pkg/models/domain"
	"github.com/climfin/finance-atlas/pkg/services/dashboard"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const noDataMessage = "No data available for this country."

type Handler struct {
	dashboard dashboard.Service
}

func NewHandler(svc dashboard.Service) *Handler {
	return &Handler{dashboard: svc}
}

func (h *Handler) GetMap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := parseMapRequest(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	view, err := h.dashboard.MapView(ctx, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, adapters.MapViewToAPI(req, view))
}

func (h *Handler) GetCountry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := countryCode(r)

	req, err := parseMapRequest(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	info, err := h.dashboard.CountryInfo(ctx, req, code)
	if errors.Is(err, domain.ErrMissingColumn) {
		h.noData(r, err)
		h.writeJSON(w, r, http.StatusOK, api.CountryInfo{Code: code, Available: false, Message: noDataMessage})
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response := adapters.MapCountryInfoToAPI(info)
	if !response.Available {
		response.Message = noDataMessage
	}
	h.writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetCountryFlows(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := countryCode(r)

	req, err := parseMapRequest(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	rows, err := h.dashboard.CountryFlows(ctx, req, code)
	if errors.Is(err, domain.ErrMissingColumn) {
		h.noData(r, err)
		h.writeJSON(w, r, http.StatusOK, api.FlowsResponse{
			Country: code, Available: false, Message: noDataMessage, Flows: []api.Flow{},
		})
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response := api.FlowsResponse{Country: code, Available: len(rows) > 0, Flows: make([]api.Flow, 0, len(rows))}
	for _, row := range rows {
		response.Flows = append(response.Flows, adapters.MapCountryRecordToAPIFlow(row))
	}
	if !response.Available {
		response.Message = noDataMessage
	}
	h.writeJSON(w, r, http.StatusOK, response)
}

// GetVolumes returns the volume per category, for one country when the
// country parameter is set.
func (h *Handler) GetVolumes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := strings.ToUpper(r.URL.Query().Get("country"))

	req, err := parseMapRequest(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	volumes, err := h.dashboard.CategoryVolumes(ctx, req, code)
	if code != "" && errors.Is(err, domain.ErrMissingColumn) {
		h.noData(r, err)
		h.writeJSON(w, r, http.StatusOK, api.VolumesResponse{
			Country: code, Available: false, Message: noDataMessage, Volumes: []api.CategoryVolume{},
		})
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, api.VolumesResponse{
		Country:   code,
		Available: true,
		Volumes:   adapters.MapVolumesToAPI(volumes),
	})
}

func (h *Handler) GetTaxonomy(w http.ResponseWriter, r *http.Request) {
	selected := list(r.URL.Query(), "categories")
	h.writeJSON(w, r, http.StatusOK, adapters.MapTaxonomyToAPI(selected, h.dashboard.SubcategoryOptions(selected)))
}

// ExportCSV streams the filtered flows. aggregated=true sums them per
// donor, recipient, year, flow and category.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	values := r.URL.Query()

	filters, err := parseFilters(values)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	aggregated := values.Get("aggregated") == "true"

	// Rendered to memory first so a failed query still gets a JSON error.
	var buf bytes.Buffer
	if err := h.dashboard.Export(ctx, filters, aggregated, &buf); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="climate_finance.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to write csv export")
	}
}

func countryCode(r *http.Request) string {
	return strings.ToUpper(chi.URLParam(r, "code"))
}

func (h *Handler) noData(r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Warn().
		Err(err).
		Str("path", r.URL.Path).
		Msg("country panel has no data")
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrInvalidArgument) {
		status = http.StatusBadRequest
	}

	event := zerolog.Ctx(r.Context()).Error()
	if status < http.StatusInternalServerError {
		event = zerolog.Ctx(r.Context()).Warn()
	}
	event.Err(err).Int("status", status).Msg("request failed")

	h.writeJSON(w, r, status, api.ErrorResponse{Error: err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
