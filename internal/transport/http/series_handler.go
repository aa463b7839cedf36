package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"aqseries/internal/airquality"
	apierrors "aqseries/internal/errors"
	mw "aqseries/internal/middleware"
	"aqseries/internal/services"
	api "aqseries/pkg/contracts/api/v1"
)

var contentTypes = map[services.ExportFormat]string{
	services.FormatCSV:  "text/csv; charset=utf-8",
	services.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// SeriesHandler handles series requests with RFC 7807 compliance
type SeriesHandler struct {
	service      SeriesServiceInterface
	validator    *mw.Validator
	params       *mw.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewSeriesHandler creates a new series handler
func NewSeriesHandler(service SeriesServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SeriesHandler {
	logger = logger.With(slog.String("component", "series_handler"))
	return &SeriesHandler{
		service:      service,
		validator:    mw.NewValidator(logger),
		params:       mw.NewQueryParamValidator(logger, errorHandler),
		logger:       logger,
		errorHandler: errorHandler,
	}
}

// Routes returns the series routes, mounted under /api/series
func (h *SeriesHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/{station}/{pollutant}", func(r chi.Router) {
		r.With(render.SetContentType(render.ContentTypeJSON)).Get("/", h.GetSeries)
		r.Get("/export", h.ExportSeries)
	})

	return r
}

// parsePollutant accepts a magnitude code or a catalogue formula
func parsePollutant(value string) (int, bool) {
	if code, err := strconv.Atoi(value); err == nil {
		return code, true
	}
	if p, ok := airquality.PollutantByFormula(value); ok {
		return p.Code, true
	}
	return 0, false
}

// parseSeriesQuery reads and validates the path and query parameters. On
// failure the problem response is already written.
func (h *SeriesHandler) parseSeriesQuery(w http.ResponseWriter, r *http.Request) (api.SeriesQuery, bool) {
	q := api.SeriesQuery{Station: chi.URLParam(r, "station")}

	pollutant, ok := parsePollutant(chi.URLParam(r, "pollutant"))
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("pollutant",
			fmt.Sprintf("unknown pollutant %q", chi.URLParam(r, "pollutant"))))
		return q, false
	}
	q.Pollutant = pollutant

	if q.From, ok = h.params.ValidateInt(w, r, "from", 0); !ok {
		return q, false
	}
	if q.To, ok = h.params.ValidateInt(w, r, "to", 0); !ok {
		return q, false
	}
	if q.DropMissing, ok = h.params.ValidateBool(w, r, "drop_missing", false); !ok {
		return q, false
	}

	if err := h.validator.ValidateStruct(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return q, false
	}
	return q, true
}

func toSeriesRequest(q api.SeriesQuery) services.SeriesRequest {
	return services.SeriesRequest{
		StationCode: q.Station,
		Pollutant:   q.Pollutant,
		FromYear:    q.From,
		ToYear:      q.To,
		DropMissing: q.DropMissing,
	}
}

// GetSeries handles GET /api/series/{station}/{pollutant}
func (h *SeriesHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseSeriesQuery(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "fetching series",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("station", q.Station),
		slog.Int("pollutant", q.Pollutant),
		slog.Int("from", q.From),
		slog.Int("to", q.To),
	)

	result, err := h.service.Daily(r.Context(), toSeriesRequest(q))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, newSeriesResponse(result))
}

// ExportSeries handles GET /api/series/{station}/{pollutant}/export
func (h *SeriesHandler) ExportSeries(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseSeriesQuery(w, r)
	if !ok {
		return
	}

	eq := api.ExportQuery{SeriesQuery: q, Format: r.URL.Query().Get("format")}
	if eq.Format == "" {
		eq.Format = string(services.FormatCSV)
	}
	if err := h.validator.ValidateStruct(eq); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	format := services.ExportFormat(eq.Format)

	result, err := h.service.Export(r.Context(), toSeriesRequest(q), format)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "serving export",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("file", result.Name),
		slog.Int("points", result.Points),
	)

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Name))
	http.ServeFile(w, r, result.Path)
}

// GetFiles handles GET /api/files
func (h *SeriesHandler) GetFiles(w http.ResponseWriter, r *http.Request) {
	found, err := h.service.Files(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, newFilesResponse(found))
}

// GetPollutants handles GET /api/pollutants
func (h *SeriesHandler) GetPollutants(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, newPollutantsResponse())
}
