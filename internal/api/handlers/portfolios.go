package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/portfolio-tracker/internal/accounting"
	"github.com/ndewijer/portfolio-tracker/internal/api/request"
	"github.com/ndewijer/portfolio-tracker/internal/api/response"
	"github.com/ndewijer/portfolio-tracker/internal/apperrors"
	"github.com/ndewijer/portfolio-tracker/internal/chart"
	"github.com/ndewijer/portfolio-tracker/internal/service"
	"github.com/ndewijer/portfolio-tracker/internal/validation"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
	currency         string
}

// NewPortfolioHandler creates a new PortfolioHandler. currency is the ISO code
// used to label rendered charts.
func NewPortfolioHandler(portfolioService *service.PortfolioService, currency string) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		currency:         currency,
	}
}

// Portfolios lists portfolios. Archived portfolios are only included with
// ?include_archived=true.
//
// Endpoint: GET /api/portfolio
func (h *PortfolioHandler) Portfolios(w http.ResponseWriter, r *http.Request) {
	includeArchived, err := parseBoolQuery(r, "include_archived")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	portfolios, err := h.portfolioService.GetAllPortfolios(r.Context(), includeArchived)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolios.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolios)
}

// CreatePortfolio creates a portfolio.
//
// Endpoint: POST /api/portfolio
// Response: 201 Created with the stored portfolio
func (h *PortfolioHandler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePortfolioRequest
	if err := decodeBody(w, r, &req); err != nil {
		response.RespondError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	if err := validation.ValidateCreatePortfolio(req); err != nil {
		respondServiceError(w, err, "")
		return
	}

	portfolio, err := h.portfolioService.CreatePortfolio(r.Context(), req.Name, req.Description)
	if err != nil {
		respondServiceError(w, err, "failed to create portfolio")
		return
	}

	response.RespondJSON(w, http.StatusCreated, portfolio)
}

// Portfolio returns a single portfolio.
//
// Endpoint: GET /api/portfolio/{uuid}
func (h *PortfolioHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	portfolio, err := h.portfolioService.GetPortfolio(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolios.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}

// Overview returns the totals of every non-archived portfolio.
//
// Endpoint: GET /api/portfolio/overview
func (h *PortfolioHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.portfolioService.GetPortfolioOverview(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetPortfolioSummary.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, overview)
}

// Summary returns the open holdings, totals and unmatched-sell warnings of a portfolio.
//
// Endpoint: GET /api/portfolio/{uuid}/summary
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolioService.GetPortfolioSummary(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetPortfolioSummary.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// Holdings returns only the open holdings of a portfolio.
//
// Endpoint: GET /api/portfolio/{uuid}/holdings
func (h *PortfolioHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolioService.GetPortfolioSummary(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetPortfolioSummary.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary.Holdings)
}

// EvolutionResponse is the chart-ready evolution series of a portfolio.
// Interval is "2h" for intraday ranges and "1d" otherwise.
type EvolutionResponse struct {
	Interval string                      `json:"interval"`
	Points   []accounting.EvolutionPoint `json:"points"`
	Labels   []string                    `json:"labels"`
	Invested []string                    `json:"invested"`
	Current  []string                    `json:"current"`
}

// Evolution returns the invested cost and market value of a portfolio over time.
// start_date and end_date are optional (YYYY-MM-DD or RFC3339). start_date
// defaults to the first contribution and end_date to now. Ranges needing more
// than accounting.MaxEvolutionPoints ticks are rejected with 400.
// A portfolio without contributions yields an empty series.
//
// Endpoint: GET /api/portfolio/{uuid}/evolution
func (h *PortfolioHandler) Evolution(w http.ResponseWriter, r *http.Request) {
	series, ok := h.loadEvolution(w, r)
	if !ok {
		return
	}

	resp := EvolutionResponse{
		Points:   []accounting.EvolutionPoint{},
		Labels:   []string{},
		Invested: []string{},
		Current:  []string{},
	}
	if series != nil {
		resp.Interval = intervalName(series.Step)
		resp.Points = series.Points
		resp.Labels = series.Labels
		for i := range series.Points {
			resp.Invested = append(resp.Invested, series.Invested[i].String())
			resp.Current = append(resp.Current, series.Current[i].String())
		}
	}

	response.RespondJSON(w, http.StatusOK, resp)
}

// EvolutionChart renders the evolution series as a PNG line chart.
// Takes the same query parameters as Evolution.
//
// Endpoint: GET /api/portfolio/{uuid}/evolution/chart.png
// Error: 422 Unprocessable Entity when the range has fewer than two points
func (h *PortfolioHandler) EvolutionChart(w http.ResponseWriter, r *http.Request) {
	series, ok := h.loadEvolution(w, r)
	if !ok {
		return
	}

	png, err := chart.RenderEvolution(series, chart.DefaultOptions(h.currency))
	if err != nil {
		if errors.Is(err, chart.ErrNotEnoughPoints) {
			response.RespondError(w, http.StatusUnprocessableEntity, "not enough data to render chart", err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRenderChart.Error(), err.Error())
		return
	}

	response.RespondPNG(w, png)
}

// loadEvolution parses the date range and builds the series. It writes the
// error response itself and reports false when the handler should stop.
func (h *PortfolioHandler) loadEvolution(w http.ResponseWriter, r *http.Request) (*accounting.EvolutionSeries, bool) {
	dates, err := request.ParseDateRange(r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, err.Error(), "")
		return nil, false
	}

	series, err := h.portfolioService.GetPortfolioEvolution(r.Context(), chi.URLParam(r, "uuid"), dates.Start, dates.End)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetPortfolioEvolution.Error())
		return nil, false
	}
	return series, true
}

func intervalName(step time.Duration) string {
	if step == accounting.HourlyStep {
		return "2h"
	}
	return "1d"
}
