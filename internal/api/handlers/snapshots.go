package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/portfolio-tracker/internal/api/request"
	"github.com/ndewijer/portfolio-tracker/internal/api/response"
	"github.com/ndewijer/portfolio-tracker/internal/apperrors"
	"github.com/ndewijer/portfolio-tracker/internal/service"
)

// SnapshotHandler handles the stored daily portfolio snapshots
type SnapshotHandler struct {
	snapshotService *service.SnapshotService
}

// NewSnapshotHandler creates a new SnapshotHandler
func NewSnapshotHandler(snapshotService *service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{
		snapshotService: snapshotService,
	}
}

// Snapshots lists stored snapshots of a portfolio.
// start_date and end_date are optional; end_date defaults to today.
//
// Endpoint: GET /api/portfolio/{uuid}/snapshots
func (h *SnapshotHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	dates, err := request.ParseDateRange(r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	snapshots, err := h.snapshotService.GetSnapshots(r.Context(), chi.URLParam(r, "uuid"), dates.Start, dates.End)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveSnapshots.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshots)
}

// CaptureSnapshot stores today's snapshot of a portfolio immediately instead
// of waiting for the scheduler.
//
// Endpoint: POST /api/portfolio/{uuid}/snapshots
// Response: 201 Created with the stored snapshot
func (h *SnapshotHandler) CaptureSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.snapshotService.CapturePortfolioSnapshot(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, "failed to capture snapshot")
		return
	}

	response.RespondJSON(w, http.StatusCreated, snapshot)
}
