package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/portfolio-tracker/internal/api/request"
	"github.com/ndewijer/portfolio-tracker/internal/api/response"
	"github.com/ndewijer/portfolio-tracker/internal/apperrors"
	"github.com/ndewijer/portfolio-tracker/internal/model"
	"github.com/ndewijer/portfolio-tracker/internal/service"
	"github.com/ndewijer/portfolio-tracker/internal/validation"
)

// ContributionHandler handles contribution-related HTTP requests
type ContributionHandler struct {
	contributionService *service.ContributionService
}

// NewContributionHandler creates a new ContributionHandler
func NewContributionHandler(contributionService *service.ContributionService) *ContributionHandler {
	return &ContributionHandler{
		contributionService: contributionService,
	}
}

// Contributions lists the contributions of a portfolio in matching order.
//
// Endpoint: GET /api/portfolio/{uuid}/contributions
func (h *ContributionHandler) Contributions(w http.ResponseWriter, r *http.Request) {
	contributions, err := h.contributionService.GetContributions(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveContributions.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, contributions)
}

// CreateContribution records a buy (positive quantity) or sell (negative quantity).
//
// Endpoint: POST /api/portfolio/{uuid}/contributions
// Response: 201 Created with the stored contribution
// Error: 400 Bad Request with per-field messages on invalid input
func (h *ContributionHandler) CreateContribution(w http.ResponseWriter, r *http.Request) {
	var req request.CreateContributionRequest
	if err := decodeBody(w, r, &req); err != nil {
		response.RespondError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	if err := validation.ValidateCreateContribution(req); err != nil {
		respondServiceError(w, err, "")
		return
	}

	// Date was checked by validation.
	date, _ := request.ParseDate(req.Date)

	created, err := h.contributionService.CreateContribution(r.Context(), chi.URLParam(r, "uuid"), model.Contribution{
		Category:         model.Category(req.Category),
		AssetName:        req.AssetName,
		Quantity:         req.Quantity,
		ContributionDate: date,
		GrossAmount:      req.GrossAmount,
		BrokerageFee:     req.BrokerageFee,
		CurrentPrice:     req.CurrentPrice,
	})
	if err != nil {
		respondServiceError(w, err, "failed to create contribution")
		return
	}

	response.RespondJSON(w, http.StatusCreated, created)
}

// DeleteContribution removes a contribution.
//
// Endpoint: DELETE /api/contribution/{uuid}
// Response: 204 No Content
func (h *ContributionHandler) DeleteContribution(w http.ResponseWriter, r *http.Request) {
	if err := h.contributionService.DeleteContribution(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, "failed to delete contribution")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// UpdatePriceResponse reports how many contributions received the new price.
type UpdatePriceResponse struct {
	AssetKey model.AssetKey `json:"assetKey"`
	Price    string         `json:"price"`
	Updated  int64          `json:"updated"`
}

// UpdatePrice attaches a market price to every contribution of an asset.
//
// Endpoint: PUT /api/portfolio/{uuid}/price
// Error: 404 Not Found when the portfolio holds no contribution of the asset
func (h *ContributionHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	var req request.UpdatePriceRequest
	if err := decodeBody(w, r, &req); err != nil {
		response.RespondError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	if err := validation.ValidateUpdatePrice(req); err != nil {
		respondServiceError(w, err, "")
		return
	}

	key := model.AssetKey{Category: model.Category(req.Category), AssetName: req.AssetName}
	updated, err := h.contributionService.UpdateAssetPrice(r.Context(), chi.URLParam(r, "uuid"), key, req.Price)
	if err != nil {
		respondServiceError(w, err, "failed to update price")
		return
	}

	response.RespondJSON(w, http.StatusOK, UpdatePriceResponse{
		AssetKey: key,
		Price:    req.Price.String(),
		Updated:  updated,
	})
}
