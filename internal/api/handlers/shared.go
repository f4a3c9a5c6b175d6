package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ndewijer/portfolio-tracker/internal/accounting"
	"github.com/ndewijer/portfolio-tracker/internal/api/response"
	"github.com/ndewijer/portfolio-tracker/internal/apperrors"
	"github.com/ndewijer/portfolio-tracker/internal/validation"
)

// maxBodyBytes caps request bodies read by decodeBody.
const maxBodyBytes = 1 << 20

// respondServiceError maps an error returned by a service to a status code.
// message is used for errors that do not map to a client error.
func respondServiceError(w http.ResponseWriter, err error, message string) {
	var verr *validation.Error
	var invalid *accounting.InvalidContributionError

	switch {
	case errors.As(err, &verr):
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.As(err, &invalid):
		response.RespondError(w, http.StatusUnprocessableEntity, apperrors.ErrInvalidContribution.Error(), invalid.Error())
	case errors.Is(err, apperrors.ErrPortfolioNotFound),
		errors.Is(err, apperrors.ErrContributionNotFound),
		errors.Is(err, apperrors.ErrAssetNotFound):
		response.RespondError(w, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, apperrors.ErrInvalidDateRange),
		errors.Is(err, apperrors.ErrInvalidUUID):
		response.RespondError(w, http.StatusBadRequest, err.Error(), "")
	default:
		response.RespondError(w, http.StatusInternalServerError, message, err.Error())
	}
}

// decodeBody decodes a JSON request body into dst.
// Unknown fields are rejected so typos in field names do not silently become zero values.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// parseBoolQuery reads an optional boolean query parameter.
func parseBoolQuery(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: must be true or false", name)
	}
	return v, nil
}
