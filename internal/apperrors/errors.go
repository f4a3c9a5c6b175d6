package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrContributionNotFound indicates that a contribution with the given ID does not exist.
	ErrContributionNotFound = errors.New("contribution not found")

	// ErrAssetNotFound indicates that a portfolio holds no contribution for the requested asset.
	ErrAssetNotFound = errors.New("asset not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidContribution indicates that a contribution record cannot be used for
	// lot matching (missing date, zero quantity, negative amounts, unknown category).
	ErrInvalidContribution = errors.New("invalid contribution")

	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToRetrievePortfolios    = errors.New("failed to retrieve portfolios")
	ErrFailedToRetrieveContributions = errors.New("failed to retrieve contributions")
	ErrFailedToGetPortfolioSummary   = errors.New("failed to get portfolio summary")
	ErrFailedToGetPortfolioEvolution = errors.New("failed to get portfolio evolution")
	ErrFailedToRenderChart           = errors.New("failed to render chart")
	ErrFailedToRetrieveSnapshots     = errors.New("failed to retrieve snapshots")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., a stored decimal column that no longer parses).
	ErrDataInconsistency = errors.New("data inconsistency detected")
)
