package analytics

import "github.com/apinexus/backend/internal/domain/shared"

// ErrInvalidPeriodRequest is returned when a CUSTOM bill period lacks a bound
// or its end date precedes its start date.
var ErrInvalidPeriodRequest = shared.NewDomainError(
	"INVALID_PERIOD_REQUEST",
	"custom period requires both start and end dates with end not before start",
)
