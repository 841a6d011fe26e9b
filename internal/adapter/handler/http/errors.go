package http

import (
	"errors"

	"github.com/labstack/echo/v4"

	domainErrors "github.com/wekeepgrowing/semo-accounting/internal/domain/errors"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/provider"
	apperrors "github.com/wekeepgrowing/semo-accounting/pkg/errors"
)

// toAppError attaches a response code to domain errors
func toAppError(err error) *apperrors.AppError {
	var requestFailed *provider.RequestFailedError

	switch {
	case errors.Is(err, domainErrors.ErrNotConnected):
		return apperrors.NewAppError(apperrors.ErrNotConnected, "Accounting system is not connected", err)
	case errors.Is(err, domainErrors.ErrInvalidSearchTerm):
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, domainErrors.ErrInvalidSearchTerm.Error(), err)
	case errors.Is(err, domainErrors.ErrInvoiceNotFound):
		return apperrors.NewAppError(apperrors.ErrNotFound, "Invoice not found", err)
	case errors.Is(err, domainErrors.ErrInvoiceNotSynced):
		return apperrors.NewAppError(apperrors.ErrConflict, "Invoice has not been synced from the accounting system", err)
	case errors.As(err, &requestFailed):
		return apperrors.NewAppError(apperrors.ErrUpstreamFailed, "Accounting provider request failed", err)
	default:
		return apperrors.NewAppError(apperrors.ErrInternal, "Internal server error", err)
	}
}

func respondError(c echo.Context, err error) error {
	return apperrors.JSON(c, toAppError(err))
}
