package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-accounting/internal/domain/entity"
	apperrors "github.com/wekeepgrowing/semo-accounting/pkg/errors"
)

type syncFailedResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	*entity.SyncResult
}

type AccountingHandler struct {
	connection ConnectionManager
	syncer     Synchronizer
	customers  CustomerSearcher
	logger     *zap.Logger
}

func NewAccountingHandler(connection ConnectionManager, syncer Synchronizer, customers CustomerSearcher, logger *zap.Logger) *AccountingHandler {
	return &AccountingHandler{
		connection: connection,
		syncer:     syncer,
		customers:  customers,
		logger:     logger,
	}
}

func (h *AccountingHandler) Status(c echo.Context) error {
	status, err := h.connection.Status(c.Request().Context())
	if err != nil {
		apperrors.LogError(h.logger, err, "Failed to get connection status")
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, status)
}

func (h *AccountingHandler) Disconnect(c echo.Context) error {
	if err := h.connection.Disconnect(c.Request().Context()); err != nil {
		apperrors.LogError(h.logger, err, "Failed to disconnect")
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *AccountingHandler) Sync(c echo.Context) error {
	result, err := h.syncer.SyncAll(c.Request().Context())
	if err != nil {
		apperrors.LogError(h.logger, err, "Invoice sync failed")
		return respondError(c, err)
	}

	if result.AllFailed() {
		h.logger.Error("Every invoice in the batch failed",
			zap.Int("total", result.Total),
			zap.Int("errors", len(result.Errors)),
		)
		return c.JSON(http.StatusInternalServerError, syncFailedResponse{
			Error:      "Invoice sync failed",
			Code:       apperrors.ErrSyncFailed,
			SyncResult: result,
		})
	}

	return c.JSON(http.StatusOK, result)
}

// SearchCustomers looks up provider customers by display name (?q=)
func (h *AccountingHandler) SearchCustomers(c echo.Context) error {
	customers, err := h.customers.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"customers": customers})
}
