package http

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/wekeepgrowing/semo-accounting/pkg/errors"
)

type InvoiceHandler struct {
	documents InvoiceDocuments
	logger    *zap.Logger
}

func NewInvoiceHandler(documents InvoiceDocuments, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		documents: documents,
		logger:    logger,
	}
}

func (h *InvoiceHandler) DownloadPDF(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.JSON(c, apperrors.NewAppError(apperrors.ErrInvalidArgument, "Invalid invoice id", err))
	}

	pdf, err := h.documents.GetPDF(c.Request().Context(), id)
	if err != nil {
		h.logger.Warn("Failed to download invoice PDF",
			zap.String("invoice_id", id.String()),
			zap.Error(err))
		return respondError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, pdf.Filename))
	return c.Blob(http.StatusOK, "application/pdf", pdf.Content)
}
