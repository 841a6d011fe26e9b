package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domainErrors "github.com/wekeepgrowing/semo-accounting/internal/domain/errors"
)

const (
	// SignatureHeader carries base64(HMAC-SHA256(body, verifier token))
	SignatureHeader = "intuit-signature"
	maxWebhookBody  = 1 << 20
)

type WebhookHandler struct {
	processor WebhookProcessor
	logger    *zap.Logger
}

func NewWebhookHandler(processor WebhookProcessor, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		processor: processor,
		logger:    logger,
	}
}

// HandleWebhook answers 401 for an unverified delivery and 200 for everything else,
// so the provider does not retry entity level failures.
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody+1))
	if err != nil {
		h.logger.Error("Error reading request body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Error reading request body", "code": "INVALID_ARGUMENT"})
	}
	if len(body) > maxWebhookBody {
		h.logger.Warn("Webhook rejected: body exceeds limit",
			zap.Int("limit_bytes", maxWebhookBody),
			zap.String("ip", c.RealIP()),
		)
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{
			"error": "Webhook payload too large",
			"code":  "INVALID_ARGUMENT",
		})
	}

	if err := h.processor.VerifySignature(body, c.Request().Header.Get(SignatureHeader)); err != nil {
		if errors.Is(err, domainErrors.ErrWebhookNotConfigured) {
			h.logger.Error("Webhook rejected: verifier token is not configured")
		} else {
			h.logger.Warn("Webhook signature verification failed", zap.String("ip", c.RealIP()))
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Invalid webhook signature",
			"code":  "UNAUTHENTICATED",
		})
	}

	if err := h.processor.Process(c.Request().Context(), body); err != nil {
		h.logger.Warn("Webhook payload could not be processed", zap.Error(err))
		return c.JSON(http.StatusOK, echo.Map{"success": false})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Challenge echoes the verification challenge during webhook registration
func (h *WebhookHandler) Challenge(c echo.Context) error {
	return c.String(http.StatusOK, c.QueryParam("challenge"))
}
