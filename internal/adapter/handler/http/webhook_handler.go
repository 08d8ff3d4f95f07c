package http

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fitcal/fitcal-backend/internal/metrics"
	"github.com/fitcal/fitcal-backend/internal/usecase"
)

// WebhookHandler terminates the two Stripe webhook endpoints. Signature
// verification is the authentication mechanism for these routes: a request
// that fails it is rejected with 400 before any state is touched. Everything
// past verification answers 200 unless a handler or the store fails, in
// which case Stripe's redelivery schedule is the retry mechanism.
type WebhookHandler struct {
	logger           *zap.Logger
	processor        *usecase.WebhookProcessor
	platformVerifier *SignatureVerifier
	connectVerifier  *SignatureVerifier
	collector        metrics.Recorder
}

func NewWebhookHandler(
	logger *zap.Logger,
	processor *usecase.WebhookProcessor,
	platformVerifier *SignatureVerifier,
	connectVerifier *SignatureVerifier,
	collector metrics.Recorder,
) *WebhookHandler {
	return &WebhookHandler{
		logger:           logger,
		processor:        processor,
		platformVerifier: platformVerifier,
		connectVerifier:  connectVerifier,
		collector:        collector,
	}
}

// HandlePlatformWebhook receives events for the platform's own account.
func (h *WebhookHandler) HandlePlatformWebhook(c echo.Context) error {
	return h.handle(c, h.platformVerifier, "platform")
}

// HandleConnectWebhook receives events relayed from connected accounts.
func (h *WebhookHandler) HandleConnectWebhook(c echo.Context) error {
	return h.handle(c, h.connectVerifier, "connect")
}

func (h *WebhookHandler) handle(c echo.Context, verifier *SignatureVerifier, endpoint string) error {
	// The signature covers the exact raw bytes; the body must not be parsed
	// or re-serialized before verification.
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("Error reading request body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Error reading request body"})
	}

	sig := c.Request().Header.Get("Stripe-Signature")

	event, err := verifier.Verify(body, sig)
	if err != nil {
		h.collector.RecordSignatureFailure(endpoint)
		h.logger.Warn("Webhook signature verification failed",
			zap.String("endpoint", endpoint),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Webhook signature verification failed",
		})
	}

	h.collector.RecordReceived(string(event.Type))
	h.logger.Info("Webhook event received",
		zap.String("endpoint", endpoint),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("account", event.Account))

	if err := h.processor.Process(c.Request().Context(), &event); err != nil {
		// Non-2xx makes Stripe redeliver; the reservation was not recorded,
		// so the retry will be processed.
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Event processing failed",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"received": true})
}
