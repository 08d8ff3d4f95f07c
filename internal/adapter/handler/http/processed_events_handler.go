package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fitcal/fitcal-backend/internal/domain/repository"
)

const (
	defaultListLimit        = 50
	defaultRetentionDays    = 90
	maxProcessedEventsLimit = 500
)

// ProcessedEventsHandler exposes the idempotency store for inspection and
// retention pruning on the JWT-guarded internal API.
type ProcessedEventsHandler struct {
	logger *zap.Logger
	events repository.ProcessedEventRepository
}

func NewProcessedEventsHandler(logger *zap.Logger, events repository.ProcessedEventRepository) *ProcessedEventsHandler {
	return &ProcessedEventsHandler{
		logger: logger,
		events: events,
	}
}

// List returns the most recently processed events.
func (h *ProcessedEventsHandler) List(c echo.Context) error {
	limit := defaultListLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be a positive integer"})
		}
		limit = parsed
	}
	if limit > maxProcessedEventsLimit {
		limit = maxProcessedEventsLimit
	}

	events, err := h.events.List(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list processed events", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list processed events"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"events": events,
		"count":  len(events),
	})
}

// Prune deletes reservation records older than the requested retention
// window. Pruning is operational hygiene; a pruned id that gets redelivered
// is reprocessed, which is safe because the remote state it mirrors has not
// changed.
func (h *ProcessedEventsHandler) Prune(c echo.Context) error {
	days := defaultRetentionDays
	if raw := c.QueryParam("older_than_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "older_than_days must be a positive integer"})
		}
		days = parsed
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	pruned, err := h.events.PruneOlderThan(c.Request().Context(), cutoff)
	if err != nil {
		h.logger.Error("Failed to prune processed events", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to prune processed events"})
	}

	h.logger.Info("Pruned processed events",
		zap.Int64("pruned", pruned),
		zap.Time("cutoff", cutoff))

	return c.JSON(http.StatusOK, echo.Map{
		"pruned": pruned,
		"cutoff": cutoff,
	})
}
