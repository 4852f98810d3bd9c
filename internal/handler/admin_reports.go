package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/haanng/pulse-survey/internal/repository"
	"github.com/haanng/pulse-survey/internal/service"
)

// AdminReportHandler serves response listings, aggregate reports and the
// spreadsheet export.
type AdminReportHandler struct {
	Responses *repository.ResponseRepo
	SyncLogs  *repository.SyncLogRepo
	Reporter  *service.Reporter
	Syncer    *service.SheetSyncer
}

func NewAdminReportHandler(responses *repository.ResponseRepo, logs *repository.SyncLogRepo, rep *service.Reporter, syncer *service.SheetSyncer) *AdminReportHandler {
	return &AdminReportHandler{Responses: responses, SyncLogs: logs, Reporter: rep, Syncer: syncer}
}

// SurveyResponses lists every response for a survey with respondent details.
func (h *AdminReportHandler) SurveyResponses(c echo.Context) error {
	surveyID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid survey id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	responses, err := h.Responses.ResponsesBySurvey(ctx, surveyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"responses": responses})
}

// SurveySummary returns the aggregated report for a survey.
func (h *AdminReportHandler) SurveySummary(c echo.Context) error {
	surveyID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid survey id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	summary, err := h.Reporter.Summary(ctx, surveyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, summary)
}

// Sync pushes all unsynced responses for a survey to the export spreadsheet.
// The spreadsheet round trip can be slow, so this handler gets a wider
// timeout than the rest.
func (h *AdminReportHandler) Sync(c echo.Context) error {
	surveyID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid survey id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	result, err := h.Syncer.SyncAll(ctx, surveyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "sync failed: " + err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}

// SyncLog lists recent export attempts, newest first.  ?limit caps the page
// size.
func (h *AdminReportHandler) SyncLog(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := h.SyncLogs.RecentSyncLogs(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sync_log": entries})
}
