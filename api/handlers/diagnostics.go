package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/sentinel-console/internal/diagnostic"
	"github.com/OldStager01/sentinel-console/internal/logger"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

type DiagnosticHandler struct {
	consoles ConsoleManager
	timeout  Timeouts
}

func NewDiagnosticHandler(consoles ConsoleManager, timeouts Timeouts) *DiagnosticHandler {
	return &DiagnosticHandler{consoles: consoles, timeout: timeouts}
}

// ResultResponse is the results panel of the session.
type ResultResponse struct {
	Result     *models.PredictionResult `json:"result"`
	Health     *int                     `json:"health,omitempty" example:"88"`
	Critical   bool                     `json:"critical" example:"false"`
	Processing bool                     `json:"processing" example:"false"`
	Logs       []models.LogEntry        `json:"logs,omitempty"`
}

func newResultResponse(p *diagnostic.Pipeline, withLogs bool) ResultResponse {
	resp := ResultResponse{
		Result:     p.Result(),
		Critical:   p.IsCritical(),
		Processing: p.Processing(),
	}
	if resp.Result != nil {
		health := resp.Result.Health()
		resp.Health = &health
	}
	if withLogs {
		resp.Logs = p.Logs()
	}
	return resp
}

// Submit godoc
// @Summary Run diagnostic
// @Description Optionally update the form, then send it to the prediction service. Blocks until the run completes.
// @Tags Diagnostics
// @Accept json
// @Produce json
// @Param request body FormRequest false "Form fields to update first"
// @Success 200 {object} ResultResponse
// @Failure 400 {object} ErrorResponse "Form incomplete or invalid"
// @Failure 409 {object} ErrorResponse "A run is already in progress"
// @Failure 502 {object} ResultResponse "Prediction service failed"
// @Failure 503 {object} ResultResponse "Prediction service unavailable"
// @Router /api/v1/diagnostics [post]
func (h *DiagnosticHandler) Submit(c *gin.Context) {
	con := consoleFor(c, h.consoles)

	if c.Request.ContentLength != 0 {
		var req FormRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		if _, err := updateForm(con, req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	ctx, cancel := withTimeout(c, h.timeout.Diagnostic)
	defer cancel()

	_, err := con.Submit(ctx)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, newResultResponse(con.Pipeline(), true))
	case errors.Is(err, diagnostic.ErrIncompleteForm):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   err.Error(),
			Missing: con.Form().MissingFields(),
		})
	case errors.Is(err, diagnostic.ErrInProgress):
		respondError(c, http.StatusConflict, err.Error())
	default:
		c.JSON(upstreamStatus(err), newResultResponse(con.Pipeline(), true))
	}
}

// SubmitForm handles the diagnostic form post of the console page.
func (h *DiagnosticHandler) SubmitForm(c *gin.Context) {
	con := consoleFor(c, h.consoles)

	if _, err := updateForm(con, formRequestFromPost(c)); err != nil {
		redirectTo(c, "checker", NoticeInvalidForm)
		return
	}

	ctx, cancel := withTimeout(c, h.timeout.Diagnostic)
	defer cancel()

	_, err := con.Submit(ctx)
	switch {
	case err == nil:
		redirectTo(c, "checker", "")
	case errors.Is(err, diagnostic.ErrIncompleteForm):
		redirectTo(c, "checker", NoticeIncompleteForm)
	case errors.Is(err, diagnostic.ErrInProgress):
		redirectTo(c, "checker", NoticeBusy)
	default:
		// The fault is already in the session's diagnostic log.
		logger.FromContext(c.Request.Context()).WithError(err).Debug("Diagnostic form post failed")
		redirectTo(c, "checker", "")
	}
}

// Result godoc
// @Summary Current result
// @Description Latest prediction of the session; result is null before the first run and after a failed one
// @Tags Diagnostics
// @Produce json
// @Success 200 {object} ResultResponse
// @Router /api/v1/diagnostics/result [get]
func (h *DiagnosticHandler) Result(c *gin.Context) {
	c.JSON(http.StatusOK, newResultResponse(consoleFor(c, h.consoles).Pipeline(), false))
}

// Logs godoc
// @Summary Diagnostic log
// @Description The bounded diagnostic log, oldest first
// @Tags Diagnostics
// @Produce json
// @Success 200 {object} map[string]interface{} "Log entries and count"
// @Router /api/v1/diagnostics/logs [get]
func (h *DiagnosticHandler) Logs(c *gin.Context) {
	logs := consoleFor(c, h.consoles).Pipeline().Logs()
	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"count": len(logs),
	})
}
