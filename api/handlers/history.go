package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/sentinel-console/internal/history"
	"github.com/OldStager01/sentinel-console/pkg/validation"
)

type HistoryHandler struct {
	consoles ConsoleManager
	timeout  Timeouts
}

func NewHistoryHandler(consoles ConsoleManager, timeouts Timeouts) *HistoryHandler {
	return &HistoryHandler{consoles: consoles, timeout: timeouts}
}

type SearchRequest struct {
	Term string `json:"term" example:"HDF"`
}

// PageRequest moves the page cursor. Action is next, prev or set; Page is
// only read for set and is clamped to the pages that exist.
type PageRequest struct {
	Action string `json:"action" binding:"required,oneof=next prev set" example:"next"`
	Page   int    `json:"page" example:"2"`
}

// HistoryResponse is one page of the table plus its footer line.
type HistoryResponse struct {
	history.View
	Summary string `json:"summary" example:"Showing 10 of 100 records"`
}

func newHistoryResponse(v history.View) HistoryResponse {
	return HistoryResponse{View: v, Summary: v.Summary()}
}

func movePage(t *history.Table, action string, page int) history.View {
	switch action {
	case "next":
		return t.NextPage()
	case "prev":
		return t.PrevPage()
	default:
		return t.SetPage(page)
	}
}

// Get godoc
// @Summary History page
// @Description Current page of the historical dataset. The first call loads the dataset.
// @Tags History
// @Produce json
// @Success 200 {object} HistoryResponse
// @Router /api/v1/history [get]
func (h *HistoryHandler) Get(c *gin.Context) {
	table := consoleFor(c, h.consoles).History()

	ctx, cancel := withTimeout(c, h.timeout.History)
	defer cancel()
	table.EnsureLoaded(ctx)

	c.JSON(http.StatusOK, newHistoryResponse(table.View()))
}

// Search godoc
// @Summary Search history
// @Description Filter rows whose fields contain the term, case-insensitively. Resets to the first page.
// @Tags History
// @Accept json
// @Produce json
// @Param request body SearchRequest true "Search term"
// @Success 200 {object} HistoryResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/history/search [post]
func (h *HistoryHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	term, err := validation.ValidateSearchTerm(req.Term)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, newHistoryResponse(consoleFor(c, h.consoles).History().Search(term)))
}

// Page godoc
// @Summary Move page cursor
// @Tags History
// @Accept json
// @Produce json
// @Param request body PageRequest true "Page action"
// @Success 200 {object} HistoryResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/history/page [post]
func (h *HistoryHandler) Page(c *gin.Context) {
	var req PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, newHistoryResponse(movePage(consoleFor(c, h.consoles).History(), req.Action, req.Page)))
}

// Refresh godoc
// @Summary Reload dataset
// @Description Fetch a fresh copy of the dataset. On failure the cached rows are kept and returned with the error.
// @Tags History
// @Produce json
// @Success 200 {object} HistoryResponse
// @Failure 502 {object} map[string]interface{} "Upstream failed, cached view included"
// @Router /api/v1/history/refresh [post]
func (h *HistoryHandler) Refresh(c *gin.Context) {
	table := consoleFor(c, h.consoles).History()

	ctx, cancel := withTimeout(c, h.timeout.History)
	defer cancel()

	if err := table.Refresh(ctx); err != nil {
		c.JSON(upstreamStatus(err), gin.H{
			"error": err.Error(),
			"view":  newHistoryResponse(table.View()),
		})
		return
	}

	c.JSON(http.StatusOK, newHistoryResponse(table.View()))
}

// SearchForm handles the search box of the console page.
func (h *HistoryHandler) SearchForm(c *gin.Context) {
	term, err := validation.ValidateSearchTerm(c.PostForm("term"))
	if err != nil {
		redirectTo(c, "dataset", NoticeInvalidSearch)
		return
	}
	consoleFor(c, h.consoles).History().Search(term)
	redirectTo(c, "dataset", "")
}

// PageForm handles the pagination buttons of the console page.
func (h *HistoryHandler) PageForm(c *gin.Context) {
	action := c.PostForm("action")
	switch action {
	case "next", "prev", "set":
	default:
		redirectTo(c, "dataset", "")
		return
	}
	page, _ := strconv.Atoi(c.PostForm("page"))
	movePage(consoleFor(c, h.consoles).History(), action, page)
	redirectTo(c, "dataset", "")
}

// RefreshForm handles the refresh button of the console page.
func (h *HistoryHandler) RefreshForm(c *gin.Context) {
	ctx, cancel := withTimeout(c, h.timeout.History)
	defer cancel()

	if err := consoleFor(c, h.consoles).History().Refresh(ctx); err != nil {
		redirectTo(c, "dataset", NoticeHistoryFailed)
		return
	}
	redirectTo(c, "dataset", "")
}
