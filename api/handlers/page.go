package handlers

import (
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/sentinel-console/api/web"
	"github.com/OldStager01/sentinel-console/internal/console"
	"github.com/OldStager01/sentinel-console/internal/history"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

// Notices shown after an HTML form post, keyed by the redirect's notice parameter.
const (
	NoticeIncompleteForm = "incomplete"
	NoticeInvalidForm    = "invalid"
	NoticeBusy           = "busy"
	NoticeInvalidSearch  = "search"
	NoticeHistoryFailed  = "history"
	NoticeInvalidMessage = "message"
)

var notices = map[string]string{
	NoticeIncompleteForm: "Telemetry incomplete: speed, load and core heat are required.",
	NoticeInvalidForm:    "Telemetry rejected: check the machine type and field lengths.",
	NoticeBusy:           "Previous request still in progress.",
	NoticeInvalidSearch:  "Search term too long.",
	NoticeHistoryFailed:  "Dataset sync failed. Showing cached records.",
	NoticeInvalidMessage: "Message too long.",
}

// Hero badge fallbacks when the form field is empty.
const (
	badgeRPM    = "1550"
	badgeHeat   = "35"
	badgeTorque = "42"
)

const (
	radarCenter = 100.0
	radarRadius = 80.0
)

type PageHandler struct {
	consoles ConsoleManager
	timeout  Timeouts
}

func NewPageHandler(consoles ConsoleManager, timeouts Timeouts) *PageHandler {
	return &PageHandler{consoles: consoles, timeout: timeouts}
}

type Badge struct {
	Label string
	Value string
}

type MachineOption struct {
	Code     models.MachineType
	Label    string
	Selected bool
}

type RadarPoint struct {
	Axis        string
	Mode        models.FailureMode
	Description string
	Score       float64
}

type ResultView struct {
	MaxRisk         float64
	Health          int
	Critical        bool
	Radar           []RadarPoint
	RadarPolygon    string
	Recommendations []models.Recommendation
	Insights        []models.Recommendation
	Features        *models.EngineeredFeatures
	Importance      []models.FeatureImportance
}

type HistoryRow struct {
	UDI     string
	Type    string
	Speed   string
	Torque  string
	Process string
	Air     string
	Status  string
	Failed  bool
}

type HistoryView struct {
	Rows     []HistoryRow
	Summary  string
	Term     string
	Page     int
	HasPrev  bool
	HasNext  bool
	Loading  bool
	Empty    bool
	Position string
}

// PageView is the data behind the console template.
type PageView struct {
	SessionID    string
	Notice       string
	Badges       []Badge
	MachineTypes []MachineOption
	Form         models.FormState
	Processing   bool
	Logs         []models.LogEntry
	Result       *ResultView
	History      HistoryView
	Transcript   []models.ChatTurn
	ChatPending  bool
}

// TemplateFuncs are the helpers the console template uses.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"fixed1": func(v float64) string { return fmt.Sprintf("%.1f", v) },
		"fixed2": func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"width": func(v float64) string {
			return fmt.Sprintf("%.1f%%", math.Max(0, math.Min(100, v)))
		},
		"split": strings.Split,
	}
}

// Render godoc
// @Summary Console page
// @Description Server-rendered Sentinel console for the caller's session
// @Tags Page
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router / [get]
func (h *PageHandler) Render(c *gin.Context) {
	con := consoleFor(c, h.consoles)

	con.History().LoadInBackground(h.timeout.History)

	view := buildPageView(con.Snapshot())
	view.Notice = notices[c.Query("notice")]

	c.HTML(http.StatusOK, web.PageTemplate, view)
}

func buildPageView(s console.Snapshot) PageView {
	view := PageView{
		SessionID:   s.SessionID,
		Badges:      heroBadges(s.Form),
		Form:        s.Form,
		Processing:  s.Processing,
		Logs:        s.Logs,
		History:     buildHistoryView(s.History),
		Transcript:  s.Transcript,
		ChatPending: s.ChatPending,
	}

	for _, mt := range models.AllMachineTypes() {
		view.MachineTypes = append(view.MachineTypes, MachineOption{
			Code:     mt,
			Label:    mt.Label(),
			Selected: mt == s.Form.MachineType,
		})
	}

	if s.Result != nil {
		view.Result = buildResultView(s.Result)
	}
	return view
}

func heroBadges(form models.FormState) []Badge {
	or := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	return []Badge{
		{Label: "LIVE_RPM", Value: or(form.RotationalSpeed, badgeRPM)},
		{Label: "CORE_HEAT", Value: or(form.ProcTempC, badgeHeat) + "°"},
		{Label: "STRESS", Value: or(form.Torque, badgeTorque) + "Nm"},
	}
}

func buildResultView(r *models.PredictionResult) *ResultView {
	rv := &ResultView{
		MaxRisk:         r.MaxRisk,
		Health:          r.Health(),
		Critical:        r.IsCritical(),
		Recommendations: r.Recommendations,
		Insights:        r.Insights,
		Features:        r.EngineeredFeatures,
		Importance:      r.RankedImportance(),
	}

	modes := models.AllFailureModes()
	points := make([]string, 0, len(modes))
	for i, mode := range modes {
		score := r.Score(mode)
		rv.Radar = append(rv.Radar, RadarPoint{
			Axis:        mode.Axis(),
			Mode:        mode,
			Description: mode.Description(),
			Score:       score,
		})
		x, y := radarVertex(i, len(modes), score)
		points = append(points, fmt.Sprintf("%.1f,%.1f", x, y))
	}
	rv.RadarPolygon = strings.Join(points, " ")
	return rv
}

// radarVertex places score (0-100) on spoke i of n, the first spoke pointing up.
func radarVertex(i, n int, score float64) (float64, float64) {
	r := radarRadius * math.Max(0, math.Min(100, score)) / 100
	angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
	return radarCenter + r*math.Cos(angle), radarCenter + r*math.Sin(angle)
}

func buildHistoryView(v history.View) HistoryView {
	hv := HistoryView{
		Summary:  v.Summary(),
		Term:     v.Term,
		Page:     v.Page,
		HasPrev:  v.HasPrev,
		HasNext:  v.HasNext,
		Loading:  v.Loading,
		Empty:    len(v.Rows) == 0,
		Position: fmt.Sprintf("%d / %d", v.Page+1, history.LastPage(v.FilteredCount, v.PageSize)+1),
	}
	for _, r := range v.Rows {
		hv.Rows = append(hv.Rows, HistoryRow{
			UDI:     r.Text(models.FieldUDI),
			Type:    r.Text(models.FieldType),
			Speed:   r.Text(models.FieldRotationalSpeed),
			Torque:  r.Text(models.FieldTorque),
			Process: r.Text(models.FieldProcTemperature),
			Air:     r.Text(models.FieldAirTemperature),
			Status:  r.Status(),
			Failed:  r.Failed(),
		})
	}
	return hv
}
