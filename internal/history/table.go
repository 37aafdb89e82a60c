// Package history backs the historical data table: a cached copy of the
// upstream dataset with a search term and a page cursor.
package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/OldStager01/sentinel-console/internal/client"
	"github.com/OldStager01/sentinel-console/internal/events"
	"github.com/OldStager01/sentinel-console/internal/logger"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

const DefaultPageSize = 10

var ErrUnsuccessfulStatus = errors.New("history endpoint reported failure")

type Observer interface {
	IncHistoryFetch(outcome string)
}

// View is one rendered page of the table.
type View struct {
	Rows          []models.HistoryRecord `json:"rows"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
	FilteredCount int                    `json:"filtered_count"`
	TotalCount    int                    `json:"total_count"`
	Term          string                 `json:"term"`
	HasPrev       bool                   `json:"has_prev"`
	HasNext       bool                   `json:"has_next"`
	Loading       bool                   `json:"loading"`
}

// Summary is the footer line under the table.
func (v View) Summary() string {
	return fmt.Sprintf("Showing %d of %d records", len(v.Rows), v.FilteredCount)
}

type Table struct {
	sessionID string
	source    client.HistorySource
	publisher *events.Publisher
	observer  Observer
	pageSize  int

	mu         sync.RWMutex
	records    []models.HistoryRecord
	term       string
	page       int
	generation uint64
	loading    bool
	requested  bool
}

type TableConfig struct {
	SessionID string
	Source    client.HistorySource
	Publisher *events.Publisher
	Observer  Observer
	PageSize  int
}

func NewTable(cfg TableConfig) *Table {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	return &Table{
		sessionID: cfg.SessionID,
		source:    cfg.Source,
		publisher: cfg.Publisher,
		observer:  cfg.Observer,
		pageSize:  cfg.PageSize,
		records:   []models.HistoryRecord{},
	}
}

// EnsureLoaded performs the initial fetch the first time the table is shown.
func (t *Table) EnsureLoaded(ctx context.Context) {
	t.mu.Lock()
	first := !t.requested
	t.requested = true
	t.mu.Unlock()

	if first {
		_ = t.Refresh(ctx)
	}
}

// LoadInBackground starts the initial fetch without waiting for it; the
// table reports Loading until the response lands. It returns false when the
// fetch was already requested.
func (t *Table) LoadInBackground(timeout time.Duration) bool {
	t.mu.Lock()
	if t.requested {
		t.mu.Unlock()
		return false
	}
	t.requested = true
	t.loading = true
	t.mu.Unlock()

	go func() {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		_ = t.Refresh(ctx)
	}()
	return true
}

// Refresh replaces the dataset with a fresh copy from upstream. On any
// failure the current data is kept and the error only reaches the operator
// log. When refreshes overlap, the response of the last one started wins.
func (t *Table) Refresh(ctx context.Context) error {
	t.mu.Lock()
	t.requested = true
	t.generation++
	gen := t.generation
	t.loading = true
	t.mu.Unlock()

	resp, err := t.source.FetchHistory(ctx)
	if err == nil && resp.Status != models.HistoryStatusSuccess {
		err = fmt.Errorf("%w: status %q", ErrUnsuccessfulStatus, resp.Status)
	}

	t.mu.Lock()
	current := gen == t.generation
	if current {
		t.loading = false
		if err == nil {
			t.records = resp.Data
			if t.records == nil {
				t.records = []models.HistoryRecord{}
			}
		}
	}
	count := len(t.records)
	t.mu.Unlock()

	if err != nil {
		logger.FromContext(ctx).WithError(err).Error("History fetch error")
		t.observe("failure")
		return err
	}
	if !current {
		logger.FromContext(ctx).Debug("Discarding stale history response")
		t.observe("stale")
		return nil
	}

	t.observe("success")
	t.publisher.HistoryRefreshed(t.sessionID, count)
	return nil
}

func (t *Table) observe(outcome string) {
	if t.observer != nil {
		t.observer.IncHistoryFetch(outcome)
	}
}

// Search sets the filter term and returns to the first page.
func (t *Table) Search(term string) View {
	t.mu.Lock()
	t.term = term
	t.page = 0
	t.mu.Unlock()
	return t.View()
}

// NextPage advances unless the current page already reaches the end.
func (t *Table) NextPage() View {
	t.mu.Lock()
	filtered := len(Filter(t.records, t.term))
	if (t.page+1)*t.pageSize < filtered {
		t.page++
	}
	t.mu.Unlock()
	return t.View()
}

func (t *Table) PrevPage() View {
	t.mu.Lock()
	if t.page > 0 {
		t.page--
	}
	t.mu.Unlock()
	return t.View()
}

// SetPage jumps to page, clamped to the pages that exist.
func (t *Table) SetPage(page int) View {
	t.mu.Lock()
	last := LastPage(len(Filter(t.records, t.term)), t.pageSize)
	switch {
	case page < 0:
		page = 0
	case page > last:
		page = last
	}
	t.page = page
	t.mu.Unlock()
	return t.View()
}

func (t *Table) View() View {
	t.mu.RLock()
	defer t.mu.RUnlock()

	filtered := Filter(t.records, t.term)
	return View{
		Rows:          Paginate(filtered, t.page, t.pageSize),
		Page:          t.page,
		PageSize:      t.pageSize,
		FilteredCount: len(filtered),
		TotalCount:    len(t.records),
		Term:          t.term,
		HasPrev:       t.page > 0,
		HasNext:       (t.page+1)*t.pageSize < len(filtered),
		Loading:       t.loading,
	}
}
