package history_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/sentinel-console/internal/client"
	"github.com/OldStager01/sentinel-console/internal/history"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

// records builds n rows; every row whose index satisfies high gets type H.
func records(n int, high func(i int) bool) []models.HistoryRecord {
	out := make([]models.HistoryRecord, n)
	for i := range out {
		machine := "L"
		if high(i) {
			machine = "H"
		}
		out[i] = models.HistoryRecord{
			"UDI":                    float64(i + 1),
			"Type":                   machine,
			"Rotational speed [rpm]": 1500.0,
			"Target":                 0.0,
		}
	}
	return out
}

func newTable(t *testing.T, data []models.HistoryRecord) (*history.Table, *client.MockClient) {
	t.Helper()
	mock := client.NewMockClient()
	mock.History = &models.HistoryResponse{Status: models.HistoryStatusSuccess, Data: data}
	table := history.NewTable(history.TableConfig{SessionID: "s1", Source: mock})
	require.NoError(t, table.Refresh(context.Background()))
	return table, mock
}

func TestTable_FilterThenPaginate(t *testing.T) {
	data := records(20, func(i int) bool { return i < 8 })
	table, _ := newTable(t, data)

	view := table.Search("H")

	assert.Equal(t, 8, view.FilteredCount)
	assert.Equal(t, 20, view.TotalCount)
	assert.Len(t, view.Rows, 8)
	assert.False(t, view.HasNext)
	assert.False(t, view.HasPrev)
	assert.Equal(t, "Showing 8 of 8 records", view.Summary())
}

func TestTable_EmptyTermMatchesAll(t *testing.T) {
	table, _ := newTable(t, records(25, func(int) bool { return false }))

	view := table.Search("")
	assert.Equal(t, 25, view.FilteredCount)
	assert.Len(t, view.Rows, 10)
	assert.True(t, view.HasNext)
}

func TestTable_ExactlyOnePage(t *testing.T) {
	table, _ := newTable(t, records(10, func(int) bool { return false }))

	view := table.View()
	assert.Len(t, view.Rows, 10)
	assert.Equal(t, 1.0, view.Rows[0]["UDI"])
	assert.False(t, view.HasNext)

	view = table.NextPage()
	assert.Equal(t, 0, view.Page)
}

func TestTable_Pagination(t *testing.T) {
	table, _ := newTable(t, records(25, func(int) bool { return false }))

	tests := []struct {
		name     string
		action   func() history.View
		page     int
		rows     int
		firstUDI float64
		hasPrev  bool
		hasNext  bool
	}{
		{name: "initial", action: table.View, page: 0, rows: 10, firstUDI: 1, hasNext: true},
		{name: "prev at start is no-op", action: table.PrevPage, page: 0, rows: 10, firstUDI: 1, hasNext: true},
		{name: "second page", action: table.NextPage, page: 1, rows: 10, firstUDI: 11, hasPrev: true, hasNext: true},
		{name: "last page", action: table.NextPage, page: 2, rows: 5, firstUDI: 21, hasPrev: true},
		{name: "next at end is no-op", action: table.NextPage, page: 2, rows: 5, firstUDI: 21, hasPrev: true},
		{name: "back", action: table.PrevPage, page: 1, rows: 10, firstUDI: 11, hasPrev: true, hasNext: true},
		{name: "search resets page", action: func() history.View { return table.Search("l") }, page: 0, rows: 10, firstUDI: 1, hasNext: true},
		{name: "jump clamps high", action: func() history.View { return table.SetPage(99) }, page: 2, rows: 5, firstUDI: 21, hasPrev: true},
		{name: "jump clamps low", action: func() history.View { return table.SetPage(-3) }, page: 0, rows: 10, firstUDI: 1, hasNext: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := tt.action()
			assert.Equal(t, tt.page, view.Page)
			require.Len(t, view.Rows, tt.rows)
			assert.Equal(t, tt.firstUDI, view.Rows[0]["UDI"])
			assert.Equal(t, tt.hasPrev, view.HasPrev)
			assert.Equal(t, tt.hasNext, view.HasNext)
		})
	}
}

func TestTable_FailedRefreshKeepsData(t *testing.T) {
	tests := []struct {
		name  string
		setup func(mock *client.MockClient)
	}{
		{
			name:  "transport error",
			setup: func(mock *client.MockClient) { mock.HistoryErr = client.ErrRequestFailed },
		},
		{
			name: "unsuccessful status",
			setup: func(mock *client.MockClient) {
				mock.History = &models.HistoryResponse{Status: "error", Data: records(1, func(int) bool { return true })}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, mock := newTable(t, records(12, func(int) bool { return false }))
			tt.setup(mock)

			err := table.Refresh(context.Background())

			assert.Error(t, err)
			view := table.View()
			assert.Equal(t, 12, view.TotalCount)
			assert.False(t, view.Loading)
		})
	}
}

func TestTable_NullDataBecomesEmpty(t *testing.T) {
	table, _ := newTable(t, nil)
	view := table.View()
	assert.NotNil(t, view.Rows)
	assert.Zero(t, view.TotalCount)
	assert.Equal(t, "Showing 0 of 0 records", view.Summary())
}

func TestTable_EnsureLoadedFetchesOnce(t *testing.T) {
	mock := client.NewMockClient()
	table := history.NewTable(history.TableConfig{Source: mock})

	table.EnsureLoaded(context.Background())
	table.EnsureLoaded(context.Background())

	assert.Equal(t, 1, mock.HistoryCount())
}

func TestTable_LoadInBackground(t *testing.T) {
	mock := client.NewMockClient()
	release := make(chan struct{})
	mock.HistoryFunc = func(ctx context.Context) (*models.HistoryResponse, error) {
		<-release
		return &models.HistoryResponse{Status: models.HistoryStatusSuccess, Data: records(12, func(int) bool { return false })}, nil
	}
	table := history.NewTable(history.TableConfig{Source: mock})

	assert.True(t, table.LoadInBackground(time.Second))
	assert.False(t, table.LoadInBackground(time.Second))

	view := table.View()
	assert.True(t, view.Loading)
	assert.Zero(t, view.TotalCount)

	close(release)
	require.Eventually(t, func() bool { return !table.View().Loading }, time.Second, 5*time.Millisecond)

	view = table.View()
	assert.Equal(t, 12, view.TotalCount)
	assert.Equal(t, 1, mock.HistoryCount())

	table.EnsureLoaded(context.Background())
	assert.Equal(t, 1, mock.HistoryCount())
}

func TestTable_LastStartedRefreshWins(t *testing.T) {
	mock := client.NewMockClient()
	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})
	calls := 0
	mock.HistoryFunc = func(ctx context.Context) (*models.HistoryResponse, error) {
		calls++
		if calls == 1 {
			close(slowStarted)
			<-releaseSlow
			return &models.HistoryResponse{Status: models.HistoryStatusSuccess, Data: records(3, func(int) bool { return false })}, nil
		}
		return &models.HistoryResponse{Status: models.HistoryStatusSuccess, Data: records(7, func(int) bool { return false })}, nil
	}
	table := history.NewTable(history.TableConfig{Source: mock})

	slowDone := make(chan error, 1)
	go func() { slowDone <- table.Refresh(context.Background()) }()
	<-slowStarted

	require.NoError(t, table.Refresh(context.Background()))
	assert.Equal(t, 7, table.View().TotalCount)

	close(releaseSlow)
	require.NoError(t, <-slowDone)
	assert.Equal(t, 7, table.View().TotalCount)
}

func TestFilter(t *testing.T) {
	data := []models.HistoryRecord{
		{"UDI": 1.0, "Failure Type": "Power Failure", "Target": 1.0},
		{"UDI": 2.0, "Failure Type": nil, "Target": 0.0},
		{"UDI": 3.0, "Product ID": "M14860"},
	}

	tests := []struct {
		term     string
		expected []float64
	}{
		{term: "", expected: []float64{1, 2, 3}},
		{term: "POWER", expected: []float64{1}},
		{term: "m148", expected: []float64{3}},
		{term: "2", expected: []float64{2}},
		{term: "nothing", expected: []float64{}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("term %q", tt.term), func(t *testing.T) {
			got := history.Filter(data, tt.term)
			udis := make([]float64, 0, len(got))
			for _, r := range got {
				udis = append(udis, r["UDI"].(float64))
			}
			assert.Equal(t, tt.expected, udis)
		})
	}
}

func TestPaginate(t *testing.T) {
	data := records(15, func(int) bool { return false })
	assert.Len(t, history.Paginate(data, 0, 10), 10)
	assert.Len(t, history.Paginate(data, 1, 10), 5)
	assert.Empty(t, history.Paginate(data, 2, 10))
	assert.Nil(t, history.Paginate(data, -1, 10))
	assert.Equal(t, 1, history.LastPage(15, 10))
	assert.Equal(t, 0, history.LastPage(10, 10))
	assert.Equal(t, 0, history.LastPage(0, 10))
}
