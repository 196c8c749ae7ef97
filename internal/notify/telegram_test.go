package notify

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/augur/internal/edge"
	"github.com/fortuna/augur/internal/store"
)

func TestDisabledNotifierDropsSends(t *testing.T) {
	n := NewTelegram("", "")
	assert.False(t, n.Enabled())
	assert.NoError(t, n.SendText(context.Background(), "ignored"))
	assert.NoError(t, n.SendDocument(context.Background(), "sheet.csv", []byte("a,b"), ""))
}

func TestSendText(t *testing.T) {
	var gotPath, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		gotText = r.PostForm.Get("text")
		assert.Equal(t, "chat-1", r.PostForm.Get("chat_id"))
		assert.Equal(t, "HTML", r.PostForm.Get("parse_mode"))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegram("tok-123", "chat-1")
	n.baseURL = srv.URL

	require.NoError(t, n.SendText(context.Background(), "hello"))
	assert.Equal(t, "/bottok-123/sendMessage", gotPath)
	assert.Equal(t, "hello", gotText)
}

func TestSendTextAPIRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	n := NewTelegram("tok", "chat")
	n.baseURL = srv.URL

	err := n.SendText(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSendDocumentMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "chat-1", r.MultipartForm.Value["chat_id"][0])

		file, header, err := r.FormFile("document")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "edges.csv", header.Filename)

		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegram("tok", "chat-1")
	n.baseURL = srv.URL

	require.NoError(t, n.SendDocument(context.Background(), "edges.csv", []byte("player,line\n"), "sheet"))
}

func TestEdgeSheetMessage(t *testing.T) {
	runDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	sheet := []*store.Edge{
		{PlayerName: "Jayson Tatum", Category: store.CategoryPoints, Side: store.SideOver, Line: 27.5, Projection: 31.2, Edge: 3.7},
		{PlayerName: "Nikola Jokic", Category: store.CategoryPRA, Side: store.SideOver, Line: 44.5, Projection: 46.8, Edge: 2.3},
	}

	dist := edge.Distribution{Min: 2, Lower: 3, Upper: 4, Small: 1, Medium: 1}
	msg := EdgeSheetMessage(runDate, sheet, dist, 412)
	assert.Contains(t, msg, "Jayson Tatum")
	assert.Contains(t, msg, "+3.7")
	assert.Contains(t, msg, "2-3: 1")
	assert.Contains(t, msg, "3-4: 1")
	assert.Contains(t, msg, "quota remaining: 412")

	empty := EdgeSheetMessage(runDate, nil, edge.Distribution{}, -1)
	assert.Contains(t, empty, "No edges")
	assert.NotContains(t, empty, "quota")
}

func TestEdgeSheetMessageLabelsTrackBand(t *testing.T) {
	runDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	sheet := []*store.Edge{
		{PlayerName: "Jayson Tatum", Category: store.CategoryPoints, Side: store.SideOver, Line: 27.5, Projection: 29.1, Edge: 1.6},
	}

	dist := edge.Distribution{Min: 1.5, Lower: 2.5, Upper: 3.5, Small: 1}
	msg := EdgeSheetMessage(runDate, sheet, dist, -1)
	assert.Contains(t, msg, "1.5-2.5: 1")
	assert.Contains(t, msg, "2.5-3.5: 0")
	assert.Contains(t, msg, "3.5+: 0")
}

func TestGradingMessage(t *testing.T) {
	gradedDate := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	records := []*store.ResultRecord{
		{Result: store.ResultWin, Margin: 3.5},
		{Result: store.ResultLoss, Margin: -1.5},
		{Result: store.ResultVoid},
	}
	best := &store.ResultRecord{
		PlayerName: "Jayson Tatum", Category: store.CategoryPoints, Side: store.SideOver,
		Line: 27.5, Actual: sql.NullFloat64{Float64: 31, Valid: true},
		Result: store.ResultWin, Margin: 3.5,
	}
	summary := &store.LedgerSummary{
		Wins: 30, Losses: 20, Voids: 5, WinRate: 0.6,
		ByCategory: []store.CategorySummary{
			{Category: store.CategoryPoints, Wins: 12, Losses: 8, WinRate: 0.6},
			{Category: store.CategoryBlocks},
		},
	}

	msg := GradingMessage(gradedDate, records, summary, best, nil)
	assert.Contains(t, msg, "Tonight: 1-1 (1 void)")
	assert.Contains(t, msg, "Best hit: Jayson Tatum")
	assert.Contains(t, msg, "30-20 (60.0%)")
	assert.Contains(t, msg, "PTS: 12-8")
	assert.NotContains(t, msg, "BLK:", "categories with no settled picks are omitted")
}

func TestGradingMessageEmptySheet(t *testing.T) {
	gradedDate := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	msg := GradingMessage(gradedDate, nil, nil, nil, nil)
	assert.Contains(t, msg, "Results Sat Mar 14")
	assert.Contains(t, msg, "Nothing to grade")
}

func TestEdgeSheetCSV(t *testing.T) {
	sheet := []*store.Edge{
		{PlayerName: "Jayson Tatum", Category: store.CategoryPoints, Side: store.SideOver, Line: 27.5, Projection: 31.25, Edge: 3.75, Price: -112},
	}

	out, err := EdgeSheetCSV(sheet)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "player,category,side,line,projection,edge,price", lines[0])
	assert.Equal(t, "Jayson Tatum,PTS,OVER,27.5,31.25,3.75,-112", lines[1])
}
