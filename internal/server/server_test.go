package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/internal/adapters/snapshotcache"
	"tradejournal/internal/adapters/sqlite"
	"tradejournal/internal/app"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func setupServer(t *testing.T) (*Server, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpDir, err := os.MkdirTemp("", "tradejournal-server-test-*")
	require.NoError(t, err)

	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: filepath.Join(tmpDir, "test.db"),
		Logger: &mockLogger{},
	})
	require.NoError(t, err)

	cache, err := snapshotcache.New(5 * time.Minute)
	require.NoError(t, err)

	svc, err := app.NewJournalService(app.Deps{
		Logger:     &mockLogger{},
		Trades:     repo,
		Watchlist:  repo,
		Notes:      repo,
		Resources:  repo,
		Cache:      cache,
		StockLimit: 20,
	})
	require.NoError(t, err)

	srv := NewServer(svc, &mockLogger{})
	cleanup := func() {
		repo.Close()
		os.RemoveAll(tmpDir)
	}
	return srv, cleanup
}

func doJSON(t *testing.T, srv *Server, method, path string, userID int64, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID > 0 {
		req.Header.Set("X-User-ID", fmt.Sprintf("%d", userID))
	}
	w := httptest.NewRecorder()
	srv.R.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv, cleanup := setupServer(t)
	defer cleanup()

	w := doJSON(t, srv, http.MethodGet, "/health", 0, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMissingUserHeader(t *testing.T) {
	srv, cleanup := setupServer(t)
	defer cleanup()

	w := doJSON(t, srv, http.MethodGet, "/api/trades", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTradeLifecycleOverHTTP(t *testing.T) {
	srv, cleanup := setupServer(t)
	defer cleanup()

	// Create a trade.
	w := doJSON(t, srv, http.MethodPost, "/api/trades", 1, map[string]string{"symbol": "tcs", "journal": "Breakout"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID     int64  `json:"ID"`
		Symbol string `json:"Symbol"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "TCS", created.Symbol)

	// Record a buy and a matching sell.
	w = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/trades/%d/entries", created.ID), 1,
		map[string]interface{}{"quantity": 10, "price": 100, "date": "2025-01-06"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/trades/%d/exits", created.ID), 1,
		map[string]interface{}{"quantity": 10, "price": 120, "date": "2025-01-20"})
	require.Equal(t, http.StatusCreated, w.Code)

	// The trade is now closed.
	w = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/trades/%d", created.ID), 1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var trade struct {
		Status string `json:"Status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trade))
	assert.Equal(t, "Closed", trade.Status)

	// Stats reflect the closed trade.
	w = doJSON(t, srv, http.MethodGet, "/api/stats?range=all_time", 1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var snap struct {
		RealizedPnL  float64 `json:"realized_pnl"`
		ClosedTrades int     `json:"closed_trades"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, 200.0, snap.RealizedPnL)
	assert.Equal(t, 1, snap.ClosedTrades)
}

func TestErrorMapping(t *testing.T) {
	srv, cleanup := setupServer(t)
	defer cleanup()

	// Unknown trade -> 404.
	w := doJSON(t, srv, http.MethodGet, "/api/trades/999", 1, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Create a trade as user 1, access as user 2 -> 403.
	w = doJSON(t, srv, http.MethodPost, "/api/trades", 1, map[string]string{"symbol": "TCS"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID int64 `json:"ID"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/trades/%d", created.ID), 2, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Invalid quantity -> 422.
	w = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/trades/%d/entries", created.ID), 1,
		map[string]interface{}{"quantity": 0, "price": 100, "date": "2025-01-06"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Overselling -> 422.
	w = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/trades/%d/exits", created.ID), 1,
		map[string]interface{}{"quantity": 5, "price": 100, "date": "2025-01-06"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Malformed date -> 422.
	w = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/trades/%d/entries", created.ID), 1,
		map[string]interface{}{"quantity": 5, "price": 100, "date": "06/01/2025"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Missing symbol -> 422.
	w = doJSON(t, srv, http.MethodPost, "/api/trades", 1, map[string]string{"symbol": " "})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRiskEndpoint(t *testing.T) {
	srv, cleanup := setupServer(t)
	defer cleanup()

	w := doJSON(t, srv, http.MethodPost, "/api/risk", 1,
		map[string]interface{}{"investment": 100000, "currentPrice": 500, "stopPrice": 480})
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		RiskPerShare float64 `json:"risk_per_share"`
		Levels       []struct {
			Quantity int64 `json:"quantity"`
		} `json:"levels"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 20.0, res.RiskPerShare)
	require.Len(t, res.Levels, 5)
	assert.Equal(t, int64(250), res.Levels[0].Quantity)

	// Stop above current price -> 422.
	w = doJSON(t, srv, http.MethodPost, "/api/risk", 1,
		map[string]interface{}{"investment": 100000, "currentPrice": 480, "stopPrice": 500})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestExportEndpoint(t *testing.T) {
	srv, cleanup := setupServer(t)
	defer cleanup()

	w := doJSON(t, srv, http.MethodGet, "/api/export", 1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "symbol")
}
