package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tradejournal/internal/app"
	"tradejournal/internal/ports"
)

// Server exposes the journal service over HTTP.
type Server struct {
	R       *gin.Engine
	Service *app.JournalService
	Logger  ports.Logger
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	userIDHeader    = "X-User-ID"
	userIDKey       = "userID"
	requestIDHeader = "X-Request-ID"
)

// NewServer wires the router, service, and middleware.
func NewServer(service *app.JournalService, logger ports.Logger) *Server {
	g := gin.New()

	// Request id + request logging
	g.Use(func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, reqID)

		start := time.Now()
		c.Next()
		logger.Info(c.Request.Context(), "http_request", map[string]interface{}{
			"requestID": reqID,
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"ip":        c.ClientIP(),
			"latency":   time.Since(start).String(),
		})
	})

	g.Use(gin.Recovery())

	s := &Server{R: g, Service: service, Logger: logger}

	g.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	api := g.Group("/api", s.requireUser)
	{
		api.GET("/trades", s.listTrades)
		api.POST("/trades", s.createTrade)
		api.GET("/trades/:id", s.getTrade)
		api.PUT("/trades/:id", s.updateTrade)
		api.DELETE("/trades/:id", s.deleteTrade)

		api.POST("/trades/:id/entries", s.addEntry)
		api.PUT("/trades/:id/entries/:eventID", s.editEntry)
		api.DELETE("/trades/:id/entries/:eventID", s.deleteEntry)
		api.POST("/trades/:id/exits", s.addExit)
		api.PUT("/trades/:id/exits/:eventID", s.editExit)
		api.DELETE("/trades/:id/exits/:eventID", s.deleteExit)

		api.GET("/stats", s.getStats)
		api.POST("/stats/refresh", s.refreshStats)
		api.GET("/summary", s.getSummary)
		api.GET("/calendar", s.getCalendar)
		api.GET("/export", s.exportHistory)

		api.GET("/watchlist", s.listWatchlist)
		api.POST("/watchlist", s.addWatchlistItem)
		api.PUT("/watchlist/:id", s.updateWatchlistItem)
		api.DELETE("/watchlist/:id", s.deleteWatchlistItem)

		api.GET("/resources", s.listResources)
		api.POST("/resources", s.addResource)
		api.PUT("/resources/:id", s.updateResource)
		api.DELETE("/resources/:id", s.deleteResource)

		api.GET("/notes", s.listNotes)
		api.POST("/notes", s.addNote)
		api.PUT("/notes/:id", s.updateNote)
		api.DELETE("/notes/:id", s.deleteNote)

		api.POST("/risk", s.calculateRisk)
	}

	return s
}

// requireUser resolves the acting user from the X-User-ID header.
func (s *Server) requireUser(c *gin.Context) {
	raw := c.GetHeader(userIDHeader)
	if raw == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{Code: "unauthorized", Message: "missing " + userIDHeader + " header"})
		return
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{Code: "unauthorized", Message: "invalid " + userIDHeader + " header"})
		return
	}
	c.Set(userIDKey, userID)
	c.Next()
}

func currentUser(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, apiError{Code: "bad_request", Message: "invalid " + name})
		return 0, false
	}
	return id, true
}

// respondError maps service errors to HTTP statuses.
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		c.JSON(http.StatusNotFound, apiError{Code: "not_found", Message: err.Error()})
	case errors.Is(err, ports.ErrUnauthorized):
		c.JSON(http.StatusForbidden, apiError{Code: "forbidden", Message: err.Error()})
	case errors.Is(err, ports.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, apiError{Code: "bad_request", Message: err.Error()})
	case errors.Is(err, ports.ErrInvalidQuantity),
		errors.Is(err, ports.ErrInvalidPrice),
		errors.Is(err, ports.ErrInvalidDate),
		errors.Is(err, ports.ErrInvalidSymbol),
		errors.Is(err, ports.ErrInsufficientQuantity),
		errors.Is(err, ports.ErrOversold),
		errors.Is(err, ports.ErrTradeAlreadyClosed):
		c.JSON(http.StatusUnprocessableEntity, apiError{Code: "validation_failed", Message: err.Error()})
	default:
		s.Logger.Error(c.Request.Context(), err, "internal_error", map[string]interface{}{"path": c.Request.URL.Path})
		c.JSON(http.StatusInternalServerError, apiError{Code: "internal_server_error", Message: "internal server error"})
	}
}
