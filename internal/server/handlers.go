package server

import (
	"fmt"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"tradejournal/internal/app"
	"tradejournal/internal/domain"
	"tradejournal/internal/ports"
	"tradejournal/internal/risk"
)

const dateLayout = "2006-01-02"

// --- Request DTOs ---

type tradeRequest struct {
	Symbol  string `json:"symbol"`
	Journal string `json:"journal"`
}

type eventRequest struct {
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
	Date     string  `json:"date"` // YYYY-MM-DD
	Note     string  `json:"note"`
}

func (r eventRequest) toInput() (app.EventInput, error) {
	in := app.EventInput{Quantity: r.Quantity, Price: r.Price, Note: r.Note}
	if r.Date != "" {
		d, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			return in, fmt.Errorf("date must be YYYY-MM-DD: %w", ports.ErrInvalidDate)
		}
		in.Date = d
	}
	return in, nil
}

type watchlistRequest struct {
	Symbol       string  `json:"symbol"`
	TargetPrice  float64 `json:"targetPrice"`
	StopLoss     float64 `json:"stopLoss"`
	ExpectedMove float64 `json:"expectedMove"`
	SetupType    string  `json:"setupType"`
	Confidence   string  `json:"confidence"`
	DateAdded    string  `json:"dateAdded"` // YYYY-MM-DD, optional
	Notes        string  `json:"notes"`
	Status       string  `json:"status"` // only honored on update
}

func (r watchlistRequest) toInput() (app.WatchlistInput, error) {
	in := app.WatchlistInput{
		Symbol:       r.Symbol,
		TargetPrice:  r.TargetPrice,
		StopLoss:     r.StopLoss,
		ExpectedMove: r.ExpectedMove,
		SetupType:    r.SetupType,
		Confidence:   r.Confidence,
		Notes:        r.Notes,
	}
	if r.DateAdded != "" {
		d, err := time.Parse(dateLayout, r.DateAdded)
		if err != nil {
			return in, fmt.Errorf("dateAdded must be YYYY-MM-DD: %w", ports.ErrInvalidDate)
		}
		in.DateAdded = d
	}
	return in, nil
}

type noteRequest struct {
	Date    string `json:"date"` // YYYY-MM-DD
	Summary string `json:"summary"`
	Content string `json:"content"`
}

type riskRequest struct {
	Investment   float64 `json:"investment"`
	CurrentPrice float64 `json:"currentPrice"`
	StopPrice    float64 `json:"stopPrice"`
}

func (s *Server) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, apiError{Code: "bad_request", Message: "invalid request body"})
		return false
	}
	return true
}

// --- Trade handlers ---

func (s *Server) listTrades(c *gin.Context) {
	rows, err := s.Service.ListTrades(c.Request.Context(), currentUser(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) createTrade(c *gin.Context) {
	var req tradeRequest
	if !s.bindJSON(c, &req) {
		return
	}
	trade, err := s.Service.CreateTrade(c.Request.Context(), currentUser(c), req.Symbol, req.Journal)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trade)
}

func (s *Server) getTrade(c *gin.Context) {
	tradeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	trade, err := s.Service.GetTrade(c.Request.Context(), currentUser(c), tradeID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trade)
}

func (s *Server) updateTrade(c *gin.Context) {
	tradeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req tradeRequest
	if !s.bindJSON(c, &req) {
		return
	}
	trade, err := s.Service.UpdateTrade(c.Request.Context(), currentUser(c), tradeID, req.Symbol, req.Journal)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trade)
}

func (s *Server) deleteTrade(c *gin.Context) {
	tradeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.Service.DeleteTrade(c.Request.Context(), currentUser(c), tradeID); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Ledger handlers ---

func (s *Server) addEntry(c *gin.Context) {
	tradeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req eventRequest
	if !s.bindJSON(c, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		s.respondError(c, err)
		return
	}
	entry, err := s.Service.AddEntry(c.Request.Context(), currentUser(c), tradeID, in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) editEntry(c *gin.Context) {
	tradeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	entryID, ok := pathID(c, "eventID")
	if !ok {
		return
	}
	var req eventRequest
	if !s.bindJSON(c, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		s.respondError(c, err)
		return
	}
	entry, err := s.Service.EditEntry(c.Request.Context(), currentUser(c), tradeID, entryID, in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) deleteEntry(c *gin.Context) {
	tradeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	entryID, ok := pathID(c, "eventID")
	if !ok {
		return
	}
	if err := s.Service.DeleteEntry(c.Request.Context(), currentUser(c), tradeID, entryID); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) addExit(c *gin.Context) {
	tradeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req eventRequest
	if !s.bindJSON(c, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		s.respondError(c, err)
		return
	}
	exit, err := s.Service.AddExit(c.Request.Context(), currentUser(c), tradeID, in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exit)
}

func (s *Server) editExit(c *gin.Context) {
	tradeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	exitID, ok := pathID(c, "eventID")
	if !ok {
		return
	}
	var req eventRequest
	if !s.bindJSON(c, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		s.respondError(c, err)
		return
	}
	exit, err := s.Service.EditExit(c.Request.Context(), currentUser(c), tradeID, exitID, in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exit)
}

func (s *Server) deleteExit(c *gin.Context) {
	tradeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	exitID, ok := pathID(c, "eventID")
	if !ok {
		return
	}
	if err := s.Service.DeleteExit(c.Request.Context(), currentUser(c), tradeID, exitID); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Statistics handlers ---

func (s *Server) getStats(c *gin.Context) {
	snap, err := s.Service.Stats(c.Request.Context(), currentUser(c), c.Query("range"), c.Query("tag"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) refreshStats(c *gin.Context) {
	snap, err := s.Service.RefreshStats(c.Request.Context(), currentUser(c), c.Query("range"), c.Query("tag"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) getSummary(c *gin.Context) {
	summary, err := s.Service.Summary(c.Request.Context(), currentUser(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) getCalendar(c *gin.Context) {
	events, err := s.Service.CalendarEvents(c.Request.Context(), currentUser(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (s *Server) exportHistory(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="trade_history.csv"`)
	if err := s.Service.ExportHistory(c.Request.Context(), currentUser(c), c.Writer); err != nil {
		s.respondError(c, err)
	}
}

// --- Watchlist handlers ---

func (s *Server) listWatchlist(c *gin.Context) {
	items, err := s.Service.Watchlist(c.Request.Context(), currentUser(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) addWatchlistItem(c *gin.Context) {
	var req watchlistRequest
	if !s.bindJSON(c, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		s.respondError(c, err)
		return
	}
	item, err := s.Service.AddWatchlistItem(c.Request.Context(), currentUser(c), in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) updateWatchlistItem(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req watchlistRequest
	if !s.bindJSON(c, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		s.respondError(c, err)
		return
	}
	item, err := s.Service.UpdateWatchlistItem(c.Request.Context(), currentUser(c), itemID, in, domain.WatchlistStatus(req.Status))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) deleteWatchlistItem(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.Service.DeleteWatchlistItem(c.Request.Context(), currentUser(c), itemID); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Resource handlers ---

type resourceRequest struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Category string `json:"category"`
	Note     string `json:"note"`
	Pinned   bool   `json:"pinned"`
}

func (r resourceRequest) toInput() app.ResourceInput {
	return app.ResourceInput{
		Title:    r.Title,
		URL:      r.URL,
		Category: r.Category,
		Note:     r.Note,
		Pinned:   r.Pinned,
	}
}

func (s *Server) listResources(c *gin.Context) {
	resources, err := s.Service.Resources(c.Request.Context(), currentUser(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resources)
}

func (s *Server) addResource(c *gin.Context) {
	var req resourceRequest
	if !s.bindJSON(c, &req) {
		return
	}
	res, err := s.Service.AddResource(c.Request.Context(), currentUser(c), req.toInput())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (s *Server) updateResource(c *gin.Context) {
	resourceID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req resourceRequest
	if !s.bindJSON(c, &req) {
		return
	}
	res, err := s.Service.UpdateResource(c.Request.Context(), currentUser(c), resourceID, req.toInput())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) deleteResource(c *gin.Context) {
	resourceID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.Service.DeleteResource(c.Request.Context(), currentUser(c), resourceID); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Note handlers ---

func (s *Server) listNotes(c *gin.Context) {
	notes, err := s.Service.Notes(c.Request.Context(), currentUser(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (s *Server) addNote(c *gin.Context) {
	var req noteRequest
	if !s.bindJSON(c, &req) {
		return
	}
	var date time.Time
	if req.Date != "" {
		d, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			s.respondError(c, fmt.Errorf("date must be YYYY-MM-DD: %w", ports.ErrInvalidDate))
			return
		}
		date = d
	}
	note, err := s.Service.AddNote(c.Request.Context(), currentUser(c), date, req.Summary, req.Content)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (s *Server) updateNote(c *gin.Context) {
	noteID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req noteRequest
	if !s.bindJSON(c, &req) {
		return
	}
	note, err := s.Service.UpdateNote(c.Request.Context(), currentUser(c), noteID, req.Summary, req.Content)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (s *Server) deleteNote(c *gin.Context) {
	noteID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.Service.DeleteNote(c.Request.Context(), currentUser(c), noteID); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Risk handler ---

func (s *Server) calculateRisk(c *gin.Context) {
	var req riskRequest
	if !s.bindJSON(c, &req) {
		return
	}
	result, err := risk.Calculate(req.Investment, req.CurrentPrice, req.StopPrice)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
