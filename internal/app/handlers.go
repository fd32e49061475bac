package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/klabast/wb-services/holiday-planner/internal/planner"
)

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleData returns the whole document
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Load()
	if err != nil {
		s.log.Error("loading document", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, Result{Error: ErrFailedToLoad})
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

// handleDay returns one day, creating and saving a default record if absent
func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	date, ok := s.pathDate(w, r)
	if !ok {
		return
	}

	doc, err := s.store.Load()
	if err != nil {
		s.log.Error("loading document", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, Result{Error: ErrFailedToLoad})
		return
	}
	if rec, found := doc.Day(date); found {
		s.writeJSON(w, http.StatusOK, rec)
		return
	}

	var rec *planner.DayRecord
	err = s.store.Update(func(doc planner.Document) error {
		rec = doc.EnsureDay(date)
		return nil
	})
	if err != nil {
		s.writeResult(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// handleAddPlan appends a plan
// Body: {"date": "YYYY-MM-DD", "content": "..."}
func (s *Server) handleAddPlan(w http.ResponseWriter, r *http.Request) {
	var req ContentRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	s.writeResult(w, r, s.store.Update(func(doc planner.Document) error {
		return doc.AddPlan(req.Date, req.Content)
	}))
}

// handleCompletePlan marks a plan as completed
func (s *Server) handleCompletePlan(w http.ResponseWriter, r *http.Request) {
	date, ok := s.pathDate(w, r)
	if !ok {
		return
	}
	idx, ok := s.pathIndex(w, r)
	if !ok {
		return
	}
	s.writeResult(w, r, s.store.Update(func(doc planner.Document) error {
		return doc.CompletePlan(date, idx)
	}))
}

// handleDeletePlan removes a plan
func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	date, ok := s.pathDate(w, r)
	if !ok {
		return
	}
	idx, ok := s.pathIndex(w, r)
	if !ok {
		return
	}
	s.writeResult(w, r, s.store.Update(func(doc planner.Document) error {
		return doc.DeletePlan(date, idx)
	}))
}

// handleAddAchievement appends an achievement
// Body: {"date": "YYYY-MM-DD", "content": "..."}
func (s *Server) handleAddAchievement(w http.ResponseWriter, r *http.Request) {
	var req ContentRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	s.writeResult(w, r, s.store.Update(func(doc planner.Document) error {
		return doc.AddAchievement(req.Date, req.Content)
	}))
}

func (s *Server) handleDeleteAchievement(w http.ResponseWriter, r *http.Request) {
	date, ok := s.pathDate(w, r)
	if !ok {
		return
	}
	idx, ok := s.pathIndex(w, r)
	if !ok {
		return
	}
	s.writeResult(w, r, s.store.Update(func(doc planner.Document) error {
		return doc.DeleteAchievement(date, idx)
	}))
}

// handleRating sets the day rating
// Body: {"date": "YYYY-MM-DD", "rating": 0-10}
func (s *Server) handleRating(w http.ResponseWriter, r *http.Request) {
	var req RatingRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	s.writeResult(w, r, s.store.Update(func(doc planner.Document) error {
		return doc.SetRating(req.Date, *req.Rating)
	}))
}

// handleMemo sets the day notes from the legacy "memo" field
func (s *Server) handleMemo(w http.ResponseWriter, r *http.Request) {
	var req MemoRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	s.writeResult(w, r, s.store.Update(func(doc planner.Document) error {
		return doc.SetNotes(req.Date, *req.Memo)
	}))
}

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	var req NotesRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	s.writeResult(w, r, s.store.Update(func(doc planner.Document) error {
		return doc.SetNotes(req.Date, *req.Notes)
	}))
}

// handleStats returns totals across all stored dates
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Load()
	if err != nil {
		s.log.Error("loading document", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, Result{Error: ErrFailedToLoad})
		return
	}
	s.writeJSON(w, http.StatusOK, doc.Stats())
}

// handleSync merges a partial document sent by another front-end.
// Sent dates replace stored ones wholesale.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	var partial planner.Document
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil && !errors.Is(err, io.EOF) {
		s.writeJSON(w, http.StatusBadRequest, Result{Error: ErrInvalidBody})
		return
	}
	if len(partial) == 0 {
		s.writeJSON(w, http.StatusOK, Result{Message: ErrNoSyncData})
		return
	}

	var synced []string
	err := s.store.Update(func(doc planner.Document) error {
		synced = doc.Merge(partial)
		return nil
	})
	if err != nil {
		s.writeResult(w, r, err)
		return
	}

	s.log.Info("synced dates", zap.Strings("dates", synced))
	s.writeJSON(w, http.StatusOK, Result{
		Success:     true,
		Message:     fmt.Sprintf("Synced %d dates", len(synced)),
		SyncedDates: synced,
	})
}

// handlePeriod describes the configured holiday window
func (s *Server) handlePeriod(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, newPeriodResponse(s.period))
}

// handleOverview returns one summary per day of the period
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Load()
	if err != nil {
		s.log.Error("loading document", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, Result{Error: ErrFailedToLoad})
		return
	}
	s.writeJSON(w, http.StatusOK, doc.Overview(s.period))
}

// handleExport downloads the document as ICS, CSV or JSON
// Query params: format (ics|csv|json, default json), reminder (HH:MM, ics only)
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = FormatJSON
	}

	var contentType string
	switch format {
	case FormatICS:
		contentType = "text/calendar; charset=utf-8"
	case FormatCSV:
		contentType = "text/csv; charset=utf-8"
	case FormatJSON:
		contentType = "application/json; charset=utf-8"
	default:
		s.writeJSON(w, http.StatusBadRequest, Result{Error: ErrInvalidFormat})
		return
	}

	doc, err := s.store.Load()
	if err != nil {
		s.log.Error("loading document", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, Result{Error: ErrFailedToLoad})
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=holiday_plan.%s", format))

	switch format {
	case FormatICS:
		err = WriteICS(w, doc, r.URL.Query().Get("reminder"))
	case FormatCSV:
		err = WriteCSV(w, doc)
	default:
		err = WriteJSON(w, doc, s.period)
	}
	if err != nil {
		s.log.Error("writing export", zap.String("format", format), zap.Error(err))
	}
}
