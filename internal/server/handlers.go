package server

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meublerie/trouve/internal/models"
	"github.com/meublerie/trouve/internal/storage"
)

const sessionCookie = "trouve_session"

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := &models.SearchRequest{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Locale:   q.Get("locale"),
	}
	if req.Locale == "" {
		req.Locale = s.config.Search.DefaultLocale
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		req.Page = page
	}
	if perPage, err := strconv.Atoi(q.Get("per_page")); err == nil {
		req.PerPage = perPage
	}
	if userID, err := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64); err == nil {
		req.UserID = userID
	}
	req.SessionID = s.sessionID(w, r)
	req.ClientIP = clientIP(r)

	s.logger.Debug("search request",
		zap.String("query", req.Query),
		zap.String("locale", req.Locale),
		zap.String("category", req.Category))

	response, err := s.engine.Search(r.Context(), req)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "search failed")
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleListSynonyms(w http.ResponseWriter, r *http.Request) {
	locale := r.URL.Query().Get("locale")
	if locale == "" {
		locale = models.LangFR // admin view defaults to everything
	}
	entries, err := s.store.ListActiveSynonyms(r.Context(), locale)
	if err != nil {
		s.logger.Error("list synonyms failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to list synonyms")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"synonyms": entries})
}

func (s *Server) handleCreateSynonym(w http.ResponseWriter, r *http.Request) {
	var entry models.SynonymEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id, err := s.store.CreateSynonym(r.Context(), &entry)
	if err != nil {
		s.logger.Error("create synonym failed", zap.Error(err))
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.invalidateCaches()
	entry.ID = id
	s.respondJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleUpdateSynonym(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid synonym id")
		return
	}
	var entry models.SynonymEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entry.ID = id
	if err := s.store.UpdateSynonym(r.Context(), &entry); err != nil {
		s.logger.Error("update synonym failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to update synonym")
		return
	}
	s.invalidateCaches()
	s.respondJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteSynonym(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid synonym id")
		return
	}
	if err := s.store.DeleteSynonym(r.Context(), id); err != nil {
		s.logger.Error("delete synonym failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to delete synonym")
		return
	}
	s.invalidateCaches()
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleTopQueries(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", s.config.Discovery.LookbackDays)
	limit := intQuery(r, "limit", 20)
	since := time.Now().AddDate(0, 0, -days)

	stats, err := s.store.TopQueries(r.Context(), since, limit)
	if err != nil {
		s.logger.Error("top queries failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to load top queries")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"days": days, "queries": stats})
}

func (s *Server) handleZeroResults(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", s.config.Discovery.LookbackDays)
	minSearches := intQuery(r, "min_searches", 3)
	since := time.Now().AddDate(0, 0, -days)

	stats, err := s.store.ZeroResultQueries(r.Context(), since, minSearches)
	if err != nil {
		s.logger.Error("zero result queries failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to load zero-result queries")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"days": days, "queries": stats})
}

func (s *Server) handleDiscoverySuggestions(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", s.config.Discovery.LookbackDays)
	suggestions, err := s.discovery.Analyze(r.Context(), days)
	if err != nil {
		s.logger.Error("discovery analyze failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"days": days, "suggestions": suggestions})
}

func (s *Server) handleDiscoveryApply(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", s.config.Discovery.LookbackDays)
	suggestions, err := s.discovery.Analyze(r.Context(), days)
	if err != nil {
		s.logger.Error("discovery analyze failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	created, skipped, err := s.discovery.AutoCreate(r.Context(), suggestions, s.config.Discovery.MinConfidence)
	if err != nil {
		s.logger.Error("discovery apply failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "apply failed")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]int{"created": created, "skipped": skipped})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"full_text": s.store.HasFullText(r.Context()),
		"config": map[string]interface{}{
			"default_locale":   s.config.Search.DefaultLocale,
			"min_query_length": s.config.Search.MinQueryLength,
			"max_terms":        s.config.Search.MaxTerms,
			"database_path":    s.config.Storage.DatabasePath,
		},
	}
	if bytes, err := storage.DatabaseSizeBytes(s.config.Storage.DatabasePath); err == nil {
		resp["database_size_bytes"] = bytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// invalidateCaches drops the synonym snapshots and the fuzzy match cache
// after any synonym mutation.
func (s *Server) invalidateCaches() {
	s.index.Invalidate()
	s.matcher.Reset()
}

// sessionID returns the session cookie value, minting one when absent so
// analytics can correlate refinement chains.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
	})
	return id
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func intQuery(r *http.Request, name string, fallback int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(name)); err == nil && v > 0 {
		return v
	}
	return fallback
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
