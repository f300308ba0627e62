package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/hyperjump/recall/internal/intent"
	"github.com/hyperjump/recall/internal/models"
	"github.com/hyperjump/recall/internal/planner"
	"github.com/hyperjump/recall/internal/search"
	"github.com/hyperjump/recall/internal/storage"
	"go.uber.org/zap"
)

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Results []models.SearchResult `json:"results"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		s.respondError(w, http.StatusBadRequest, "No query provided")
		return
	}
	s.logger.Debug("search request", zap.String("query", req.Query))

	switch plan := planner.Build(intent.Extract(req.Query)).(type) {
	case planner.HistoryPlan:
		s.respondError(w, http.StatusBadRequest, "History requests not supported in extension")
	case planner.SearchPlan:
		resp, err := s.executor.Execute(r.Context(), plan)
		if err != nil {
			s.logger.Error("search failed", zap.String("query", req.Query), zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		results := resp.Results
		if results == nil {
			results = []models.SearchResult{}
		}
		s.respondJSON(w, http.StatusOK, searchResponse{Results: results})
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := search.DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"history": s.executor.Recent(limit),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"chunks":          s.index.Size(),
		"dimensions":      s.index.Dimensions(),
		"history_entries": s.history.Len(),
	}
	configInfo := map[string]interface{}{
		"embedding_provider": s.config.Embedding.Provider,
		"chunk_size":         s.config.Chunking.Size,
		"chunk_overlap":      s.config.Chunking.OverlapOrDefault(),
		"embeddings_path":    s.config.Storage.EmbeddingsPath,
		"history_path":       s.config.Storage.HistoryPath,
	}
	diskBytes, err := storage.DiskUsageBytes(s.config.Storage.EmbeddingsPath, s.config.Storage.HistoryPath)
	if err == nil {
		resp["disk_usage_bytes"] = diskBytes
	} else {
		s.logger.Warn("status: disk usage failed", zap.Error(err))
	}
	resp["config"] = configInfo
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
