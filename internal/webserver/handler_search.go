package webserver

import (
	"net/http"
	"strconv"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/engine/sources"
)

type searchResponse struct {
	Success bool                 `json:"success"`
	Results []engine.VideoResult `json:"results"`
}

// GET /api/youtube/search?q=...&limit=N
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing q parameter")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	key := engine.CacheKey("search", query, strconv.Itoa(limit))
	if resp, ok := engine.CacheLoadJSON[searchResponse](s.cfg.Cache, key); ok {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	results, err := sources.SearchVideos(r.Context(), query, "", limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := searchResponse{Success: true, Results: results}
	engine.CacheStoreJSON(s.cfg.Cache, key, resp, searchTTL)
	writeJSON(w, http.StatusOK, resp)
}
