package webserver

import (
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/engine/sources"
)

type videoResponse struct {
	Success bool                `json:"success"`
	Video   engine.VideoDetails `json:"video"`
}

// GET /api/youtube/video/{id}
func (s *Server) handleVideo(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	id := sources.ExtractVideoID(strings.TrimPrefix(r.URL.Path, "/api/youtube/video/"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing or invalid video id")
		return
	}

	key := engine.CacheKey("video", id)
	if resp, ok := engine.CacheLoadJSON[videoResponse](s.cfg.Cache, key); ok {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	details, err := sources.FetchVideo(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := videoResponse{Success: true, Video: details}
	engine.CacheStoreJSON(s.cfg.Cache, key, resp, videoTTL)
	writeJSON(w, http.StatusOK, resp)
}
