package webserver

import (
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/engine/sources"
	"github.com/anatolykoptev/go_tube/internal/engine/transcript"
)

type transcriptResponse struct {
	Success    bool                       `json:"success"`
	Transcript []engine.TranscriptSegment `json:"transcript"`
	Groups     []transcript.Group         `json:"groups"`
}

// GET /api/youtube/transcript/{id}
//
// Returns both the raw timed segments and the normalized groups; clients
// that render a seekable transcript use the groups, the summarizer and
// other consumers use whichever fits.
func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	id := sources.ExtractVideoID(strings.TrimPrefix(r.URL.Path, "/api/youtube/transcript/"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing or invalid video id")
		return
	}

	key := engine.CacheKey("transcript", id)
	if resp, ok := engine.CacheLoadJSON[transcriptResponse](s.cfg.Cache, key); ok {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	segments, err := sources.FetchTranscript(r.Context(), id, engine.Cfg.TranscriptLanguages)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := transcriptResponse{
		Success:    true,
		Transcript: segments,
		Groups:     transcript.Normalize(segments, s.cfg.NormalizerOptions),
	}
	engine.CacheStoreJSON(s.cfg.Cache, key, resp, transcriptTTL)
	writeJSON(w, http.StatusOK, resp)
}
