package webserver

import (
	"encoding/json"
	"io"
	"math"
	"net/http"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/engine/sources"
	"github.com/anatolykoptev/go_tube/internal/engine/transcript"
)

type summarizeRequest struct {
	// Transcript accepts either a plain string or an array of segments,
	// since both shapes exist in the wild.
	Transcript json.RawMessage `json:"transcript"`
	VideoTitle string          `json:"videoTitle"`
	VideoID    string          `json:"videoId"`
}

type summarizeResponse struct {
	Success bool   `json:"success"`
	Summary string `json:"summary"`
	Source  string `json:"source"`
}

// POST /api/youtube/summarize
//
// Rate-limited per client IP. When the body carries no transcript but names
// a video, the transcript is fetched server-side.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	ip := clientIP(r)
	if !s.cfg.Limiter.Allow(ip, s.cfg.SummarizeMaxRequests, s.cfg.SummarizeWindow) {
		engine.IncrRateLimited()
		reset := s.cfg.Limiter.TimeUntilReset(ip, s.cfg.SummarizeWindow)
		writeRateLimited(w, int(math.Ceil(reset.Seconds())))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 4*1024*1024))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	var req summarizeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	text := transcriptText(req.Transcript, s.cfg.NormalizerOptions)
	videoID := sources.ExtractVideoID(req.VideoID)

	if text == "" && videoID != "" {
		segments, err := sources.FetchTranscript(r.Context(), videoID, engine.Cfg.TranscriptLanguages)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		text = transcript.Text(segments, s.cfg.NormalizerOptions)
	}
	if text == "" {
		writeError(w, http.StatusBadRequest, "missing transcript")
		return
	}

	key := engine.CacheKey("summarize", videoID, req.VideoTitle, text)
	if resp, ok := engine.CacheLoadJSON[summarizeResponse](s.cfg.Cache, key); ok {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	summary, source, err := engine.SummarizeTranscript(r.Context(), text, req.VideoTitle)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := summarizeResponse{Success: true, Summary: summary, Source: source}
	engine.CacheStoreJSON(s.cfg.Cache, key, resp, summaryTTL)
	writeJSON(w, http.StatusOK, resp)
}

// transcriptText coerces the transcript field into prose: a string is
// taken as-is, an array of segments is normalized first.
func transcriptText(raw json.RawMessage, opts transcript.Options) string {
	if len(raw) == 0 {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	var segments []engine.TranscriptSegment
	if err := json.Unmarshal(raw, &segments); err == nil {
		return transcript.Text(segments, opts)
	}
	return ""
}
