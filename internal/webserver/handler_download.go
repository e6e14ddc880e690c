package webserver

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/engine/media"
	"github.com/anatolykoptev/go_tube/internal/engine/sources"
)

type formatsResponse struct {
	Success bool           `json:"success"`
	Formats []media.Format `json:"formats"`
}

// GET /api/youtube/download/formats?id=...
func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	id := sources.ExtractVideoID(r.URL.Query().Get("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing or invalid id parameter")
		return
	}

	key := engine.CacheKey("formats", id)
	if resp, ok := engine.CacheLoadJSON[formatsResponse](s.cfg.Cache, key); ok {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	formats, err := media.ListFormats(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := formatsResponse{Success: true, Formats: formats}
	engine.CacheStoreJSON(s.cfg.Cache, key, resp, formatsTTL)
	writeJSON(w, http.StatusOK, resp)
}

// GET /api/youtube/download/{id}?format=video:137&customFilename=name
//
// Never cached. The subprocess is bound to the request context, so a client
// disconnect kills yt-dlp; the temp dir is removed whichever way the
// request ends.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	id := sources.ExtractVideoID(strings.TrimPrefix(r.URL.Path, "/api/youtube/download/"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing or invalid video id")
		return
	}

	res, err := media.Download(r.Context(), id,
		r.URL.Query().Get("format"),
		r.URL.Query().Get("customFilename"),
	)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer res.Cleanup()

	f, err := os.Open(res.Path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "open download: "+err.Error())
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", res.MIME)
	w.Header().Set("Content-Length", strconv.FormatInt(res.Size, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))

	if n, err := io.Copy(w, f); err != nil {
		// Almost always the client going away mid-stream.
		slog.Debug("download stream interrupted",
			slog.String("id", id),
			slog.Int64("sent", n),
			slog.Any("error", err),
		)
	}
}
