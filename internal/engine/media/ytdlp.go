// Package media wraps the yt-dlp binary for format listing and downloads.
// The binary is the interface: each operation is one supervised subprocess
// bound to the request context, so a client disconnect kills the extraction
// instead of orphaning it.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

// Format describes one stream yt-dlp can fetch for a video.
type Format struct {
	ID         string  `json:"id"`
	Ext        string  `json:"ext"`
	Resolution string  `json:"resolution,omitempty"`
	FPS        float64 `json:"fps,omitempty"`
	Filesize   int64   `json:"filesize,omitempty"`
	VCodec     string  `json:"vcodec,omitempty"`
	ACodec     string  `json:"acodec,omitempty"`
	Note       string  `json:"note,omitempty"`
	Kind       string  `json:"kind"` // video, audio, or muxed
}

// Result is a finished download ready to stream. Cleanup must be called
// once streaming ends, fails, or the client goes away; it removes the
// temp dir holding Path.
type Result struct {
	Path     string
	Filename string
	MIME     string
	Size     int64
	Cleanup  func()
}

type ytdlpDump struct {
	Title   string `json:"title"`
	Formats []struct {
		FormatID   string  `json:"format_id"`
		Ext        string  `json:"ext"`
		Resolution string  `json:"resolution"`
		FPS        float64 `json:"fps"`
		Filesize   int64   `json:"filesize"`
		VCodec     string  `json:"vcodec"`
		ACodec     string  `json:"acodec"`
		FormatNote string  `json:"format_note"`
	} `json:"formats"`
}

func watchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

func ytdlpPath() string {
	if p := engine.Cfg.YtdlpPath; p != "" {
		return p
	}
	return "yt-dlp"
}

// runYtdlp executes yt-dlp with the given args, returning stdout.
// stderr is kept for error messages only.
func runYtdlp(ctx context.Context, args ...string) ([]byte, error) {
	engine.IncrYtdlpRuns()

	cmd := exec.CommandContext(ctx, ytdlpPath(), args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	slog.Debug("yt-dlp finished",
		slog.Duration("elapsed", time.Since(start)),
		slog.Bool("ok", err == nil),
	)
	if err != nil {
		engine.IncrYtdlpErrors()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		msg := lastStderrLine(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("yt-dlp: %s", msg)
	}
	return stdout.Bytes(), nil
}

// lastStderrLine picks the most useful line out of yt-dlp's stderr chatter,
// preferring the last ERROR: line.
func lastStderrLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(lines[i], "ERROR:") {
			return strings.TrimSpace(lines[i])
		}
	}
	if len(lines) > 0 {
		return strings.TrimSpace(lines[len(lines)-1])
	}
	return ""
}

// ListFormats returns the streams available for a video.
func ListFormats(ctx context.Context, videoID string) ([]Format, error) {
	engine.IncrFormatListRequests()

	out, err := runYtdlp(ctx, "-J", "--no-warnings", "--no-playlist", watchURL(videoID))
	if err != nil {
		return nil, err
	}

	var dump ytdlpDump
	if err := json.Unmarshal(out, &dump); err != nil {
		return nil, fmt.Errorf("parse yt-dlp dump: %w", err)
	}

	formats := make([]Format, 0, len(dump.Formats))
	for _, f := range dump.Formats {
		if f.FormatID == "" {
			continue
		}
		formats = append(formats, Format{
			ID:         f.FormatID,
			Ext:        f.Ext,
			Resolution: f.Resolution,
			FPS:        f.FPS,
			Filesize:   f.Filesize,
			VCodec:     f.VCodec,
			ACodec:     f.ACodec,
			Note:       f.FormatNote,
			Kind:       formatKind(f.VCodec, f.ACodec),
		})
	}
	return formats, nil
}

// formatKind classifies a stream by which codecs are present.
// yt-dlp reports "none" for an absent codec.
func formatKind(vcodec, acodec string) string {
	hasVideo := vcodec != "" && vcodec != "none"
	hasAudio := acodec != "" && acodec != "none"
	switch {
	case hasVideo && hasAudio:
		return "muxed"
	case hasVideo:
		return "video"
	case hasAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// ParseFormatSpec maps the client convention onto a yt-dlp -f expression.
// "video:<sel>" merges the selected video stream with the best audio,
// "audio:<sel>" takes the selected audio stream, a bare spec passes through,
// and empty means best.
func ParseFormatSpec(spec string) string {
	spec = strings.TrimSpace(spec)
	switch {
	case spec == "":
		return "best"
	case strings.HasPrefix(spec, "video:"):
		sel := strings.TrimPrefix(spec, "video:")
		return sel + "+bestaudio/" + sel
	case strings.HasPrefix(spec, "audio:"):
		sel := strings.TrimPrefix(spec, "audio:")
		return sel + "/bestaudio"
	default:
		return spec
	}
}

// Download fetches a video into a fresh temp dir and returns the produced
// file. The subprocess dies with ctx; the caller owns Cleanup.
func Download(ctx context.Context, videoID, formatSpec, customFilename string) (*Result, error) {
	engine.IncrDownloadRequests()

	if timeout := engine.Cfg.DownloadTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tmpDir, err := os.MkdirTemp("", "go_tube-dl-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			slog.Warn("download: temp dir cleanup failed", slog.Any("error", err))
		}
	}

	_, err = runYtdlp(ctx,
		"-f", ParseFormatSpec(formatSpec),
		"-o", filepath.Join(tmpDir, "%(title)s.%(ext)s"),
		"--no-warnings",
		"--no-playlist",
		watchURL(videoID),
	)
	if err != nil {
		cleanup()
		return nil, err
	}

	path, size, err := pickOutputFile(tmpDir)
	if err != nil {
		cleanup()
		return nil, err
	}

	filename := filepath.Base(path)
	if customFilename != "" {
		filename = engine.SafeFilename(customFilename)
		if ext := filepath.Ext(path); !strings.HasSuffix(strings.ToLower(filename), ext) {
			filename += ext
		}
	}

	return &Result{
		Path:     path,
		Filename: filename,
		MIME:     MIMEForExt(filepath.Ext(path)),
		Size:     size,
		Cleanup:  cleanup,
	}, nil
}

// pickOutputFile locates the file yt-dlp produced: the largest regular file
// that is not a leftover .part fragment.
func pickOutputFile(dir string) (string, int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", 0, fmt.Errorf("read temp dir: %w", err)
	}

	var best string
	var bestSize int64 = -1
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), ".part") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.Size() > bestSize {
			best = filepath.Join(dir, e.Name())
			bestSize = info.Size()
		}
	}
	if best == "" {
		return "", 0, fmt.Errorf("no output file produced by yt-dlp")
	}
	return best, bestSize, nil
}

// MIMEForExt maps a file extension (with or without the dot) to a content type.
func MIMEForExt(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "mp4", "m4v":
		return "video/mp4"
	case "webm":
		return "video/webm"
	case "mkv":
		return "video/x-matroska"
	case "m4a":
		return "audio/mp4"
	case "mp3":
		return "audio/mpeg"
	case "opus", "ogg", "oga":
		return "audio/ogg"
	case "wav":
		return "audio/wav"
	case "flac":
		return "audio/flac"
	default:
		return "application/octet-stream"
	}
}
