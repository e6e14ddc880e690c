package sources

// YouTube implementation is split across four files by responsibility:
//   youtube_innertube.go  — Innertube API types, constants, and low-level HTTP primitives
//   youtube_transcript.go — timed transcript fetching (watch-page scrape, engagement
//                           panel, ANDROID player fallback)
//   youtube_search.go     — video search (Data API v3 + ytInitialData scraping)
//   youtube_video.go      — single-video metadata (Data API v3 videos endpoint)
