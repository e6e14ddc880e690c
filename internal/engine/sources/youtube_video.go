package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

// Single-video metadata via the Data API v3 videos endpoint.
// Requires an API key; there is no scraping fallback for metadata because
// every caller that lacks a key already has title/channel from search.

type ytVideosResp struct {
	Items []struct {
		ID             string        `json:"id"`
		Snippet        ytDataSnippet `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
			LikeCount string `json:"likeCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// FetchVideo fetches metadata for one video. Tries the fallback API key on
// quota errors, like search does.
func FetchVideo(ctx context.Context, videoID string) (engine.VideoDetails, error) {
	engine.IncrVideoRequests()

	if engine.Cfg.YouTubeAPIKey == "" {
		return engine.VideoDetails{}, fmt.Errorf("YOUTUBE_API_KEY not configured")
	}

	var lastErr error
	for _, key := range dataAPIKeys() {
		details, err := doFetchVideo(ctx, videoID, key)
		if err == nil {
			return details, nil
		}
		lastErr = err
	}
	return engine.VideoDetails{}, lastErr
}

func doFetchVideo(ctx context.Context, videoID, apiKey string) (engine.VideoDetails, error) {
	params := url.Values{}
	params.Set("part", "snippet,contentDetails,statistics")
	params.Set("id", videoID)
	params.Set("key", apiKey)

	body, err := getDataAPI(ctx, ytDataAPIBase+"/videos?"+params.Encode())
	if err != nil {
		return engine.VideoDetails{}, err
	}

	var result ytVideosResp
	if err := json.Unmarshal(body, &result); err != nil {
		return engine.VideoDetails{}, fmt.Errorf("decode videos response: %w", err)
	}
	if len(result.Items) == 0 {
		return engine.VideoDetails{}, fmt.Errorf("video %s not found", videoID)
	}

	item := result.Items[0]
	views, _ := strconv.ParseInt(item.Statistics.ViewCount, 10, 64)
	likes, _ := strconv.ParseInt(item.Statistics.LikeCount, 10, 64)

	return engine.VideoDetails{
		ID:              item.ID,
		Title:           item.Snippet.Title,
		Description:     item.Snippet.Description,
		Channel:         item.Snippet.ChannelTitle,
		PublishedAt:     item.Snippet.PublishedAt,
		Duration:        item.ContentDetails.Duration,
		DurationSeconds: engine.ParseISODuration(item.ContentDetails.Duration),
		ViewCount:       views,
		LikeCount:       likes,
		Thumbnail:       item.Snippet.Thumbnails.bestThumbnail(),
	}, nil
}
