package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"coursehub_backend/internal/config"
)

// YouTubeService wraps the video platform's search and videos endpoints.
// Everything degrades gracefully when no API key is configured: lessons
// are simply created without fetched metadata.
type YouTubeService struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewYouTubeService(cfg *config.YouTubeConfig) *YouTubeService {
	return &YouTubeService{
		APIKey:  cfg.APIKey,
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *YouTubeService) Enabled() bool {
	return s.APIKey != ""
}

type Video struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Channel     string `json:"channel"`
	URL         string `json:"url"`
}

type VideoInfo struct {
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Channel   string `json:"channel"`
	// Duration in seconds.
	Duration int `json:"duration"`
}

var errYouTubeDisabled = errors.New("youtube api key not configured")

// Search returns up to maxResults medium-length tutorial videos.
func (s *YouTubeService) Search(ctx context.Context, query string, maxResults int) ([]Video, error) {
	if !s.Enabled() {
		return nil, errYouTubeDisabled
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("videoDuration", "medium")
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("q", query)
	params.Set("key", s.APIKey)

	var payload struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet searchSnippet `json:"snippet"`
		} `json:"items"`
	}
	if err := s.get(ctx, "/search", params, &payload); err != nil {
		return nil, err
	}

	videos := make([]Video, 0, len(payload.Items))
	for _, item := range payload.Items {
		videos = append(videos, Video{
			ID:          item.ID.VideoID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			Thumbnail:   item.Snippet.Thumbnails.Medium.URL,
			Channel:     item.Snippet.ChannelTitle,
			URL:         "https://www.youtube.com/watch?v=" + item.ID.VideoID,
		})
	}
	return videos, nil
}

// VideoInfo fetches snippet and duration for one video id.
func (s *YouTubeService) VideoInfo(ctx context.Context, videoID string) (*VideoInfo, error) {
	if !s.Enabled() {
		return nil, errYouTubeDisabled
	}

	params := url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("id", videoID)
	params.Set("key", s.APIKey)

	var payload struct {
		Items []struct {
			Snippet        searchSnippet `json:"snippet"`
			ContentDetails struct {
				Duration string `json:"duration"`
			} `json:"contentDetails"`
		} `json:"items"`
	}
	if err := s.get(ctx, "/videos", params, &payload); err != nil {
		return nil, err
	}
	if len(payload.Items) == 0 {
		return nil, fmt.Errorf("video %s not found", videoID)
	}

	item := payload.Items[0]
	return &VideoInfo{
		Title:     item.Snippet.Title,
		Thumbnail: item.Snippet.Thumbnails.Medium.URL,
		Channel:   item.Snippet.ChannelTitle,
		Duration:  ParseISODuration(item.ContentDetails.Duration),
	}, nil
}

type searchSnippet struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channelTitle"`
	Thumbnails   struct {
		Medium struct {
			URL string `json:"url"`
		} `json:"medium"`
	} `json:"thumbnails"`
}

func (s *YouTubeService) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("youtube api returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// ParseISODuration converts the API's ISO-8601 durations (PT1H2M3S) into
// seconds. Unrecognized input yields 0.
func ParseISODuration(iso string) int {
	iso = strings.TrimPrefix(iso, "PT")
	total := 0
	num := 0
	for _, r := range iso {
		switch {
		case r >= '0' && r <= '9':
			num = num*10 + int(r-'0')
		case r == 'H':
			total += num * 3600
			num = 0
		case r == 'M':
			total += num * 60
			num = 0
		case r == 'S':
			total += num
			num = 0
		default:
			return 0
		}
	}
	return total
}
