package util

import (
	"net/url"
	"strings"
)

// ExtractVideoID pulls the video id out of the usual YouTube URL shapes:
// watch?v=, youtu.be/, /embed/ and /shorts/. Returns "" when none match.
func ExtractVideoID(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return ""
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch host {
	case "youtu.be":
		return firstSegment(u.Path)
	case "youtube.com", "m.youtube.com":
		if v := u.Query().Get("v"); v != "" {
			return v
		}
		for _, prefix := range []string{"/embed/", "/shorts/"} {
			if strings.HasPrefix(u.Path, prefix) {
				return firstSegment(strings.TrimPrefix(u.Path, prefix))
			}
		}
	}
	return ""
}

func firstSegment(path string) string {
	path = strings.Trim(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}
