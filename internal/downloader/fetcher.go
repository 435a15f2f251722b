// Package downloader fetches remote videos into local storage for ingest.
package downloader

import (
	"context"
	"mime"
	"net/url"
	"path"
	"strings"

	apperrors "opencaption/internal/app/errors"
)

// Fetched describes a downloaded file.
type Fetched struct {
	Path  string
	Title string
	Size  int64
}

// Fetcher downloads rawURL into destDir. The file name is baseName plus an
// extension derived from the source.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL, destDir, baseName string) (*Fetched, error)
}

// Router dispatches YouTube links to the YouTube fetcher and everything else
// to the generic HTTP fetcher.
type Router struct {
	YouTube Fetcher
	HTTP    Fetcher
}

var _ Fetcher = (*Router)(nil)

// NewRouter creates a Router.
func NewRouter(youtube, http Fetcher) *Router {
	return &Router{YouTube: youtube, HTTP: http}
}

// Fetch implements Fetcher.
func (r *Router) Fetch(ctx context.Context, rawURL, destDir, baseName string) (*Fetched, error) {
	u, err := ParseSourceURL(rawURL)
	if err != nil {
		return nil, err
	}
	if IsYouTubeHost(u.Hostname()) && r.YouTube != nil {
		return r.YouTube.Fetch(ctx, rawURL, destDir, baseName)
	}
	if r.HTTP == nil {
		return nil, apperrors.New(apperrors.KindIngest, "no fetcher configured for "+u.Hostname())
	}
	return r.HTTP.Fetch(ctx, rawURL, destDir, baseName)
}

// ParseSourceURL accepts absolute http(s) URLs only.
func ParseSourceURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, apperrors.InvalidField("url", err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, apperrors.InvalidField("url", "scheme must be http or https")
	}
	if u.Host == "" {
		return nil, apperrors.InvalidField("url", "host is missing")
	}
	return u, nil
}

// IsYouTubeHost reports whether host serves YouTube videos.
func IsYouTubeHost(host string) bool {
	host = strings.ToLower(strings.TrimPrefix(host, "www."))
	switch host {
	case "youtube.com", "m.youtube.com", "youtu.be", "music.youtube.com":
		return true
	}
	return false
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".mkv": true, ".webm": true, ".m4v": true, ".avi": true,
}

// extensionFor derives a file extension from the URL path, then the content
// type, defaulting to .mp4.
func extensionFor(u *url.URL, contentType string) string {
	if ext := strings.ToLower(path.Ext(u.Path)); videoExtensions[ext] {
		return ext
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mediaType {
		case "video/webm":
			return ".webm"
		case "video/quicktime":
			return ".mov"
		case "video/x-matroska":
			return ".mkv"
		}
	}
	return ".mp4"
}
