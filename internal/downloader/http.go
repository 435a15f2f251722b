package downloader

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	apperrors "opencaption/internal/app/errors"
)

// HTTPFetcher downloads direct video links. When the URL serves an HTML page
// it looks for the video in the page's Open Graph tags or <video> element.
type HTTPFetcher struct {
	client   *http.Client
	progress *Progress
	maxBytes int64
	logger   *zap.Logger
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher creates an HTTPFetcher. maxBytes <= 0 disables the size cap.
func NewHTTPFetcher(client *http.Client, progress *Progress, maxBytes int64, logger *zap.Logger) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Minute}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPFetcher{client: client, progress: progress, maxBytes: maxBytes, logger: logger}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL, destDir, baseName string) (*Fetched, error) {
	u, err := ParseSourceURL(rawURL)
	if err != nil {
		return nil, err
	}

	resp, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	title := ""
	if isHTML(resp.Header.Get("Content-Type")) {
		videoURL, pageTitle, err := findVideoInPage(resp.Body, u)
		if err != nil {
			return nil, err
		}
		resp.Body.Close()
		f.logger.Info("resolved video from page", zap.String("page", u.String()), zap.String("video", videoURL.String()))

		title = pageTitle
		u = videoURL
		if resp, err = f.get(ctx, u); err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if isHTML(resp.Header.Get("Content-Type")) {
			return nil, apperrors.New(apperrors.KindIngest, "resolved video URL serves HTML: "+u.String())
		}
	}

	if f.maxBytes > 0 && resp.ContentLength > f.maxBytes {
		return nil, apperrors.Newf(apperrors.KindIngest, "remote file is %d bytes, limit is %d", resp.ContentLength, f.maxBytes)
	}

	dest := filepath.Join(destDir, baseName+extensionFor(u, resp.Header.Get("Content-Type")))
	size, err := writeBody(f.progress.Track(resp.Body, resp.ContentLength, baseName), dest, f.maxBytes)
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = filepath.Base(u.Path)
	}
	return &Fetched{Path: dest, Title: title, Size: size}, nil
}

func (f *HTTPFetcher) get(ctx context.Context, u *url.URL) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindIngest, "build request")
	}
	req.Header.Set("User-Agent", "opencaption/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.KindIngest, "GET %s", u.Redacted())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, apperrors.Newf(apperrors.KindIngest, "GET %s returned status %d", u.Redacted(), resp.StatusCode)
	}
	return resp, nil
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && (mediaType == "text/html" || mediaType == "application/xhtml+xml")
}

// findVideoInPage looks for og:video meta tags first and falls back to the
// first <video> or <video><source> src attribute.
func findVideoInPage(body io.Reader, base *url.URL) (*url.URL, string, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, "", apperrors.Wrap(err, apperrors.KindIngest, "parse html page")
	}

	title, _ := doc.Find(`meta[property="og:title"]`).First().Attr("content")
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	var candidate string
	for _, sel := range []string{
		`meta[property="og:video:secure_url"]`,
		`meta[property="og:video:url"]`,
		`meta[property="og:video"]`,
	} {
		if v, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
			candidate = v
			break
		}
	}
	if candidate == "" {
		doc.Find("video[src], video source[src]").EachWithBreak(func(i int, s *goquery.Selection) bool {
			candidate, _ = s.Attr("src")
			return candidate == ""
		})
	}
	if candidate == "" {
		return nil, "", apperrors.New(apperrors.KindIngest, "no video found on page "+base.Redacted())
	}

	ref, err := url.Parse(strings.TrimSpace(candidate))
	if err != nil {
		return nil, "", apperrors.Wrap(err, apperrors.KindIngest, "parse video url")
	}
	return base.ResolveReference(ref), title, nil
}

// writeBody streams r into dest through a temp file so that a failed
// download never leaves a partial file behind.
func writeBody(r io.ReadCloser, dest string, maxBytes int64) (int64, error) {
	defer r.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, apperrors.Wrap(err, apperrors.KindIngest, "create destination directory")
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.KindIngest, "create temp file")
	}
	defer os.Remove(tmp.Name())

	var src io.Reader = r
	if maxBytes > 0 {
		src = io.LimitReader(r, maxBytes+1)
	}
	n, err := io.Copy(tmp, src)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.KindIngest, "download body")
	}
	if maxBytes > 0 && n > maxBytes {
		return 0, apperrors.New(apperrors.KindIngest, fmt.Sprintf("download exceeds %d bytes", maxBytes))
	}
	if n == 0 {
		return 0, apperrors.New(apperrors.KindIngest, "downloaded file is empty")
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return 0, apperrors.Wrap(err, apperrors.KindIngest, "move download into place")
	}
	return n, nil
}
