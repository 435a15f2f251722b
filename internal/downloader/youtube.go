package downloader

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/kkdai/youtube/v2"
	"go.uber.org/zap"

	apperrors "opencaption/internal/app/errors"
)

// YouTubeFetcher downloads the best muxed (video plus audio) stream of a
// YouTube video.
type YouTubeFetcher struct {
	client   *youtube.Client
	progress *Progress
	maxBytes int64
	logger   *zap.Logger
}

var _ Fetcher = (*YouTubeFetcher)(nil)

// NewYouTubeFetcher creates a YouTubeFetcher.
func NewYouTubeFetcher(client *youtube.Client, progress *Progress, maxBytes int64, logger *zap.Logger) *YouTubeFetcher {
	if client == nil {
		client = &youtube.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YouTubeFetcher{client: client, progress: progress, maxBytes: maxBytes, logger: logger}
}

// Fetch implements Fetcher.
func (f *YouTubeFetcher) Fetch(ctx context.Context, rawURL, destDir, baseName string) (*Fetched, error) {
	video, err := f.client.GetVideoContext(ctx, rawURL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindIngest, "fetch YouTube video metadata")
	}

	format, ok := bestMuxedFormat(video.Formats)
	if !ok {
		return nil, apperrors.New(apperrors.KindIngest, "no muxed mp4 format available for "+video.ID)
	}
	if f.maxBytes > 0 && format.ContentLength > f.maxBytes {
		return nil, apperrors.Newf(apperrors.KindIngest, "video is %d bytes, limit is %d", format.ContentLength, f.maxBytes)
	}
	f.logger.Info("downloading YouTube video",
		zap.String("id", video.ID),
		zap.String("quality", format.QualityLabel),
		zap.String("mime", format.MimeType))

	stream, size, err := f.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindIngest, "open YouTube stream")
	}

	dest := filepath.Join(destDir, baseName+".mp4")
	n, err := writeBody(f.progress.Track(stream, size, baseName), dest, f.maxBytes)
	if err != nil {
		return nil, err
	}
	return &Fetched{Path: dest, Title: video.Title, Size: n}, nil
}

// bestMuxedFormat picks the highest bitrate mp4 format carrying both video
// and audio.
func bestMuxedFormat(formats youtube.FormatList) (*youtube.Format, bool) {
	var best *youtube.Format
	for i := range formats {
		f := &formats[i]
		if f.AudioChannels == 0 || f.Width == 0 || !strings.HasPrefix(f.MimeType, "video/mp4") {
			continue
		}
		if best == nil || f.Bitrate > best.Bitrate {
			best = f
		}
	}
	return best, best != nil
}
