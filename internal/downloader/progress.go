package downloader

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Progress renders byte progress bars for downloads. A disabled Progress
// passes readers through untouched.
type Progress struct {
	container *mpb.Progress
	enabled   bool
	mu        sync.Mutex
}

// NewProgress creates a Progress writing to w (stderr when nil).
func NewProgress(enabled bool, w io.Writer) *Progress {
	if !enabled {
		return &Progress{}
	}
	if w == nil {
		w = os.Stderr
	}
	return &Progress{
		container: mpb.New(mpb.WithOutput(w), mpb.WithRefreshRate(120*time.Millisecond)),
		enabled:   true,
	}
}

// Track wraps r in a progress bar of size total bytes. total may be <= 0
// when the length is unknown.
func (p *Progress) Track(r io.ReadCloser, total int64, name string) io.ReadCloser {
	if p == nil || !p.enabled {
		return r
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	bar := p.container.AddBar(total,
		mpb.PrependDecorators(
			decor.Name(name+" ", decor.WC{W: len(name) + 1, C: decor.DindentRight}),
			decor.CountersKibiByte("% .1f / % .1f", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.EwmaETA(decor.ET_STYLE_GO, 30, decor.WCSyncWidth), " done "),
			decor.EwmaSpeed(decor.SizeB1024(0), "% .1f", 30, decor.WCSyncSpace),
		),
	)
	return &trackedReader{ReadCloser: bar.ProxyReader(r), bar: bar}
}

type trackedReader struct {
	io.ReadCloser
	bar *mpb.Bar
}

// Close completes the bar at the bytes read so far and closes the source.
func (t *trackedReader) Close() error {
	t.bar.SetTotal(-1, true)
	return t.ReadCloser.Close()
}

// Wait blocks until all bars have finished rendering.
func (p *Progress) Wait() {
	if p != nil && p.enabled {
		p.container.Wait()
	}
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := file.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}
