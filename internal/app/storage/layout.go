// Package storage lays out media, caption and render artifacts on disk and
// optionally mirrors rendered videos to object storage.
package storage

import (
	"os"
	"path/filepath"
	"strings"

	apperrors "opencaption/internal/app/errors"
)

// Layout maps media ids onto files below one data directory:
//
//	<root>/media/<id><ext>
//	<root>/captions/<id>.srt|.json|.ass
//	<root>/renders/<id>_<style>.mp4
type Layout struct {
	Root string
}

// NewLayout creates the directory tree under root.
func NewLayout(root string) (*Layout, error) {
	l := &Layout{Root: root}
	for _, dir := range []string{l.MediaDir(), l.CaptionsDir(), l.RendersDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.Wrapf(err, apperrors.KindPersistence, "create %s", dir)
		}
	}
	return l, nil
}

func (l *Layout) MediaDir() string    { return filepath.Join(l.Root, "media") }
func (l *Layout) CaptionsDir() string { return filepath.Join(l.Root, "captions") }
func (l *Layout) RendersDir() string  { return filepath.Join(l.Root, "renders") }

// MediaPath returns where an ingested file with the given extension lives.
func (l *Layout) MediaPath(id, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return filepath.Join(l.MediaDir(), id+strings.ToLower(ext))
}

func (l *Layout) SRTPath(id string) string      { return filepath.Join(l.CaptionsDir(), id+".srt") }
func (l *Layout) SnapshotPath(id string) string { return filepath.Join(l.CaptionsDir(), id+".json") }
func (l *Layout) ScriptPath(id string) string   { return filepath.Join(l.CaptionsDir(), id+".ass") }

// RenderPath returns the output path for one media/style pair.
func (l *Layout) RenderPath(id, styleID string) string {
	return filepath.Join(l.RendersDir(), id+"_"+styleID+".mp4")
}

// RenderKey is the object key used when mirroring a render.
func RenderKey(id, styleID string) string {
	return "renders/" + id + "_" + styleID + ".mp4"
}

// RemoveArtifacts deletes every file derived from id. Missing files are not
// an error.
func (l *Layout) RemoveArtifacts(id, mediaPath string) error {
	paths := []string{mediaPath, l.SRTPath(id), l.SnapshotPath(id), l.ScriptPath(id)}
	renders, _ := filepath.Glob(filepath.Join(l.RendersDir(), id+"_*.mp4"))
	paths = append(paths, renders...)

	var firstErr error
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = apperrors.Wrapf(err, apperrors.KindPersistence, "remove %s", p)
		}
	}
	return firstErr
}

// WriteFileAtomic writes data to a temp file in the target directory and
// renames it into place.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.Wrapf(err, apperrors.KindPersistence, "create %s", dir)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return apperrors.Wrapf(err, apperrors.KindPersistence, "write %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperrors.Wrapf(err, apperrors.KindPersistence, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Wrapf(err, apperrors.KindPersistence, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return apperrors.Wrapf(err, apperrors.KindPersistence, "write %s", path)
	}
	return nil
}

// FileExists reports whether path is an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
