package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "opencaption/internal/app/errors"
)

// Word is a single timed token inside a Segment.
type Word struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Segment is one transcribed utterance. Words is nil when the transcriber
// produced no word-level timings.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

// Transcript is the canonical transcript of one media item. A stored
// transcript is never mutated; edits and re-transcriptions create new rows.
type Transcript struct {
	ID        int64     `json:"id,omitempty"`
	MediaID   string    `json:"media_id,omitempty"`
	Language  string    `json:"language"`
	Segments  []Segment `json:"segments"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Cue is one numbered entry of a plain subtitle track.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// PlainCues returns one cue per segment in stored order, indexed from 1.
func (t *Transcript) PlainCues() []Cue {
	cues := make([]Cue, 0, len(t.Segments))
	for i, s := range t.Segments {
		cues = append(cues, Cue{Index: i + 1, Start: s.Start, End: s.End, Text: s.Text})
	}
	return cues
}

// Validate checks the invariants the composer relies on. It does not require
// segments to be sorted.
func (t *Transcript) Validate() error {
	for i, s := range t.Segments {
		if s.Start < 0 || s.End < s.Start {
			return apperrors.InvalidField(fmt.Sprintf("segment %d", i),
				fmt.Sprintf("bad bounds [%v, %v]", s.Start, s.End))
		}
		if s.Words != nil && len(s.Words) == 0 {
			return apperrors.InvalidField(fmt.Sprintf("segment %d", i), "empty word list")
		}
		for j, w := range s.Words {
			if w.Start < 0 || w.End < w.Start {
				return apperrors.InvalidField(fmt.Sprintf("segment %d word %d", i, j),
					fmt.Sprintf("bad bounds [%v, %v]", w.Start, w.End))
			}
			if strings.TrimSpace(w.Text) == "" {
				return apperrors.InvalidField(fmt.Sprintf("segment %d word %d", i, j), "empty text")
			}
		}
	}
	return nil
}

// Normalize trims segment text, drops blank words, clamps word bounds into
// the owning segment and turns an empty word list into nil. Segment bounds
// and order are left untouched so Validate still sees inverted segments.
func (t *Transcript) Normalize() {
	for i := range t.Segments {
		s := &t.Segments[i]
		s.Text = strings.TrimSpace(s.Text)
		if s.End < s.Start {
			continue
		}
		if len(s.Words) == 0 {
			s.Words = nil
			continue
		}
		words := s.Words[:0]
		for _, w := range s.Words {
			if strings.TrimSpace(w.Text) == "" {
				continue
			}
			w.Start = clamp(w.Start, s.Start, s.End)
			w.End = clamp(w.End, w.Start, s.End)
			words = append(words, w)
		}
		if len(words) == 0 {
			words = nil
		}
		s.Words = words
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// snapshot is the on-disk JSON form of a transcript.
type snapshot struct {
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// MarshalSnapshot serializes the transcript as {language, segments}.
func (t *Transcript) MarshalSnapshot() ([]byte, error) {
	segments := t.Segments
	if segments == nil {
		segments = []Segment{}
	}
	return json.MarshalIndent(snapshot{Language: t.Language, Segments: segments}, "", "  ")
}

// UnmarshalSnapshot parses a snapshot produced by MarshalSnapshot and
// validates it, since snapshots are read from untrusted storage.
func UnmarshalSnapshot(data []byte) (*Transcript, error) {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindInvalidInput, "decode transcript snapshot")
	}
	t := &Transcript{Language: s.Language, Segments: s.Segments}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
