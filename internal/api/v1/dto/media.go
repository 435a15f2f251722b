package dto

import (
	"strings"

	"opencaption/internal/api/errors"
	"opencaption/internal/app/encoder"
	"opencaption/internal/app/model"
	"opencaption/internal/app/style"
)

// IngestRequest asks the server to fetch a video from a URL
type IngestRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// TranscribeRequest selects the spoken language; empty means auto-detect
type TranscribeRequest struct {
	Language string `json:"language" form:"language" binding:"omitempty,max=16"`
}

// WordRequest is one timed word of an edited segment
type WordRequest struct {
	Start float64 `json:"start" binding:"gte=0"`
	End   float64 `json:"end" binding:"gte=0"`
	Text  string  `json:"text" binding:"required"`
}

// SegmentRequest is one edited segment
type SegmentRequest struct {
	Start float64       `json:"start" binding:"gte=0"`
	End   float64       `json:"end" binding:"gte=0"`
	Text  string        `json:"text"`
	Words []WordRequest `json:"words,omitempty" binding:"omitempty,dive"`
}

// UpdateTranscriptRequest is the caption editor save payload
type UpdateTranscriptRequest struct {
	Language string           `json:"language" binding:"omitempty,max=16"`
	Segments []SegmentRequest `json:"segments" binding:"required,dive"`
}

// ToSegments converts the payload into model segments. A segment sent
// without words keeps a nil word list.
func (r *UpdateTranscriptRequest) ToSegments() []model.Segment {
	segments := make([]model.Segment, 0, len(r.Segments))
	for _, s := range r.Segments {
		seg := model.Segment{Start: s.Start, End: s.End, Text: s.Text}
		for _, w := range s.Words {
			seg.Words = append(seg.Words, model.Word{Start: w.Start, End: w.End, Text: w.Text})
		}
		segments = append(segments, seg)
	}
	return segments
}

// RenderRequest mirrors orchestrator.RenderRequest
type RenderRequest struct {
	MediaID    string `json:"media_id" binding:"required"`
	StyleID    string `json:"style_id"`
	Resolution string `json:"resolution"`
	SRTOnly    bool   `json:"srt_only"`
}

// PipelineRequest starts a URL → rendered video job
type PipelineRequest struct {
	URL        string `json:"url" binding:"required,url"`
	StyleID    string `json:"style_id"`
	Language   string `json:"language" binding:"omitempty,max=16"`
	Resolution string `json:"resolution"`
}

// Validate checks the style id and resolution before any work starts
func (r *PipelineRequest) Validate() error {
	return validateStyleAndResolution(r.StyleID, r.Resolution)
}

func validateStyleAndResolution(styleID, resolution string) error {
	fields := map[string]string{}
	if _, err := style.Resolve(styleID); err != nil {
		fields["style_id"] = "unknown style, expected one of " + strings.Join(style.IDs(), ", ")
	}
	if resolution != "" {
		if _, _, err := encoder.ParseResolution(resolution); err != nil {
			fields["resolution"] = "must look like 1080x1920"
		}
	}
	if len(fields) > 0 {
		return errors.NewValidationError("Invalid request", fields)
	}
	return nil
}

// TranscriptResponse is the transcribe and transcript endpoints' payload
type TranscriptResponse struct {
	MediaID    string            `json:"media_id"`
	Transcript *model.Transcript `json:"transcript"`
}

// TranscriptRevisionsResponse lists the stored revisions of one media
type TranscriptRevisionsResponse struct {
	MediaID     string             `json:"media_id"`
	Transcripts []model.Transcript `json:"transcripts"`
}

// StylesResponse lists the catalog
type StylesResponse struct {
	Styles []style.Style `json:"styles"`
}

// RenderAttemptsResponse lists the audit log of one media
type RenderAttemptsResponse struct {
	Attempts []model.RenderAttempt `json:"attempts"`
}

// MediaListResponse lists ingested media
type MediaListResponse struct {
	Media []model.Media `json:"media"`
}
