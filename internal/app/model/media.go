package model

import "time"

// MediaSource records how a media file entered the system.
type MediaSource string

const (
	SourceUpload      MediaSource = "upload"
	SourceRemoteFetch MediaSource = "remote-fetch"
)

// Media is an ingested video. ID is generated by the system.
type Media struct {
	ID                 string      `json:"id"`
	Source             MediaSource `json:"source"`
	OriginalName       *string     `json:"original_name,omitempty"`
	Path               string      `json:"path"`
	ActiveTranscriptID *int64      `json:"active_transcript_id,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
}

// RenderAttempt is one append-only audit entry per render invocation.
type RenderAttempt struct {
	ID          int64     `json:"id"`
	MediaID     string    `json:"media_id"`
	StyleID     string    `json:"style_id"`
	Resolution  *string   `json:"resolution,omitempty"`
	OutputPath  string    `json:"output_path"`
	ArtifactURL *string   `json:"artifact_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Success     bool      `json:"success"`
	Error       *string   `json:"error,omitempty"`
}
