package model

import (
	"time"
)

// Stage is a pipeline checkpoint. Stages are ordered; a job's Stage is the
// last one that completed.
type Stage string

const (
	StageNone        Stage = ""
	StageIngested    Stage = "ingested"
	StageTranscribed Stage = "transcribed"
	StageComposed    Stage = "composed"
	StageRendered    Stage = "rendered"
)

var stageOrder = map[Stage]int{
	StageNone:        0,
	StageIngested:    1,
	StageTranscribed: 2,
	StageComposed:    3,
	StageRendered:    4,
}

// Reached reports whether s is at or past other.
func (s Stage) Reached(other Stage) bool {
	return stageOrder[s] >= stageOrder[other]
}

// JobStatus is the status of a pipeline job
type JobStatus string

const (
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// PipelineJob is the resumable record of one ingest → transcribe → render run
type PipelineJob struct {
	ID          string     `json:"id" db:"id"`
	MediaID     *string    `json:"media_id,omitempty" db:"media_id"`
	SourceURL   string     `json:"source_url" db:"source_url"`
	StyleID     string     `json:"style_id" db:"style_id"`
	Language    string     `json:"language,omitempty" db:"language"`
	Resolution  string     `json:"resolution,omitempty" db:"resolution"`
	Stage       Stage      `json:"stage" db:"stage"`
	Status      JobStatus  `json:"status" db:"status"`
	FailedStage string     `json:"failed_stage,omitempty" db:"failed_stage"`
	Error       string     `json:"error,omitempty" db:"error"`
	OutputPath  string     `json:"output_path,omitempty" db:"output_path"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// TableName returns the table name for PipelineJob
func (PipelineJob) TableName() string {
	return "pipeline_jobs"
}
