package model

// FFProbeStream is one stream reported by ffprobe -show_streams.
type FFProbeStream struct {
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

// FFProbeOutput is the subset of ffprobe's JSON output used at ingest.
type FFProbeOutput struct {
	Streams []FFProbeStream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
	} `json:"format"`
}
