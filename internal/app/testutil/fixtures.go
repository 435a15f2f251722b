package testutil

import (
	"opencaption/internal/app/model"
)

// SampleTranscript returns a two-segment transcript; the first segment has
// word timings, the second does not.
func SampleTranscript() *model.Transcript {
	return &model.Transcript{
		Language: "en",
		Segments: []model.Segment{
			{Start: 0, End: 1.2, Text: "hi there", Words: []model.Word{
				{Start: 0, End: 0.5, Text: "hi"},
				{Start: 0.5, End: 1.2, Text: "there"},
			}},
			{Start: 1.5, End: 3.0, Text: "no word timings"},
		},
	}
}
