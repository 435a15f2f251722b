package api

import (
	"math"

	"opencaption/internal/app/model"
)

// AttachWords distributes a flat, transcript-wide word list onto segments.
// A word belongs to the segment containing its midpoint; words falling in a
// gap go to the segment whose bounds are nearest. Word order is preserved.
func AttachWords(segments []model.Segment, words []model.Word) {
	if len(segments) == 0 {
		return
	}
	for _, w := range words {
		mid := (w.Start + w.End) / 2
		best, bestDist := 0, math.Inf(1)
		for i, s := range segments {
			var dist float64
			switch {
			case mid < s.Start:
				dist = s.Start - mid
			case mid > s.End:
				dist = mid - s.End
			default:
				dist = 0
			}
			if dist < bestDist {
				best, bestDist = i, dist
			}
			if dist == 0 {
				break
			}
		}
		segments[best].Words = append(segments[best].Words, w)
	}
}
