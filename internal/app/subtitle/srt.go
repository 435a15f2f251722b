package subtitle

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "opencaption/internal/app/errors"
	"opencaption/internal/app/model"
	"opencaption/internal/app/timecode"
)

// ComposePlainTrack renders one SRT cue per segment. Cue text is the segment
// text verbatim; the plain track ignores style.
func ComposePlainTrack(t *model.Transcript) (string, error) {
	var b strings.Builder
	for _, cue := range t.PlainCues() {
		start, err := timecode.ToSRT(cue.Start)
		if err != nil {
			return "", fmt.Errorf("cue %d start: %w", cue.Index, err)
		}
		end, err := timecode.ToSRT(cue.End)
		if err != nil {
			return "", fmt.Errorf("cue %d end: %w", cue.Index, err)
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", cue.Index, start, end, cueText(cue.Text))
	}
	return b.String(), nil
}

// cueText drops blank lines, which would otherwise terminate the cue early.
func cueText(text string) string {
	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
	return strings.Join(lines, "\n")
}

// ParsePlainTrack parses SRT content into cues.
func ParsePlainTrack(content string) ([]model.Cue, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	blocks := strings.Split(strings.TrimSpace(content), "\n\n")
	cues := make([]model.Cue, 0, len(blocks))
	for _, block := range blocks {
		block = strings.Trim(block, "\n")
		if strings.TrimSpace(block) == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		if len(lines) < 2 {
			return nil, apperrors.InvalidField("srt cue", fmt.Sprintf("truncated block %q", block))
		}
		index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			return nil, apperrors.InvalidField("srt cue index", lines[0])
		}
		bounds := strings.Split(lines[1], "-->")
		if len(bounds) != 2 {
			return nil, apperrors.InvalidField("srt cue timing", lines[1])
		}
		start, err := timecode.ParseSRT(strings.TrimSpace(bounds[0]))
		if err != nil {
			return nil, err
		}
		end, err := timecode.ParseSRT(strings.TrimSpace(bounds[1]))
		if err != nil {
			return nil, err
		}
		cues = append(cues, model.Cue{
			Index: index,
			Start: start,
			End:   end,
			Text:  strings.Join(lines[2:], "\n"),
		})
	}
	return cues, nil
}
