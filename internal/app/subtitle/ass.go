package subtitle

import (
	"fmt"
	"strings"

	"opencaption/internal/app/model"
	"opencaption/internal/app/style"
	"opencaption/internal/app/timecode"
)

const (
	DefaultCanvasWidth  = 1080
	DefaultCanvasHeight = 1920

	fontSize     = 64
	alignment    = 2 // bottom centre
	marginLeft   = 50
	marginRight  = 50
	marginBottom = 120
)

const styleFormat = "Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, " +
	"Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, " +
	"Alignment, MarginL, MarginR, MarginV, Encoding"

const eventFormat = "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text"

// ScriptOptions controls the canvas declared in the script header.
type ScriptOptions struct {
	Width  int
	Height int
}

// DefaultScriptOptions returns the 1080x1920 vertical canvas.
func DefaultScriptOptions() ScriptOptions {
	return ScriptOptions{Width: DefaultCanvasWidth, Height: DefaultCanvasHeight}
}

// ComposeStyledScript renders an ASS script with one Default style derived
// from s and one Dialogue line per segment. For karaoke styles, segments with
// word timings become {\kNN}word sequences in stored word order.
//
// Output is byte-for-byte deterministic for equal inputs.
func ComposeStyledScript(t *model.Transcript, s style.Style, opts ScriptOptions) (string, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultCanvasWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultCanvasHeight
	}
	primary, err := HexToScriptColor(s.PrimaryColor)
	if err != nil {
		return "", fmt.Errorf("style %s primary colour: %w", s.ID, err)
	}
	stroke, err := HexToScriptColor(s.StrokeColor)
	if err != nil {
		return "", fmt.Errorf("style %s stroke colour: %w", s.ID, err)
	}

	var b strings.Builder
	b.WriteString("[Script Info]\n")
	b.WriteString("ScriptType: v4.00+\n")
	fmt.Fprintf(&b, "PlayResX: %d\n", opts.Width)
	fmt.Fprintf(&b, "PlayResY: %d\n", opts.Height)
	b.WriteString("WrapStyle: 2\n")
	b.WriteString("ScaledBorderAndShadow: yes\n\n")

	b.WriteString("[V4+ Styles]\n")
	b.WriteString(styleFormat + "\n")
	fmt.Fprintf(&b, "Style: Default,%s,%d,%s,%s,%s,%s,-1,0,0,0,100,100,0,0,1,%d,0,%d,%d,%d,%d,1\n\n",
		s.Font, fontSize, primary, primary, stroke, stroke, s.StrokeWidth,
		alignment, marginLeft, marginRight, marginBottom)

	b.WriteString("[Events]\n")
	b.WriteString(eventFormat + "\n")
	for i, seg := range t.Segments {
		start, err := timecode.ToScript(seg.Start)
		if err != nil {
			return "", fmt.Errorf("segment %d start: %w", i, err)
		}
		end, err := timecode.ToScript(seg.End)
		if err != nil {
			return "", fmt.Errorf("segment %d end: %w", i, err)
		}
		line, err := dialogueText(seg, s)
		if err != nil {
			return "", fmt.Errorf("segment %d: %w", i, err)
		}
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n", start, end, line)
	}
	return b.String(), nil
}

func dialogueText(seg model.Segment, s style.Style) (string, error) {
	if !s.Karaoke || len(seg.Words) == 0 {
		return scriptText(seg.Text, s.Uppercase), nil
	}
	parts := make([]string, 0, len(seg.Words))
	for _, w := range seg.Words {
		cs, err := timecode.CentisecondDuration(w.Start, w.End)
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf(`{\k%d}%s`, cs, scriptText(strings.TrimSpace(w.Text), s.Uppercase)))
	}
	return strings.Join(parts, " "), nil
}

// scriptEscaper keeps caption text from being read as override tags and
// turns newlines into ASS hard breaks. A Replacer never rescans its output,
// so the \N it emits is not escaped again.
var scriptEscaper = strings.NewReplacer(
	`\`, `\\`,
	`{`, `\{`,
	`}`, `\}`,
	"\r\n", `\N`,
	"\n", `\N`,
)

// scriptText applies the case transform and escapes the result for a
// Dialogue line.
func scriptText(text string, uppercase bool) string {
	if uppercase {
		text = strings.ToUpper(text)
	}
	return scriptEscaper.Replace(text)
}
