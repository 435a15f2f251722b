package subtitle

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "opencaption/internal/app/errors"
	"opencaption/internal/app/model"
	"opencaption/internal/app/style"
)

func karaokeTranscript() *model.Transcript {
	return &model.Transcript{
		Language: "en",
		Segments: []model.Segment{
			{Start: 0, End: 1.2, Text: "hi there", Words: []model.Word{
				{Start: 0, End: 0.5, Text: "HI"},
				{Start: 0.5, End: 1.2, Text: "THERE"},
			}},
			{Start: 1.5, End: 3.25, Text: "no word timings"},
		},
	}
}

func mustStyle(t *testing.T, id string) style.Style {
	t.Helper()
	s, err := style.Resolve(id)
	require.NoError(t, err)
	return s
}

func dialogueLines(script string) []string {
	var lines []string
	for _, l := range strings.Split(script, "\n") {
		if strings.HasPrefix(l, "Dialogue: ") {
			lines = append(lines, l)
		}
	}
	return lines
}

func TestComposeStyledScript_Header(t *testing.T) {
	script, err := ComposeStyledScript(karaokeTranscript(), mustStyle(t, "hormozi-bold"), DefaultScriptOptions())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(script, "[Script Info]\n"))
	assert.Contains(t, script, "PlayResX: 1080\n")
	assert.Contains(t, script, "PlayResY: 1920\n")
	assert.Contains(t, script,
		"Style: Default,Anton,64,&H00FFFFFF&,&H00FFFFFF&,&H00000000&,&H00000000&,-1,0,0,0,100,100,0,0,1,2,0,2,50,50,120,1\n")
	assert.Contains(t, script, "[Events]\n"+eventFormat+"\n")
}

func TestComposeStyledScript_CustomCanvas(t *testing.T) {
	script, err := ComposeStyledScript(karaokeTranscript(), mustStyle(t, "clean-pro"), ScriptOptions{Width: 1920, Height: 1080})
	require.NoError(t, err)

	assert.Contains(t, script, "PlayResX: 1920\n")
	assert.Contains(t, script, "PlayResY: 1080\n")
}

func TestComposeStyledScript_KaraokeMarkers(t *testing.T) {
	script, err := ComposeStyledScript(karaokeTranscript(), mustStyle(t, "mrbeast-pop"), DefaultScriptOptions())
	require.NoError(t, err)

	lines := dialogueLines(script)
	require.Len(t, lines, 2)
	assert.Equal(t, `Dialogue: 0,0:00:00.00,0:00:01.20,Default,,0,0,0,,{\k50}HI {\k70}THERE`, lines[0])
	assert.Equal(t, "Dialogue: 0,0:00:01.50,0:00:03.25,Default,,0,0,0,,no word timings", lines[1])
}

func TestComposeStyledScript_UppercaseAppliesToWordsAndText(t *testing.T) {
	tr := karaokeTranscript()
	tr.Segments[0].Words[0].Text = "hi"
	tr.Segments[0].Words[1].Text = " there"

	script, err := ComposeStyledScript(tr, mustStyle(t, "hormozi-bold"), DefaultScriptOptions())
	require.NoError(t, err)

	lines := dialogueLines(script)
	assert.True(t, strings.HasSuffix(lines[0], `{\k50}HI {\k70}THERE`))
	assert.True(t, strings.HasSuffix(lines[1], ",NO WORD TIMINGS"))
}

func TestComposeStyledScript_NonKaraokeUsesSegmentText(t *testing.T) {
	script, err := ComposeStyledScript(karaokeTranscript(), mustStyle(t, "clean-pro"), DefaultScriptOptions())
	require.NoError(t, err)

	lines := dialogueLines(script)
	assert.True(t, strings.HasSuffix(lines[0], ",hi there"))
	assert.NotContains(t, script, `\k`)
}

func TestComposeStyledScript_PreservesWordOrder(t *testing.T) {
	tr := &model.Transcript{Segments: []model.Segment{
		{Start: 0, End: 2, Text: "b a", Words: []model.Word{
			{Start: 1, End: 2, Text: "b"},
			{Start: 0, End: 0.25, Text: "a"},
		}},
	}}

	script, err := ComposeStyledScript(tr, mustStyle(t, "mrbeast-pop"), DefaultScriptOptions())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(dialogueLines(script)[0], `{\k100}b {\k25}a`))
}

func TestComposeStyledScript_Deterministic(t *testing.T) {
	s := mustStyle(t, "chunky-contrast")

	first, err := ComposeStyledScript(karaokeTranscript(), s, DefaultScriptOptions())
	require.NoError(t, err)
	second, err := ComposeStyledScript(karaokeTranscript(), s, DefaultScriptOptions())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComposeStyledScript_InvalidColor(t *testing.T) {
	s := mustStyle(t, "clean-pro")
	s.PrimaryColor = "zzz"

	_, err := ComposeStyledScript(karaokeTranscript(), s, DefaultScriptOptions())
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestComposeStyledScript_NewlinesBecomeHardBreaks(t *testing.T) {
	tr := &model.Transcript{Segments: []model.Segment{{Start: 0, End: 1, Text: "one\ntwo"}}}

	script, err := ComposeStyledScript(tr, mustStyle(t, "clean-pro"), DefaultScriptOptions())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(dialogueLines(script)[0], `,one\Ntwo`))
}

func TestComposeStyledScript_EscapesOverrideCharacters(t *testing.T) {
	tr := &model.Transcript{Segments: []model.Segment{
		{Start: 0, End: 1, Text: `say {\b1}hi`, Words: []model.Word{
			{Start: 0, End: 0.5, Text: "{\\pos(0,0)}"},
			{Start: 0.5, End: 1, Text: `a\nb}`},
		}},
		{Start: 1, End: 2, Text: "line {one}\nback\\slash"},
	}}

	karaoke, err := ComposeStyledScript(tr, mustStyle(t, "mrbeast-pop"), DefaultScriptOptions())
	require.NoError(t, err)
	lines := dialogueLines(karaoke)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], `,{\k50}\{\\pos(0,0)\} {\k50}a\\nb\}`))
	assert.True(t, strings.HasSuffix(lines[1], `,line \{one\}\Nback\\slash`))

	plain, err := ComposeStyledScript(tr, mustStyle(t, "clean-pro"), DefaultScriptOptions())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(dialogueLines(plain)[0], `,say \{\\b1\}hi`))
}
