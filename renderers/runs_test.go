package renderers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/computerdane/flexlabel"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRendererRuns(t *testing.T) {
	fg := colorful.Color{R: 1}
	bg := colorful.Color{B: 1}
	doc := flexlabel.Compile([]flexlabel.Span{
		flexlabel.NewSpan("plain "),
		flexlabel.NewSpan(""),
		flexlabel.NewSpan("loud").Bold().Italic().Color(fg).OnBackground(bg),
		flexlabel.NewSpan(" gone").Underline().Strikethrough(),
	}, flexlabel.DefaultBaseStyle())

	r := NewRunRenderer(&bytes.Buffer{}, 0)
	runs := r.Runs(doc, flexlabel.Paragraph{})
	require.Len(t, runs, 3)

	assert.Equal(t, "plain ", runs[0].Text)
	assert.False(t, runs[0].Style.GetBold())
	assert.Equal(t, lipgloss.Color("#000000"), runs[0].Style.GetForeground())
	assert.Equal(t, lipgloss.NoColor{}, runs[0].Style.GetBackground())

	assert.Equal(t, "loud", runs[1].Text)
	assert.Equal(t, flexlabel.Range{Start: 6, End: 10, Attrs: doc.Ranges[2].Attrs}, runs[1].Range)
	assert.True(t, runs[1].Style.GetBold())
	assert.True(t, runs[1].Style.GetItalic())
	assert.Equal(t, lipgloss.Color("#ff0000"), runs[1].Style.GetForeground())
	assert.Equal(t, lipgloss.Color("#0000ff"), runs[1].Style.GetBackground())

	assert.True(t, runs[2].Style.GetUnderline())
	assert.True(t, runs[2].Style.GetStrikethrough())
}

func TestRunRendererRender(t *testing.T) {
	var out bytes.Buffer
	r := NewRunRenderer(&out, 0)
	require.NoError(t, r.Render(greeting(), flexlabel.Paragraph{}))
	assert.Equal(t, "Hi there\n", out.String())

	out.Reset()
	r.SetWidth(10)
	require.NoError(t, r.Render(greeting(), flexlabel.Paragraph{
		LineBreakMode: flexlabel.LineBreakWordWrap,
		Alignment:     flexlabel.AlignEnd,
	}))
	assert.Equal(t, "  Hi there\n", out.String())
}

func TestRunRendererMaxLines(t *testing.T) {
	var out bytes.Buffer
	r := NewRunRenderer(&out, 0)
	require.NoError(t, r.Render(plain("one\ntwo\nthree"), flexlabel.Paragraph{MaxLines: 2}))
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "one", strings.TrimSpace(lines[0]))
	assert.Equal(t, "two", strings.TrimSpace(lines[1]))
}

func TestRunRendererColorProfile(t *testing.T) {
	var out bytes.Buffer
	r := NewRunRenderer(&out, 0)
	r.SetColorProfile(termenv.TrueColor)
	require.NoError(t, r.Render(greeting(), flexlabel.Paragraph{}))

	assert.Contains(t, out.String(), "\x1b[")
	assert.Equal(t, "Hi there\n", stripANSI(out.String()))
	assert.True(t, strings.HasSuffix(out.String(), "\n"))
}

func TestRunRendererTapsStillRender(t *testing.T) {
	doc := flexlabel.Compile([]flexlabel.Span{
		flexlabel.NewSpan("tap me").OnTap(func() {}),
	}, flexlabel.DefaultBaseStyle())

	var out bytes.Buffer
	require.NoError(t, NewRunRenderer(&out, 0).Render(doc, flexlabel.Paragraph{}))
	assert.Equal(t, "tap me\n", out.String())
}

func TestRunRendererRunsKeepBaseStyle(t *testing.T) {
	red := colorful.Color{R: 1}
	bg := colorful.Color{G: 1}
	base := flexlabel.DefaultBaseStyle()
	base.Font = flexlabel.FontBold
	doc := flexlabel.Compile([]flexlabel.Span{
		flexlabel.NewSpan("aa "),
		flexlabel.NewSpan("red").Color(red),
		flexlabel.NewSpan(" cc"),
	}, base)

	var out bytes.Buffer
	r := NewRunRenderer(&out, 0)
	r.SetColorProfile(termenv.TrueColor)

	runs := r.Runs(doc, flexlabel.Paragraph{Background: &bg})
	require.Len(t, runs, 3)
	for _, run := range runs {
		assert.True(t, run.Style.GetBold(), run.Text)
		assert.Equal(t, lipgloss.Color("#00ff00"), run.Style.GetBackground(), run.Text)
	}
	assert.Equal(t, lipgloss.Color("#000000"), runs[2].Style.GetForeground())

	require.NoError(t, r.Render(doc, flexlabel.Paragraph{}))
	// The run after the red one is still bold once the red run has reset.
	assert.Regexp(t, `\x1b\[1;[0-9;]*m cc`, out.String())
	assert.Equal(t, "aa red cc\n", stripANSI(out.String()))
}

func TestRunRendererSpacingAndLineHeight(t *testing.T) {
	var out bytes.Buffer
	r := NewRunRenderer(&out, 0)
	doc := flexlabel.Compile([]flexlabel.Span{
		flexlabel.NewSpan("ab\n").Spaced(flexlabel.DefaultFontSize),
		flexlabel.NewSpan("c"),
	}, flexlabel.DefaultBaseStyle())

	runs := r.Runs(doc, flexlabel.Paragraph{LineHeight: 2})
	require.Len(t, runs, 2)
	assert.Equal(t, "a b \n\n", runs[0].Text)
	assert.Equal(t, "c", runs[1].Text)
}

func TestRunRendererVerticalAlignment(t *testing.T) {
	var out bytes.Buffer
	r := NewRunRenderer(&out, 0)
	r.SetHeight(3)
	require.NoError(t, r.Render(plain("x"), flexlabel.Paragraph{VerticalAlignment: flexlabel.AlignEnd}))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "", strings.TrimSpace(lines[0]))
	assert.Equal(t, "x", strings.TrimSpace(lines[2]))
}
