package renderers

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/computerdane/flexlabel"
	"github.com/computerdane/flexlabel/internal/logging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// A StyledRun is one non-empty range of a document as a discrete styled
// text object.
type StyledRun struct {
	Text  string
	Style lipgloss.Style
	Range flexlabel.Range
}

func (s StyledRun) String() string {
	return s.Style.Render(s.Text)
}

// RunRenderer builds one lipgloss style per run and writes the joined runs
// inside a block sized from the paragraph. Every run carries its full
// resolved style, since each styled run ends with a reset. Runs cannot be
// tapped; tap ranges are rendered but reported in the log.
type RunRenderer struct {
	out      io.Writer
	renderer *lipgloss.Renderer
	width    int
	height   int

	mu sync.Mutex
}

func NewRunRenderer(out io.Writer, width int) *RunRenderer {
	if out == nil {
		out = os.Stdout
	}
	return &RunRenderer{out: out, renderer: lipgloss.NewRenderer(out), width: width}
}

func (r *RunRenderer) SetWidth(width int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.width = width
}

// SetHeight gives the block a fixed height in rows, which the paragraph's
// vertical alignment positions the text in. 0 sizes the block to the text.
func (r *RunRenderer) SetHeight(height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.height = height
}

// SetColorProfile overrides the profile detected from the output.
func (r *RunRenderer) SetColorProfile(p termenv.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.renderer.SetColorProfile(p)
}

// Runs returns the styled runs of doc. Each style is the range's attributes
// resolved against the base style, with the widget background behind runs
// that set none. Character spacing becomes blank columns after each
// character and line height becomes blank rows after each line break.
func (r *RunRenderer) Runs(doc flexlabel.Document, p flexlabel.Paragraph) []StyledRun {
	runs := doc.Runs()
	styled := make([]StyledRun, 0, len(runs))
	for _, run := range runs {
		st := doc.Style(run.Index)
		style := r.renderer.NewStyle().
			Bold(st.Font.Has(flexlabel.FontBold)).
			Italic(st.Font.Has(flexlabel.FontItalic)).
			Underline(st.Decorations.Has(flexlabel.DecorationUnderline)).
			Strikethrough(st.Decorations.Has(flexlabel.DecorationStrikethrough)).
			Foreground(hexColor(st.Foreground))
		if bg := cmp.Or(st.Background, p.Background); bg != nil {
			style = style.Background(hexColor(*bg))
		}
		if st.Tap != nil {
			logging.Warn("tap handler ignored by run renderer", "start", run.Start, "end", run.End)
		}
		text := spaceOut(run.Text, SpacingColumns(st), p.LineHeight)
		styled = append(styled, StyledRun{Text: text, Style: style, Range: run.Range})
	}
	return styled
}

func spaceOut(text string, gap int, lineHeight float64) string {
	breaks := max(1, int(math.Round(lineHeight)))
	if gap == 0 && breaks == 1 {
		return text
	}
	var b strings.Builder
	for _, c := range text {
		switch c {
		case '\n':
			b.WriteString(strings.Repeat("\n", breaks))
		case '\r':
			b.WriteRune(c)
		default:
			b.WriteRune(c)
			b.WriteString(strings.Repeat(" ", gap))
		}
	}
	return b.String()
}

func (r *RunRenderer) Render(doc flexlabel.Document, p flexlabel.Paragraph) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	for _, run := range r.Runs(doc, p) {
		b.WriteString(run.String())
	}

	block := r.block(p)
	if _, err := io.WriteString(r.out, block.Render(b.String())+"\n"); err != nil {
		return fmt.Errorf("write label runs: %w", err)
	}
	return nil
}

// block carries only layout and the widget background; text styles live on
// the runs.
func (r *RunRenderer) block(p flexlabel.Paragraph) lipgloss.Style {
	block := r.renderer.NewStyle()
	if p.Background != nil {
		block = block.Background(hexColor(*p.Background))
	}

	switch p.Alignment {
	case flexlabel.AlignCenter:
		block = block.Align(lipgloss.Center)
	case flexlabel.AlignEnd:
		block = block.Align(lipgloss.Right)
	default:
		block = block.Align(lipgloss.Left)
	}

	if r.width > 0 {
		switch p.LineBreakMode {
		case flexlabel.LineBreakWordWrap, flexlabel.LineBreakCharacterWrap:
			block = block.Width(r.width)
		default:
			block = block.MaxWidth(r.width)
		}
	}
	if r.height > 0 {
		block = block.Height(r.height).MaxHeight(r.height)
		switch p.VerticalAlignment {
		case flexlabel.AlignCenter:
			block = block.AlignVertical(lipgloss.Center)
		case flexlabel.AlignEnd:
			block = block.AlignVertical(lipgloss.Bottom)
		default:
			block = block.AlignVertical(lipgloss.Top)
		}
	}
	if p.MaxLines > 0 {
		block = block.MaxHeight(p.MaxLines)
	}
	return block
}

func hexColor(c colorful.Color) lipgloss.Color {
	return lipgloss.Color(c.Clamped().Hex())
}
