package renderers

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/computerdane/flexlabel"
	"github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"
)

// ANSIRenderer draws a document into a Box of the terminal, overlaying each
// range's style with fatih/color escapes. It remembers which document
// offset sits under each cell so pointer or keyboard input can be mapped
// back to a tap.
type ANSIRenderer struct {
	out io.Writer
	box flexlabel.Box

	borders *Borders
	focus   *TapFocus

	// baseColors emits the base foreground even for ranges that did not set
	// one; off by default so the terminal's own foreground shows through.
	baseColors bool
	forceColor bool

	inner flexlabel.Box
	hits  [][]int

	mu sync.Mutex
}

func NewANSIRenderer(out io.Writer, box flexlabel.Box) *ANSIRenderer {
	if out == nil {
		out = os.Stdout
	}
	return &ANSIRenderer{out: out, box: box, focus: NewTapFocus()}
}

func (r *ANSIRenderer) SetBox(box flexlabel.Box) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.box = box
}

func (r *ANSIRenderer) SetBorders(b *Borders) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.borders = b
}

func (r *ANSIRenderer) SetBaseColors(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.baseColors = on
}

// Force escapes even when the output is not a terminal.
func (r *ANSIRenderer) SetForceColor(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.forceColor = on
}

func (r *ANSIRenderer) Focus() *TapFocus {
	return r.focus
}

func (r *ANSIRenderer) Render(doc flexlabel.Document, p flexlabel.Paragraph) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.focus.update(doc)
	focusedRange, selectedColorFunc := r.focus.focused()

	// Use a string builder so we don't flood the output with writes
	var builder strings.Builder

	r.inner = r.box
	if r.borders != nil {
		r.borders.draw(&builder, r.box)
		r.inner = r.box.Inset(1)
	}

	width := r.inner.Width()
	height := r.inner.Height()
	r.hits = nil
	if width <= 0 || height <= 0 {
		_, err := io.WriteString(r.out, builder.String())
		return err
	}
	lines := Layout(doc, p, width)

	colorFuncs := make(map[int]func(a ...any) string)
	colorFuncFor := func(rng int) func(a ...any) string {
		if f, ok := colorFuncs[rng]; ok {
			return f
		}
		f := r.colorFunc(doc, rng, p.Background)
		if rng >= 0 && rng == focusedRange && selectedColorFunc != nil {
			inner := f
			f = func(a ...any) string { return selectedColorFunc(inner(a...)) }
		}
		colorFuncs[rng] = f
		return f
	}
	pad := r.colorFunc(doc, -1, p.Background)

	rows := Spread(lines, p.LineHeight)
	top := 0
	if free := height - len(rows); free > 0 {
		switch p.VerticalAlignment {
		case flexlabel.AlignCenter:
			top = free / 2
		case flexlabel.AlignEnd:
			top = free
		}
	}

	r.hits = make([][]int, height)
	for row := 0; row < height; row++ {
		r.hits[row] = make([]int, width)
		for col := range r.hits[row] {
			r.hits[row][col] = -1
		}

		// Position the cursor at the location of the current row
		builder.WriteString(fmt.Sprintf("\033[%d;%dH", r.inner.Top()+row+1, r.inner.Left()+1))

		used := 0
		if i := row - top; i >= 0 && i < len(rows) {
			line := rows[i]
			if line.Indent > 0 {
				builder.WriteString(pad(strings.Repeat(" ", line.Indent)))
			}
			used = line.Indent
			r.writeCells(&builder, row, line, colorFuncFor)
			used += line.Width()
		}
		if spaces := width - used; spaces > 0 {
			builder.WriteString(pad(strings.Repeat(" ", spaces)))
		}
	}

	if _, err := io.WriteString(r.out, builder.String()); err != nil {
		return fmt.Errorf("write ansi label: %w", err)
	}
	return nil
}

// writeCells writes one line, grouping consecutive cells of the same range
// into a single styled segment.
func (r *ANSIRenderer) writeCells(builder *strings.Builder, row int, line Line, colorFuncFor func(int) func(a ...any) string) {
	col := line.Indent
	var seg strings.Builder
	segRange := -2
	flush := func() {
		if seg.Len() > 0 {
			builder.WriteString(colorFuncFor(segRange)(seg.String()))
			seg.Reset()
		}
	}
	for _, c := range line.Cells {
		if c.Range != segRange {
			flush()
			segRange = c.Range
		}
		seg.WriteString(c.String())
		for i := 0; i < c.Width && col+i < len(r.hits[row]); i++ {
			r.hits[row][col+i] = c.Offset
		}
		col += c.Width
	}
	flush()
}

// colorFunc builds the color func for range rng, or for unstyled cells when
// rng is negative.
func (r *ANSIRenderer) colorFunc(doc flexlabel.Document, rng int, widgetBg *colorful.Color) func(a ...any) string {
	var st flexlabel.Style
	explicitFg := false
	if rng >= 0 {
		st = doc.Style(rng)
		explicitFg = doc.Ranges[rng].Attrs.Foreground != nil
	} else {
		st = flexlabel.Attributes{}.Resolve(doc.Base)
	}

	c := color.New()
	if st.Font.Has(flexlabel.FontBold) {
		c.Add(color.Bold)
	}
	if st.Font.Has(flexlabel.FontItalic) {
		c.Add(color.Italic)
	}
	if st.Decorations.Has(flexlabel.DecorationUnderline) {
		c.Add(color.Underline)
	}
	if st.Decorations.Has(flexlabel.DecorationStrikethrough) {
		c.Add(color.CrossedOut)
	}
	if explicitFg || r.baseColors {
		fr, fg, fb := st.Foreground.RGB255()
		c.AddRGB(int(fr), int(fg), int(fb))
	}
	bg := st.Background
	if bg == nil {
		bg = widgetBg
	}
	if bg != nil {
		br, bgg, bb := bg.RGB255()
		c.AddBgRGB(int(br), int(bgg), int(bb))
	}
	if r.forceColor {
		c.EnableColor()
	}
	return c.SprintFunc()
}

// OffsetAt returns the document offset drawn at a zero-based screen row
// and column by the last Render.
func (r *ANSIRenderer) OffsetAt(row, col int) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inner.Contains(row, col) {
		return 0, false
	}
	row -= r.inner.Top()
	col -= r.inner.Left()
	if row >= len(r.hits) || col >= len(r.hits[row]) {
		return 0, false
	}
	offset := r.hits[row][col]
	return offset, offset >= 0
}
