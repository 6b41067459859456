package renderers

import (
	"math"
	"strings"
	"unicode"

	"github.com/computerdane/flexlabel"
	"github.com/mattn/go-runewidth"
)

const ellipsis = '…'

// A Cell is one rune of laid-out text.
type Cell struct {
	Rune   rune
	Width  int // terminal columns, Gap included
	Gap    int // blank columns after the rune from character spacing
	Offset int // UTF-16 offset in the document, -1 for inserted cells
	Range  int // index into Document.Ranges, -1 for inserted cells
}

func (c Cell) String() string {
	r := c.Rune
	if r == '\t' {
		r = ' '
	}
	if c.Gap == 0 {
		return string(r)
	}
	return string(r) + strings.Repeat(" ", c.Gap)
}

type Line struct {
	Cells  []Cell
	Indent int // alignment padding before the first cell
}

func (l Line) Width() int {
	return cellsWidth(l.Cells)
}

func (l Line) String() string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", l.Indent))
	for _, c := range l.Cells {
		b.WriteString(c.String())
	}
	return b.String()
}

// Layout breaks doc into lines no wider than width columns according to the
// paragraph's line break mode, max lines and alignment. A width <= 0 means
// unbounded: only hard line breaks apply.
func Layout(doc flexlabel.Document, p flexlabel.Paragraph, width int) []Line {
	var lines []Line
	for _, par := range paragraphs(documentCells(doc)) {
		for _, cells := range breakParagraph(par, p.LineBreakMode, width) {
			lines = append(lines, Line{Cells: cells})
		}
	}

	if p.MaxLines > 0 && len(lines) > p.MaxLines {
		lines = lines[:p.MaxLines]
		if p.LineBreakMode.Truncates() || p.LineBreakMode == flexlabel.LineBreakWordWrap {
			last := &lines[len(lines)-1]
			if !elided(last.Cells) {
				last.Cells = markElided(last.Cells, width)
			}
		}
	}

	if width > 0 {
		for i := range lines {
			free := max(0, width-lines[i].Width())
			switch p.Alignment {
			case flexlabel.AlignCenter:
				lines[i].Indent = free / 2
			case flexlabel.AlignEnd:
				lines[i].Indent = free
			}
		}
	}
	return lines
}

// Spread returns the rows lines occupy at the given line height, a multiple
// of one row: taller lines are followed by blank rows.
func Spread(lines []Line, lineHeight float64) []Line {
	per := int(math.Round(lineHeight))
	if per <= 1 || len(lines) < 2 {
		return lines
	}
	rows := make([]Line, 0, (len(lines)-1)*per+1)
	for i, l := range lines {
		rows = append(rows, l)
		if i < len(lines)-1 {
			for range per - 1 {
				rows = append(rows, Line{})
			}
		}
	}
	return rows
}

// SpacingColumns converts a style's character spacing into whole terminal
// columns, one column per font size of spacing. Negative spacing cannot
// overlap cells and yields 0.
func SpacingColumns(st flexlabel.Style) int {
	if st.CharacterSpacing <= 0 || st.FontSize <= 0 {
		return 0
	}
	return int(math.Round(st.CharacterSpacing / st.FontSize))
}

func documentCells(doc flexlabel.Document) []Cell {
	cells := make([]Cell, 0, len(doc.Text))
	baseGap := SpacingColumns(flexlabel.Attributes{}.Resolve(doc.Base))
	gaps := make(map[int]int)
	gapFor := func(rng int) int {
		if rng < 0 {
			return baseGap
		}
		g, ok := gaps[rng]
		if !ok {
			g = SpacingColumns(doc.Style(rng))
			gaps[rng] = g
		}
		return g
	}

	offset, ri := 0, 0
	for _, r := range doc.Text {
		for ri < len(doc.Ranges) && doc.Ranges[ri].End <= offset {
			ri++
		}
		rng := -1
		if ri < len(doc.Ranges) && doc.Ranges[ri].Start <= offset {
			rng = ri
		}
		c := Cell{Rune: r, Width: runeWidth(r), Offset: offset, Range: rng}
		if r != '\n' && r != '\r' {
			c.Gap = gapFor(rng)
			c.Width += c.Gap
		}
		cells = append(cells, c)
		offset += flexlabel.RuneUnits(r)
	}
	return cells
}

func runeWidth(r rune) int {
	if r == '\t' {
		return 1
	}
	return runewidth.RuneWidth(r)
}

// paragraphs splits cells on hard line breaks, dropping the break itself.
func paragraphs(cells []Cell) [][]Cell {
	pars := [][]Cell{nil}
	for _, c := range cells {
		switch c.Rune {
		case '\n':
			pars = append(pars, nil)
		case '\r':
		default:
			pars[len(pars)-1] = append(pars[len(pars)-1], c)
		}
	}
	if len(cells) == 0 {
		return nil
	}
	return pars
}

func breakParagraph(cells []Cell, mode flexlabel.LineBreakMode, width int) [][]Cell {
	if width <= 0 {
		return [][]Cell{cells}
	}
	switch mode {
	case flexlabel.LineBreakNoWrap:
		return [][]Cell{clip(cells, width)}
	case flexlabel.LineBreakCharacterWrap:
		return wrapChars(cells, width)
	case flexlabel.LineBreakWordWrap:
		return wrapWords(cells, width)
	case flexlabel.LineBreakHeadTruncation:
		return [][]Cell{elideHead(cells, width)}
	case flexlabel.LineBreakMiddleTruncation:
		return [][]Cell{elideMiddle(cells, width)}
	default:
		return [][]Cell{elideTail(cells, width)}
	}
}

func cellsWidth(cells []Cell) int {
	w := 0
	for _, c := range cells {
		w += c.Width
	}
	return w
}

// clip keeps the longest prefix of cells that fits in width.
func clip(cells []Cell, width int) []Cell {
	w := 0
	for i, c := range cells {
		if w+c.Width > width {
			return cells[:i]
		}
		w += c.Width
	}
	return cells
}

// suffix keeps the longest suffix of cells that fits in width.
func suffix(cells []Cell, width int) []Cell {
	w := 0
	for i := len(cells) - 1; i >= 0; i-- {
		if w+cells[i].Width > width {
			return cells[i+1:]
		}
		w += cells[i].Width
	}
	return cells
}

func wrapChars(cells []Cell, width int) [][]Cell {
	var lines [][]Cell
	var line []Cell
	w := 0
	for _, c := range cells {
		// A cell wider than the line still gets a line of its own.
		if w+c.Width > width && len(line) > 0 {
			lines = append(lines, line)
			line, w = nil, 0
		}
		line = append(line, c)
		w += c.Width
	}
	return append(lines, line)
}

func wrapWords(cells []Cell, width int) [][]Cell {
	var lines [][]Cell
	var line []Cell
	w := 0
	lastSpace := -1

next:
	for _, c := range cells {
		for w+c.Width > width && len(line) > 0 {
			switch {
			case unicode.IsSpace(c.Rune):
				// The break consumes the space.
				lines = append(lines, line)
				line, w, lastSpace = nil, 0, -1
				continue next
			case lastSpace >= 0:
				lines = append(lines, line[:lastSpace])
				line = append([]Cell(nil), line[lastSpace+1:]...)
				w = cellsWidth(line)
			default:
				lines = append(lines, line)
				line, w = nil, 0
			}
			lastSpace = -1
		}
		if unicode.IsSpace(c.Rune) {
			lastSpace = len(line)
		}
		line = append(line, c)
		w += c.Width
	}
	return append(lines, line)
}

func ellipsisCell() Cell {
	return Cell{Rune: ellipsis, Width: 1, Offset: -1, Range: -1}
}

func elideTail(cells []Cell, width int) []Cell {
	if cellsWidth(cells) <= width {
		return cells
	}
	kept := clip(cells, width-1)
	return append(append([]Cell(nil), kept...), ellipsisCell())
}

// markElided ends a line with an ellipsis because lines after it were
// dropped, even when the line itself fits.
func markElided(cells []Cell, width int) []Cell {
	if width > 0 {
		cells = clip(cells, width-1)
	}
	return append(append([]Cell(nil), cells...), ellipsisCell())
}

func elideHead(cells []Cell, width int) []Cell {
	if cellsWidth(cells) <= width {
		return cells
	}
	return append([]Cell{ellipsisCell()}, suffix(cells, width-1)...)
}

func elideMiddle(cells []Cell, width int) []Cell {
	if cellsWidth(cells) <= width {
		return cells
	}
	avail := width - 1
	head := clip(cells, avail-avail/2)
	tail := suffix(cells[len(head):], avail-cellsWidth(head))
	out := append(append([]Cell(nil), head...), ellipsisCell())
	return append(out, tail...)
}

// elided reports whether the line already shows an ellipsis anywhere.
func elided(cells []Cell) bool {
	for _, c := range cells {
		if c.Offset < 0 {
			return true
		}
	}
	return false
}
