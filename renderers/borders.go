package renderers

import (
	"fmt"
	"strings"

	"github.com/computerdane/flexlabel"
	"github.com/mattn/go-runewidth"
)

type BordersSymbols struct {
	tl string
	tr string
	bl string
	br string
	v  string
	h  string
}

var BordersSymbols_Default = &BordersSymbols{
	tl: "┌",
	tr: "┐",
	bl: "└",
	br: "┘",
	v:  "│",
	h:  "─",
}

var BordersSymbols_Double = &BordersSymbols{
	tl: "╔",
	tr: "╗",
	bl: "╚",
	br: "╝",
	v:  "║",
	h:  "═",
}

var BordersSymbols_Rounded = &BordersSymbols{
	tl: "╭",
	tr: "╮",
	bl: "╰",
	br: "╯",
	v:  "│",
	h:  "─",
}

// Borders frames a terminal label. The title is centered on the top edge,
// or on the bottom edge when TitleIsOnBottom is set.
type Borders struct {
	Symbols         *BordersSymbols
	Title           string
	TitleIsOnBottom bool

	ColorFunc      func(a ...any) string
	TitleColorFunc func(a ...any) string
}

func (b *Borders) symbols() *BordersSymbols {
	if b.Symbols == nil {
		return BordersSymbols_Default
	}
	return b.Symbols
}

func (b *Borders) paint(f func(a ...any) string, s string) string {
	if f == nil || s == "" {
		return s
	}
	return f(s)
}

// horizontalBorderSection returns an edge of width columns between the
// corners, with the title centered in it when withTitle is set.
func (b *Borders) horizontalBorderSection(width int, withTitle bool) string {
	sym := b.symbols()
	if !withTitle || b.Title == "" {
		return b.paint(b.ColorFunc, strings.Repeat(sym.h, max(0, width)))
	}
	title := runewidth.Truncate(b.Title, max(0, width), "")
	titleWidth := runewidth.StringWidth(title)
	left := (width - titleWidth) / 2
	right := width - titleWidth - left
	return b.paint(b.ColorFunc, strings.Repeat(sym.h, left)) +
		b.paint(b.TitleColorFunc, title) +
		b.paint(b.ColorFunc, strings.Repeat(sym.h, right))
}

// draw writes the frame of box into builder. Rows and columns in escapes
// are one-based.
func (b *Borders) draw(builder *strings.Builder, box flexlabel.Box) {
	if box.Width() < 2 || box.Height() < 2 {
		return
	}
	sym := b.symbols()
	inner := box.Width() - 2

	builder.WriteString(fmt.Sprintf("\033[%d;%dH", box.Top()+1, box.Left()+1))
	builder.WriteString(b.paint(b.ColorFunc, sym.tl))
	builder.WriteString(b.horizontalBorderSection(inner, !b.TitleIsOnBottom))
	builder.WriteString(b.paint(b.ColorFunc, sym.tr))

	for row := box.Top() + 1; row < box.Bottom()-1; row++ {
		builder.WriteString(fmt.Sprintf("\033[%d;%dH", row+1, box.Left()+1))
		builder.WriteString(b.paint(b.ColorFunc, sym.v))
		builder.WriteString(fmt.Sprintf("\033[%d;%dH", row+1, box.Right()))
		builder.WriteString(b.paint(b.ColorFunc, sym.v))
	}

	builder.WriteString(fmt.Sprintf("\033[%d;%dH", box.Bottom(), box.Left()+1))
	builder.WriteString(b.paint(b.ColorFunc, sym.bl))
	builder.WriteString(b.horizontalBorderSection(inner, b.TitleIsOnBottom))
	builder.WriteString(b.paint(b.ColorFunc, sym.br))
}
