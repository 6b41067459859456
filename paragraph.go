package flexlabel

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

type LineBreakMode int

const (
	LineBreakTailTruncation LineBreakMode = iota
	LineBreakNoWrap
	LineBreakWordWrap
	LineBreakCharacterWrap
	LineBreakHeadTruncation
	LineBreakMiddleTruncation
)

var lineBreakNames = map[LineBreakMode]string{
	LineBreakTailTruncation:   "tail_truncation",
	LineBreakNoWrap:           "no_wrap",
	LineBreakWordWrap:         "word_wrap",
	LineBreakCharacterWrap:    "character_wrap",
	LineBreakHeadTruncation:   "head_truncation",
	LineBreakMiddleTruncation: "middle_truncation",
}

func (m LineBreakMode) String() string {
	if s, ok := lineBreakNames[m]; ok {
		return s
	}
	return fmt.Sprintf("LineBreakMode(%d)", int(m))
}

// Truncates reports whether the mode keeps each paragraph on one line and
// elides the overflow.
func (m LineBreakMode) Truncates() bool {
	return m == LineBreakHeadTruncation || m == LineBreakTailTruncation || m == LineBreakMiddleTruncation
}

func (m *LineBreakMode) UnmarshalText(b []byte) error {
	s := strings.ReplaceAll(strings.ToLower(string(b)), "-", "_")
	for mode, name := range lineBreakNames {
		if name == s {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("line break mode %q: %w", b, ErrUnknownValue)
}

// TextAlignment places text along an axis. It is used for both the
// horizontal and the vertical alignment of a paragraph.
type TextAlignment int

const (
	AlignStart TextAlignment = iota
	AlignCenter
	AlignEnd
)

func (a TextAlignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	default:
		return "start"
	}
}

func (a *TextAlignment) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "", "start", "left", "top":
		*a = AlignStart
	case "center":
		*a = AlignCenter
	case "end", "right", "bottom":
		*a = AlignEnd
	default:
		return fmt.Errorf("text alignment %q: %w", b, ErrUnknownValue)
	}
	return nil
}

// Paragraph holds the label properties that shape the whole block rather
// than individual ranges.
type Paragraph struct {
	LineBreakMode     LineBreakMode
	MaxLines          int // <= 0 means unlimited
	Alignment         TextAlignment
	VerticalAlignment TextAlignment
	LineHeight        float64 // multiple of the font's line height, <= 0 means default
	FontFamily        string
	Background        *colorful.Color // widget background, nil when transparent
}

// Renderer is implemented once per output backend. Render receives a
// finished document and must not retain it past the call.
type Renderer interface {
	Render(doc Document, p Paragraph) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(doc Document, p Paragraph) error

func (f RendererFunc) Render(doc Document, p Paragraph) error {
	return f(doc, p)
}
