package flexlabel

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Attributes are the style and interaction attributes of one range. Only
// the fields a span actually set are present; use Resolve to merge them
// with the base style.
type Attributes struct {
	Font        FontAttributes
	FontSize    float64 // 0 when the span did not override the size
	Foreground  *colorful.Color
	Background  *colorful.Color
	Decorations Decorations
	Tap         TapHandler

	CharacterSpacing float64 // 0 when the span did not override it
}

// Empty reports whether the range carries no attribute at all.
func (a Attributes) Empty() bool {
	return a.Font == FontNone && a.FontSize == 0 && a.Foreground == nil &&
		a.Background == nil && a.Decorations == DecorationNone && a.Tap == nil &&
		a.CharacterSpacing == 0
}

// Style is the effective style of a range once the base style is applied.
type Style struct {
	Font        FontAttributes
	FontSize    float64
	Foreground  colorful.Color
	Background  *colorful.Color // nil means no background
	Decorations Decorations
	Tap         TapHandler

	CharacterSpacing float64
}

// Resolve merges a with base. Font flags and decorations are OR'd onto the
// base. Size, foreground and character spacing fall back to it; background
// never does.
func (a Attributes) Resolve(base BaseStyle) Style {
	st := Style{
		Font:        base.Font | a.Font,
		FontSize:    base.FontSize,
		Foreground:  base.Foreground,
		Background:  a.Background,
		Decorations: base.Decorations | a.Decorations,
		Tap:         a.Tap,

		CharacterSpacing: base.CharacterSpacing,
	}
	if a.CharacterSpacing != 0 {
		st.CharacterSpacing = a.CharacterSpacing
	}
	if a.FontSize > 0 {
		st.FontSize = a.FontSize
	}
	if a.Foreground != nil {
		st.Foreground = *a.Foreground
	}
	return st
}

// Range addresses [Start, End) of a Document's text in UTF-16 code units.
type Range struct {
	Start int
	End   int
	Attrs Attributes
}

func (r Range) Len() int {
	return r.End - r.Start
}

// Compile flattens spans into a single text buffer and one range per span,
// in span order. Each span's transform is applied before its offsets are
// computed. Compile never fails: non-positive font sizes are ignored and
// unset fields simply produce no attribute. Zero-length spans keep their
// (k, k) range so ranges stay 1:1 with spans.
func Compile(spans []Span, base BaseStyle) Document {
	doc := Document{Base: base}
	if len(spans) == 0 {
		return doc
	}

	var text strings.Builder
	doc.Ranges = make([]Range, 0, len(spans))

	offset := 0
	for _, s := range spans {
		transformed := s.Transform.Apply(s.Text)
		start := offset
		end := start + utf16Len(transformed)
		text.WriteString(transformed)
		offset = end

		doc.Ranges = append(doc.Ranges, Range{
			Start: start,
			End:   end,
			Attrs: spanAttributes(s),
		})
	}
	doc.Text = text.String()
	return doc
}

func spanAttributes(s Span) Attributes {
	attrs := Attributes{
		Font:        s.Font,
		Decorations: s.Decorations,
		Tap:         s.tap(),

		CharacterSpacing: s.CharacterSpacing,
	}
	if s.FontSize > 0 {
		attrs.FontSize = s.FontSize
	}
	// Copy colours so the document never aliases caller memory.
	if s.Foreground != nil {
		fg := *s.Foreground
		attrs.Foreground = &fg
	}
	if s.Background != nil {
		bg := *s.Background
		attrs.Background = &bg
	}
	return attrs
}
