package flexlabel

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

type TextTransform int

const (
	TransformNone TextTransform = iota
	TransformUppercase
	TransformLowercase
)

// Apply returns text with the transform applied. Case mapping is done rune by
// rune and ignores the locale, so title casing is intentionally absent.
func (t TextTransform) Apply(text string) string {
	switch t {
	case TransformUppercase:
		return strings.ToUpper(text)
	case TransformLowercase:
		return strings.ToLower(text)
	default:
		return text
	}
}

func (t TextTransform) String() string {
	switch t {
	case TransformUppercase:
		return "uppercase"
	case TransformLowercase:
		return "lowercase"
	default:
		return "none"
	}
}

func (t *TextTransform) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "", "none":
		*t = TransformNone
	case "uppercase", "upper":
		*t = TransformUppercase
	case "lowercase", "lower":
		*t = TransformLowercase
	default:
		return fmt.Errorf("text transform %q: %w", b, ErrUnknownValue)
	}
	return nil
}

// FontAttributes is a bit set; bold and italic combine.
type FontAttributes uint8

const (
	FontBold FontAttributes = 1 << iota
	FontItalic

	FontNone FontAttributes = 0
)

func (f FontAttributes) Has(attr FontAttributes) bool {
	return f&attr != 0
}

func (f FontAttributes) String() string {
	return flagString(uint8(f), []string{"bold", "italic"})
}

func (f *FontAttributes) UnmarshalText(b []byte) error {
	v, err := parseFlags(string(b), map[string]uint8{
		"bold":   uint8(FontBold),
		"italic": uint8(FontItalic),
	})
	if err != nil {
		return fmt.Errorf("font attributes: %w", err)
	}
	*f = FontAttributes(v)
	return nil
}

// Decorations is a bit set of line decorations.
type Decorations uint8

const (
	DecorationUnderline Decorations = 1 << iota
	DecorationStrikethrough

	DecorationNone Decorations = 0
)

func (d Decorations) Has(deco Decorations) bool {
	return d&deco != 0
}

func (d Decorations) String() string {
	return flagString(uint8(d), []string{"underline", "strikethrough"})
}

func (d *Decorations) UnmarshalText(b []byte) error {
	v, err := parseFlags(string(b), map[string]uint8{
		"underline":     uint8(DecorationUnderline),
		"strikethrough": uint8(DecorationStrikethrough),
	})
	if err != nil {
		return fmt.Errorf("text decorations: %w", err)
	}
	*d = Decorations(v)
	return nil
}

// TapHandler is the zero-argument action bound to a span.
type TapHandler func()

// A Span is one contiguous, independently styled fragment of rich text.
// Zero values mean "unset": no transform, no font flags, FontSize <= 0,
// nil colours, no decorations, no extra spacing and no taps.
type Span struct {
	Text      string
	Transform TextTransform

	Font     FontAttributes
	FontSize float64

	Foreground *colorful.Color
	Background *colorful.Color

	Decorations Decorations

	// CharacterSpacing is extra space after each character in device
	// units; 0 inherits the label's spacing.
	CharacterSpacing float64

	// Only the first handler is honoured.
	Taps []TapHandler
}

// NewSpan returns an unstyled span holding text.
func NewSpan(text string) Span {
	return Span{Text: text}
}

func (s Span) Bold() Span {
	s.Font |= FontBold
	return s
}

func (s Span) Italic() Span {
	s.Font |= FontItalic
	return s
}

func (s Span) Underline() Span {
	s.Decorations |= DecorationUnderline
	return s
}

func (s Span) Strikethrough() Span {
	s.Decorations |= DecorationStrikethrough
	return s
}

func (s Span) Upper() Span {
	s.Transform = TransformUppercase
	return s
}

func (s Span) Lower() Span {
	s.Transform = TransformLowercase
	return s
}

func (s Span) Size(size float64) Span {
	s.FontSize = size
	return s
}

func (s Span) Color(c colorful.Color) Span {
	s.Foreground = &c
	return s
}

func (s Span) OnBackground(c colorful.Color) Span {
	s.Background = &c
	return s
}

// Spaced sets the span's character spacing.
func (s Span) Spaced(spacing float64) Span {
	s.CharacterSpacing = spacing
	return s
}

// OnTap registers a tap handler. Registering more than one is allowed but
// only the first is ever used.
func (s Span) OnTap(h TapHandler) Span {
	s.Taps = append(s.Taps[:len(s.Taps):len(s.Taps)], h)
	return s
}

func (s Span) tap() TapHandler {
	if len(s.Taps) == 0 {
		return nil
	}
	return s.Taps[0]
}

// BaseStyle is the fully populated fallback applied to unset span fields.
// It has no background: an absent span background renders no background.
type BaseStyle struct {
	Transform   TextTransform
	Font        FontAttributes
	FontSize    float64
	Foreground  colorful.Color
	Decorations Decorations

	CharacterSpacing float64
}

const DefaultFontSize = 14.0

func DefaultBaseStyle() BaseStyle {
	return BaseStyle{
		FontSize:   DefaultFontSize,
		Foreground: colorful.Color{},
	}
}

func flagString(v uint8, names []string) string {
	var parts []string
	for i, name := range names {
		if v&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

func parseFlags(s string, names map[string]uint8) (uint8, error) {
	var v uint8
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' || r == ' ' }) {
		part = strings.ToLower(part)
		if part == "none" {
			continue
		}
		bit, ok := names[part]
		if !ok {
			return 0, fmt.Errorf("%q: %w", part, ErrUnknownValue)
		}
		v |= bit
	}
	return v, nil
}
