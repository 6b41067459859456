package flexlabel

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
)

var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#008000",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
	"gray":    "#808080",
	"grey":    "#808080",
	"orange":  "#ffa500",
	"purple":  "#800080",
}

// ParseColor accepts "#rgb", "#rrggbb" or a basic color name.
func ParseColor(s string) (colorful.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%q: %w", s, ErrInvalidColor)
	}
	return c, nil
}

// HexColor is a color as written in a label description. "transparent"
// and "none" decode to a color that is absent.
type HexColor struct {
	Color colorful.Color
	None  bool
}

func (h *HexColor) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "", "none", "transparent":
		*h = HexColor{None: true}
		return nil
	}
	c, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*h = HexColor{Color: c}
	return nil
}

// Ptr returns nil for an absent color.
func (h *HexColor) Ptr() *colorful.Color {
	if h == nil || h.None {
		return nil
	}
	c := h.Color
	return &c
}

// Config is the TOML description of a label.
type Config struct {
	Text                string         `toml:"text"`
	TextColor           *HexColor      `toml:"text_color"`
	BackgroundColor     *HexColor      `toml:"background_color"`
	FontAttributes      FontAttributes `toml:"font_attributes"`
	FontSize            float64        `toml:"font_size"`
	FontFamily          string         `toml:"font_family"`
	TextDecorations     Decorations    `toml:"text_decorations"`
	TextTransform       TextTransform  `toml:"text_transform"`
	LineBreakMode       LineBreakMode  `toml:"line_break_mode"`
	MaxLines            int            `toml:"max_lines"`
	HorizontalAlignment TextAlignment  `toml:"horizontal_alignment"`
	VerticalAlignment   TextAlignment  `toml:"vertical_alignment"`
	LineHeight          float64        `toml:"line_height"`
	CharacterSpacing    float64        `toml:"character_spacing"`
	Spans               []SpanConfig   `toml:"spans"`
}

type SpanConfig struct {
	Text             string         `toml:"text"`
	TextTransform    TextTransform  `toml:"text_transform"`
	FontAttributes   FontAttributes `toml:"font_attributes"`
	FontSize         float64        `toml:"font_size"`
	TextColor        *HexColor      `toml:"text_color"`
	BackgroundColor  *HexColor      `toml:"background_color"`
	TextDecorations  Decorations    `toml:"text_decorations"`
	CharacterSpacing float64        `toml:"character_spacing"`
	OnTap            string         `toml:"on_tap"`
}

// LoadConfig decodes a label description. Unknown keys are rejected so
// typos do not silently drop styling.
func LoadConfig(r io.Reader) (Config, error) {
	var c Config
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&c); err != nil {
		return Config{}, fmt.Errorf("decode label config: %w", err)
	}
	return c, nil
}

func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open label config: %w", err)
	}
	defer f.Close()

	return LoadConfig(f)
}

// BuildSpans converts the configured spans. Spans with an on_tap action
// call onTap with that action name. A nil onTap leaves spans inert.
func (c Config) BuildSpans(onTap func(action string)) []Span {
	if len(c.Spans) == 0 {
		return nil
	}
	spans := make([]Span, 0, len(c.Spans))
	for _, sc := range c.Spans {
		s := Span{
			Text:        sc.Text,
			Transform:   sc.TextTransform,
			Font:        sc.FontAttributes,
			FontSize:    sc.FontSize,
			Foreground:  sc.TextColor.Ptr(),
			Background:  sc.BackgroundColor.Ptr(),
			Decorations: sc.TextDecorations,

			CharacterSpacing: sc.CharacterSpacing,
		}
		if sc.OnTap != "" && onTap != nil {
			action := sc.OnTap
			s = s.OnTap(func() { onTap(action) })
		}
		spans = append(spans, s)
	}
	return spans
}

// Apply copies the configuration onto l.
func (c Config) Apply(l *Label, onTap func(action string)) {
	l.SetText(c.Text)
	if fg := c.TextColor.Ptr(); fg != nil {
		l.SetTextColor(*fg)
	}
	l.SetBackgroundColor(c.BackgroundColor.Ptr())
	l.SetFontAttributes(c.FontAttributes)
	l.SetFontSize(c.FontSize)
	l.SetFontFamily(c.FontFamily)
	l.SetTextDecorations(c.TextDecorations)
	l.SetTextTransform(c.TextTransform)
	l.SetLineBreakMode(c.LineBreakMode)
	if c.MaxLines != 0 {
		l.SetMaxLines(c.MaxLines)
	}
	l.SetHorizontalTextAlignment(c.HorizontalAlignment)
	l.SetVerticalTextAlignment(c.VerticalAlignment)
	l.SetLineHeight(c.LineHeight)
	l.SetCharacterSpacing(c.CharacterSpacing)
	l.SetFormattedText(c.BuildSpans(onTap))
}
