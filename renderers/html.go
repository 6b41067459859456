package renderers

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/computerdane/flexlabel"
	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLRenderer writes a document as an HTML fragment: a container div
// carrying the base style and paragraph layout, and one span per non-empty
// range. Tappable ranges are wrapped in an anchor whose data-tap attribute
// can be passed back to Activate.
type HTMLRenderer struct {
	out    io.Writer
	taps   map[string]flexlabel.TapHandler
	ranges map[string]flexlabel.Range

	mu sync.Mutex
}

func NewHTMLRenderer(out io.Writer) *HTMLRenderer {
	if out == nil {
		out = os.Stdout
	}
	return &HTMLRenderer{
		out:    out,
		taps:   make(map[string]flexlabel.TapHandler),
		ranges: make(map[string]flexlabel.Range),
	}
}

func (r *HTMLRenderer) Render(doc flexlabel.Document, p flexlabel.Paragraph) error {
	node := r.Node(doc, p)
	if err := html.Render(r.out, node); err != nil {
		return fmt.Errorf("write html label: %w", err)
	}
	return nil
}

// Node builds the fragment for doc without writing it. Tap ids handed out
// by a previous call stop working.
func (r *HTMLRenderer) Node(doc flexlabel.Document, p flexlabel.Paragraph) *html.Node {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.taps)
	clear(r.ranges)

	div := element(atom.Div, css{
		{"color", doc.Base.Foreground.Hex()},
		{"font-size", px(doc.Base.FontSize)},
		{"font-family", fontFamily(p.FontFamily)},
		{"letter-spacing", spacing(doc.Base.CharacterSpacing)},
	}.with(fontCSS(doc.Base.Font)...).with(decorationCSS(doc.Base.Decorations)...).with(paragraphCSS(p)...))
	div.Attr = append(div.Attr, html.Attribute{Key: "class", Val: "flexlabel"})

	for _, run := range doc.Runs() {
		child := r.runNode(run)
		if run.Attrs.Tap != nil {
			id := uuid.NewString()
			r.taps[id] = run.Attrs.Tap
			r.ranges[id] = run.Range
			a := element(atom.A, nil)
			a.Attr = append(a.Attr,
				html.Attribute{Key: "href", Val: "#"},
				html.Attribute{Key: "data-tap", Val: id},
			)
			a.AppendChild(child)
			child = a
		}
		div.AppendChild(child)
	}
	return div
}

func (r *HTMLRenderer) runNode(run flexlabel.Run) *html.Node {
	text := &html.Node{Type: html.TextNode, Data: run.Text}

	attrs := run.Attrs
	var style css
	style = style.with(fontCSS(attrs.Font)...)
	style = style.with(decorationCSS(attrs.Decorations)...)
	if attrs.FontSize > 0 {
		style = append(style, declaration{"font-size", px(attrs.FontSize)})
	}
	if attrs.Foreground != nil {
		style = append(style, declaration{"color", attrs.Foreground.Hex()})
	}
	if attrs.Background != nil {
		style = append(style, declaration{"background-color", attrs.Background.Hex()})
	}
	if attrs.CharacterSpacing != 0 {
		style = append(style, declaration{"letter-spacing", spacing(attrs.CharacterSpacing)})
	}
	if len(style) == 0 && attrs.Tap == nil {
		return text
	}

	span := element(atom.Span, style)
	span.AppendChild(text)
	return span
}

// TapID returns the id the last render gave the tap range containing
// offset, a UTF-16 position in the document.
func (r *HTMLRenderer) TapID(offset int) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, rng := range r.ranges {
		if rng.Start <= offset && offset < rng.End {
			return id, true
		}
	}
	return "", false
}

// Activate runs the tap handler registered under id by the last render.
func (r *HTMLRenderer) Activate(id string) bool {
	r.mu.Lock()
	tap, ok := r.taps[id]
	r.mu.Unlock()

	if !ok {
		return false
	}
	tap()
	return true
}

type declaration struct {
	property string
	value    string
}

type css []declaration

func (c css) with(d ...declaration) css {
	return append(c, d...)
}

func (c css) String() string {
	var b strings.Builder
	for _, d := range c {
		if d.value == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(d.property)
		b.WriteString(": ")
		b.WriteString(d.value)
	}
	return b.String()
}

func element(a atom.Atom, style css) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if s := style.String(); s != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: s})
	}
	return n
}

func px(size float64) string {
	return fmt.Sprintf("%gpx", size)
}

func spacing(v float64) string {
	if v == 0 {
		return ""
	}
	return px(v)
}

var genericFamilies = map[string]bool{
	"serif": true, "sans-serif": true, "monospace": true, "cursive": true,
	"fantasy": true, "system-ui": true, "math": true, "emoji": true,
}

// fontFamily renders a comma separated family list with every non-generic
// name as a CSS string, so the value cannot end the declaration.
func fontFamily(family string) string {
	var names []string
	for _, name := range strings.Split(family, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if genericFamilies[strings.ToLower(name)] {
			names = append(names, strings.ToLower(name))
			continue
		}
		name = strings.Trim(name, `"'`)
		name = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", " ", "\r", " ").Replace(name)
		names = append(names, `"`+name+`"`)
	}
	return strings.Join(names, ", ")
}

func fontCSS(f flexlabel.FontAttributes) []declaration {
	var d []declaration
	if f.Has(flexlabel.FontBold) {
		d = append(d, declaration{"font-weight", "bold"})
	}
	if f.Has(flexlabel.FontItalic) {
		d = append(d, declaration{"font-style", "italic"})
	}
	return d
}

func decorationCSS(dec flexlabel.Decorations) []declaration {
	var lines []string
	if dec.Has(flexlabel.DecorationUnderline) {
		lines = append(lines, "underline")
	}
	if dec.Has(flexlabel.DecorationStrikethrough) {
		lines = append(lines, "line-through")
	}
	if len(lines) == 0 {
		return nil
	}
	return []declaration{{"text-decoration", strings.Join(lines, " ")}}
}

// paragraphCSS maps the paragraph layout onto CSS. Head and middle
// truncation have no CSS equivalent and elide at the tail.
func paragraphCSS(p flexlabel.Paragraph) []declaration {
	var d []declaration
	if p.Background != nil {
		d = append(d, declaration{"background-color", p.Background.Hex()})
	}
	d = append(d, declaration{"text-align", p.Alignment.String()})
	if p.VerticalAlignment != flexlabel.AlignStart {
		d = append(d, declaration{"align-content", p.VerticalAlignment.String()})
	}
	if p.LineHeight > 0 {
		d = append(d, declaration{"line-height", fmt.Sprintf("%g", p.LineHeight)})
	}

	switch p.LineBreakMode {
	case flexlabel.LineBreakWordWrap:
		d = append(d, declaration{"white-space", "pre-wrap"})
	case flexlabel.LineBreakCharacterWrap:
		d = append(d, declaration{"white-space", "pre-wrap"}, declaration{"word-break", "break-all"})
	case flexlabel.LineBreakNoWrap:
		d = append(d, declaration{"white-space", "pre"}, declaration{"overflow", "hidden"})
	default:
		d = append(d,
			declaration{"white-space", "pre"},
			declaration{"overflow", "hidden"},
			declaration{"text-overflow", "ellipsis"},
		)
	}

	if p.MaxLines > 0 {
		d = append(d,
			declaration{"display", "-webkit-box"},
			declaration{"-webkit-box-orient", "vertical"},
			declaration{"-webkit-line-clamp", fmt.Sprint(p.MaxLines)},
			declaration{"overflow", "hidden"},
		)
	}
	return d
}
