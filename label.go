package flexlabel

import (
	"slices"
	"sync"

	"github.com/computerdane/flexlabel/internal/logging"
	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
)

// A Label is the property model of a selectable rich-text label. Every
// setter recompiles the label from scratch and hands the new Document to
// the renderer and listeners as one unit. When FormattedText is set it
// takes precedence over Text.
type Label struct {
	key string

	text          string
	formattedText []Span
	textColor     colorful.Color
	background    *colorful.Color
	font          FontAttributes
	fontSize      float64
	fontFamily    string
	decorations   Decorations
	transform     TextTransform
	lineBreakMode LineBreakMode
	maxLines      int
	alignment     TextAlignment
	vAlignment    TextAlignment
	lineHeight    float64
	spacing       float64

	doc       Document
	gen       uint64
	renderer  Renderer
	listeners []func(Document, Paragraph)

	mu sync.Mutex

	// Guarded by pubMu. Only one goroutine publishes at a time; it keeps
	// going until published catches up with gen, so documents compiled
	// meanwhile (including from inside a listener) are not lost and
	// superseded ones are skipped.
	published  uint64
	publishing bool
	pubMu      sync.Mutex
}

func NewLabel() *Label {
	l := &Label{
		key:           uuid.NewString(),
		fontSize:      -1,
		maxLines:      -1,
		lineHeight:    -1,
		lineBreakMode: LineBreakTailTruncation,
	}
	l.doc = Compile(nil, l.baseStyle())
	return l
}

func (l *Label) Key() string {
	return l.key
}

func (l *Label) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.text
}

func (l *Label) FormattedText() []Span {
	l.mu.Lock()
	defer l.mu.Unlock()

	return slices.Clone(l.formattedText)
}

// Document returns a copy of the most recently compiled document.
func (l *Label) Document() Document {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.doc.clone()
}

func (l *Label) Paragraph() Paragraph {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.paragraph()
}

// BaseStyle returns the label-level style with fallbacks substituted.
func (l *Label) BaseStyle() BaseStyle {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.baseStyle()
}

func (l *Label) SetText(text string) {
	l.update(func() { l.text = text })
}

// Set the spans of the label. A nil slice switches back to plain Text.
func (l *Label) SetFormattedText(spans []Span) {
	l.update(func() { l.formattedText = slices.Clone(spans) })
}

func (l *Label) SetTextColor(c colorful.Color) {
	l.update(func() { l.textColor = c })
}

// Set the widget background. This is not a fallback for span backgrounds.
func (l *Label) SetBackgroundColor(c *colorful.Color) {
	l.update(func() { l.background = c })
}

func (l *Label) SetFontAttributes(f FontAttributes) {
	l.update(func() { l.font = f })
}

// Set the base font size. Values <= 0 fall back to DefaultFontSize.
func (l *Label) SetFontSize(size float64) {
	l.update(func() { l.fontSize = size })
}

func (l *Label) SetFontFamily(family string) {
	l.update(func() { l.fontFamily = family })
}

func (l *Label) SetTextDecorations(d Decorations) {
	l.update(func() { l.decorations = d })
}

// Set the transform applied to plain Text. Spans carry their own.
func (l *Label) SetTextTransform(t TextTransform) {
	l.update(func() { l.transform = t })
}

func (l *Label) SetLineBreakMode(m LineBreakMode) {
	l.update(func() { l.lineBreakMode = m })
}

// Set the maximum number of rendered lines. Values <= 0 mean unlimited.
func (l *Label) SetMaxLines(n int) {
	l.update(func() { l.maxLines = n })
}

func (l *Label) SetHorizontalTextAlignment(a TextAlignment) {
	l.update(func() { l.alignment = a })
}

func (l *Label) SetVerticalTextAlignment(a TextAlignment) {
	l.update(func() { l.vAlignment = a })
}

// Set the line height as a multiple of the font's own. Values <= 0 restore
// the default.
func (l *Label) SetLineHeight(h float64) {
	l.update(func() { l.lineHeight = h })
}

// Set the extra space after each character, inherited by spans that do
// not set their own.
func (l *Label) SetCharacterSpacing(spacing float64) {
	l.update(func() { l.spacing = spacing })
}

// SetRenderer selects the backend and renders the current document to it.
func (l *Label) SetRenderer(r Renderer) {
	l.update(func() { l.renderer = r })
}

// AddListener registers a callback invoked after every recompile, with the
// same document the renderer received.
func (l *Label) AddListener(listener func(Document, Paragraph)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.listeners = append(l.listeners, listener)
}

// Render hands the current document to the renderer again, e.g. after the
// renderer's screen area changed.
func (l *Label) Render() {
	l.update(func() {})
}

// Tap invokes the tap handler of the range containing offset, a UTF-16
// position in the compiled text. It reports whether a handler ran.
func (l *Label) Tap(offset int) bool {
	h := l.Document().TapAt(offset)
	if h == nil {
		return false
	}
	h()
	return true
}

func (l *Label) update(set func()) {
	l.mu.Lock()
	set()
	l.doc = Compile(l.spans(), l.baseStyle())
	l.gen++
	l.mu.Unlock()

	l.publish()
}

// publish hands the newest document to the renderer and listeners. A call
// made while another publish is running, such as a setter invoked by a
// listener, returns at once and the running publish picks the change up.
func (l *Label) publish() {
	l.pubMu.Lock()
	if l.publishing {
		l.pubMu.Unlock()
		return
	}
	l.publishing = true

	for {
		l.mu.Lock()
		gen := l.gen
		doc := l.doc.clone()
		p := l.paragraph()
		r := l.renderer
		listeners := slices.Clone(l.listeners)
		l.mu.Unlock()

		if gen <= l.published {
			l.publishing = false
			l.pubMu.Unlock()
			return
		}
		l.published = gen
		l.pubMu.Unlock()

		logging.Debug("label compiled", "label", l.key, "ranges", len(doc.Ranges), "length", doc.Len())

		if r != nil {
			if err := r.Render(doc, p); err != nil {
				logging.Error("label render failed", "label", l.key, "error", err)
			}
		}
		for _, listener := range listeners {
			listener(doc, p)
		}

		l.pubMu.Lock()
	}
}

func (l *Label) spans() []Span {
	if l.formattedText != nil {
		return l.formattedText
	}
	if l.text == "" {
		return nil
	}
	return []Span{{Text: l.text, Transform: l.transform}}
}

func (l *Label) baseStyle() BaseStyle {
	size := l.fontSize
	if size <= 0 {
		size = DefaultFontSize
	}
	return BaseStyle{
		Transform:   l.transform,
		Font:        l.font,
		FontSize:    size,
		Foreground:  l.textColor,
		Decorations: l.decorations,

		CharacterSpacing: l.spacing,
	}
}

func (l *Label) paragraph() Paragraph {
	return Paragraph{
		LineBreakMode:     l.lineBreakMode,
		MaxLines:          l.maxLines,
		Alignment:         l.alignment,
		VerticalAlignment: l.vAlignment,
		LineHeight:        l.lineHeight,
		FontFamily:        l.fontFamily,
		Background:        l.background,
	}
}
