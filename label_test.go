package flexlabel

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	mu   sync.Mutex
	docs []Document
	ps   []Paragraph
	err  error
}

func (r *recordingRenderer) Render(doc Document, p Paragraph) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.docs = append(r.docs, doc)
	r.ps = append(r.ps, p)
	return r.err
}

func (r *recordingRenderer) last() (Document, Paragraph) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.docs[len(r.docs)-1], r.ps[len(r.ps)-1]
}

func TestNewLabel(t *testing.T) {
	a, b := NewLabel(), NewLabel()
	assert.NotEmpty(t, a.Key())
	assert.NotEqual(t, a.Key(), b.Key())

	assert.Equal(t, "", a.Document().Text)
	assert.Empty(t, a.Document().Ranges)

	p := a.Paragraph()
	assert.Equal(t, LineBreakTailTruncation, p.LineBreakMode)
	assert.Equal(t, -1, p.MaxLines)
	assert.Nil(t, p.Background)

	base := a.BaseStyle()
	assert.Equal(t, DefaultFontSize, base.FontSize)
	assert.Equal(t, colorful.Color{}, base.Foreground)
}

func TestLabelPlainText(t *testing.T) {
	l := NewLabel()
	l.SetText("Hello")
	l.SetTextTransform(TransformUppercase)
	l.SetFontAttributes(FontBold)

	doc := l.Document()
	assert.Equal(t, "HELLO", doc.Text)
	require.Len(t, doc.Ranges, 1)
	assert.True(t, doc.Ranges[0].Attrs.Font == FontNone)
	assert.Equal(t, FontBold, doc.Style(0).Font)

	l.SetText("")
	assert.Empty(t, l.Document().Ranges)
}

func TestLabelFormattedTextTakesPrecedence(t *testing.T) {
	l := NewLabel()
	l.SetText("ignored")
	l.SetFormattedText([]Span{NewSpan("Hi "), NewSpan("there").Bold()})

	assert.Equal(t, "Hi there", l.Document().Text)
	assert.Equal(t, "ignored", l.Text())
	assert.Len(t, l.FormattedText(), 2)

	l.SetFormattedText(nil)
	assert.Equal(t, "ignored", l.Document().Text)
}

func TestLabelBaseStyleFallbacks(t *testing.T) {
	l := NewLabel()
	l.SetFontSize(-5)
	assert.Equal(t, DefaultFontSize, l.BaseStyle().FontSize)

	l.SetFontSize(22)
	l.SetTextColor(red)
	l.SetTextDecorations(DecorationUnderline)
	base := l.BaseStyle()
	assert.Equal(t, 22.0, base.FontSize)
	assert.Equal(t, red, base.Foreground)
	assert.Equal(t, DecorationUnderline, base.Decorations)
	assert.Equal(t, base, l.Document().Base)
}

func TestLabelRendersEveryChange(t *testing.T) {
	r := &recordingRenderer{}
	l := NewLabel()
	l.SetRenderer(r)
	l.SetText("a")
	l.SetMaxLines(2)
	l.SetHorizontalTextAlignment(AlignCenter)
	l.SetLineBreakMode(LineBreakWordWrap)
	l.SetFontFamily("mono")
	bg := colorful.Color{B: 1}
	l.SetBackgroundColor(&bg)

	require.Len(t, r.docs, 7)
	doc, p := r.last()
	assert.Equal(t, "a", doc.Text)
	assert.Equal(t, Paragraph{
		LineBreakMode: LineBreakWordWrap,
		MaxLines:      2,
		Alignment:     AlignCenter,
		LineHeight:    -1,
		FontFamily:    "mono",
		Background:    &bg,
	}, p)

	l.Render()
	assert.Len(t, r.docs, 8)
}

func TestLabelRenderErrorDoesNotStopListeners(t *testing.T) {
	r := &recordingRenderer{err: errors.New("no screen")}
	l := NewLabel()
	l.SetRenderer(r)

	var seen []string
	l.AddListener(func(doc Document, p Paragraph) { seen = append(seen, doc.Text) })
	l.SetText("x")

	assert.Equal(t, []string{"x"}, seen)
}

func TestLabelTap(t *testing.T) {
	tapped := 0
	l := NewLabel()
	l.SetFormattedText([]Span{NewSpan("go "), NewSpan("here").OnTap(func() { tapped++ })})

	assert.False(t, l.Tap(0))
	assert.True(t, l.Tap(3))
	assert.True(t, l.Tap(6))
	assert.False(t, l.Tap(7))
	assert.Equal(t, 2, tapped)
}

func TestLabelConcurrentUpdates(t *testing.T) {
	r := &recordingRenderer{}
	l := NewLabel()
	l.SetRenderer(r)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.SetText(fmt.Sprintf("text %d", i))
		}()
	}
	wg.Wait()

	// Every published document is complete: one range covering the text.
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, doc := range r.docs {
		if doc.Text == "" {
			continue
		}
		require.Len(t, doc.Ranges, 1)
		assert.Equal(t, doc.Len(), doc.Ranges[0].End)
	}
	last := r.docs[len(r.docs)-1]
	assert.Equal(t, l.Document(), last)
}

func TestLabelListenerMayUpdateLabel(t *testing.T) {
	r := &recordingRenderer{}
	l := NewLabel()
	l.SetRenderer(r)

	var seen []Document
	l.AddListener(func(doc Document, p Paragraph) {
		seen = append(seen, doc)
		if doc.Text == "a" && doc.Base.Foreground != red {
			l.SetTextColor(red)
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		l.SetText("a")
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("SetText did not return")
	}

	require.Len(t, seen, 2)
	assert.Equal(t, colorful.Color{}, seen[0].Base.Foreground)
	assert.Equal(t, red, seen[1].Base.Foreground)
	assert.Equal(t, red, l.BaseStyle().Foreground)

	doc, _ := r.last()
	assert.Equal(t, red, doc.Base.Foreground)

	// Updates after the nested one still publish normally.
	l.SetText("b")
	assert.Equal(t, "b", seen[len(seen)-1].Text)
}

func TestLabelDocumentIsACopy(t *testing.T) {
	tapped := 0
	l := NewLabel()
	var fromListener Document
	l.AddListener(func(doc Document, p Paragraph) { fromListener = doc })
	l.SetFormattedText([]Span{NewSpan("go").OnTap(func() { tapped++ })})

	doc := l.Document()
	doc.Ranges[0].Attrs.Tap = nil
	fromListener.Ranges[0].Attrs.Tap = nil

	assert.True(t, l.Tap(0))
	assert.Equal(t, 1, tapped)
	assert.NotNil(t, l.Document().Ranges[0].Attrs.Tap)
}

func TestLabelParagraphSpacing(t *testing.T) {
	l := NewLabel()
	l.SetLineHeight(1.5)
	l.SetVerticalTextAlignment(AlignEnd)
	l.SetCharacterSpacing(2)
	l.SetFormattedText([]Span{NewSpan("ab"), NewSpan("cd").Spaced(7)})

	p := l.Paragraph()
	assert.Equal(t, 1.5, p.LineHeight)
	assert.Equal(t, AlignEnd, p.VerticalAlignment)

	doc := l.Document()
	assert.Equal(t, 2.0, doc.Base.CharacterSpacing)
	assert.Equal(t, 0.0, doc.Ranges[0].Attrs.CharacterSpacing)
	assert.Equal(t, 2.0, doc.Style(0).CharacterSpacing)
	assert.Equal(t, 7.0, doc.Style(1).CharacterSpacing)
}
