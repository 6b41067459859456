package renderers

import (
	"sync"

	"github.com/computerdane/flexlabel"
)

// TapFocus tracks which tap range of the last rendered document has
// keyboard focus, so a terminal without a pointer can still activate taps.
type TapFocus struct {
	index  int // position in ranges, -1 when nothing is focused
	ranges []int
	starts []int

	selectedColorFunc func(a ...any) string

	mu sync.Mutex
}

func NewTapFocus() *TapFocus {
	return &TapFocus{index: -1}
}

// Set the color func applied on top of the focused range's own style.
func (f *TapFocus) SetSelectedColorFunc(colorFunc func(a ...any) string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.selectedColorFunc = colorFunc
}

// update records the tap runs of a freshly rendered document. Focus stays
// on the same position when the document still has that many taps.
func (f *TapFocus) update(doc flexlabel.Document) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ranges = f.ranges[:0]
	f.starts = f.starts[:0]
	for _, run := range doc.Taps() {
		f.ranges = append(f.ranges, run.Index)
		f.starts = append(f.starts, run.Start)
	}
	if f.index >= len(f.ranges) {
		f.index = -1
	}
}

// Next moves focus to the following tap range, wrapping around.
func (f *TapFocus) Next() {
	f.move(1)
}

func (f *TapFocus) Prev() {
	f.move(-1)
}

func (f *TapFocus) move(step int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.ranges)
	if n == 0 {
		f.index = -1
		return
	}
	if f.index < 0 {
		if step > 0 {
			f.index = 0
		} else {
			f.index = n - 1
		}
		return
	}
	f.index = ((f.index+step)%n + n) % n
}

func (f *TapFocus) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.index = -1
}

// Offset returns the start offset of the focused range, suitable for
// flexlabel.Label.Tap.
func (f *TapFocus) Offset() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.index < 0 {
		return 0, false
	}
	return f.starts[f.index], true
}

// focused returns the focused range index and its color func.
func (f *TapFocus) focused() (int, func(a ...any) string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.index < 0 {
		return -1, nil
	}
	return f.ranges[f.index], f.selectedColorFunc
}
