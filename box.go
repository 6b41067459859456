package flexlabel

import "fmt"

// Box is the screen rectangle a terminal backend draws into. Rows and
// columns are zero-based; right and bottom are exclusive.
type Box struct {
	top    int
	left   int
	right  int
	bottom int
}

func NewBox(top, left, width, height int) Box {
	return Box{
		top:    top,
		left:   left,
		right:  left + max(0, width),
		bottom: top + max(0, height),
	}
}

func (b *Box) Top() int {
	return b.top
}

func (b *Box) Left() int {
	return b.left
}

func (b *Box) Bottom() int {
	return b.bottom
}

func (b *Box) Right() int {
	return b.right
}

func (b *Box) Width() int {
	return b.right - b.left
}

func (b *Box) Height() int {
	return b.bottom - b.top
}

// Inset returns the box shrunk by n cells on every side.
func (b *Box) Inset(n int) Box {
	in := Box{top: b.top + n, left: b.left + n, right: b.right - n, bottom: b.bottom - n}
	in.right = max(in.left, in.right)
	in.bottom = max(in.top, in.bottom)
	return in
}

func (b *Box) Contains(row, col int) bool {
	return row >= b.top && row < b.bottom && col >= b.left && col < b.right
}

func (b *Box) String() string {
	return fmt.Sprintf("[T: %d, L: %d, B: %d, R: %d]", b.top, b.left, b.bottom, b.right)
}
