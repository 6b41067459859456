package flexlabel

import (
	"slices"
	"sort"
	"unicode/utf16"
)

// A Document is the compiled form of a label: the flattened text and the
// ranges over it. It is never mutated after Compile returns it.
type Document struct {
	Text   string
	Ranges []Range
	Base   BaseStyle
}

// A Run is a non-empty range together with its text, for backends that
// build discrete styled text objects instead of overlaying ranges.
type Run struct {
	Index int // index into Document.Ranges
	Text  string
	Range
}

// clone returns d with its own copy of the ranges.
func (d Document) clone() Document {
	d.Ranges = slices.Clone(d.Ranges)
	return d
}

// Len returns the length of the text in UTF-16 code units.
func (d Document) Len() int {
	return utf16Len(d.Text)
}

// Style returns the effective style of range i.
func (d Document) Style(i int) Style {
	return d.Ranges[i].Attrs.Resolve(d.Base)
}

// ByteOffset converts a UTF-16 offset into a byte index of d.Text. Offsets
// past the end clamp to len(d.Text); an offset inside a surrogate pair
// maps to the start of that rune.
func (d Document) ByteOffset(offset int) int {
	if offset <= 0 {
		return 0
	}
	units := 0
	for i, r := range d.Text {
		n := RuneUnits(r)
		if units+n > offset {
			return i
		}
		units += n
	}
	return len(d.Text)
}

// Slice returns the text covered by r.
func (d Document) Slice(r Range) string {
	return d.Text[d.ByteOffset(r.Start):d.ByteOffset(r.End)]
}

// Runs returns the non-empty ranges in order as text runs. Zero-length
// ranges are skipped so run-based backends never emit empty objects.
func (d Document) Runs() []Run {
	runs := make([]Run, 0, len(d.Ranges))
	// Ranges are contiguous, so the byte cursor only moves forward.
	b := 0
	for i, r := range d.Ranges {
		if r.Len() <= 0 {
			continue
		}
		end := b + byteLen(d.Text[b:], r.Len())
		runs = append(runs, Run{Index: i, Text: d.Text[b:end], Range: r})
		b = end
	}
	return runs
}

// TapAt returns the tap handler of the non-empty range containing offset,
// or nil.
func (d Document) TapAt(offset int) TapHandler {
	i := sort.Search(len(d.Ranges), func(i int) bool { return d.Ranges[i].End > offset })
	if i == len(d.Ranges) {
		return nil
	}
	r := d.Ranges[i]
	if r.Start > offset {
		return nil
	}
	return r.Attrs.Tap
}

// Taps returns the runs that carry a tap handler.
func (d Document) Taps() []Run {
	var taps []Run
	for _, run := range d.Runs() {
		if run.Attrs.Tap != nil {
			taps = append(taps, run)
		}
	}
	return taps
}

// RuneUnits returns the number of UTF-16 code units r occupies. Invalid
// runes count as one unit, matching their replacement character.
func RuneUnits(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += RuneUnits(r)
	}
	return n
}

// byteLen returns how many bytes of s make up its first units UTF-16 units.
func byteLen(s string, units int) int {
	for i, r := range s {
		if units <= 0 {
			return i
		}
		units -= RuneUnits(r)
	}
	return len(s)
}
