package cpu

import (
	"iter"
)

// Segment is a fixed-capacity array of fixed-width cells, zero-initialized
// at construction. Every access is bounds-checked; an out-of-range index is
// a fault, never a silent wrap.
type Segment struct {
	name string
	mask uint32
	cell []uint32
}

// NewSegment creates a zeroed segment with the given cell capacity and
// cell width in bits.
func NewSegment(name string, capacity uint, width uint) *Segment {
	return &Segment{
		name: name,
		mask: widthMask(width),
		cell: make([]uint32, capacity),
	}
}

// Name returns the segment name.
func (seg *Segment) Name() string {
	return seg.name
}

// Cap returns the segment capacity in cells.
func (seg *Segment) Cap() int {
	return len(seg.cell)
}

// Read returns the cell at addr.
func (seg *Segment) Read(addr uint32) (value uint32, err error) {
	if int(addr) >= len(seg.cell) {
		err = ErrIndex{Segment: seg.name, Index: int(addr), Err: ErrAddressOutOfRange}
		return
	}
	value = seg.cell[addr]

	return
}

// Write stores a value into the cell at addr. A value wider than the cell
// faults rather than silently truncating.
func (seg *Segment) Write(addr uint32, value uint32) (err error) {
	if int(addr) >= len(seg.cell) {
		return ErrIndex{Segment: seg.name, Index: int(addr), Err: ErrAddressOutOfRange}
	}
	if value&^seg.mask != 0 {
		return ErrIndex{Segment: seg.name, Index: int(addr), Err: ErrValueTooWide}
	}
	seg.cell[addr] = value

	return
}

// Reset zeroes every cell.
func (seg *Segment) Reset() {
	clear(seg.cell)
}

// Cells iterates the segment contents in address order. It is the
// read-only view consumed by dump formatters.
func (seg *Segment) Cells() iter.Seq2[int, uint32] {
	return func(yield func(int, uint32) bool) {
		for n, value := range seg.cell {
			if !yield(n, value) {
				return
			}
		}
	}
}
