package property

import "sort"

// point is a single scheduled automation keyframe: the value the property
// should hold at the given global sample offset (server.tick_count*blockSize
// + local sample index, i.e. a sample position counted from engine start).
type point struct {
	offset int64
	value  float64
}

// automation is the lazily-evaluated a-rate track a numeric scalar property
// may carry. Points are kept sorted by offset; evaluation between two
// points is linear, before the first point the property's current scalar
// value holds, and after the last point the last point's value holds
// (sample-and-hold), matching the "interpolated value at the corresponding
// global sample position" contract of spec.md §4.1.
type automation struct {
	points []point

	// overrideBlock holds a-rate values pushed directly by a property-output
	// connection (spec.md §4.3): when non-nil for the current tick, it wins
	// over interpolated keyframes entirely for that block.
	overrideBlock []float32

	// active is recomputed by tick() and answers needsARate() for the tick
	// that just started.
	active bool
	// block holds the per-sample a-rate values computed for the tick that
	// just ran, valid only while active is true.
	block []float32
}

// schedule inserts or replaces a keyframe at offset, keeping points sorted.
func (a *automation) schedule(offset int64, value float64) {
	idx := sort.Search(len(a.points), func(i int) bool { return a.points[i].offset >= offset })
	if idx < len(a.points) && a.points[idx].offset == offset {
		a.points[idx].value = value
		return
	}
	a.points = append(a.points, point{})
	copy(a.points[idx+1:], a.points[idx:])
	a.points[idx] = point{offset: offset, value: value}
}

// cancelFrom removes every keyframe at or after offset, leaving the present
// value (anything already baked into earlier points, or the property's
// plain scalar) untouched, per spec.md §4.1: "cancelling removes future
// points without affecting the present value."
func (a *automation) cancelFrom(offset int64) {
	idx := sort.Search(len(a.points), func(i int) bool { return a.points[i].offset >= offset })
	a.points = a.points[:idx]
}

// pushBlock installs an a-rate override for the next tick: the block of
// samples received over a property-output connection (spec.md §4.3).
func (a *automation) pushBlock(values []float32) {
	a.overrideBlock = append(a.overrideBlock[:0], values...)
}

// hasFutureWork reports whether there is any automation state left to drive
// (scheduled points or a pending override block).
func (a *automation) hasFutureWork() bool {
	return len(a.points) > 0 || a.overrideBlock != nil
}

// tick advances the automation by one block starting at globalStart
// (inclusive) for blockSize samples, and returns the new current scalar
// value (what a k-rate read should see going forward) plus whether the
// block turned out to be a-rate.
func (a *automation) tick(globalStart int64, blockSize int, current float64) (newCurrent float64, arate bool) {
	if a.overrideBlock != nil {
		if cap(a.block) < blockSize {
			a.block = make([]float32, blockSize)
		}
		a.block = a.block[:blockSize]
		copy(a.block, a.overrideBlock)
		for len(a.block) < blockSize {
			a.block = append(a.block, a.block[len(a.block)-1])
		}
		a.overrideBlock = nil
		a.active = true
		newCurrent = float64(a.block[blockSize-1])
		// Drop any keyframes the override superseded.
		a.cancelFrom(globalStart)
		return newCurrent, true
	}

	if len(a.points) == 0 {
		a.active = false
		return current, false
	}
	// A lone point wholly before this block has already been played out:
	// current holds its value, or the value a since-cancelled ramp had
	// reached. It has nothing left to drive, so it is dropped.
	if len(a.points) == 1 && a.points[0].offset < globalStart {
		a.points = a.points[:0]
		a.active = false
		return current, false
	}

	globalEnd := globalStart + int64(blockSize)
	// If every remaining point lies at or beyond the block, and the first
	// point starts after the block entirely, nothing happens this tick.
	if a.points[0].offset >= globalEnd {
		a.active = false
		return current, false
	}

	if cap(a.block) < blockSize {
		a.block = make([]float32, blockSize)
	}
	a.block = a.block[:blockSize]

	value := current
	pi := 0
	for i := 0; i < blockSize; i++ {
		pos := globalStart + int64(i)
		for pi < len(a.points) && a.points[pi].offset <= pos {
			value = a.points[pi].value
			pi++
		}
		if pi < len(a.points) {
			next := a.points[pi]
			if pi > 0 {
				prev := a.points[pi-1]
				if next.offset > prev.offset {
					frac := float64(pos-prev.offset) / float64(next.offset-prev.offset)
					value = prev.value + (next.value-prev.value)*frac
				}
			}
		}
		a.block[i] = float32(value)
	}

	// Consume points that are now fully in the past, keeping the one
	// immediately preceding globalEnd so the next block can still
	// interpolate from it without losing continuity.
	consumed := 0
	for consumed < len(a.points)-1 && a.points[consumed+1].offset <= globalEnd {
		consumed++
	}
	if consumed > 0 {
		a.points = a.points[consumed:]
	}

	newCurrent = float64(a.block[blockSize-1])
	a.active = true
	return newCurrent, true
}

// valueAt returns the a-rate value for sample offset i within the block
// that was just ticked. Only valid while active is true.
func (a *automation) valueAt(i int) float64 {
	if i < 0 {
		i = 0
	}
	if i >= len(a.block) {
		i = len(a.block) - 1
	}
	return float64(a.block[i])
}
