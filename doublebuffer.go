package life

// DoubleBuffer holds two resources and the indirection that decides which
// one is read and which one is written. Swap relabels the slots; the
// resources themselves never move and are never copied.
//
// Slot 0 is the read role and slot 1 the write role.
type DoubleBuffer[T comparable] struct {
	slots [2]T
}

// NewDoubleBuffer returns a buffer with a in slot 0 and b in slot 1.
func NewDoubleBuffer[T comparable](a, b T) *DoubleBuffer[T] {
	return &DoubleBuffer[T]{slots: [2]T{a, b}}
}

// Swap exchanges the two slots.
func (d *DoubleBuffer[T]) Swap() {
	d.slots[0], d.slots[1] = d.slots[1], d.slots[0]
}

// Read returns the resource in the read role (slot 0).
func (d *DoubleBuffer[T]) Read() T { return d.slots[0] }

// Write returns the resource in the write role (slot 1).
func (d *DoubleBuffer[T]) Write() T { return d.slots[1] }

// At returns the resource in slot i. It panics if i is not 0 or 1.
func (d *DoubleBuffer[T]) At(i int) T { return d.slots[i] }

// Slots returns both resources in slot order.
func (d *DoubleBuffer[T]) Slots() [2]T { return d.slots }
