// Package irq defines the basic interfaces for working with a 6502 family
// interrupt line and a concrete latch implementation used by the C64 shell
// (and any other bus host) to hold a pending interrupt between the call
// that raises it and the clock boundary that services it.
//
// NOTE: Even though chips make a distinction between level and edge type
// interrupts, the interfaces here don't matter and assume implementors
// simply account for this in clock cycle management.
package irq

// Sender defines the interface for an IRQ source.
type Sender interface {
	// Raised indicates whether the interrupt is currently held high.
	Raised() bool
}

// Latch is a single-slot pending-interrupt holder. A bus host calls
// SetIRQ/SetNMI from RaiseInterrupt and TakeNMI/TakeIRQ at the clock
// boundary that services the interrupt, to retrieve and clear it.
// It is not safe for concurrent use; the emulator is single-threaded.
type Latch struct {
	irq bool
	nmi bool
}

// SetIRQ marks a maskable interrupt request as pending.
func (l *Latch) SetIRQ() {
	l.irq = true
}

// SetNMI marks a non-maskable interrupt as pending.
func (l *Latch) SetNMI() {
	l.nmi = true
}

// Raised reports whether either line is currently pending, satisfying
// Sender.
func (l *Latch) Raised() bool {
	return l.irq || l.nmi
}

// TakeNMI reports and clears a pending NMI. NMI takes priority over IRQ
// since it is serviced unconditionally.
func (l *Latch) TakeNMI() bool {
	v := l.nmi
	l.nmi = false
	return v
}

// TakeIRQ reports and clears a pending IRQ.
func (l *Latch) TakeIRQ() bool {
	v := l.irq
	l.irq = false
	return v
}
