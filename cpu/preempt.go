package cpu

import "sync/atomic"

// preemption and IRQ nesting counters. only the owning CPU writes them, so
// no cross-CPU ordering is needed, but the atomics keep the compiler and CPU
// from reordering the counter update past a later Preempt_enabled() or
// In_interrupt() check on the same CPU. all of these are callable with
// interrupts cleared and from NMI context; none of them block or allocate.

// Preempt_disable marks the calling CPU non-preemptible. nests.
func Preempt_disable() {
	c := Current()
	atomic.AddUint32(&c.pcount, 1)
}

// Preempt_enable undoes one Preempt_disable. enabling at depth zero is a
// programming error; it is caught here only when the debug checks are
// compiled in.
func Preempt_enable() {
	c := Current()
	if checkre && atomic.LoadUint32(&c.pcount) == 0 {
		panic("preempt underflow")
	}
	atomic.AddUint32(&c.pcount, ^uint32(0))
}

func Preempt_enabled() bool {
	return atomic.LoadUint32(&Current().pcount) == 0
}

// Irq_enter records one more nested interrupt handler on this CPU. the
// in-interrupt flag flips only on the 0->1 transition.
func Irq_enter() {
	c := Current()
	if atomic.AddUint32(&c.irqcount, 1) == 1 {
		atomic.StoreUint32(&c.intr, 1)
	}
}

func Irq_exit() {
	c := Current()
	if checkre && atomic.LoadUint32(&c.irqcount) == 0 {
		panic("irq underflow")
	}
	if atomic.AddUint32(&c.irqcount, ^uint32(0)) == 0 {
		atomic.StoreUint32(&c.intr, 0)
	}
}

func In_interrupt() bool {
	return atomic.LoadUint32(&Current().intr) != 0
}
