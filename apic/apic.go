package apic

import "fmt"
import "sync/atomic"

const apic_debug bool = false

func dbg(f string, args ...interface{}) {
	if apic_debug {
		fmt.Printf(f, args...)
	}
}

// register offsets into the LAPIC window, in uint32 units
const (
	lapic_id   = 0x20 / 4
	lapic_svr  = 0xf0 / 4
	lapic_eoi  = 0xb0 / 4
	lapic_icrl = 0x300 / 4
	lapic_icrh = 0x310 / 4
	lapic_pmc  = 0x340 / 4
)

// ICR destination shorthands
const (
	ds_self       = 1
	ds_all        = 2
	ds_allbutself = 3
)

// Lapic_t drives the local interrupt controller through its memory-mapped
// register window. the boot code hands Attach the mapped window; tests hand
// it a plain array. ICR writes require two distinct stores, but the ICR is
// only written by the owning CPU (or, for the panic broadcast, by the single
// CPU that won the panic), so no lock is taken here.
type Lapic_t struct {
	regs *[1024]uint32
}

func Attach(regs *[1024]uint32) *Lapic_t {
	if regs == nil {
		panic("no")
	}
	lap := &Lapic_t{regs: regs}
	dbg("LAPIC ID: %#x\n", lap.Id())
	return lap
}

func (lap *Lapic_t) Id() uint32 {
	return atomic.LoadUint32(&lap.regs[lapic_id]) >> 24
}

// Active reports whether the controller has been attached and software
// enabled via the spurious vector register.
func (lap *Lapic_t) Active() bool {
	if lap == nil || lap.regs == nil {
		return false
	}
	return atomic.LoadUint32(&lap.regs[lapic_svr])&(1<<8) != 0
}

func ipilow(ds int, deliv int, vec int) uint32 {
	// level assert, edge trigger
	return uint32(ds<<18 | 1<<14 | deliv<<8 | vec)
}

func (lap *Lapic_t) icrw(hi uint32, low uint32) {
	// use atomics to guarantee the high half is written first and to order
	// the two stores
	atomic.StoreUint32(&lap.regs[lapic_icrh], hi)
	atomic.StoreUint32(&lap.regs[lapic_icrl], low)
	ipisent := uint32(1 << 12)
	for atomic.LoadUint32(&lap.regs[lapic_icrl])&ipisent != 0 {
	}
}

// Nmi_allbutself delivers an NMI to every other CPU. NMI delivery ignores
// the vector field.
func (lap *Lapic_t) Nmi_allbutself() {
	delivnmi := 0x4
	lap.icrw(0, ipilow(ds_allbutself, delivnmi, 0))
}

// Lvt_pmc_write programs the performance counter LVT entry. the same entry
// is also reachable via its MSR alias; this path is used when the window is
// mapped.
func (lap *Lapic_t) Lvt_pmc_write(v uint32) {
	atomic.StoreUint32(&lap.regs[lapic_pmc], v)
}

func (lap *Lapic_t) Lvt_pmc_read() uint32 {
	return atomic.LoadUint32(&lap.regs[lapic_pmc])
}

func (lap *Lapic_t) Eoi() {
	atomic.StoreUint32(&lap.regs[lapic_eoi], 0)
}

// Icr_last returns the last ICR low write; diagnostics only.
func (lap *Lapic_t) Icr_last() uint32 {
	return atomic.LoadUint32(&lap.regs[lapic_icrl])
}
