package nmi

import "fmt"
import "sync/atomic"

import "github.com/felipestenzel/stenzel-os-sub014/defs"
import "github.com/felipestenzel/stenzel-os-sub014/hw"

const nmi_debug bool = false

func dbg(f string, args ...interface{}) {
	if nmi_debug {
		fmt.Printf(f, args...)
	}
}

type Reason_t int

const (
	NMI_UNCLASSIFIED Reason_t = iota
	NMI_MEMPARITY
	NMI_IOCHK
	NMI_PERFCTR
	NMI_WATCHDOG
	NMI_UNKNOWN
)

func (r Reason_t) String() string {
	switch r {
	case NMI_MEMPARITY:
		return "memory parity error"
	case NMI_IOCHK:
		return "I/O channel check"
	case NMI_PERFCTR:
		return "performance counter"
	case NMI_WATCHDOG:
		return "watchdog"
	case NMI_UNKNOWN:
		return "unknown"
	}
	return "unclassified"
}

// global NMI statistics. NMIs arrive on any CPU, so unlike the per-CPU
// counters these are shared and must be atomic.
var stats struct {
	total    uint64
	mem      uint64
	io       uint64
	watchdog uint64
	perf     uint64
}

type Stats_t struct {
	Total    uint64
	Mem      uint64
	Io       uint64
	Watchdog uint64
	Perf     uint64
}

func Get_nmi_stats() Stats_t {
	return Stats_t{
		Total:    atomic.LoadUint64(&stats.total),
		Mem:      atomic.LoadUint64(&stats.mem),
		Io:       atomic.LoadUint64(&stats.io),
		Watchdog: atomic.LoadUint64(&stats.watchdog),
		Perf:     atomic.LoadUint64(&stats.perf),
	}
}

// Get_nmi_reason classifies a received NMI. the checks run in decreasing
// severity order and the first match wins: a latched parity error means
// possible silent data corruption and must not be mistaken for a profiling
// interrupt. classification cannot fail; an NMI with no identifiable source
// is simply Unknown.
func Get_nmi_reason() Reason_t {
	atomic.AddUint64(&stats.total, 1)

	sc := hw.Inb(defs.NMI_STATUS_PORT)
	if sc&defs.NMI_PARITY != 0 {
		atomic.AddUint64(&stats.mem, 1)
		return NMI_MEMPARITY
	}
	if sc&defs.NMI_IOCHK != 0 {
		atomic.AddUint64(&stats.io, 1)
		return NMI_IOCHK
	}

	// an unmasked perf LVT entry with NMI delivery means the overflow
	// interrupt is live and is the likely source
	lvt := hw.Rdmsr(defs.IA32_X2APIC_LVT_PMI)
	if lvt&defs.LVT_MASKED == 0 && lvt&defs.LVT_DMODE == defs.LVT_NMI {
		atomic.AddUint64(&stats.perf, 1)
		return NMI_PERFCTR
	}

	if watchdog_pending() {
		atomic.AddUint64(&stats.watchdog, 1)
		return NMI_WATCHDOG
	}

	return NMI_UNKNOWN
}

// no chipset in this platform family latches a watchdog NMI anywhere we can
// probe. kept as a distinct classification so nobody mistakes Unknown for
// "watchdog handled".
func watchdog_pending() bool {
	return false
}

// Ack performs the hardware acknowledgement for the latched error sources:
// pulse the clear bit in system control port B to drop the latch and re-arm
// detection. the error itself is only logged here; whether it warrants a
// panic is the machine-check policy's call, not ours.
func Ack(r Reason_t) {
	switch r {
	case NMI_MEMPARITY:
		clear_latch(defs.NMI_CLEAR_SERR)
		fmt.Printf("NMI: memory parity error, re-armed\n")
	case NMI_IOCHK:
		clear_latch(defs.NMI_CLEAR_IOCHK)
		fmt.Printf("NMI: I/O channel check, re-armed\n")
	}
}

func clear_latch(bit uint8) {
	sc := hw.Inb(defs.NMI_STATUS_PORT)
	hw.Outb(defs.NMI_STATUS_PORT, sc|bit)
	hw.Outb(defs.NMI_STATUS_PORT, sc&^bit)
}

// masking NMIs entirely goes through the CMOS index port; bit 7 of any index
// written there gates NMI delivery.
func Nmi_disable() {
	hw.Outb(defs.CMOS_PORT, defs.CMOS_NMI_DISABLE)
}

func Nmi_enable() {
	hw.Outb(defs.CMOS_PORT, 0)
}
