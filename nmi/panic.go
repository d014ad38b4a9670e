package nmi

import "fmt"
import "sync/atomic"

import "github.com/felipestenzel/stenzel-os-sub014/cpu"
import "github.com/felipestenzel/stenzel-os-sub014/hw"

// the panic broadcast flag. set by the one CPU that decided to panic and
// read by every other CPU's NMI entry before it looks at any hardware
// status: during a panic the status registers may be garbage, and the whole
// point is to stop the other CPUs before they do more damage. plain
// sequentially-consistent atomics; this is the one place in the kernel where
// ambiguous ordering is unacceptable.
var panicnmi uint32

func Set_panic_nmi() {
	atomic.StoreUint32(&panicnmi, 1)
}

// Clear_panic_nmi exists for the panic code to reset the flag before
// starting a new sequence. once a panic has halted the machine nothing ever
// calls it.
func Clear_panic_nmi() {
	atomic.StoreUint32(&panicnmi, 0)
}

func Is_panic_nmi() bool {
	return atomic.LoadUint32(&panicnmi) != 0
}

// Ipisender_i is the interrupt controller boundary: deliver an NMI to every
// CPU but the caller.
type Ipisender_i interface {
	Nmi_allbutself()
	Active() bool
}

type nilipi_t struct {
}

func (n *nilipi_t) Nmi_allbutself() {
}

func (n *nilipi_t) Active() bool {
	return false
}

var ipi Ipisender_i = &nilipi_t{}

func Ipi_install(s Ipisender_i) {
	if s == nil {
		panic("no")
	}
	ipi = s
}

// Send_nmi_allcpus asks the interrupt controller to NMI every registered CPU
// except the caller. used by the panic path after Set_panic_nmi; the
// receivers see the flag and halt. a single-CPU system (or one whose
// controller never came up) has nobody to notify.
func Send_nmi_allcpus() {
	if cpu.Ncpus() <= 1 || !ipi.Active() {
		return
	}
	fmt.Printf("cpu %v: sending NMI to all CPUs\n", cpu.Current().Selfidx())
	ipi.Nmi_allbutself()
}

// Nmi_handler is the NMI entry path. it must check the panic flag before
// touching any status register. no allocation, no locks, no blocking.
func Nmi_handler() {
	if Is_panic_nmi() {
		halt()
	}
	r := Get_nmi_reason()
	Ack(r)
	dbg("cpu %v: NMI: %v\n", cpu.Current().Selfidx(), r)
}

// halt clears interrupts on this CPU and spins forever. there is no way
// back; a CPU that has seen the panic flag must never touch kernel state
// again.
func halt() {
	hw.Cli()
	for {
		hw.Htpause()
	}
}
