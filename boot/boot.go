package boot

import "fmt"
import "sync/atomic"

import "github.com/felipestenzel/stenzel-os-sub014/apic"
import "github.com/felipestenzel/stenzel-os-sub014/cpu"
import "github.com/felipestenzel/stenzel-os-sub014/defs"
import "github.com/felipestenzel/stenzel-os-sub014/nmi"

// bring-up sequencing. the BSP comes up in two stages: Bsp_early_init runs
// before the memory manager exists and only binds the static record so that
// cpu.Current() works; Bsp_init runs once the kernel proper is alive and
// registers the BSP with the registry. APs are then started one at a time.

const checkorder = true

var joined uint32
var bspdone uint32

// Bsp_early_init binds the BSP's statically allocated record. until Cpumap
// is pointed at the real "which CPU am I" primitive, every caller is treated
// as CPU 0, which is correct for the window where only the BSP runs.
func Bsp_early_init(hwid uint32, kstacktop uintptr) *cpu.Cpu_t {
	cpu.Cpumap(func() int {
		return 0
	})
	c := cpu.Bind(0, hwid)
	c.Kstacktop = kstacktop
	return c
}

// Bsp_init registers the BSP. it must get logical index 0; anything else
// means an AP snuck into the registry first and the dense-index invariant is
// already broken.
func Bsp_init() {
	c, ok := cpu.Get(0)
	if !ok {
		panic("no")
	}
	idx, err := cpu.Register(c.Id())
	if err != 0 || idx != 0 {
		panic("BSP must register first")
	}
	atomic.StoreUint32(&bspdone, 1)
	atomic.AddUint32(&joined, 1)
	fmt.Printf("cpu 0 up (LAPIC %#x)\n", c.Id())
}

// Ap_start brings one application processor into the per-CPU world: a dense
// index from the registry, then a bound record. on a capacity failure the
// AP's bring-up aborts before anything was bound, leaving the registry and
// the record array exactly as they were.
func Ap_start(hwid uint32, kstacktop uintptr) (int, defs.Err_t) {
	if checkorder && atomic.LoadUint32(&bspdone) == 0 {
		panic("BSP not initialized")
	}
	idx, err := cpu.Register(hwid)
	if err != 0 {
		fmt.Printf("cpu bring-up aborted: out of CPU slots (LAPIC %#x)\n",
			hwid)
		return -1, err
	}
	c := cpu.Bind(idx, hwid)
	c.Kstacktop = kstacktop
	atomic.AddUint32(&joined, 1)
	fmt.Printf("cpu %v up (LAPIC %#x)\n", idx, hwid)
	return idx, 0
}

// Cpus_joined counts completed bring-ups, BSP included.
func Cpus_joined() int {
	return int(atomic.LoadUint32(&joined))
}

// Lapic_init attaches the local interrupt controller and plugs it into the
// NMI panic broadcast path. must happen before the first Ap_start so a panic
// during bring-up can still stop the CPUs that already joined.
func Lapic_init(regs *[1024]uint32) *apic.Lapic_t {
	lap := apic.Attach(regs)
	nmi.Ipi_install(lap)
	return lap
}
