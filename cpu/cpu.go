package cpu

import "sync/atomic"
import "unsafe"

import "github.com/felipestenzel/stenzel-os-sub014/defs"

// checkre enables the re-entry/underflow contract checks on the hot per-CPU
// paths. these catch double binds and unbalanced enables during development;
// optimized kernels ship with them off.
const checkre = true

// Cpu_t is one CPU's private state. only the owning CPU writes any of its
// fields; any CPU may read them for diagnostics.
//
// the first two fields are read by the hand-written syscall/interrupt entry
// trampolines: the kernel stack top must be at offset 0 and the user %rsp
// scratch slot at offset 8. reordering them corrupts the mode transition
// instead of failing cleanly, so do not.
type Cpu_t struct {
	Kstacktop  uintptr
	Scratchrsp uintptr

	cpuid   uint32
	selfidx int32
	bound   uint32

	// scheduler's slot; we store and return it, never look inside
	current unsafe.Pointer

	pcount   uint32
	irqcount uint32
	intr     uint32

	// monotonic, reset only at boot
	Nintrs     uint64
	Nswitches  uint64
	Nsyscalls  uint64
	Nidleticks uint64

	idle uint32
}

// all CPU records are backed by this static array so that binding an AP
// never allocates and no record ever moves (the entry trampolines embed the
// record's address in hardware state). slot 0 is the BSP's record and is
// valid as a zero value before anything is bound.
var allcpus [defs.MAXCPUS]Cpu_t

// myid returns the calling CPU's logical index. the boot window default says
// "CPU 0" so that Current() works on the BSP before anything is bound.
var myid func() int = func() int {
	return 0
}

// Cpumap installs the platform's "which CPU am I" primitive. until the APs
// are running everything executes on the BSP, so this is typically called
// once the per-CPU segment state is live.
func Cpumap(f func() int) {
	myid = f
}

// Bind associates the record at idx with a CPU. it must be called exactly
// once per physical CPU; binding the same slot twice means two CPUs would
// write the same record, which the single-writer discipline forbids.
func Bind(idx int, hwid uint32) *Cpu_t {
	if idx < 0 || idx >= defs.MAXCPUS {
		panic("no")
	}
	c := &allcpus[idx]
	if checkre && atomic.LoadUint32(&c.bound) != 0 {
		panic("cpu already bound")
	}
	c.cpuid = hwid
	c.selfidx = int32(idx)
	atomic.StoreUint32(&c.bound, 1)
	return c
}

// Current returns the calling CPU's record. O(1), no locks, callable from
// NMI context. the caller may mutate the record only when it can rule out
// its own interrupt handlers racing with it (interrupts cleared); this is a
// contract, not a runtime check.
func Current() *Cpu_t {
	return &allcpus[myid()]
}

// Get is the cross-CPU diagnostic lookup. a bogus index is the reader's
// problem, not a panic.
func Get(idx int) (*Cpu_t, bool) {
	if idx < 0 || idx >= defs.MAXCPUS {
		return nil, false
	}
	return &allcpus[idx], true
}

func (c *Cpu_t) Id() uint32 {
	return c.cpuid
}

// Selfidx is the record's own logical index, set at bind time. it stands in
// for a self-pointer.
func (c *Cpu_t) Selfidx() int {
	return int(c.selfidx)
}

func (c *Cpu_t) Setcurrent(t unsafe.Pointer) {
	atomic.StorePointer(&c.current, t)
}

func (c *Cpu_t) Getcurrent() unsafe.Pointer {
	return atomic.LoadPointer(&c.current)
}

func (c *Cpu_t) Setidle(v bool) {
	if v {
		atomic.StoreUint32(&c.idle, 1)
	} else {
		atomic.StoreUint32(&c.idle, 0)
	}
}

func (c *Cpu_t) Isidle() bool {
	return atomic.LoadUint32(&c.idle) != 0
}

func (c *Cpu_t) Intr_inc() {
	atomic.AddUint64(&c.Nintrs, 1)
}

func (c *Cpu_t) Switch_inc() {
	atomic.AddUint64(&c.Nswitches, 1)
}

func (c *Cpu_t) Syscall_inc() {
	atomic.AddUint64(&c.Nsyscalls, 1)
}

func (c *Cpu_t) Idletick() {
	atomic.AddUint64(&c.Nidleticks, 1)
}
