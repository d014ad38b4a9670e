package defs

type Err_t int

const (
	EINVAL Err_t = 22
	ERANGE Err_t = 34
	ENOSYS Err_t = 38
)

// the platform supports at most MAXCPUS CPUs; the per-CPU records are sized
// statically so that binding never allocates.
const MAXCPUS = 32

// NMI and exception vectors
const (
	NMITRAP  = 2
	TIMER    = 32
	PERFMASK = 72
)

// system control port B. reading it yields the latched NMI sources; writing
// the clear bits re-arms the corresponding latch.
const (
	NMI_STATUS_PORT = 0x61

	NMI_PARITY = 0x80
	NMI_IOCHK  = 0x40

	NMI_CLEAR_SERR  = 0x04
	NMI_CLEAR_IOCHK = 0x08
)

// CMOS index port doubles as the NMI enable toggle; bit 7 of the index
// disables NMI delivery entirely.
const (
	CMOS_PORT        = 0x70
	CMOS_NMI_DISABLE = 0x80
)

// MSRs
const (
	IA32_PERFEVTSEL0          = 0x186
	IA32_PERF_GLOBAL_OVF_CTRL = 0x390
	IA32_X2APIC_LVT_PMI       = 0x834
)

// LVT entry bits
const (
	LVT_DMODE  = 0x7 << 8
	LVT_NMI    = 0x4 << 8
	LVT_MASKED = 1 << 16
)

// performance event select bits
const (
	EVTSEL_INTE = 1 << 20
	EVTSEL_EN   = 1 << 22
)

// clears overflow status of PMC0 via IA32_PERF_GLOBAL_OVF_CTRL
const PERF_CLEAR_OVF = 1 << 0
