package nmi

import "github.com/felipestenzel/stenzel-os-sub014/defs"
import "github.com/felipestenzel/stenzel-os-sub014/hw"

// NMI-based profiling. arming routes PMC0 overflow through the perf LVT
// entry with NMI delivery, which is exactly the state Get_nmi_reason probes
// for the PerformanceCounter classification.

// Perf_arm clears any stale overflow, programs the event select with the
// interrupt-enable bit and unmasks the perf LVT entry.
func Perf_arm(evtsel uint64) {
	hw.Wrmsr(defs.IA32_PERF_GLOBAL_OVF_CTRL, defs.PERF_CLEAR_OVF)
	hw.Wrmsr(defs.IA32_PERFEVTSEL0, evtsel|defs.EVTSEL_INTE|defs.EVTSEL_EN)
	hw.Wrmsr(defs.IA32_X2APIC_LVT_PMI, defs.LVT_NMI)
}

// Perf_disarm masks the LVT entry first so a straggling overflow cannot NMI
// us with the event select already cleared.
func Perf_disarm() {
	hw.Wrmsr(defs.IA32_X2APIC_LVT_PMI, defs.LVT_NMI|defs.LVT_MASKED)
	hw.Wrmsr(defs.IA32_PERFEVTSEL0, 0)
}

func Perf_armed() bool {
	lvt := hw.Rdmsr(defs.IA32_X2APIC_LVT_PMI)
	return lvt&defs.LVT_MASKED == 0 && lvt&defs.LVT_DMODE == defs.LVT_NMI
}
