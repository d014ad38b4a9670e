package cpu

import "sync/atomic"

import "github.com/felipestenzel/stenzel-os-sub014/defs"

// the registry maps logical CPU indices to LAPIC IDs and publishes how many
// CPUs have registered so far. indices are dense, assigned in registration
// order and never reused; slot 0 is the BSP because the BSP registers before
// any AP is released from its startup spin.
var _cpus struct {
	apicids [defs.MAXCPUS]uint32
	ncpus   uint32
}

// Register assigns the next logical index to hwid. registration is driven by
// the bring-up sequencer one CPU at a time, so there is a single writer; the
// count is still published with an atomic store so that a reader observing
// ncpus == N may assume the first N entries (and their Cpu_t records) are
// fully constructed. on capacity failure the table is untouched and the
// caller must abort bring-up without binding a record.
func Register(hwid uint32) (int, defs.Err_t) {
	n := atomic.LoadUint32(&_cpus.ncpus)
	if n >= defs.MAXCPUS {
		return -1, defs.ERANGE
	}
	_cpus.apicids[n] = hwid
	atomic.StoreUint32(&_cpus.ncpus, n+1)
	return int(n), 0
}

func Ncpus() int {
	return int(atomic.LoadUint32(&_cpus.ncpus))
}

func Lookup(idx int) (uint32, bool) {
	if idx < 0 || idx >= Ncpus() {
		return 0, false
	}
	return _cpus.apicids[idx], true
}
