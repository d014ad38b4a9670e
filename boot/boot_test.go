package boot

import "testing"

import "github.com/felipestenzel/stenzel-os-sub014/cpu"
import "github.com/felipestenzel/stenzel-os-sub014/defs"

// the whole bring-up sequence in registration order, since the sequencing is
// what's under test.
func TestBringup(t *testing.T) {
	if Cpus_joined() != 0 {
		t.Fatalf("%v cpus joined before boot", Cpus_joined())
	}

	c := Bsp_early_init(0x1, 0xa100001000)
	if c.Kstacktop != 0xa100001000 {
		t.Fatalf("bsp stack %#x", c.Kstacktop)
	}
	if cpu.Current() != c {
		t.Fatalf("Current is not the BSP")
	}
	if cpu.Ncpus() != 0 {
		t.Fatalf("registered before Bsp_init")
	}

	Bsp_init()
	if cpu.Ncpus() != 1 {
		t.Fatalf("%v cpus", cpu.Ncpus())
	}
	if hwid, ok := cpu.Lookup(0); !ok || hwid != 0x1 {
		t.Fatalf("bsp lookup %#x %v", hwid, ok)
	}
	if Cpus_joined() != 1 {
		t.Fatalf("%v joined", Cpus_joined())
	}

	regs := &[1024]uint32{}
	// software enable via the spurious vector register
	regs[0xf0/4] = 1 << 8
	lap := Lapic_init(regs)
	if !lap.Active() {
		t.Fatalf("lapic not active")
	}

	naps := 3
	for i := 0; i < naps; i++ {
		hwid := uint32(0x10 + i)
		stack := uintptr(0xa100004000 + i*0x4000)
		idx, err := Ap_start(hwid, stack)
		if err != 0 {
			t.Fatalf("ap %v: %v", i, err)
		}
		if idx != i+1 {
			t.Fatalf("ap %v got index %v", i, idx)
		}
		ap, ok := cpu.Get(idx)
		if !ok {
			t.Fatalf("no record for cpu %v", idx)
		}
		if ap.Id() != hwid || ap.Selfidx() != idx {
			t.Fatalf("cpu %v record: %#x %v", idx, ap.Id(),
				ap.Selfidx())
		}
		if ap.Kstacktop != stack {
			t.Fatalf("cpu %v stack %#x", idx, ap.Kstacktop)
		}
	}
	if Cpus_joined() != naps+1 {
		t.Fatalf("%v joined", Cpus_joined())
	}
	if cpu.Ncpus() != naps+1 {
		t.Fatalf("%v registered", cpu.Ncpus())
	}
}

// a capacity failure aborts the AP's bring-up without touching the registry
func TestBringupCapacity(t *testing.T) {
	for cpu.Ncpus() < defs.MAXCPUS {
		hwid := uint32(0x40 + cpu.Ncpus())
		if _, err := Ap_start(hwid, 0); err != 0 {
			t.Fatalf("fill: %v", err)
		}
	}
	joined := Cpus_joined()
	last, _ := cpu.Lookup(defs.MAXCPUS - 1)

	idx, err := Ap_start(0xbad, 0)
	if err != defs.ERANGE {
		t.Fatalf("expected ERANGE, got %v (idx %v)", err, idx)
	}
	if cpu.Ncpus() != defs.MAXCPUS {
		t.Fatalf("count moved: %v", cpu.Ncpus())
	}
	if hwid, _ := cpu.Lookup(defs.MAXCPUS - 1); hwid != last {
		t.Fatalf("last entry clobbered: %#x", hwid)
	}
	if Cpus_joined() != joined {
		t.Fatalf("join count moved: %v", Cpus_joined())
	}
}
