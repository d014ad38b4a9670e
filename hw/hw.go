package hw

// the port-I/O and MSR primitives live behind hw_i so that the rest of the
// kernel never touches a hardware register directly. the real backend is
// installed by the machine-dependent boot code; until then any access is a
// bug, so the default backend refuses to pretend otherwise.
type hw_i interface {
	Inb(port uint16) uint8
	Outb(port uint16, v uint8)
	Rdmsr(reg int) uint64
	Wrmsr(reg int, v uint64)
	Cli()
	Htpause()
}

var cur hw_i = &nilhw_t{}

func Install(h hw_i) {
	if h == nil {
		panic("no")
	}
	cur = h
}

func Inb(port uint16) uint8 {
	return cur.Inb(port)
}

func Outb(port uint16, v uint8) {
	cur.Outb(port, v)
}

func Rdmsr(reg int) uint64 {
	return cur.Rdmsr(reg)
}

func Wrmsr(reg int, v uint64) {
	cur.Wrmsr(reg, v)
}

// clears interrupts on the calling CPU
func Cli() {
	cur.Cli()
}

// pause hint for spin loops
func Htpause() {
	cur.Htpause()
}

type nilhw_t struct {
}

func (n *nilhw_t) Inb(port uint16) uint8 {
	panic("no hw backend")
}

func (n *nilhw_t) Outb(port uint16, v uint8) {
	panic("no hw backend")
}

func (n *nilhw_t) Rdmsr(reg int) uint64 {
	panic("no hw backend")
}

func (n *nilhw_t) Wrmsr(reg int, v uint64) {
	panic("no hw backend")
}

func (n *nilhw_t) Cli() {
	panic("no hw backend")
}

func (n *nilhw_t) Htpause() {
}
