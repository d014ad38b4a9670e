package hw

// Simhw_t emulates the handful of ports and MSRs this kernel touches. it
// backs the test suites for the NMI and boot paths, where real port I/O is
// obviously unavailable. every Outb/Wrmsr is also appended to a log so tests
// can assert the exact register write sequence.
type Simhw_t struct {
	ports map[uint16]uint8
	msrs  map[int]uint64
	// write log, oldest first
	Portwr []Portwr_t
	Msrwr  []Msrwr_t
	Clis   int
}

type Portwr_t struct {
	Port uint16
	Val  uint8
}

type Msrwr_t struct {
	Reg int
	Val uint64
}

func Mksim() *Simhw_t {
	return &Simhw_t{
		ports: make(map[uint16]uint8),
		msrs:  make(map[int]uint64),
	}
}

func (s *Simhw_t) Setport(port uint16, v uint8) {
	s.ports[port] = v
}

func (s *Simhw_t) Setmsr(reg int, v uint64) {
	s.msrs[reg] = v
}

func (s *Simhw_t) Inb(port uint16) uint8 {
	return s.ports[port]
}

func (s *Simhw_t) Outb(port uint16, v uint8) {
	s.ports[port] = v
	s.Portwr = append(s.Portwr, Portwr_t{port, v})
}

func (s *Simhw_t) Rdmsr(reg int) uint64 {
	return s.msrs[reg]
}

func (s *Simhw_t) Wrmsr(reg int, v uint64) {
	s.msrs[reg] = v
	s.Msrwr = append(s.Msrwr, Msrwr_t{reg, v})
}

func (s *Simhw_t) Cli() {
	s.Clis++
}

func (s *Simhw_t) Htpause() {
}
