// Package machine installs a finalized code buffer into executable memory
// and transfers control to it (spec §4.6, §5). It owns the extern table the
// parser resolves identifiers against and the only OS-visible resource in
// this core: the RWX mapping backing the emitted code.
package machine

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// executableMemory is a single RWX mapping holding one compiled program's
// code. The core only ever needs "allocate N bytes of RWX memory" and
// "release it" (spec §1); x/sys/unix supplies both ends of that pair
// instead of hand-rolled raw syscall numbers (grounded on the same
// mmap/munmap pair the donor's JIT trampoline uses, see SPEC_FULL.md).
type executableMemory struct {
	region []byte
}

// allocateExecutable maps size bytes PROT_READ|WRITE|EXEC, MAP_PRIVATE|
// MAP_ANON (spec §6, "Executable memory interface").
func allocateExecutable(size int) (*executableMemory, error) {
	region, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("machine: mmap executable region: %w", err)
	}
	return &executableMemory{region: region}, nil
}

// release unmaps the region. Safe to call once; the driver is expected to
// defer it immediately after a successful allocation (spec §5, "a scoped-
// release guard or equivalent").
func (m *executableMemory) release() error {
	if m.region == nil {
		return nil
	}
	err := unix.Munmap(m.region)
	m.region = nil
	return err
}
