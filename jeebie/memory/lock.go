package memory

import (
	"errors"
	"fmt"
)

// Source identifies the component performing a bus access.
type Source uint8

const (
	SourceCPU Source = iota
	SourcePPU
	SourceDMA
)

func (s Source) String() string {
	switch s {
	case SourceCPU:
		return "CPU"
	case SourcePPU:
		return "PPU"
	case SourceDMA:
		return "DMA"
	}
	return fmt.Sprintf("Source(%d)", uint8(s))
}

// LockTarget is a bus region that can be locked.
type LockTarget uint8

const (
	// LockVRAM restricts video RAM to the PPU.
	LockVRAM LockTarget = iota
	// LockOAM restricts OAM to the PPU and DMA.
	LockOAM
	// LockDMA restricts every memory region except I/O and HRAM to DMA.
	LockDMA
)

// ErrLockDenied is returned when a component without lock rights asks for a BusLock.
var ErrLockDenied = errors.New("bus lock denied")

// BusLock is the capability to toggle bus locks. Only the PPU and the DMA
// controller can obtain one, the CPU never changes locks.
type BusLock struct {
	mmu   *MMU
	owner Source
}

// NewLock hands out a BusLock for the given owner.
func (m *MMU) NewLock(owner Source) (*BusLock, error) {
	switch owner {
	case SourcePPU, SourceDMA:
		return &BusLock{mmu: m, owner: owner}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrLockDenied, owner)
}

// Owner returns the source this lock was issued to.
func (l *BusLock) Owner() Source {
	return l.owner
}

func (l *BusLock) Lock(target LockTarget) {
	l.mmu.setLock(target, true)
}

func (l *BusLock) Unlock(target LockTarget) {
	l.mmu.setLock(target, false)
}

func (m *MMU) setLock(target LockTarget, locked bool) {
	switch target {
	case LockVRAM:
		m.vramLocked = locked
	case LockOAM:
		m.oamLocked = locked
	case LockDMA:
		m.dmaLocked = locked
	default:
		panic(fmt.Sprintf("unknown lock target: %d", target))
	}
}

// Locked reports whether the given lock is held.
func (m *MMU) Locked(target LockTarget) bool {
	switch target {
	case LockVRAM:
		return m.vramLocked
	case LockOAM:
		return m.oamLocked
	case LockDMA:
		return m.dmaLocked
	}
	return false
}

// allowed checks the access against the current locks.
func (m *MMU) allowed(region memRegion, source Source) bool {
	if m.dmaLocked && source != SourceDMA {
		switch region {
		case regionROM, regionVRAM, regionExtRAM, regionWRAM, regionEcho, regionOAM:
			return false
		}
	}
	switch region {
	case regionVRAM:
		return !m.vramLocked || source == SourcePPU
	case regionOAM:
		return !m.oamLocked || source == SourcePPU || source == SourceDMA
	}
	return true
}
