package timing

import "time"

// Limiter paces a loop to the DMG frame rate.
type Limiter interface {
	// WaitForNextFrame blocks until the next frame is due.
	WaitForNextFrame()
	// Stop releases the limiter.
	Stop()
}

// DMG timing, in M-cycles.
const (
	// CyclesPerFrame is one full LCD frame, 154 lines of 456 dots.
	CyclesPerFrame = 17556
	// CyclesPerSecond is the M-cycle rate, a quarter of the 4.19 MHz clock.
	CyclesPerSecond = 1048576
)

// TargetFPS is the DMG frame rate, about 59.73.
func TargetFPS() float64 {
	return float64(CyclesPerSecond) / float64(CyclesPerFrame)
}

// FrameDuration returns the length of a single frame.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / TargetFPS())
}

// NewNoOpLimiter returns a limiter that never waits.
func NewNoOpLimiter() Limiter {
	return noOpLimiter{}
}

type noOpLimiter struct{}

func (noOpLimiter) WaitForNextFrame() {}
func (noOpLimiter) Stop()             {}
