package timing

import "time"

// TickerLimiter paces frames with a time.Ticker. Frames that run late are
// not made up for, the ticker drops the missed ticks.
type TickerLimiter struct {
	ticker *time.Ticker
}

func NewTickerLimiter() *TickerLimiter {
	return &TickerLimiter{ticker: time.NewTicker(FrameDuration())}
}

// C exposes the tick channel, for loops that also select on other events.
func (t *TickerLimiter) C() <-chan time.Time {
	return t.ticker.C
}

func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ticker.C
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
