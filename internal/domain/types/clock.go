package types

import "time"

func defaultNow() int64 { return time.Now().Unix() }

// SetClock overrides the clock used by validity checks; tests use this to
// simulate expiry without sleeping (spec §8 cache-expiry scenario). Passing
// nil restores the real clock.
func SetClock(f func() int64) {
	if f == nil {
		nowFunc = defaultNow
		return
	}
	nowFunc = f
}
