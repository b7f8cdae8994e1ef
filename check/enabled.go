package check

import "sync/atomic"

// disabled is inverted so that the zero value means checking is on.
var disabled atomic.Bool

// Enabled reports whether checked calls are currently checked at all.
func Enabled() bool {
	return !disabled.Load()
}

// SetEnabled turns checking on or off for the whole process and returns a
// func that restores the previous setting:
//
//	defer check.SetEnabled(false)()
func SetEnabled(on bool) (restore func()) {
	prev := disabled.Swap(!on)
	logger.Debug("set enabled", "enabled", on)
	return func() {
		disabled.Store(prev)
	}
}
