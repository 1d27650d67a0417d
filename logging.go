package procrun

import "go.uber.org/zap"

// log is the package-level logger used for lifecycle and spawn diagnostics.
// It defaults to a no-op logger so callers who never call SetLogger pay
// nothing for it.
var log = zap.NewNop()

// SetLogger installs the logger procrun uses for spawn, lifecycle, and
// stream-error diagnostics. Passing nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	log = l
}
