package runner

import (
	"github.com/tidwall/linesplit/internal/log"
	"go.uber.org/atomic"
)

// Reporter logs progress every ten percent and can be canceled from
// another goroutine, such as a signal handler.
type Reporter struct {
	canceled *atomic.Bool
	last     int
}

// NewReporter returns a reporter that is not canceled.
func NewReporter() *Reporter {
	return &Reporter{canceled: atomic.NewBool(false), last: -1}
}

// SetPercentage logs when a new multiple of ten is reached.
func (p *Reporter) SetPercentage(percent int) {
	if percent/10 != p.last/10 || p.last < 0 {
		log.Debugf("progress: %d%%", percent)
	}
	p.last = percent
}

// Cancel asks the run to stop before the next feature.
func (p *Reporter) Cancel() {
	p.canceled.Store(true)
}

func (p *Reporter) Canceled() bool {
	return p.canceled.Load()
}
