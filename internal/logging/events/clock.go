package events

import (
	"time"

	"github.com/atomicstack/clock-menu/internal/logging"
)

type ClockTracer struct{}

var Clock = ClockTracer{}

func (ClockTracer) Start(tick, poll time.Duration) {
	logging.Trace("clock.start", map[string]interface{}{"tick": tick.String(), "poll": poll.String()})
}

func (ClockTracer) Stop(ticks uint64) {
	logging.Trace("clock.stop", map[string]interface{}{"ticks": ticks})
}

func (ClockTracer) Fault(err error) {
	if err == nil {
		return
	}
	logging.Trace("clock.fault", map[string]interface{}{"error": err.Error()})
}
