// Package progress carries the telemetry surface around a distribution
// scan: a console ticker throttled to a sane refresh rate, Prometheus
// exposition for longer-running batches, and an optional NATS completion
// announcement — all of it outside the core per-row distribution loop, so
// none of it is on the hot path.
package progress

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/alexjago/nparty/pkg/log"
	"github.com/alexjago/nparty/pkg/units"
)

// RunID returns a fresh identifier for one invocation of the CLI, used to
// correlate console output, metrics, and completion events across a
// multi-scenario run.
func RunID() string {
	return uuid.NewString()
}

// Ticker prints a rate-limited "rows processed so far" line to the
// console, so a multi-million-row scan gives visible signs of life
// without the per-row cost of a log call on every iteration.
type Ticker struct {
	limiter *rate.Limiter
	started time.Time
	label   string
}

// NewTicker returns a Ticker for scenarioName that allows at most one
// printed line per interval.
func NewTicker(scenarioName string, interval time.Duration) *Ticker {
	return &Ticker{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		started: nowFunc(),
		label:   scenarioName,
	}
}

// nowFunc is indirected so tests can substitute it; production always uses
// time.Now.
var nowFunc = time.Now

// Tick reports rows processed so far; it is cheap to call every row since
// the rate limiter discards all but one call per interval.
func (t *Ticker) Tick(rowsRead uint64) {
	if !t.limiter.Allow() {
		return
	}
	elapsed := nowFunc().Sub(t.started).Seconds()
	throughput := units.Rate(rowsRead, elapsed, "rows")
	log.Infof("%s: %s rows (%s)", t.label, units.Count(rowsRead), throughput)
}

// Done logs a final summary line for one scenario's completed scan.
func (t *Ticker) Done(rowsRead uint64) time.Duration {
	elapsed := nowFunc().Sub(t.started)
	log.Infof("%s: done, %s rows in %s (%s)", t.label, units.Count(rowsRead), elapsed.Round(time.Millisecond), units.Rate(rowsRead, elapsed.Seconds(), "rows"))
	return elapsed
}
