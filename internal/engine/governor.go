package engine

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"
)

const (
	governorPollInterval = 10 * time.Millisecond
	defaultWritePeriod   = 500 * time.Millisecond
)

// Governor runs beside the search worker. It keeps SearchInfo's clock
// current from a monotonic start point, stops the search when the
// wall-clock budget is spent, and emits a UCI info line periodically. It
// never touches the game state; the search worker owns that.
type Governor struct {
	Info        *SearchInfo
	Stop        *atomic.Bool
	Limits      *SearchLimits
	Out         io.Writer
	WritePeriod time.Duration
}

// Run loops until the stop flag is set, by this governor, the search
// worker, or the UCI layer. Time updates and info lines are emitted in
// non-decreasing time order because this goroutine is their only writer.
func (g *Governor) Run() {
	period := g.WritePeriod
	if period <= 0 {
		period = defaultWritePeriod
	}
	start := time.Now()
	lastWrite := start

	for !g.Stop.Load() {
		time.Sleep(governorPollInterval)

		elapsed := time.Since(start)
		g.Info.SetTimeMS(elapsed.Milliseconds())

		if g.Limits.MoveTime > 0 && elapsed >= g.Limits.MoveTime {
			g.Stop.Store(true)
			return
		}

		if now := time.Now(); now.Sub(lastWrite) >= period {
			g.writeInfo()
			lastWrite = now
		}
	}
}

// writeInfo emits one progress line. The score is the evaluation in pawns
// times one hundred, truncated to an integer of centipawns.
func (g *Governor) writeInfo() {
	if g.Out == nil {
		return
	}
	pv := g.Info.PV()
	var sb strings.Builder
	fmt.Fprintf(&sb, "info score cp %d depth %d nodes %d time %d",
		int(g.Info.Score()*100), g.Info.Depth(), g.Info.Nodes(), g.Info.TimeMS())
	if len(pv) > 0 {
		sb.WriteString(" pv")
		for _, m := range pv {
			sb.WriteByte(' ')
			sb.WriteString(m.String())
		}
	}
	sb.WriteByte('\n')
	io.WriteString(g.Out, sb.String())
}
