// Package bus drives the F-series decoder and the auxiliary-controller
// response engine off a stream of inbound packets, and exposes the two
// mutual-exclusion regions spec.md §5 calls for: state ↔ publish, and
// write queue ↔ command front-end. It plays the role of the teacher's
// server.go — a thin concurrency-owning shell around a protocol core that
// otherwise has no opinion about goroutines.
package bus

import (
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MadAppGang/p1p2aux/control"
	"github.com/MadAppGang/p1p2aux/p1p2"
)

// DefaultPublishInterval matches the bus's own 0.8-2s poll cadence
// (spec.md §5).
const DefaultPublishInterval = 2 * time.Second

// Orchestrator is the bus-task/publish-task/command-task coordinator (C8).
// The bus task is the sole writer of state; the publish task is the sole
// reader of it through Snapshot. The bus task is also the sole reader of
// the engine's write queue (via Respond), while the command task is the
// sole appender to it (via ApplyCommand). Both boundaries are guarded by a
// plain mutex held for the shortest possible critical section, mirroring
// the teacher's own mutex helper in spirit (helper.go) while using a
// regular sync.Mutex — a goroutine is not an ISR, so there is no need for
// a spinlock or disabled-preemption primitive to satisfy the "short,
// non-blocking" constraint.
type Orchestrator struct {
	log *logrus.Entry

	stateMu sync.Mutex
	state   p1p2.State

	engineMu sync.Mutex
	engine   *control.Engine

	publishInterval time.Duration
	deltas          chan p1p2.State

	stop chan struct{}
	wg   sync.WaitGroup
}

// New constructs an Orchestrator for the given model. Log may be nil, in
// which case a disabled logger is used — the core never requires a sink
// to function.
func New(model control.Model, log *logrus.Logger) *Orchestrator {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
		log.SetLevel(logrus.PanicLevel)
	}
	return &Orchestrator{
		log:             log.WithField("component", "bus"),
		engine:          control.NewEngine(model),
		publishInterval: DefaultPublishInterval,
		deltas:          make(chan p1p2.State, 1),
		stop:            make(chan struct{}),
	}
}

// HandleInbound is the bus task's entry point for every complete inbound
// packet: it always runs the decoder, and — when the packet is addressed
// to the aux controller — also asks the response engine to build a reply.
// It returns the reply bytes and true only when one should be transmitted.
func (o *Orchestrator) HandleInbound(pkt p1p2.Packet) (reply []byte, ok bool) {
	o.stateMu.Lock()
	p1p2.Decode(pkt, &o.state)
	o.stateMu.Unlock()

	o.log.WithFields(logrus.Fields(pkt.LogFields())).Debug("decoded inbound packet")

	if !addressedToAux(pkt) {
		return nil, false
	}

	o.engineMu.Lock()
	reply, ok = o.engine.Respond(pkt.Data)
	o.engineMu.Unlock()

	if ok {
		o.log.WithField("len", len(reply)).Debug("built aux-controller reply")
	}
	return reply, ok
}

// addressedToAux reports whether pkt's destination byte targets the aux
// controller (spec.md §4.2): dst == 0x40.
func addressedToAux(pkt p1p2.Packet) bool {
	return pkt.Len() >= 2 && pkt.Data[1] == p1p2.AddrAuxDst
}

// ApplyCommand forwards cmd to the response engine's command front-end
// (C7). This is the command task's only interaction with shared state,
// and shares engineMu with Respond's overlay pass — the second of the two
// critical sections spec.md §5 calls for.
func (o *Orchestrator) ApplyCommand(cmd control.Command) error {
	o.engineMu.Lock()
	defer o.engineMu.Unlock()
	return o.engine.ApplyCommand(cmd)
}

// Snapshot copies the current HVAC state out atomically and clears its
// changed bitmask, per spec.md §6 ("the bridge inspects changed and
// clears it after consumption"). This is the one critical section shared
// between the bus task and the publish task.
func (o *Orchestrator) Snapshot() p1p2.State {
	o.stateMu.Lock()
	defer o.stateMu.Unlock()
	snap := o.state
	o.state.Changed = 0
	return snap
}

// Deltas returns the channel the publish task pushes periodic snapshots
// onto. It is buffered by one; a publish tick that finds the channel full
// drops the previous, unread snapshot rather than blocking.
func (o *Orchestrator) Deltas() <-chan p1p2.State {
	return o.deltas
}

// StartPublishing launches the publish task on the configured interval.
// Stop must be called to release it.
func (o *Orchestrator) StartPublishing() {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(o.publishInterval)
		defer ticker.Stop()
		for {
			select {
			case <-o.stop:
				return
			case <-ticker.C:
				snap := o.Snapshot()
				select {
				case o.deltas <- snap:
				default:
					select {
					case <-o.deltas:
					default:
					}
					o.deltas <- snap
				}
			}
		}
	}()
}

// Stop halts the publish task and waits for it to exit.
func (o *Orchestrator) Stop() {
	close(o.stop)
	o.wg.Wait()
}
