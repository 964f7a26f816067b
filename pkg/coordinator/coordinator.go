// Package coordinator owns the parser, state, PTY, and event hub for one
// terminal instance. Its main loop reads from the PTY, drives the parser,
// applies events to the state, forwards inbound commands to the PTY, and
// broadcasts output/state-change/lifecycle events to subscribers.
package coordinator

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vibetunnel/termcore/pkg/config"
	"github.com/vibetunnel/termcore/pkg/parser"
	"github.com/vibetunnel/termcore/pkg/ptyadapter"
	"github.com/vibetunnel/termcore/pkg/snapshot"
	"github.com/vibetunnel/termcore/pkg/state"
	"github.com/vibetunnel/termcore/pkg/term"
	"github.com/vibetunnel/termcore/pkg/termerror"
)

// Phase is the coordinator's lifecycle state:
// Starting, Running, ShuttingDown, then Closed.
type Phase int

const (
	PhaseStarting Phase = iota
	PhaseRunning
	PhaseShuttingDown
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseStarting:
		return "Starting"
	case PhaseRunning:
		return "Running"
	case PhaseShuttingDown:
		return "ShuttingDown"
	case PhaseClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// CommandKind discriminates the Command sum type.
type CommandKind int

const (
	CommandWrite CommandKind = iota
	CommandResize
	CommandClose
)

// Command is one inbound instruction to the coordinator's main loop.
type Command struct {
	Kind  CommandKind
	Bytes []byte
	Size  term.Size
}

// EventKind discriminates the Event sum type.
type EventKind int

const (
	EventOutputReady EventKind = iota
	EventStateChanged
	EventResized
	EventClosed
	EventError
)

// Event is one outbound notification the coordinator broadcasts.
type Event struct {
	Kind  EventKind
	Bytes []byte
	Size  term.Size
	Err   string
}

// eventSubscriberCapDefault matches config.DefaultConfig's EventQueueSize
// when a caller constructs a Coordinator without going through config.
const eventSubscriberCapDefault = 256

// Coordinator owns one terminal instance end to end: spawning its PTY,
// running the parser and state engine against whatever it reads, and
// publishing a broadcast event stream. The TerminalState is mutated only
// from the main loop goroutine; never reach into it from another one.
type Coordinator struct {
	ID string

	cfg  *config.Config
	pty  *ptyadapter.Handle
	pars *parser.Parser
	st   *state.TerminalState

	commands chan Command

	subMu       sync.Mutex
	subscribers map[int]chan Event
	nextSubID   int

	phaseMu sync.RWMutex
	phase   Phase

	closed chan struct{}
}

// Options configures New.
type Options struct {
	Command    []string
	WorkingDir string
	Size       term.Size
	Config     *config.Config
}

// New spawns a PTY child and constructs a Coordinator around it, but does
// not start the main loop; call Run for that.
func New(opts Options) (*Coordinator, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	size := opts.Size
	if size.Empty() {
		size = term.Size{Rows: uint16(cfg.DefaultRows), Cols: uint16(cfg.DefaultCols)}
	}

	handle, err := ptyadapter.Spawn(ptyadapter.Options{
		Command:    opts.Command,
		WorkingDir: opts.WorkingDir,
		Term:       cfg.DefaultTerm,
		Size:       size,
	})
	if err != nil {
		return nil, err
	}

	st := state.New(size, cfg.ScrollbackLines)

	c := &Coordinator{
		ID:          uuid.New().String(),
		cfg:         cfg,
		pty:         handle,
		pars:        parser.New(),
		st:          st,
		commands:    make(chan Command, cfg.CommandQueueSize),
		subscribers: make(map[int]chan Event),
		phase:       PhaseStarting,
		closed:      make(chan struct{}),
	}
	// The reply writer runs inside the main loop (Apply is called from
	// Run), so a blocking send here would deadlock against a full command
	// queue. A status report that loses the race to a flooded queue is
	// droppable; the application will just re-query.
	st.SetReplyWriter(func(b []byte) {
		select {
		case c.commands <- Command{Kind: CommandWrite, Bytes: b}:
		default:
			log.Printf("coordinator %s: command queue full, dropping status reply", c.ID)
		}
	})
	return c, nil
}

// Phase reports the coordinator's current lifecycle state.
func (c *Coordinator) Phase() Phase {
	c.phaseMu.RLock()
	defer c.phaseMu.RUnlock()
	return c.phase
}

func (c *Coordinator) setPhase(p Phase) {
	c.phaseMu.Lock()
	c.phase = p
	c.phaseMu.Unlock()
}

// Subscribe registers a new event subscriber. The returned channel is
// bounded; a subscriber that falls behind has its oldest unread event
// dropped rather than stalling the coordinator. Callers must call the
// returned cancel func once done to free the subscription.
func (c *Coordinator) Subscribe() (<-chan Event, func()) {
	bufSize := c.cfg.EventQueueSize
	if bufSize <= 0 {
		bufSize = eventSubscriberCapDefault
	}
	ch := make(chan Event, bufSize)

	c.subMu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = ch
	c.subMu.Unlock()

	cancel := func() {
		c.subMu.Lock()
		delete(c.subscribers, id)
		c.subMu.Unlock()
	}
	return ch, cancel
}

func (c *Coordinator) publish(ev Event) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subscribers {
		select {
		case ch <- ev:
		default:
			// Drop the oldest queued event for this subscriber and retry
			// once; a subscriber already this far behind only cares about
			// the latest state.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}

// Submit enqueues a command for the main loop. Safe to call concurrently
// with Run; blocks if the command queue is full.
func (c *Coordinator) Submit(cmd Command) {
	c.commands <- cmd
}

// Snapshot returns the current terminal snapshot. Like the command queue,
// this is safe to call from another goroutine only because it reads
// through the same channel-serialized path as everything else: callers
// should prefer requesting it via the event loop's owner rather than
// calling TerminalState's accessors directly from a second goroutine.
func (c *Coordinator) Snapshot() snapshot.TerminalSnapshot {
	return c.st.Snapshot()
}

// Run executes the coordinator's main loop until Close, a read error, or
// PTY death. It is meant to be run in its own goroutine; Run returns once
// the coordinator reaches Closed.
func (c *Coordinator) Run() {
	c.setPhase(PhaseRunning)
	defer close(c.closed)

	readResults := make(chan readResult, 1)
	go c.readLoop(readResults)

	interval := c.cfg.LivenessCheckInterval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case res, ok := <-readResults:
			if !ok {
				continue
			}
			if res.err != nil {
				log.Printf("coordinator %s: pty read error: %v", c.ID, res.err)
				c.publish(Event{Kind: EventError, Err: res.err.Error()})
				c.shutdown()
				return
			}
			if res.n > 0 {
				data := append([]byte(nil), res.buf[:res.n]...)
				for _, ev := range c.pars.Parse(data) {
					c.st.Apply(ev)
				}
				c.publish(Event{Kind: EventOutputReady, Bytes: data})
				c.publish(Event{Kind: EventStateChanged})
			}

		case cmd := <-c.commands:
			c.handleCommand(cmd)
			if c.Phase() == PhaseClosed {
				return
			}

		case <-ticker.C:
			if !c.pty.IsAlive() {
				c.shutdown()
				return
			}
		}
	}
}

type readResult struct {
	buf []byte
	n   int
	err error
}

// readLoop feeds PTY reads into a channel so Run's select can treat a
// blocking Read the same as any other suspension point.
func (c *Coordinator) readLoop(out chan<- readResult) {
	for {
		// A fresh buffer every iteration: the channel handoff to Run does
		// not guarantee Run has finished copying out of it before this
		// loop reads again, so reusing one buffer across iterations would
		// race.
		buf := make([]byte, 4096)
		n, err := c.pty.Read(buf)
		select {
		case out <- readResult{buf: buf, n: n, err: err}:
		case <-c.closed:
			return
		}
		if err != nil {
			return
		}
		if n == 0 {
			// No bytes now; avoid a busy loop on a non-blocking 0-read.
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func (c *Coordinator) handleCommand(cmd Command) {
	switch cmd.Kind {
	case CommandWrite:
		if _, err := c.pty.Write(cmd.Bytes); err != nil {
			log.Printf("coordinator %s: pty write error: %v", c.ID, err)
			c.publish(Event{Kind: EventError, Err: err.Error()})
		}
	case CommandResize:
		c.st.Resize(cmd.Size)
		if err := c.pty.Resize(cmd.Size); err != nil {
			log.Printf("coordinator %s: pty resize error: %v", c.ID, err)
			c.publish(Event{Kind: EventError, Err: err.Error()})
			return
		}
		c.publish(Event{Kind: EventResized, Size: cmd.Size})
	case CommandClose:
		c.shutdown()
	}
}

func (c *Coordinator) shutdown() {
	if c.Phase() == PhaseClosed {
		return
	}
	c.setPhase(PhaseShuttingDown)
	_ = c.pty.Close()
	c.publish(Event{Kind: EventClosed})
	c.setPhase(PhaseClosed)
}

// Err builds a termerror wrapping a platform-level failure observed by a
// caller outside the main loop (e.g. Spawn failing before Run starts).
func Err(kind termerror.Kind, msg string, cause error) error {
	return termerror.Wrap(kind, msg, cause)
}
