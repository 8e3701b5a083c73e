// Package engine drives the steady-state cycle for each dashboard: merge
// incoming telemetry, patch the document's value slots, serialize the frame,
// and fan it out to subscribers.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/dashboard"
	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/identity"
	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/serialstudio"
	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/source"
	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/telemetry"
)

const (
	updateQueueLen  = 64
	subscriberQueue = 4
	cycleHistoryLen = 32
)

// Options tunes a Streamer.
type Options struct {
	// Pretty serializes frames as indented JSON.
	Pretty bool
	// BufferSize overrides the serialization buffer size in bytes.
	BufferSize int
	Logger     *slog.Logger
}

// Info summarizes a running streamer for status reporting.
type Info struct {
	Name         string
	Cycles       int
	Errors       int
	DroppedSlots int
	LastCycle    time.Time
	AvgCycle     time.Duration
}

// Streamer owns one dashboard's project, its telemetry sources, the merged
// live snapshot, and the frame buffer. All document access happens on the
// Run goroutine, which is what makes the unsynchronized Project safe here.
type Streamer struct {
	mu          sync.RWMutex
	dash        *dashboard.Dashboard
	project     *serialstudio.Project
	sources     []source.Source
	updates     chan source.Update
	subscribers []chan []byte
	snap        telemetry.Snapshot
	buf         []byte
	frame       []byte
	pretty      bool
	log         *slog.Logger
	stopCh      chan struct{}
	cycles      int
	errors      int
	lastCycle   time.Time
	cycleTimes  *Ring[time.Duration]
}

// NewStreamer builds the project and sources for dash. provider supplies
// the credentials referenced by the dashboard's source declarations and may
// be nil when none are referenced.
func NewStreamer(dash *dashboard.Dashboard, provider identity.Provider, opts Options) (*Streamer, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	project, err := serialstudio.NewProject(dash, serialstudio.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if n := project.Dropped(); n > 0 {
		log.Warn("dashboard exceeds slot capacity; extra telemetry keys ignored",
			"dashboard", dash.Title, "dropped", n)
	}

	s := &Streamer{
		dash:       dash,
		project:    project,
		updates:    make(chan source.Update, updateQueueLen),
		snap:       telemetry.Snapshot{},
		pretty:     opts.Pretty,
		log:        log,
		stopCh:     make(chan struct{}),
		cycleTimes: NewRing[time.Duration](cycleHistoryLen),
	}
	s.buf = make([]byte, s.bufferSize(opts.BufferSize))

	if err := s.buildSources(provider); err != nil {
		return nil, err
	}
	return s, nil
}

// bufferSize picks the serialization buffer size: an explicit override, or
// the compact estimate with headroom for growing values (pretty output
// needs the documented larger multiplier).
func (s *Streamer) bufferSize(override int) int {
	if override > 0 {
		return override
	}
	est := s.project.EstimateSize()
	if s.pretty {
		return est * serialstudio.PrettyFactor
	}
	return est * 2
}

func (s *Streamer) buildSources(provider identity.Provider) error {
	lookup := func(name string) (*identity.Identity, error) {
		if name == "" {
			return nil, nil
		}
		if provider == nil {
			return nil, fmt.Errorf("identity %q referenced but no store available", name)
		}
		return provider.Get(name)
	}

	for _, cfg := range s.dash.Sources.MQTT {
		creds, err := lookup(cfg.Identity)
		if err != nil {
			return fmt.Errorf("mqtt source %s: %w", cfg.Broker, err)
		}
		src, err := source.NewMQTTSource(cfg, creds, s.log)
		if err != nil {
			return err
		}
		s.sources = append(s.sources, src)
	}
	for _, cfg := range s.dash.Sources.SNMP {
		creds, err := lookup(cfg.Identity)
		if err != nil {
			return fmt.Errorf("snmp source %s: %w", cfg.Host, err)
		}
		src, err := source.NewSNMPSource(cfg, creds, s.log)
		if err != nil {
			return err
		}
		s.sources = append(s.sources, src)
	}
	return nil
}

// Run starts the sources and blocks in the render loop until Stop. An
// initial frame is rendered immediately so subscribers connecting before
// the first telemetry arrives still receive the document skeleton.
func (s *Streamer) Run() {
	for _, src := range s.sources {
		go func(src source.Source) {
			if err := src.Run(s.updates); err != nil {
				s.log.Error("telemetry source failed",
					"source", src.Name(), "error", err)
			}
		}(src)
	}

	s.cycle()

	ticker := time.NewTicker(s.dash.Interval)
	defer ticker.Stop()

	for {
		select {
		case u := <-s.updates:
			s.snap.MergeAt(u.Prefix, u.Snap)
		case <-ticker.C:
			s.cycle()
		case <-s.stopCh:
			for _, src := range s.sources {
				src.Stop()
			}
			return
		}
	}
}

// Stop halts the render loop and all sources.
func (s *Streamer) Stop() {
	close(s.stopCh)
}

// cycle patches the document from the live snapshot, serializes one frame,
// and fans it out. A serialization failure keeps the previous frame.
func (s *Streamer) cycle() {
	start := time.Now()

	s.drainUpdates()
	s.project.Update(s.snap)

	n := s.project.Serialize(s.buf, s.pretty)
	if n == 0 {
		s.mu.Lock()
		s.errors++
		s.mu.Unlock()
		s.log.Error("frame serialization failed",
			"dashboard", s.dash.Title, "buffer_len", len(s.buf))
		return
	}

	frame := make([]byte, n)
	copy(frame, s.buf[:n])

	s.mu.Lock()
	s.frame = frame
	s.cycles++
	s.lastCycle = time.Now()
	subs := s.subscribers
	s.mu.Unlock()
	s.cycleTimes.Push(time.Since(start))

	for _, ch := range subs {
		select {
		case ch <- frame:
		default:
			// Slow subscriber; it will pick up the next frame.
		}
	}
}

// drainUpdates merges any updates queued between ticks so one cycle always
// sees the newest reading per key.
func (s *Streamer) drainUpdates() {
	for {
		select {
		case u := <-s.updates:
			s.snap.MergeAt(u.Prefix, u.Snap)
		default:
			return
		}
	}
}

// Subscribe returns a channel receiving every rendered frame. Subscribers
// that fall behind skip frames instead of blocking the engine. Callers must
// Unsubscribe when done.
func (s *Streamer) Subscribe() chan []byte {
	ch := make(chan []byte, subscriberQueue)
	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel returned by Subscribe and closes it.
func (s *Streamer) Unsubscribe(ch chan []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subscribers {
		if sub == ch {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}

// LatestFrame returns the most recently rendered frame, or nil before the
// first successful cycle.
func (s *Streamer) LatestFrame() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

// Info returns a status summary.
func (s *Streamer) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var avg time.Duration
	if samples := s.cycleTimes.All(); len(samples) > 0 {
		var total time.Duration
		for _, d := range samples {
			total += d
		}
		avg = total / time.Duration(len(samples))
	}
	return Info{
		Name:         s.dash.Title,
		Cycles:       s.cycles,
		Errors:       s.errors,
		DroppedSlots: s.project.Dropped(),
		LastCycle:    s.lastCycle,
		AvgCycle:     avg,
	}
}
