package live

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Clock reports the output pipeline's current playback time. It starts at
// zero when the pipeline is created and only moves forward.
type Clock interface {
	Now() time.Duration
}

// WallClock is the production Clock, anchored at its creation time.
type WallClock struct {
	start time.Time
}

func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

func (c *WallClock) Now() time.Duration {
	return time.Since(c.start)
}

// Buffer is one scheduled playback unit.
type Buffer struct {
	ID       uuid.UUID
	PCM      []byte
	Start    time.Duration
	Duration time.Duration
}

// Scheduler sequences inbound audio buffers for gapless playback. Frames
// arrive at irregular network intervals; each one is scheduled at
// max(cursor, now) and the cursor advances by its duration, so bursts queue
// back to back and a late frame starts immediately.
//
// The scheduler owns the cursor and the set of in-flight buffers; actual
// rendering is delegated to the emit callback.
type Scheduler struct {
	clock Clock
	emit  func(Buffer)

	mu     sync.Mutex
	cursor time.Duration
	active map[uuid.UUID]Buffer
	muted  bool
	level  float64
}

// NewScheduler creates a scheduler. emit receives each scheduled buffer and
// may be nil when the caller drains via return values instead.
func NewScheduler(clock Clock, emit func(Buffer)) *Scheduler {
	return &Scheduler{
		clock:  clock,
		emit:   emit,
		active: make(map[uuid.UUID]Buffer),
	}
}

// Schedule enqueues one PCM16 buffer at the output rate and returns its
// slot. While muted the buffer's samples are replaced with silence of the
// same length so pacing is preserved and the backend stays unaware.
func (s *Scheduler) Schedule(pcm []byte) Buffer {
	s.mu.Lock()

	start := s.cursor
	if now := s.clock.Now(); now > start {
		start = now
	}
	dur := PCM16Duration(pcm, OutputSampleRate)
	s.cursor = start + dur

	data := pcm
	if s.muted {
		data = make([]byte, len(pcm))
	}
	buf := Buffer{
		ID:       uuid.New(),
		PCM:      data,
		Start:    start,
		Duration: dur,
	}
	s.active[buf.ID] = buf
	s.level = meanAmplitude(data)
	emit := s.emit
	s.mu.Unlock()

	if emit != nil {
		emit(buf)
	}
	return buf
}

// Complete marks a buffer as finished playing and drops it from the active
// set. Unknown ids are ignored; an interrupted buffer may complete late.
func (s *Scheduler) Complete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, id)
	if len(s.active) == 0 {
		s.level = 0
	}
}

// Interrupt discards every in-flight buffer and resets the cursor to the
// pipeline's current time. Resetting to zero instead would schedule all
// subsequent audio in the past and make it play immediately, out of pacing.
func (s *Scheduler) Interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = make(map[uuid.UUID]Buffer)
	s.cursor = s.clock.Now()
	s.level = 0
}

// SetMuted gates the gain applied to buffers as they are scheduled.
// Buffers emitted before the switch are not rewritten here; the session
// stops the output device to cut those. Capture and transmission
// continue either way.
func (s *Scheduler) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
	if muted {
		s.level = 0
	}
}

func (s *Scheduler) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// ActiveCount returns the number of scheduled buffers not yet completed.
func (s *Scheduler) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// Cursor returns the next free playback slot.
func (s *Scheduler) Cursor() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Level returns a coarse loudness reading of the most recently scheduled
// audio, in [0, 1]. Read-only instrumentation for the pulsing indicator.
func (s *Scheduler) Level() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

func meanAmplitude(pcm []byte) float64 {
	n := len(pcm) / 2
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range PCM16ToFloat32(pcm) {
		if v < 0 {
			v = -v
		}
		sum += float64(v)
	}
	return sum / float64(n)
}
