// Package live manages a full-duplex voice conversation with the streaming
// audio backend: microphone frames go out as 16 kHz PCM16 realtime input,
// inbound 24 kHz PCM16 frames are scheduled for gapless playback, and a
// server interruption flag discards everything queued.
package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultModel is the streaming audio dialog model.
const DefaultModel = "gemini-2.5-flash-preview-native-audio-dialog"

const defaultEndpoint = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

const (
	connectTimeout = 15 * time.Second
	// settleDelay separates disconnect from reconnect on a tone change.
	// An audible gap during the switch is expected.
	settleDelay = 200 * time.Millisecond
)

// State is the session lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateOpen       State = "open"
	StateClosing    State = "closing"
)

// MediaError means the microphone could not be acquired. It is a blocking
// user-visible condition, not fatal to the application.
type MediaError struct {
	Err error
}

func (e *MediaError) Error() string {
	return fmt.Sprintf("live: microphone unavailable: %v", e.Err)
}

func (e *MediaError) Unwrap() error { return e.Err }

// Microphone delivers captured frames as float32 sample buffers at the
// input rate, paced by the hardware clock. The channel closes when the
// device is closed.
type Microphone interface {
	Frames() <-chan []float32
	Close() error
}

// Output renders scheduled buffers. done must be invoked when a buffer
// finishes playing naturally so the session can retire it. Stop cuts any
// audio already handed to the device and leaves the output ready for
// further Play calls.
type Output interface {
	Play(buf Buffer, done func())
	Stop() error
	Close() error
}

// EventType tags session events.
type EventType string

const (
	EventOpen         EventType = "open"
	EventInterrupted  EventType = "interrupted"
	EventTurnComplete EventType = "turn_complete"
	EventClosed       EventType = "closed"
	EventError        EventType = "error"
)

// Event is a session lifecycle notification for the presentation layer.
type Event struct {
	Type EventType
	Err  error
}

// Config assembles a Session's collaborators.
type Config struct {
	APIKey string
	// Model defaults to DefaultModel.
	Model string
	// Endpoint overrides the backend websocket URL.
	Endpoint string
	// OpenMicrophone acquires the capture device for one connection.
	OpenMicrophone func(ctx context.Context) (Microphone, error)
	// OpenOutput acquires the playback pipeline for one connection.
	OpenOutput func() (Output, error)
	// Clock overrides the playback clock.
	Clock  Clock
	Logger *slog.Logger
	Dialer *websocket.Dialer
}

// conn bundles the per-connection resources so a reconnect starts from a
// clean slate.
type conn struct {
	ws     *websocket.Conn
	mic    Microphone
	out    Output
	sched  *Scheduler
	done   chan struct{}
	closed sync.Once

	writeMu sync.Mutex
}

// Session is a live audio session. One instance owns the microphone and
// both audio pipelines exclusively; Connect tears down any prior
// connection before opening a new one.
type Session struct {
	cfg    Config
	logger *slog.Logger
	events chan Event

	mu      sync.Mutex
	state   State
	current *conn
	// epoch advances on every Connect and Disconnect. A Connect whose
	// handshake outlives its epoch discards the fresh connection instead
	// of installing it, so a Disconnect issued mid-handshake wins.
	epoch   uint64
	tone    Tone
	muted   bool
	lastErr error
}

// ErrStopped is returned by Connect when the session was stopped or
// replaced while the handshake was still in flight.
var ErrStopped = errors.New("live: session stopped during connect")

func NewSession(cfg Config) (*Session, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("live: api key required")
	}
	if cfg.OpenMicrophone == nil || cfg.OpenOutput == nil {
		return nil, errors.New("live: microphone and output openers required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Dialer == nil {
		cfg.Dialer = websocket.DefaultDialer
	}
	return &Session{
		cfg:    cfg,
		logger: cfg.Logger,
		events: make(chan Event, 64),
		state:  StateIdle,
		tone:   DefaultTone,
	}, nil
}

// Events yields session lifecycle notifications. Delivery is best effort;
// a consumer that stops draining loses events, never blocks the session.
func (s *Session) Events() <-chan Event {
	return s.events
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the last recorded session error.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Tone returns the selected tone.
func (s *Session) Tone() Tone {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tone
}

// Level reports the current output loudness in [0, 1] for the pulsing
// indicator. Zero when no connection is open.
func (s *Session) Level() float64 {
	s.mu.Lock()
	c := s.current
	s.mu.Unlock()
	if c == nil {
		return 0
	}
	return c.sched.Level()
}

// SetMuted gates local playback only. Capture and transmission continue
// and the backend is unaware of the mute state. Muting also stops audio
// already handed to the output device; unmuting restores sound from the
// next arriving chunk, not retroactively.
func (s *Session) SetMuted(muted bool) {
	s.mu.Lock()
	s.muted = muted
	c := s.current
	s.mu.Unlock()
	if c == nil {
		return
	}
	c.sched.SetMuted(muted)
	if muted {
		if err := c.out.Stop(); err != nil {
			s.logger.Warn("output stop failed", "error", err)
		}
	}
}

func (s *Session) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// Connect establishes a fresh connection, tearing down any prior one
// first. Safe to call from any state.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	prior := s.current
	s.current = nil
	s.state = StateConnecting
	s.lastErr = nil
	tone := s.tone
	muted := s.muted
	s.mu.Unlock()

	if prior != nil {
		prior.teardown()
	}

	c, err := s.open(ctx, tone, muted)
	if err != nil {
		s.fail(epoch, err)
		return err
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		c.teardown()
		return ErrStopped
	}
	s.current = c
	s.state = StateOpen
	s.mu.Unlock()

	s.emit(Event{Type: EventOpen})
	go s.captureLoop(c)
	go s.readLoop(c)
	return nil
}

// open acquires the microphone, the playback pipeline, and the websocket,
// and completes the setup handshake. Every resource acquired before a
// failure is released.
func (s *Session) open(ctx context.Context, tone Tone, muted bool) (*conn, error) {
	mic, err := s.cfg.OpenMicrophone(ctx)
	if err != nil {
		return nil, &MediaError{Err: err}
	}

	out, err := s.cfg.OpenOutput()
	if err != nil {
		_ = mic.Close()
		return nil, fmt.Errorf("open playback pipeline: %w", err)
	}

	endpoint, err := s.endpointURL()
	if err != nil {
		_ = mic.Close()
		_ = out.Close()
		return nil, err
	}

	dialCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, connectTimeout)
		defer cancel()
	}
	ws, _, err := s.cfg.Dialer.DialContext(dialCtx, endpoint, nil)
	if err != nil {
		_ = mic.Close()
		_ = out.Close()
		return nil, fmt.Errorf("dial streaming backend: %w", err)
	}

	setup := newSetupMessage("models/"+s.cfg.Model, tone.Voice(), Persona)
	if err := ws.WriteJSON(setup); err != nil {
		_ = ws.Close()
		_ = mic.Close()
		_ = out.Close()
		return nil, fmt.Errorf("send setup: %w", err)
	}

	_ = ws.SetReadDeadline(time.Now().Add(connectTimeout))
	_, payload, err := ws.ReadMessage()
	if err != nil {
		_ = ws.Close()
		_ = mic.Close()
		_ = out.Close()
		return nil, fmt.Errorf("read setup ack: %w", err)
	}
	_ = ws.SetReadDeadline(time.Time{})

	ack, err := decodeServerMessage(payload)
	if err == nil && ack.SetupComplete == nil {
		err = fmt.Errorf("unexpected first frame %s", payload)
	}
	if err != nil {
		_ = ws.Close()
		_ = mic.Close()
		_ = out.Close()
		return nil, err
	}

	clock := s.cfg.Clock
	if clock == nil {
		clock = NewWallClock()
	}
	c := &conn{
		ws:   ws,
		mic:  mic,
		out:  out,
		done: make(chan struct{}),
	}
	c.sched = NewScheduler(clock, func(buf Buffer) {
		out.Play(buf, func() { c.sched.Complete(buf.ID) })
	})
	c.sched.SetMuted(muted)
	return c, nil
}

func (s *Session) endpointURL() (string, error) {
	u, err := url.Parse(s.cfg.Endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("key", s.cfg.APIKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Disconnect tears everything down unconditionally and returns the session
// to Idle. Safe to call multiple times and on a session that never opened.
func (s *Session) Disconnect() {
	s.mu.Lock()
	c := s.current
	s.current = nil
	if s.state == StateIdle && c == nil {
		s.mu.Unlock()
		return
	}
	s.epoch++
	s.state = StateClosing
	s.mu.Unlock()

	if c != nil {
		c.teardown()
	}

	s.mu.Lock()
	s.state = StateIdle
	s.mu.Unlock()
	s.emit(Event{Type: EventClosed})
}

// SetTone switches the assistant voice. While open this restarts the
// session, since the voice is fixed at setup time.
func (s *Session) SetTone(ctx context.Context, tone Tone) error {
	if !tone.Valid() {
		return fmt.Errorf("live: unknown tone %q", tone)
	}

	s.mu.Lock()
	s.tone = tone
	open := s.state == StateOpen
	s.mu.Unlock()

	if !open {
		return nil
	}
	s.Disconnect()
	select {
	case <-time.After(settleDelay):
	case <-ctx.Done():
		return ctx.Err()
	}
	return s.Connect(ctx)
}

// captureLoop converts microphone frames to PCM16 and transmits them. Each
// frame is sent before the next arrives or dropped with the connection; no
// acknowledgement is awaited.
func (s *Session) captureLoop(c *conn) {
	for frame := range c.mic.Frames() {
		select {
		case <-c.done:
			return
		default:
		}
		if err := c.sendJSON(newAudioFrameMessage(Float32ToPCM16(frame))); err != nil {
			select {
			case <-c.done:
			default:
				s.logger.Warn("audio frame send failed", "error", err)
			}
			return
		}
	}
}

func (s *Session) readLoop(c *conn) {
	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				// Local teardown already in progress.
			default:
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.streamError(c, err)
					return
				}
				s.remoteClosed(c)
			}
			return
		}

		msg, err := decodeServerMessage(payload)
		if err != nil {
			s.logger.Warn("undecodable server frame", "error", err)
			continue
		}

		if msg.interrupted() {
			c.sched.Interrupt()
			if err := c.out.Stop(); err != nil {
				s.logger.Warn("output stop failed", "error", err)
			}
			s.emit(Event{Type: EventInterrupted})
		}
		for _, chunk := range msg.audioChunks() {
			c.sched.Schedule(chunk)
		}
		if msg.turnComplete() {
			s.emit(Event{Type: EventTurnComplete})
		}
	}
}

// streamError forces the session to Idle after a transport failure. No
// automatic reconnect; retry requires explicit user action.
func (s *Session) streamError(c *conn, err error) {
	s.mu.Lock()
	if s.current != c {
		s.mu.Unlock()
		return
	}
	s.current = nil
	s.state = StateIdle
	s.lastErr = err
	s.mu.Unlock()

	s.logger.Error("streaming session failed", "error", err)
	c.teardown()
	s.emit(Event{Type: EventError, Err: err})
}

func (s *Session) remoteClosed(c *conn) {
	s.mu.Lock()
	if s.current != c {
		s.mu.Unlock()
		return
	}
	s.current = nil
	s.state = StateIdle
	s.mu.Unlock()

	c.teardown()
	s.emit(Event{Type: EventClosed})
}

func (s *Session) fail(epoch uint64, err error) {
	s.mu.Lock()
	if s.epoch == epoch {
		s.state = StateIdle
		s.lastErr = err
	}
	s.mu.Unlock()
	s.emit(Event{Type: EventError, Err: err})
}

func (s *Session) emit(event Event) {
	select {
	case s.events <- event:
	default:
	}
}

func (c *conn) sendJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteJSON(v)
}

// teardown releases the websocket, the microphone, the playback pipeline,
// and every queued buffer. All releases run unconditionally.
func (c *conn) teardown() {
	c.closed.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(2*time.Second))
		c.writeMu.Unlock()
		_ = c.ws.Close()
		_ = c.mic.Close()
		c.sched.Interrupt()
		_ = c.out.Close()
	})
}
