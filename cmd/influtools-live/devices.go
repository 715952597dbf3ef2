package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"sync"

	"github.com/Aymanking75/infultools/pkg/live"
)

const micFrameSamples = 2048

// ffmpegMic captures the default microphone with ffmpeg and delivers
// fixed-size frames at the input rate.
type ffmpegMic struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	frames chan []float32
	once   sync.Once
}

func openMicrophone(_ context.Context) (live.Microphone, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, errors.New("ffmpeg is required for mic capture (install ffmpeg and ensure it is in PATH)")
	}
	args, err := micArgs(runtime.GOOS)
	if err != nil {
		return nil, err
	}
	cmd := exec.Command("ffmpeg", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("open ffmpeg stdout: %w", err)
	}
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg mic capture: %w", err)
	}

	m := &ffmpegMic{
		cmd:    cmd,
		stdout: stdout,
		frames: make(chan []float32, 8),
	}
	go m.pump()
	return m, nil
}

func micArgs(goos string) ([]string, error) {
	switch goos {
	case "darwin":
		return []string{
			"-hide_banner", "-loglevel", "error",
			"-f", "avfoundation", "-i", ":0",
			"-ac", "1", "-ar", fmt.Sprintf("%d", live.InputSampleRate),
			"-f", "s16le", "-",
		}, nil
	case "linux":
		return []string{
			"-hide_banner", "-loglevel", "error",
			"-f", "pulse", "-i", "default",
			"-ac", "1", "-ar", fmt.Sprintf("%d", live.InputSampleRate),
			"-f", "s16le", "-",
		}, nil
	default:
		return nil, fmt.Errorf("mic capture is not implemented for %s; supported platforms: darwin, linux", goos)
	}
}

func (m *ffmpegMic) pump() {
	defer m.closeFrames()
	buf := make([]byte, micFrameSamples*2)
	for {
		if _, err := io.ReadFull(m.stdout, buf); err != nil {
			return
		}
		frame := live.PCM16ToFloat32(buf)
		select {
		case m.frames <- frame:
		default:
			// A full queue means the consumer stalled; drop the frame
			// rather than fall behind the hardware clock.
		}
	}
}

func (m *ffmpegMic) Frames() <-chan []float32 { return m.frames }

func (m *ffmpegMic) closeFrames() {
	m.once.Do(func() { close(m.frames) })
}

func (m *ffmpegMic) Close() error {
	if m.cmd != nil && m.cmd.Process != nil {
		_ = m.cmd.Process.Kill()
		_ = m.cmd.Wait()
	}
	return nil
}

// ffplaySpeaker renders scheduled buffers through an ffplay pipe. Pacing
// comes from pipe backpressure at the playback rate.
type ffplaySpeaker struct {
	mu    sync.Mutex
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

func openSpeaker() (*ffplaySpeaker, error) {
	if _, err := exec.LookPath("ffplay"); err != nil {
		return nil, errors.New("ffplay is required for playback (install ffmpeg/ffplay and ensure it is in PATH)")
	}
	p := &ffplaySpeaker{}
	if err := p.startLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *ffplaySpeaker) startLocked() error {
	p.cmd = exec.Command("ffplay",
		"-nodisp",
		"-autoexit",
		"-loglevel", "error",
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", live.OutputSampleRate),
		"-ac", "1",
		"-i", "pipe:0",
	)
	stdin, err := p.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open ffplay stdin: %w", err)
	}
	p.cmd.Stdout = io.Discard
	p.cmd.Stderr = io.Discard
	if err := p.cmd.Start(); err != nil {
		return fmt.Errorf("start ffplay: %w", err)
	}
	p.stdin = stdin
	return nil
}

func (p *ffplaySpeaker) Play(buf live.Buffer, done func()) {
	p.mu.Lock()
	stdin := p.stdin
	p.mu.Unlock()
	if stdin != nil {
		_, _ = stdin.Write(buf.PCM)
	}
	done()
}

// Stop kills the pipe so buffered audio stops immediately, then restarts
// it ready for the next buffer.
func (p *ffplaySpeaker) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
		_ = p.cmd.Wait()
	}
	p.stdin = nil
	return p.startLocked()
}

func (p *ffplaySpeaker) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
		_ = p.cmd.Wait()
	}
	p.stdin = nil
	return nil
}
