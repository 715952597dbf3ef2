// Command influtools-live is a terminal harness for the voice assistant.
// It streams the microphone to the live backend and plays replies through
// the speaker, with commands for tone switching and muting.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Aymanking75/infultools/internal/dotenv"
	"github.com/Aymanking75/infultools/pkg/gemini"
	"github.com/Aymanking75/infultools/pkg/live"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := dotenv.LoadFile(".env"); err != nil {
		logger.Warn("could not load .env", "error", err)
	}

	model := flag.String("model", live.DefaultModel, "streaming audio model")
	tone := flag.String("tone", string(live.DefaultTone), "assistant tone (calm, bright, deep)")
	fallback := flag.Bool("fallback", false, "use the single-shot fallback mode instead of streaming")
	flag.Parse()

	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if apiKey == "" {
		logger.Error("GEMINI_API_KEY is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	if *fallback {
		err = runFallback(ctx, logger, apiKey, live.Tone(*tone))
	} else {
		err = runStreaming(ctx, logger, apiKey, *model, live.Tone(*tone))
	}
	if err != nil {
		logger.Error("assistant exited", "error", err)
		os.Exit(1)
	}
}

func runStreaming(ctx context.Context, logger *slog.Logger, apiKey, model string, tone live.Tone) error {
	session, err := live.NewSession(live.Config{
		APIKey:         apiKey,
		Model:          model,
		OpenMicrophone: openMicrophone,
		// Each connection gets a fresh speaker pipe; the session closes
		// the old one on teardown and stops it on barge-in.
		OpenOutput: func() (live.Output, error) {
			return openSpeaker()
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer session.Disconnect()

	if tone.Valid() {
		if err := session.SetTone(ctx, tone); err != nil {
			return err
		}
	}
	if err := session.Connect(ctx); err != nil {
		return err
	}
	fmt.Println("متصل. تكلم الآن. الأوامر: tone calm|bright|deep, mute, unmute, quit")

	go func() {
		for ev := range session.Events() {
			switch ev.Type {
			case live.EventInterrupted:
				logger.Debug("reply interrupted")
			case live.EventError:
				logger.Error("session error", "error", ev.Err)
			case live.EventClosed:
				logger.Info("session closed")
			}
		}
	}()

	return commandLoop(ctx, os.Stdin, session)
}

func commandLoop(ctx context.Context, in io.Reader, session *live.Session) error {
	scanner := bufio.NewScanner(in)
	lines := make(chan string)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			fields := strings.Fields(strings.ToLower(strings.TrimSpace(line)))
			if len(fields) == 0 {
				continue
			}
			switch fields[0] {
			case "quit", "exit":
				return nil
			case "mute":
				session.SetMuted(true)
				fmt.Println("مكتوم")
			case "unmute":
				session.SetMuted(false)
				fmt.Println("الصوت مفعل")
			case "tone":
				if len(fields) < 2 {
					fmt.Println("usage: tone calm|bright|deep")
					continue
				}
				if err := session.SetTone(ctx, live.Tone(fields[1])); err != nil {
					fmt.Println("نغمة غير معروفة")
					continue
				}
				fmt.Printf("النغمة الآن: %s\n", fields[1])
			case "level":
				fmt.Printf("%.3f\n", session.Level())
			default:
				fmt.Println("commands: tone calm|bright|deep, mute, unmute, level, quit")
			}
		}
	}
}

// runFallback records one utterance at a time and plays back a single
// synthesized reply. No barge-in.
func runFallback(ctx context.Context, logger *slog.Logger, apiKey string, tone live.Tone) error {
	client, err := gemini.NewClient(ctx, gemini.Config{APIKey: apiKey}, gemini.WithLogger(logger))
	if err != nil {
		return err
	}
	assistant := live.NewFallbackAssistant(client, live.WithFallbackLogger(logger))
	if tone.Valid() {
		if err := assistant.SetTone(tone); err != nil {
			return err
		}
	}

	speaker, err := openSpeaker()
	if err != nil {
		return err
	}
	defer speaker.Close()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Println("اضغط Enter للتسجيل لمدة 5 ثوان، أو اكتب quit")
		if !scanner.Scan() {
			return nil
		}
		if strings.EqualFold(strings.TrimSpace(scanner.Text()), "quit") {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}

		utterance, err := recordUtterance(ctx, 5*time.Second)
		if err != nil {
			logger.Error("recording failed", "error", err)
			continue
		}
		audio, text, err := assistant.Respond(ctx, utterance)
		if err != nil {
			logger.Error("assistant failed", "error", err)
			continue
		}
		fmt.Println(text)
		if len(audio) > 0 {
			speaker.Play(live.Buffer{PCM: audio}, func() {})
		}
	}
}

// recordUtterance captures the microphone for a fixed window and returns
// the samples.
func recordUtterance(ctx context.Context, window time.Duration) ([]float32, error) {
	mic, err := openMicrophone(ctx)
	if err != nil {
		return nil, err
	}
	defer mic.Close()

	var samples []float32
	deadline := time.After(window)
	for {
		select {
		case <-ctx.Done():
			return samples, ctx.Err()
		case <-deadline:
			return samples, nil
		case frame, ok := <-mic.Frames():
			if !ok {
				return samples, nil
			}
			samples = append(samples, frame...)
		}
	}
}
