// Package toolrun orchestrates one tool invocation end to end: build the
// prompt from the tool definition, dispatch it, classify the response, and
// record the run in the history ledger.
package toolrun

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/Aymanking75/infultools/pkg/content"
	"github.com/Aymanking75/infultools/pkg/history"
	"github.com/Aymanking75/infultools/pkg/tools"
)

// State is the lifecycle of a single invocation. A controller moves
// Idle -> Loading -> Success or Failure, then back to Idle via Reset or
// the next Submit.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateFailure State = "failure"
)

var (
	// ErrBusy means a submission is already in flight on this controller.
	ErrBusy = errors.New("toolrun: submission already in flight")
	// ErrEmptyInput means the input was blank after trimming.
	ErrEmptyInput = errors.New("toolrun: empty input")
)

// NoticeImageFailed is shown when the backend answered without an image.
const NoticeImageFailed = "فشل إنشاء الصورة. حاول مرة أخرى."

// imageHistoryMarker stands in for the binary payload in the ledger.
const imageHistoryMarker = "image_generated"

// Dispatcher is the slice of the backend client the controller needs.
type Dispatcher interface {
	GenerateText(ctx context.Context, prompt, model string) string
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Result is the outcome of one invocation.
type Result struct {
	Text     string
	ImageURI string
	// Notice carries a user-facing message for outcomes that are not
	// failures but need an explicit explanation, such as an image
	// response with no image part.
	Notice string
	// PreviewCapable is set for code-rendering tools whose detected
	// language supports an inline preview.
	PreviewCapable bool
	Err            string
}

// Controller runs one tool session. It is safe for concurrent use but
// admits at most one in-flight submission.
type Controller struct {
	dispatcher Dispatcher
	sink       history.Sink
	logger     *slog.Logger

	mu     sync.Mutex
	state  State
	result Result
}

// Option configures a Controller.
type Option func(*Controller)

// WithHistory sets the ledger the controller writes completed runs to.
func WithHistory(sink history.Sink) Option {
	return func(c *Controller) { c.sink = sink }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

func New(d Dispatcher, opts ...Option) *Controller {
	c := &Controller{
		dispatcher: d,
		logger:     slog.Default(),
		state:      StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Result returns the outcome of the last completed submission.
func (c *Controller) Result() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Reset returns the controller to Idle and clears the last result. No-op
// while a submission is loading.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateLoading {
		return
	}
	c.state = StateIdle
	c.result = Result{}
}

// Submit runs the tool with the given input on behalf of userID. An empty
// userID skips the history write. The returned Result is also retained on
// the controller for later inspection.
func (c *Controller) Submit(ctx context.Context, tool tools.Definition, input, userID string) (Result, error) {
	if strings.TrimSpace(input) == "" {
		return Result{}, ErrEmptyInput
	}

	c.mu.Lock()
	if c.state == StateLoading {
		c.mu.Unlock()
		return Result{}, ErrBusy
	}
	c.state = StateLoading
	c.result = Result{}
	c.mu.Unlock()

	res, err := c.run(ctx, tool, input, userID)

	c.mu.Lock()
	c.result = res
	if err != nil {
		c.state = StateFailure
	} else {
		c.state = StateSuccess
	}
	c.mu.Unlock()
	return res, err
}

func (c *Controller) run(ctx context.Context, tool tools.Definition, input, userID string) (Result, error) {
	if tool.Render == tools.RenderImage {
		uri, err := c.dispatcher.GenerateImage(ctx, input)
		if err != nil {
			c.logger.Error("image generation failed", "tool", tool.Kind, "error", err)
			return Result{Err: err.Error()}, err
		}
		if uri == "" {
			return Result{Notice: NoticeImageFailed}, nil
		}
		c.record(ctx, userID, tool, input, imageHistoryMarker, history.TypeImage)
		return Result{ImageURI: uri}, nil
	}

	text := c.dispatcher.GenerateText(ctx, tool.Prompt(input), tool.Model)
	res := Result{Text: text}
	if tool.Render == tools.RenderCode {
		res.PreviewCapable = content.ParseCodeBlock(text).PreviewCapable()
	}
	c.record(ctx, userID, tool, input, text, history.TypeText)
	return res, nil
}

// record appends to the ledger. Write failures are logged and swallowed;
// a lost history row must not fail the invocation.
func (c *Controller) record(ctx context.Context, userID string, tool tools.Definition, input, output string, typ history.ContentType) {
	if c.sink == nil || userID == "" {
		return
	}
	rec := &history.Record{
		UserID: userID,
		ToolID: string(tool.Kind),
		Input:  input,
		Output: output,
		Type:   typ,
	}
	if err := c.sink.Append(ctx, rec); err != nil {
		c.logger.Error("history write failed", "tool", tool.Kind, "user", userID, "error", err)
	}
}
