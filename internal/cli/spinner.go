package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sumnatarya/Synapse/pkg/observability"
)

// spinnerFrames cycle on stderr while a pipeline stage runs.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerInterval is the animation frame rate.
const spinnerInterval = 80 * time.Millisecond

// Spinner is the single-line progress indicator for pipeline runs. The
// message tracks the active stage and may be swapped mid-run with
// SetMessage; cancelling the parent context stops the animation with the
// line cleared.
type Spinner struct {
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}

	mu      sync.Mutex
	message string
	width   int // widest line written so far, for clearing
}

// newSpinnerWithContext creates a spinner that stops when ctx is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		message: message,
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.renderFrame(spinnerFrames[i%len(spinnerFrames)])
				i++
			}
		}
	}()
}

// SetMessage swaps the displayed text without restarting the animation.
// Safe to call from pipeline hook callbacks while the spinner runs.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

func (s *Spinner) renderFrame(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w := len(s.message) + 4; w > s.width {
		s.width = w
	}
	fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
}

// Stop stops the spinner and clears the line.
func (s *Spinner) Stop() {
	s.cancel()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	<-s.stopped
	s.clearLine()
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", s.width))
}

// StopWithSuccess stops the spinner and shows a success message.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and shows an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled returns true if the spinner was stopped due to context cancellation.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

// stageHooks narrates pipeline stages through the spinner message.
type stageHooks struct {
	observability.NoopPipelineHooks
	spinner *Spinner
}

func (h stageHooks) OnBuildStart(_ context.Context, source string) {
	h.spinner.SetMessage("Building " + source)
}

func (h stageHooks) OnLayoutStart(_ context.Context, nodeCount int) {
	h.spinner.SetMessage(fmt.Sprintf("Laying out %d nodes", nodeCount))
}

func (h stageHooks) OnRenderStart(_ context.Context, formats []string) {
	h.spinner.SetMessage("Rendering " + strings.Join(formats, ", "))
}
