package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// spinnerFrames is the braille animation cycle.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a progress line on stderr until stopped. It is bound to
// the command context, so an interrupt clears the line instead of leaving
// a half-drawn frame behind.
type Spinner struct {
	message string
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
	mu      sync.Mutex
}

// newSpinner creates a spinner bound to the command context.
func newSpinner(ctx context.Context, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins the animation.
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
				frame := styleSpinner.Render(spinnerFrames[i%len(spinnerFrames)])
				s.mu.Lock()
				fmt.Fprintf(os.Stderr, "\r%s %s", frame, StyleDim.Render(s.message))
				s.mu.Unlock()
				i++
			}
		}
	}()
}

// Stop ends the animation and clears the line. Safe to call repeatedly.
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.done) })
	s.cancel()
	<-s.stopped
	s.clearLine()
}

// StopWithError stops the spinner and prints an error line in its place.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the command context ended. It reads the parent
// context, not the spinner's own, so it stays meaningful after Stop.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	blank := strings.Repeat(" ", len(s.message)+4)
	fmt.Fprintf(os.Stderr, "\r%s\r", blank)
}
