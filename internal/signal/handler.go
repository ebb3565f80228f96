// Package signal cancels a command's context when the process is interrupted,
// so long batch verifications stop between entries instead of being killed.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ExitCode is the conventional status for a process stopped by SIGINT.
const ExitCode = 130

// Handler cancels its context on the first SIGINT or SIGTERM.
type Handler struct {
	ctx      context.Context //nolint:containedctx // the handler owns this context's lifetime
	cancel   context.CancelFunc
	sigChan  chan os.Signal
	done     chan struct{}
	once     sync.Once
	stopOnce sync.Once

	mu       sync.Mutex
	received os.Signal
}

// NewHandler starts listening for SIGINT and SIGTERM.
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	err := run(h.Context())
//	if h.Received() != nil { ... }
func NewHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:     ctx,
		cancel:  cancel,
		sigChan: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}

	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()

	return h
}

// Context returns the context canceled on interrupt.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Received returns the signal that canceled the context, or nil.
func (h *Handler) Received() os.Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.received
}

// Stop releases the signal subscription and cancels the context.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done)
		h.cancel()
	})
}

// handle records the first signal and cancels the context. Later signals are ignored.
func (h *Handler) handle(sig os.Signal) {
	h.once.Do(func() {
		h.mu.Lock()
		h.received = sig
		h.mu.Unlock()
		h.cancel()
	})
}

func (h *Handler) listen() {
	for {
		select {
		case <-h.done:
			return
		case <-h.ctx.Done():
			return
		case sig := <-h.sigChan:
			h.handle(sig)
		}
	}
}
