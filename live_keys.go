// live_keys.go - Raw-mode stdin key handling for live playback

package main

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// keyListener puts stdin into raw mode and watches for a stop key.
// Only instantiated in main.go for interactive use - never in tests.
type keyListener struct {
	cancel       func()
	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	fd           int
	nonblockSet  bool
	oldTermState *term.State
}

func newKeyListener(cancel func()) *keyListener {
	return &keyListener{
		cancel: cancel,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start sets stdin to raw, non-blocking mode and polls for q/Esc/Ctrl-C in
// a goroutine. Call Stop() to restore the terminal.
func (k *keyListener) Start() {
	k.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(k.fd)
	if err != nil {
		// Not a terminal (piped stdin); signals still stop the engine.
		close(k.done)
		return
	}
	k.oldTermState = oldState

	if err := syscall.SetNonblock(k.fd, true); err != nil {
		fmt.Fprintf(os.Stderr, "live_keys: failed to set nonblocking stdin: %v\n", err)
		_ = term.Restore(k.fd, k.oldTermState)
		k.oldTermState = nil
		close(k.done)
		return
	}
	k.nonblockSet = true

	go func() {
		defer close(k.done)
		buf := make([]byte, 1)

		for {
			select {
			case <-k.stopCh:
				return
			default:
			}

			n, _ := syscall.Read(k.fd, buf)
			if n > 0 {
				switch buf[0] {
				case 'q', 'Q', 0x1b, 0x03: // q, Esc, Ctrl-C
					k.cancel()
					return
				}
			}
			time.Sleep(50 * time.Millisecond)
		}
	}()
}

// Stop restores the terminal state and waits for the reader to exit.
func (k *keyListener) Stop() {
	k.stopped.Do(func() {
		close(k.stopCh)
		<-k.done
		if k.nonblockSet {
			_ = syscall.SetNonblock(k.fd, false)
		}
		if k.oldTermState != nil {
			_ = term.Restore(k.fd, k.oldTermState)
		}
	})
}
