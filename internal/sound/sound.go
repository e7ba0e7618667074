// Package sound plays keypress clicks on the terminal bell.
package sound

import (
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

const bell = "\a"

// DefaultBuffer is the number of clicks queued before new ones are dropped.
const DefaultBuffer = 8

// Clicker writes one bell per click from its own goroutine.
type Clicker struct {
	out    io.Writer
	clicks chan struct{}
	done   chan struct{}

	mu     sync.Mutex
	closed bool
}

// Terminal returns stderr when it is a terminal, nil otherwise.
func Terminal() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return os.Stderr
	}
	return nil
}

// New starts a Clicker writing to out. A nil out yields a Clicker that drops
// every click.
func New(out io.Writer, buffer int) *Clicker {
	if buffer < 1 {
		buffer = 1
	}
	c := &Clicker{
		out:    out,
		clicks: make(chan struct{}, buffer),
		done:   make(chan struct{}),
	}
	go c.run()
	return c
}

func (c *Clicker) run() {
	defer close(c.done)
	for range c.clicks {
		if c.out == nil {
			continue
		}
		if _, err := io.WriteString(c.out, bell); err != nil {
			log.Debug().Err(err).Msg("failed to play keypress sound")
		}
	}
}

// Click queues a click without blocking. It reports false when the click was
// dropped.
func (c *Clicker) Click() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.clicks <- struct{}{}:
		return true
	default:
		return false
	}
}

// Close stops the Clicker after draining queued clicks.
func (c *Clicker) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errors.New("clicker already closed")
	}
	c.closed = true
	close(c.clicks)
	c.mu.Unlock()
	<-c.done
	return nil
}
