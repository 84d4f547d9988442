package term

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Screen wraps a tcell.Screen with mouse input enabled and an event channel.
type Screen struct {
	screen tcell.Screen
	events chan tcell.Event

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// NewScreen creates a screen on the controlling terminal.
func NewScreen() (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewScreenFrom(screen), nil
}

// NewScreenFrom wraps an existing tcell screen, typically a simulation screen.
func NewScreenFrom(screen tcell.Screen) *Screen {
	return &Screen{
		screen: screen,
		events: make(chan tcell.Event, 64),
		done:   make(chan struct{}),
	}
}

// Init initializes the terminal and starts polling for events.
func (s *Screen) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if err := s.screen.Init(); err != nil {
		return err
	}
	s.screen.EnableMouse()
	s.running = true

	go s.poll()
	return nil
}

func (s *Screen) poll() {
	defer close(s.events)
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return // screen finalized
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}

// Events returns the channel of terminal events. It is closed after Shutdown.
func (s *Screen) Events() <-chan tcell.Event {
	return s.events
}

// Raw returns the underlying tcell screen for drawing.
func (s *Screen) Raw() tcell.Screen {
	return s.screen
}

// Size returns the terminal size in cells.
func (s *Screen) Size() (int, int) {
	return s.screen.Size()
}

// Shutdown restores the terminal and stops polling. Safe to call twice.
func (s *Screen) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	close(s.done)
	s.screen.Fini()
}
