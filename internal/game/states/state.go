// Package states implements the playground's state machine: a loading
// state that assembles the world, then the play state that runs it.
package states

import (
	"time"

	"github.com/softmeadow/glade/internal/audio"
	"github.com/softmeadow/glade/internal/config"
	"github.com/softmeadow/glade/internal/engine/input"
	"github.com/softmeadow/glade/internal/engine/ui2d"
)

// State is one mode of the playground.
type State interface {
	// Enter is called when entering this state.
	Enter() error

	// Exit is called when leaving this state.
	Exit() error

	// Update is called every frame.
	Update(dt time.Duration) error

	// Render is called every frame to draw the state.
	Render() error

	// HandleEvent processes one input event.
	HandleEvent(ev input.Event) error
}

// Shared is the service bundle every state receives: the live config,
// the UI context and input owned by the game loop, and the current
// surface dimensions. DrawableW/H are framebuffer pixels; WindowW/H
// are window points, which differ on high-DPI displays.
type Shared struct {
	Cfg     *config.Config
	CfgPath string

	UI    *ui2d.Context
	Input *input.Input
	Audio *audio.Manager

	DrawableW, DrawableH int32
	WindowW, WindowH     int
}

// Manager manages state transitions. Changes are deferred to the next
// Update so a state never tears itself down mid-frame.
type Manager struct {
	current State
	next    State
}

// NewManager creates a new state manager.
func NewManager() *Manager {
	return &Manager{}
}

// Current returns the current state.
func (m *Manager) Current() State {
	return m.current
}

// Change schedules a state change.
func (m *Manager) Change(next State) {
	m.next = next
}

// Update processes a pending state change, then updates the current
// state.
func (m *Manager) Update(dt time.Duration) error {
	if m.next != nil {
		if m.current != nil {
			if err := m.current.Exit(); err != nil {
				return err
			}
		}
		m.current = m.next
		m.next = nil
		if err := m.current.Enter(); err != nil {
			return err
		}
	}

	if m.current != nil {
		return m.current.Update(dt)
	}
	return nil
}

// Render renders the current state.
func (m *Manager) Render() error {
	if m.current != nil {
		return m.current.Render()
	}
	return nil
}

// HandleEvent forwards an event to the current state.
func (m *Manager) HandleEvent(ev input.Event) error {
	if m.current != nil {
		return m.current.HandleEvent(ev)
	}
	return nil
}
