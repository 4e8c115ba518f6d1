package states

import (
	"testing"
	"time"

	"github.com/softmeadow/glade/internal/config"
	"github.com/softmeadow/glade/internal/engine/input"
)

type stubState struct {
	entered, exited int
	updates         int
	events          []input.Event
}

func (s *stubState) Enter() error                    { s.entered++; return nil }
func (s *stubState) Exit() error                     { s.exited++; return nil }
func (s *stubState) Update(dt time.Duration) error   { s.updates++; return nil }
func (s *stubState) Render() error                   { return nil }
func (s *stubState) HandleEvent(ev input.Event) error { s.events = append(s.events, ev); return nil }

const tick = 16 * time.Millisecond

func TestManagerDefersChangeToUpdate(t *testing.T) {
	m := NewManager()
	first := &stubState{}

	m.Change(first)
	if m.Current() != nil {
		t.Fatal("Change applied before Update ran")
	}
	if first.entered != 0 {
		t.Fatal("Enter ran before Update")
	}

	if err := m.Update(tick); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if m.Current() != first {
		t.Fatal("state not current after Update")
	}
	if first.entered != 1 || first.updates != 1 {
		t.Fatalf("entered %d updates %d, want 1 and 1", first.entered, first.updates)
	}
}

func TestManagerExitsBeforeEnteringNext(t *testing.T) {
	m := NewManager()
	first := &stubState{}
	second := &stubState{}

	m.Change(first)
	if err := m.Update(tick); err != nil {
		t.Fatalf("Update: %v", err)
	}

	m.Change(second)
	if err := m.Update(tick); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if first.exited != 1 {
		t.Fatalf("first state exited %d times, want 1", first.exited)
	}
	if second.entered != 1 || second.updates != 1 {
		t.Fatalf("second entered %d updates %d, want 1 and 1", second.entered, second.updates)
	}
	if first.updates != 1 {
		t.Fatalf("old state updated %d times after the switch, want 1", first.updates)
	}
}

func TestManagerForwardsEventsToCurrent(t *testing.T) {
	m := NewManager()

	// No current state: events are dropped, not a panic.
	if err := m.HandleEvent(input.Event{Type: input.EventKeyDown}); err != nil {
		t.Fatalf("HandleEvent without a state: %v", err)
	}

	st := &stubState{}
	m.Change(st)
	if err := m.Update(tick); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := m.HandleEvent(input.Event{Type: input.EventKeyDown}); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(st.events) != 1 {
		t.Fatalf("state saw %d events, want 1", len(st.events))
	}
}

func TestLoadingStateBuildsThenSchedulesPlay(t *testing.T) {
	cfg := config.Default()
	cfg.World.Size = 64
	cfg.World.Resolution = 24
	cfg.Trees.Count = 10

	m := NewManager()
	shared := &Shared{Cfg: cfg, DrawableW: 640, DrawableH: 360}
	ls := NewLoadingState(shared, m)

	if err := ls.Enter(); err != nil {
		t.Fatalf("Enter: %v", err)
	}

	// One build phase per update; the bar must move monotonically.
	last := float32(-1)
	for i := 0; i < 16 && !ls.done; i++ {
		if ls.fraction < last {
			t.Fatalf("progress went backwards: %v after %v", ls.fraction, last)
		}
		last = ls.fraction
		if err := ls.Update(tick); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	if !ls.done {
		t.Fatal("loading never finished")
	}
	if ls.fraction != 1 {
		t.Fatalf("fraction = %v at completion, want 1", ls.fraction)
	}

	play, ok := m.next.(*PlayState)
	if !ok {
		t.Fatalf("scheduled state is %T, want *PlayState", m.next)
	}
	if play.world == nil || play.world.Collision == nil {
		t.Fatal("play state received an incomplete world")
	}
}
