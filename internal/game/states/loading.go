package states

import (
	"time"

	"go.uber.org/zap"

	"github.com/softmeadow/glade/internal/engine/input"
	"github.com/softmeadow/glade/internal/game/ui"
	"github.com/softmeadow/glade/internal/game/world"
	"github.com/softmeadow/glade/internal/logger"
)

// LoadingState runs the world builder one phase per frame so the
// progress bar tracks real work instead of a timer.
type LoadingState struct {
	shared  *Shared
	manager *Manager

	builder  *world.Builder
	fraction float32
	phase    string
	done     bool

	log *zap.Logger
}

// NewLoadingState creates the loading state over the shared services.
func NewLoadingState(shared *Shared, manager *Manager) *LoadingState {
	return &LoadingState{
		shared:  shared,
		manager: manager,
		log:     logger.Named("loading"),
	}
}

// Enter starts a fresh build.
func (s *LoadingState) Enter() error {
	s.builder = world.NewBuilder(s.shared.Cfg)
	s.fraction, s.phase = s.builder.Progress()
	s.done = false
	s.log.Info("building world", zap.Int64("seed", s.shared.Cfg.World.Seed))
	return nil
}

// Exit is called when leaving this state.
func (s *LoadingState) Exit() error {
	s.builder = nil
	return nil
}

// Update runs one build phase, then hands the finished world to the
// play state. The draw of the final progress frame happens before the
// deferred state change applies.
func (s *LoadingState) Update(dt time.Duration) error {
	if s.done {
		return nil
	}

	s.fraction, s.phase = s.builder.Progress()
	if s.builder.Step() {
		s.done = true
		s.fraction = 1
		s.manager.Change(NewPlayState(s.shared, s.manager, s.builder.World()))
	}
	return nil
}

// Render draws the progress window.
func (s *LoadingState) Render() error {
	c := s.shared.UI
	c.Begin()
	ui.RenderLoading(c, s.fraction, s.phase)
	c.End()
	return nil
}

// HandleEvent ignores input while loading.
func (s *LoadingState) HandleEvent(ev input.Event) error {
	return nil
}
