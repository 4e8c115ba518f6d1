// Package audio synthesizes the playground ambience with beep: a
// filtered-noise wind bed whose gain follows the wind field, plus a
// rain hiss layer. Nothing is decoded from disk; the whole soundscape
// is generated.
package audio

import (
	"fmt"
	gomath "math"
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/softmeadow/glade/internal/config"
)

// SampleRate is the playback rate for the synthesized ambience.
const SampleRate = beep.SampleRate(44100)

// Manager owns the speaker and the ambience chain. Volume changes and
// the per-frame wind/rain levels go through the speaker lock, which is
// how beep guards a playing streamer.
type Manager struct {
	mu          sync.Mutex
	initialized bool

	muted   bool
	master  float64
	windVol float64

	stream *ambienceStreamer
	volume *effects.Volume
}

// New builds an uninitialized manager with the configured levels.
func New(cfg config.AudioConfig) *Manager {
	return &Manager{
		master:  clamp(float64(cfg.MasterVolume), 0, 1),
		windVol: clamp(float64(cfg.WindVolume), 0, 1),
		muted:   cfg.Muted,
	}
}

// Init opens the speaker and starts the ambience. Safe to call twice.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/20)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	m.stream = newAmbienceStreamer(time.Now().UnixNano())
	m.volume = &effects.Volume{Streamer: m.stream, Base: 2}
	m.applyVolume()
	speaker.Play(m.volume)

	m.initialized = true
	return nil
}

// Close stops playback.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return
	}
	speaker.Clear()
	m.initialized = false
}

// SetMasterVolume sets the overall level in [0, 1].
func (m *Manager) SetMasterVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.master = clamp(v, 0, 1)
	m.applyVolume()
}

// SetWindVolume sets the ambience level in [0, 1].
func (m *Manager) SetWindVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.windVol = clamp(v, 0, 1)
	m.applyVolume()
}

// SetMuted silences playback without tearing the chain down.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
	m.applyVolume()
}

// Muted reports the mute toggle.
func (m *Manager) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// SetLevels feeds the frame's wind strength and rain intensity, both
// in [0, 1], into the synth.
func (m *Manager) SetLevels(wind, rain float64) {
	m.mu.Lock()
	stream := m.stream
	init := m.initialized
	m.mu.Unlock()
	if !init || stream == nil {
		return
	}
	speaker.Lock()
	stream.windTarget = clamp(wind, 0, 1)
	stream.rainTarget = clamp(rain, 0, 1)
	speaker.Unlock()
}

func (m *Manager) applyVolume() {
	if m.volume == nil {
		return
	}
	vol := m.master * m.windVol
	speaker.Lock()
	if m.muted || vol <= 0 {
		m.volume.Silent = true
	} else {
		m.volume.Silent = false
		m.volume.Volume = volumeToDb(vol)
	}
	speaker.Unlock()
}

// volumeToDb maps a 0..1 level onto the dB scale effects.Volume uses
// with base 2 (0 = full, -10 is near silence).
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return 20 * gomath.Log10(vol) / (20 * gomath.Log10(2))
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ambienceStreamer renders the wind bed and rain hiss. The wind is
// white noise through a one-pole low-pass with a slow amplitude
// wobble; the rain is the differenced (high-passed) noise. Gains ease
// toward their targets per sample so level changes never click.
type ambienceStreamer struct {
	rng *rand.Rand

	windTarget float64
	rainTarget float64
	wind       float64
	rain       float64

	lp        float64
	prevWhite float64
	gustPhase float64
}

func newAmbienceStreamer(seed int64) *ambienceStreamer {
	return &ambienceStreamer{rng: rand.New(rand.NewSource(seed))}
}

func (s *ambienceStreamer) Stream(samples [][2]float64) (int, bool) {
	const smoothing = 1.0 / 4410 // ~100ms ramp
	gustStep := 2 * gomath.Pi * 0.23 / float64(SampleRate)

	for i := range samples {
		s.wind += (s.windTarget - s.wind) * smoothing
		s.rain += (s.rainTarget - s.rain) * smoothing

		white := s.rng.Float64()*2 - 1

		cutoff := 0.02 + 0.06*s.wind
		s.lp += cutoff * (white - s.lp)
		s.gustPhase += gustStep
		if s.gustPhase > 2*gomath.Pi {
			s.gustPhase -= 2 * gomath.Pi
		}
		wobble := 0.75 + 0.25*gomath.Sin(s.gustPhase)
		out := s.lp * s.wind * wobble * 2.4

		hiss := (white - s.prevWhite) * 0.5
		s.prevWhite = white
		out += hiss * s.rain * 0.55

		if out > 1 {
			out = 1
		} else if out < -1 {
			out = -1
		}
		samples[i][0] = out
		samples[i][1] = out
	}
	return len(samples), true
}

func (s *ambienceStreamer) Err() error { return nil }
