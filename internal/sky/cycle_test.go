package sky

import (
	"testing"
	"time"

	"github.com/softmeadow/glade/internal/config"
)

func TestCycleProgress(t *testing.T) {
	c := New(config.SkyConfig{DayLength: 24 * time.Minute, StartHour: 6})

	state := c.State()
	if state.Hour < 5.9 || state.Hour > 6.1 {
		t.Fatalf("initial hour = %.2f, want around 6", state.Hour)
	}

	c.Update(6 * time.Minute)
	midday := c.State()
	if midday.Hour < 11.9 || midday.Hour > 12.1 {
		t.Fatalf("hour after a quarter day = %.2f, want around 12", midday.Hour)
	}
	if midday.SunDirection.Y <= 0 {
		t.Fatalf("sun below horizon at midday: %+v", midday.SunDirection)
	}
	if midday.Phase != "day" {
		t.Fatalf("midday phase = %q, want day", midday.Phase)
	}

	c.Update(11 * time.Minute)
	night := c.State()
	if night.SunDirection.Y >= 0 {
		t.Fatalf("sun above horizon at night: %+v", night.SunDirection)
	}
	if night.Phase != "night" {
		t.Fatalf("night phase = %q, want night", night.Phase)
	}
	if night.Ambient >= midday.Ambient {
		t.Fatalf("ambient at night %.2f not below midday %.2f", night.Ambient, midday.Ambient)
	}
	if night.SunIntensity >= midday.SunIntensity {
		t.Fatalf("sun intensity at night %.2f not below midday %.2f", night.SunIntensity, midday.SunIntensity)
	}
}

func TestCycleWrapsAround(t *testing.T) {
	c := New(config.SkyConfig{DayLength: 10 * time.Minute, StartHour: 23})

	c.Update(5 * time.Minute) // half a day: 23 + 12 = 11
	state := c.State()
	if state.Hour < 10.9 || state.Hour > 11.1 {
		t.Fatalf("hour = %.2f after wrap, want around 11", state.Hour)
	}
}

func TestCyclePaused(t *testing.T) {
	c := New(config.SkyConfig{DayLength: 10 * time.Minute, StartHour: 12, Paused: true})

	before := c.State()
	c.Update(5 * time.Minute)
	after := c.State()
	if before.Hour != after.Hour {
		t.Fatalf("paused cycle advanced from %.2f to %.2f", before.Hour, after.Hour)
	}

	c.SetPaused(false)
	c.Update(5 * time.Minute)
	if c.State().Hour == before.Hour {
		t.Fatal("resumed cycle did not advance")
	}
}

func TestSetHour(t *testing.T) {
	c := New(config.SkyConfig{DayLength: 10 * time.Minute, StartHour: 0})

	c.SetHour(18.5)
	if got := c.State().Hour; got < 18.4 || got > 18.6 {
		t.Fatalf("hour = %.2f after SetHour(18.5)", got)
	}

	c.SetHour(30) // wraps to 6
	if got := c.State().Hour; got < 5.9 || got > 6.1 {
		t.Fatalf("hour = %.2f after SetHour(30), want around 6", got)
	}

	c.SetHour(-6) // wraps back to 18
	if got := c.State().Hour; got < 17.9 || got > 18.1 {
		t.Fatalf("hour = %.2f after SetHour(-6), want around 18", got)
	}
}

func TestSetDayLengthKeepsHour(t *testing.T) {
	c := New(config.SkyConfig{DayLength: 10 * time.Minute, StartHour: 6})
	c.Update(150 * time.Second) // quarter day: hour 12

	c.SetDayLength(time.Hour)
	if got := c.State().Hour; got < 11.9 || got > 12.1 {
		t.Fatalf("hour = %.2f after day length change, want around 12", got)
	}
}

func TestPaletteEndpointsAgree(t *testing.T) {
	// Midnight sits at both ends of every palette; the colors must
	// match or the cycle pops when it wraps.
	for name, p := range map[string][]paletteKey{
		"sun":     sunPalette,
		"zenith":  zenithPalette,
		"horizon": horizonPalette,
	} {
		first, last := p[0].color, p[len(p)-1].color
		if first != last {
			t.Errorf("%s palette endpoints differ: %v vs %v", name, first, last)
		}
	}
}
