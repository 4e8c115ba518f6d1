// Package config handles playground configuration loading and management.
package config

import "time"

// Config holds all playground settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	World     WorldConfig     `yaml:"world"`
	Grass     GrassConfig     `yaml:"grass"`
	Trees     TreesConfig     `yaml:"trees"`
	Character CharacterConfig `yaml:"character"`
	Weather   WeatherConfig   `yaml:"weather"`
	Sky       SkyConfig       `yaml:"sky"`
	Audio     AudioConfig     `yaml:"audio"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
	PostFX     bool `yaml:"post_fx"`
	ShowHUD    bool `yaml:"show_hud"`
}

// WorldConfig holds terrain generation settings. Seed and Size are
// structural: changing them at runtime requires a world rebuild.
type WorldConfig struct {
	Seed        int64   `yaml:"seed"`
	Size        float32 `yaml:"size"`        // Side length of the square world, in meters
	Resolution  int     `yaml:"resolution"`  // Terrain mesh vertices per side
	HeightScale float32 `yaml:"height_scale"`
	NoiseScale  float32 `yaml:"noise_scale"` // Feature frequency; smaller = wider hills
	Octaves     int     `yaml:"octaves"`
	Persistence float32 `yaml:"persistence"`
	Lacunarity  float32 `yaml:"lacunarity"`
}

// GrassConfig holds grass tiling, density and LOD settings.
type GrassConfig struct {
	TileSize        float32       `yaml:"tile_size"`
	NearDistance    float32       `yaml:"near_distance"` // Below this: high-detail bucket
	FarDistance     float32       `yaml:"far_distance"`  // At or beyond this: ultra-low bucket
	HighDensity     int           `yaml:"high_density"`  // Blades per tile in each bucket
	LowDensity      int           `yaml:"low_density"`
	UltraLowDensity int           `yaml:"ultra_low_density"`
	EvalInterval    time.Duration `yaml:"eval_interval"` // LOD/culling re-evaluation throttle
	BladeHeight     float32       `yaml:"blade_height"`
}

// TreesConfig holds tree scatter settings.
type TreesConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Count      int     `yaml:"count"`
	MinSpacing float32 `yaml:"min_spacing"`
	MaxSlope   float32 `yaml:"max_slope"`  // 0 = flat only, 1 = any slope
	MinHeight  float32 `yaml:"min_height"` // Trees avoid beaches and peaks
	MaxHeight  float32 `yaml:"max_height"`
}

// CharacterConfig holds character movement and state machine tuning.
type CharacterConfig struct {
	WalkSpeed     float32       `yaml:"walk_speed"`
	RunSpeed      float32       `yaml:"run_speed"`
	CrouchSpeed   float32       `yaml:"crouch_speed"`
	JumpImpulse   float32       `yaml:"jump_impulse"`
	Gravity       float32       `yaml:"gravity"`
	CapsuleRadius float32       `yaml:"capsule_radius"`
	CapsuleHeight float32       `yaml:"capsule_height"` // Standing height
	CrouchHeight  float32       `yaml:"crouch_height"`
	GroundProbe   float32       `yaml:"ground_probe"` // Downward ray length past the feet
	StandDelay    time.Duration `yaml:"stand_delay"`  // Crouch-to-stand debounce
	LandDuration  time.Duration `yaml:"land_duration"`
}

// WeatherConfig holds wind and particle settings.
type WeatherConfig struct {
	WindDirection float32 `yaml:"wind_direction"` // Degrees, 0 = +X
	WindStrength  float32 `yaml:"wind_strength"`  // 0..1
	Rain          bool    `yaml:"rain"`
	RainIntensity float32 `yaml:"rain_intensity"` // 0..1
	Leaves        bool    `yaml:"leaves"`
	LeafCount     int     `yaml:"leaf_count"`
}

// SkyConfig holds day/night cycle settings.
type SkyConfig struct {
	DayLength time.Duration `yaml:"day_length"` // Wall time for a full 24h cycle
	StartHour float32       `yaml:"start_hour"` // 0..24
	Paused    bool          `yaml:"paused"`
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	MasterVolume float32 `yaml:"master_volume"`
	WindVolume   float32 `yaml:"wind_volume"`
	Muted        bool    `yaml:"muted"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with playable default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			PostFX:     true,
			ShowHUD:    true,
		},
		World: WorldConfig{
			Seed:        1977,
			Size:        160,
			Resolution:  128,
			HeightScale: 7,
			NoiseScale:  0.035,
			Octaves:     4,
			Persistence: 0.5,
			Lacunarity:  2.0,
		},
		Grass: GrassConfig{
			TileSize:        10,
			NearDistance:    40,
			FarDistance:     90,
			HighDensity:     256,
			LowDensity:      64,
			UltraLowDensity: 12,
			EvalInterval:    100 * time.Millisecond,
			BladeHeight:     0.55,
		},
		Trees: TreesConfig{
			Enabled:    true,
			Count:      120,
			MinSpacing: 4,
			MaxSlope:   0.3,
			MinHeight:  0.5,
			MaxHeight:  7,
		},
		Character: CharacterConfig{
			WalkSpeed:     4,
			RunSpeed:      7,
			CrouchSpeed:   1.8,
			JumpImpulse:   5.2,
			Gravity:       14,
			CapsuleRadius: 0.35,
			CapsuleHeight: 1.7,
			CrouchHeight:  1.1,
			GroundProbe:   0.25,
			StandDelay:    500 * time.Millisecond,
			LandDuration:  220 * time.Millisecond,
		},
		Weather: WeatherConfig{
			WindDirection: 35,
			WindStrength:  0.6,
			Rain:          false,
			RainIntensity: 0.5,
			Leaves:        true,
			LeafCount:     160,
		},
		Sky: SkyConfig{
			DayLength: 10 * time.Minute,
			StartHour: 10.5,
			Paused:    false,
		},
		Audio: AudioConfig{
			MasterVolume: 0.8,
			WindVolume:   0.7,
			Muted:        false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Normalize clamps out-of-range values in place. Invalid input degrades
// to the nearest sane value rather than failing the load.
func (c *Config) Normalize() {
	if c.Graphics.Width < 320 {
		c.Graphics.Width = 320
	}
	if c.Graphics.Height < 240 {
		c.Graphics.Height = 240
	}

	if c.World.Size < 16 {
		c.World.Size = 16
	}
	if c.World.Resolution < 8 {
		c.World.Resolution = 8
	}
	if c.World.Octaves < 1 {
		c.World.Octaves = 1
	}

	if c.Grass.TileSize <= 0 {
		c.Grass.TileSize = 10
	}
	if c.Grass.NearDistance < 0 {
		c.Grass.NearDistance = 0
	}
	// Thresholds must satisfy near < far for the LOD intervals to be well formed.
	if c.Grass.FarDistance <= c.Grass.NearDistance {
		c.Grass.FarDistance = c.Grass.NearDistance + 1
	}
	if c.Grass.HighDensity < 0 {
		c.Grass.HighDensity = 0
	}
	if c.Grass.LowDensity < 0 {
		c.Grass.LowDensity = 0
	}
	if c.Grass.UltraLowDensity < 0 {
		c.Grass.UltraLowDensity = 0
	}
	if c.Grass.EvalInterval < 10*time.Millisecond {
		c.Grass.EvalInterval = 10 * time.Millisecond
	}

	if c.Character.Gravity <= 0 {
		c.Character.Gravity = 14
	}
	if c.Character.CrouchHeight >= c.Character.CapsuleHeight {
		c.Character.CrouchHeight = c.Character.CapsuleHeight * 0.65
	}
	if c.Character.GroundProbe <= 0 {
		c.Character.GroundProbe = 0.25
	}
	if c.Character.StandDelay < 0 {
		c.Character.StandDelay = 0
	}
	if c.Character.LandDuration < 0 {
		c.Character.LandDuration = 0
	}

	c.Weather.WindStrength = clamp01(c.Weather.WindStrength)
	c.Weather.RainIntensity = clamp01(c.Weather.RainIntensity)
	if c.Weather.LeafCount < 0 {
		c.Weather.LeafCount = 0
	}

	if c.Sky.DayLength < time.Minute {
		c.Sky.DayLength = time.Minute
	}
	for c.Sky.StartHour < 0 {
		c.Sky.StartHour += 24
	}
	for c.Sky.StartHour >= 24 {
		c.Sky.StartHour -= 24
	}

	c.Audio.MasterVolume = clamp01(c.Audio.MasterVolume)
	c.Audio.WindVolume = clamp01(c.Audio.WindVolume)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
