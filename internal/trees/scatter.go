// Package trees places the static tree decorations. The scatter is a
// pure function of the world seed, so a reloaded playground regrows
// the same grove.
package trees

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/softmeadow/glade/internal/config"
	"github.com/softmeadow/glade/internal/logger"
	"github.com/softmeadow/glade/pkg/math"
)

// Tree is one placed instance.
type Tree struct {
	Position math.Vec3
	Yaw      float32
	Scale    float32
	Kind     int // Trunk/canopy variation index
}

// Kinds is the number of procedural tree variations the renderer
// builds meshes for.
const Kinds = 3

// Surface is the terrain slice the scatter samples.
type Surface interface {
	HeightAt(x, z float32) float32
	Slope(x, z float32) float32
}

// Scatter places up to cfg.Count trees by rejection sampling:
// candidates outside the height band, on steep ground, too close to an
// accepted tree, or too near the world rim are discarded. The attempt
// budget keeps a hostile configuration from looping forever.
func Scatter(seed int64, worldSize float32, cfg config.TreesConfig, surf Surface) []Tree {
	if !cfg.Enabled || cfg.Count <= 0 || surf == nil {
		return nil
	}

	rng := rand.New(rand.NewSource(seed))
	margin := worldSize * 0.08
	half := worldSize/2 - margin
	if half <= 0 {
		return nil
	}

	placed := make([]Tree, 0, cfg.Count)
	attempts := cfg.Count * 12
	for i := 0; i < attempts && len(placed) < cfg.Count; i++ {
		x := (rng.Float32()*2 - 1) * half
		z := (rng.Float32()*2 - 1) * half

		h := surf.HeightAt(x, z)
		if !math.IsFinite(h) || h < cfg.MinHeight || h > cfg.MaxHeight {
			continue
		}
		if surf.Slope(x, z) > cfg.MaxSlope {
			continue
		}
		if tooClose(placed, x, z, cfg.MinSpacing) {
			continue
		}

		placed = append(placed, Tree{
			Position: math.Vec3{X: x, Y: h, Z: z},
			Yaw:      rng.Float32() * 2 * math.Pi,
			Scale:    0.8 + rng.Float32()*0.5,
			Kind:     rng.Intn(Kinds),
		})
	}

	if len(placed) < cfg.Count {
		logger.Named("trees").Debug("scatter under target",
			zap.Int("placed", len(placed)),
			zap.Int("target", cfg.Count),
		)
	}
	return placed
}

func tooClose(placed []Tree, x, z, spacing float32) bool {
	s2 := spacing * spacing
	for i := range placed {
		dx := placed[i].Position.X - x
		dz := placed[i].Position.Z - z
		if dx*dx+dz*dz < s2 {
			return true
		}
	}
	return false
}
