package grass

import (
	"time"

	"go.uber.org/zap"

	"github.com/softmeadow/glade/internal/engine/frustum"
	"github.com/softmeadow/glade/internal/logger"
	"github.com/softmeadow/glade/pkg/math"
)

// HeightSampler supplies ground height for instance placement.
// Non-finite samples are clamped to 0, never propagated.
type HeightSampler interface {
	HeightAt(x, z float32) float32
}

// Instance is one grass blade placement inside a tile.
type Instance struct {
	Position [3]float32
	Yaw      float32
	Scale    float32
}

// Instancer owns the GPU-side instanced meshes. Create is called when a
// tile is (re)populated, Destroy when its bucket changes or the field
// is rebuilt. Implementations must tolerate Destroy(NoHandle).
type Instancer interface {
	Create(lod LOD, instances []Instance) Handle
	Destroy(h Handle)
}

// Config holds the field's tuning. Thresholds must satisfy Near < Far.
type Config struct {
	WorldSize float32
	TileSize  float32
	Near      float32 // Below this distance: high bucket
	Far       float32 // At or beyond: ultra-low bucket
	MaxHeight float32 // Tile AABB ceiling (terrain max plus blade height)
	Interval  time.Duration
	Buckets   [3]Bucket // Indexed by LOD
}

// DefaultBuckets returns the bucket set for the given per-tile
// densities. Mesh detail per bucket is fixed: distant blades do not
// need bend segments.
func DefaultBuckets(high, low, ultraLow int) [3]Bucket {
	return [3]Bucket{
		LODHigh:     {Segments: 3, Density: high},
		LODLow:      {Segments: 2, Density: low},
		LODUltraLow: {Segments: 1, Density: ultraLow},
	}
}

// Stats is a snapshot of the last evaluation tick.
type Stats struct {
	Tiles       int
	Visible     int
	Culled      int
	Rebuilt     int // Tiles repopulated during the last tick
	Instances   int // Total instances alive across all tiles
	Evaluations uint64
}

// Field owns the tile grid and drives the throttled
// cull/LOD/repopulate loop. All methods must be called from the render
// loop thread; nothing here is safe for concurrent use.
type Field struct {
	cfg     Config
	tiles   []*Tile
	sampler HeightSampler
	inst    Instancer
	log     *zap.Logger

	sinceEval  time.Duration
	generation uint64 // Bumped when bucket tuning changes force repopulation
	stats      Stats

	// Instances alive per tile handle, for the stats counter.
	counts map[Handle]int
}

// NewField builds the tile grid. No instances are created until the
// first evaluation runs.
func NewField(cfg Config, sampler HeightSampler, inst Instancer) *Field {
	f := &Field{
		cfg:        cfg,
		tiles:      buildGrid(cfg.WorldSize, cfg.TileSize),
		sampler:    sampler,
		inst:       inst,
		log:        logger.Named("grass"),
		generation: 1,
		counts:     make(map[Handle]int),
	}
	f.stats.Tiles = len(f.tiles)
	f.log.Debug("grass grid built",
		zap.Int("tiles", len(f.tiles)),
		zap.Float32("tile_size", cfg.TileSize),
	)
	return f
}

// Tiles returns the grid. Callers must not mutate the slice.
func (f *Field) Tiles() []*Tile {
	return f.tiles
}

// Bucket returns the configuration of a detail bucket.
func (f *Field) Bucket(l LOD) Bucket {
	if l < 0 || l >= lodCount {
		return Bucket{}
	}
	return f.cfg.Buckets[l]
}

// Stats returns a snapshot of the last evaluation.
func (f *Field) Stats() Stats {
	return f.stats
}

// Update advances the throttle clock and runs an evaluation once the
// configured interval has elapsed. Returns true when an evaluation ran.
// The frustum may be nil to disable culling (every tile visible).
func (f *Field) Update(dt time.Duration, camX, camZ float32, fr *frustum.Frustum) bool {
	f.sinceEval += dt
	if f.sinceEval < f.cfg.Interval {
		return false
	}
	f.sinceEval = 0
	f.Evaluate(camX, camZ, fr)
	return true
}

// Evaluate recomputes every tile's distance, visibility and bucket, and
// repopulates visible tiles whose bucket (or tuning generation)
// changed. Culled tiles keep their last bucket and are never
// repopulated until they re-enter the visible set.
func (f *Field) Evaluate(camX, camZ float32, fr *frustum.Frustum) {
	visible, culled, rebuilt := 0, 0, 0

	for _, t := range f.tiles {
		dx := t.CenterX - camX
		dz := t.CenterZ - camZ
		t.Distance = math.Sqrt(dx*dx + dz*dz)

		if fr != nil {
			min, max := t.Bounds(f.cfg.MaxHeight)
			t.Visible = fr.ContainsAABB(min, max)
		} else {
			t.Visible = true
		}

		if !t.Visible {
			culled++
			continue
		}
		visible++

		lod := SelectLOD(t.Distance, f.cfg.Near, f.cfg.Far)
		if lod != t.LOD || t.handle == NoHandle || t.generation != f.generation {
			f.populate(t, lod)
			rebuilt++
		}
	}

	f.stats.Visible = visible
	f.stats.Culled = culled
	f.stats.Rebuilt = rebuilt
	f.stats.Evaluations++
}

// populate discards the tile's current instances and synthesizes a new
// set for the given bucket. Placement is a pure function of the tile
// coordinates and instance index, so a tile always regrows the same
// blades for the same bucket.
func (f *Field) populate(t *Tile, lod LOD) {
	f.release(t)

	density := f.cfg.Buckets[lod].Density
	instances := make([]Instance, 0, density)
	for i := 0; i < density; i++ {
		u := hash01(t.GridX, t.GridZ, i*3)
		v := hash01(t.GridX, t.GridZ, i*3+1)
		x := t.CenterX + (u-0.5)*t.Size
		z := t.CenterZ + (v-0.5)*t.Size

		y := f.sampler.HeightAt(x, z)
		if !math.IsFinite(y) {
			y = 0
		}

		r := hash01(t.GridX, t.GridZ, i*3+2)
		instances = append(instances, Instance{
			Position: [3]float32{x, y, z},
			Yaw:      r * 2 * math.Pi,
			Scale:    0.8 + 0.4*hash01(t.GridZ, t.GridX, i),
		})
	}

	t.handle = f.inst.Create(lod, instances)
	t.LOD = lod
	t.generation = f.generation
	if t.handle != NoHandle {
		f.counts[t.handle] = len(instances)
		f.stats.Instances += len(instances)
	}
}

// release destroys a tile's instances, if any.
func (f *Field) release(t *Tile) {
	if t.handle == NoHandle {
		return
	}
	f.stats.Instances -= f.counts[t.handle]
	delete(f.counts, t.handle)
	f.inst.Destroy(t.handle)
	t.handle = NoHandle
}

// SetThresholds applies new near/far distances. Takes effect at the
// next evaluation; tiles whose bucket changes are repopulated then.
func (f *Field) SetThresholds(near, far float32) {
	if far <= near {
		far = near + 1
	}
	f.cfg.Near = near
	f.cfg.Far = far
}

// SetDensities applies new per-bucket densities. Every tile is
// repopulated at its next visible evaluation; there is no in-place
// density change.
func (f *Field) SetDensities(high, low, ultraLow int) {
	f.cfg.Buckets = DefaultBuckets(high, low, ultraLow)
	f.generation++
}

// SetInterval changes the evaluation throttle.
func (f *Field) SetInterval(interval time.Duration) {
	if interval < 10*time.Millisecond {
		interval = 10 * time.Millisecond
	}
	f.cfg.Interval = interval
}

// Destroy releases every tile's instances. The field may be evaluated
// again afterwards (a world rebuild re-creates instances lazily).
func (f *Field) Destroy() {
	for _, t := range f.tiles {
		f.release(t)
	}
}

// hash01 maps (a, b, i) to a deterministic value in [0, 1).
func hash01(a, b, i int) float32 {
	h := uint32(a*374761393 + b*668265263 + i*974634511)
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	return float32(h&0xFFFFFF) / float32(0x1000000)
}
