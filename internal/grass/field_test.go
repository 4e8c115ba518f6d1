package grass

import (
	gomath "math"
	"testing"
	"time"

	"github.com/softmeadow/glade/internal/engine/frustum"
	"github.com/softmeadow/glade/pkg/math"
)

// fakeInstancer records create/destroy traffic instead of touching GL.
type fakeInstancer struct {
	next     Handle
	live     map[Handle][]Instance
	lods     map[Handle]LOD
	creates  int
	destroys int
}

func newFakeInstancer() *fakeInstancer {
	return &fakeInstancer{
		live: make(map[Handle][]Instance),
		lods: make(map[Handle]LOD),
	}
}

func (f *fakeInstancer) Create(lod LOD, instances []Instance) Handle {
	f.next++
	f.creates++
	f.live[f.next] = append([]Instance(nil), instances...)
	f.lods[f.next] = lod
	return f.next
}

func (f *fakeInstancer) Destroy(h Handle) {
	if h == NoHandle {
		return
	}
	delete(f.live, h)
	delete(f.lods, h)
	f.destroys++
}

type flatSampler struct{ y float32 }

func (s flatSampler) HeightAt(x, z float32) float32 { return s.y }

type nanSampler struct{}

func (nanSampler) HeightAt(x, z float32) float32 { return float32(gomath.NaN()) }

func testConfig() Config {
	return Config{
		WorldSize: 40,
		TileSize:  10,
		Near:      40,
		Far:       90,
		MaxHeight: 8,
		Interval:  100 * time.Millisecond,
		Buckets:   DefaultBuckets(64, 16, 4),
	}
}

func TestEvaluatePopulatesVisibleTiles(t *testing.T) {
	inst := newFakeInstancer()
	f := NewField(testConfig(), flatSampler{y: 2}, inst)

	f.Evaluate(0, 0, nil)

	st := f.Stats()
	if st.Tiles != 16 || st.Visible != 16 || st.Culled != 0 {
		t.Fatalf("stats = %+v, want 16 tiles all visible", st)
	}
	if st.Rebuilt != 16 {
		t.Errorf("rebuilt = %d, want 16 on first evaluation", st.Rebuilt)
	}

	wantInstances := 0
	for _, tile := range f.Tiles() {
		if tile.Handle() == NoHandle {
			t.Fatalf("tile (%d,%d) has no instances after evaluation", tile.GridX, tile.GridZ)
		}
		want := SelectLOD(tile.Distance, 40, 90)
		if tile.LOD != want {
			t.Errorf("tile (%d,%d) at %v: LOD %v, want %v", tile.GridX, tile.GridZ, tile.Distance, tile.LOD, want)
		}
		got := inst.live[tile.Handle()]
		density := f.Bucket(tile.LOD).Density
		if len(got) != density {
			t.Errorf("tile (%d,%d) %v: %d instances, want %d", tile.GridX, tile.GridZ, tile.LOD, len(got), density)
		}
		if inst.lods[tile.Handle()] != tile.LOD {
			t.Errorf("tile (%d,%d): instancer saw %v, tile says %v", tile.GridX, tile.GridZ, inst.lods[tile.Handle()], tile.LOD)
		}
		wantInstances += density
	}
	if st.Instances != wantInstances {
		t.Errorf("stats.Instances = %d, want %d", st.Instances, wantInstances)
	}
}

func TestDistanceInsideNearGetsHighBucket(t *testing.T) {
	cfg := testConfig()
	cfg.WorldSize = 10 // single tile centered at the origin

	inst := newFakeInstancer()
	f := NewField(cfg, flatSampler{}, inst)
	if len(f.Tiles()) != 1 {
		t.Fatalf("expected a single tile, got %d", len(f.Tiles()))
	}

	f.Evaluate(35, 0, nil)

	tile := f.Tiles()[0]
	if tile.Distance != 35 {
		t.Fatalf("distance = %v, want 35", tile.Distance)
	}
	if tile.LOD != LODHigh {
		t.Errorf("LOD at distance 35 with near 40 = %v, want %v", tile.LOD, LODHigh)
	}
	if got := len(inst.live[tile.Handle()]); got != 64 {
		t.Errorf("instance count = %d, want high-bucket density 64", got)
	}
}

func TestInstancePlacement(t *testing.T) {
	cfg := testConfig()
	inst := newFakeInstancer()
	f := NewField(cfg, flatSampler{y: 3.5}, inst)

	f.Evaluate(0, 0, nil)

	for _, tile := range f.Tiles() {
		half := tile.Size / 2
		for i, in := range inst.live[tile.Handle()] {
			if in.Position[0] < tile.CenterX-half || in.Position[0] > tile.CenterX+half ||
				in.Position[2] < tile.CenterZ-half || in.Position[2] > tile.CenterZ+half {
				t.Fatalf("tile (%d,%d) instance %d at %v outside tile", tile.GridX, tile.GridZ, i, in.Position)
			}
			if in.Position[1] != 3.5 {
				t.Fatalf("instance %d y = %v, want sampled height 3.5", i, in.Position[1])
			}
			if in.Scale < 0.8 || in.Scale > 1.2 {
				t.Errorf("instance %d scale = %v, want [0.8, 1.2]", i, in.Scale)
			}
		}
	}
}

func TestInstancePlacementDeterministic(t *testing.T) {
	cfg := testConfig()
	inst := newFakeInstancer()
	f := NewField(cfg, flatSampler{y: 1}, inst)

	f.Evaluate(0, 0, nil)
	tile := f.Tiles()[0]
	before := append([]Instance(nil), inst.live[tile.Handle()]...)

	// Same densities, but the generation bump forces every tile to regrow.
	f.SetDensities(64, 16, 4)
	f.Evaluate(0, 0, nil)

	after := inst.live[tile.Handle()]
	if len(after) != len(before) {
		t.Fatalf("instance count changed on regrow: %d then %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("instance %d changed on regrow: %+v then %+v", i, before[i], after[i])
		}
	}
}

func TestNonFiniteHeightClampsToZero(t *testing.T) {
	inst := newFakeInstancer()
	f := NewField(testConfig(), nanSampler{}, inst)

	f.Evaluate(0, 0, nil)

	for _, tile := range f.Tiles() {
		for i, in := range inst.live[tile.Handle()] {
			if in.Position[1] != 0 {
				t.Fatalf("instance %d y = %v from a NaN sample, want 0", i, in.Position[1])
			}
		}
	}
}

func TestUpdateThrottle(t *testing.T) {
	inst := newFakeInstancer()
	f := NewField(testConfig(), flatSampler{}, inst)

	for i := 0; i < 3; i++ {
		if f.Update(30*time.Millisecond, 0, 0, nil) {
			t.Fatalf("evaluation ran after %d ms, interval is 100 ms", (i+1)*30)
		}
	}
	if !f.Update(30*time.Millisecond, 0, 0, nil) {
		t.Fatal("evaluation did not run once the interval elapsed")
	}
	if got := f.Stats().Evaluations; got != 1 {
		t.Fatalf("evaluations = %d, want 1", got)
	}

	// The accumulator resets after a run.
	if f.Update(30*time.Millisecond, 0, 0, nil) {
		t.Fatal("evaluation ran again immediately after a tick")
	}

	// A long stall collapses into a single evaluation.
	if !f.Update(250*time.Millisecond, 0, 0, nil) {
		t.Fatal("evaluation did not run after a long frame")
	}
	if got := f.Stats().Evaluations; got != 2 {
		t.Fatalf("evaluations = %d, want 2 after a long frame", got)
	}
}

func TestCulledTilesRetainBucketAndInstances(t *testing.T) {
	inst := newFakeInstancer()
	f := NewField(testConfig(), flatSampler{y: 1}, inst)

	proj := math.Perspective(math.Pi/2, 1, 0.1, 500)
	lookingAt := func(eye, center math.Vec3) *frustum.Frustum {
		fr := frustum.FromViewProj(proj.Mul(math.LookAt(eye, center, math.Vec3{Y: 1})))
		return &fr
	}

	// Camera well in front of the grid, facing it: everything visible.
	eye := math.Vec3{Y: 5, Z: -100}
	f.Evaluate(eye.X, eye.Z, lookingAt(eye, math.Vec3{}))
	if st := f.Stats(); st.Visible != 16 || st.Culled != 0 {
		t.Fatalf("facing the grid: stats = %+v, want all 16 visible", st)
	}

	type snapshot struct {
		lod    LOD
		handle Handle
	}
	before := make(map[*Tile]snapshot)
	for _, tile := range f.Tiles() {
		before[tile] = snapshot{tile.LOD, tile.Handle()}
	}
	creates, destroys := inst.creates, inst.destroys

	// Turn the camera around: the whole grid is behind it.
	f.Evaluate(eye.X, eye.Z, lookingAt(eye, math.Vec3{Y: 5, Z: -300}))
	if st := f.Stats(); st.Culled != 16 || st.Rebuilt != 0 {
		t.Fatalf("facing away: stats = %+v, want all 16 culled and none rebuilt", st)
	}
	for tile, s := range before {
		if tile.Visible {
			t.Fatalf("tile (%d,%d) visible while the camera faces away", tile.GridX, tile.GridZ)
		}
		if tile.LOD != s.lod || tile.Handle() != s.handle {
			t.Fatalf("culled tile (%d,%d) changed: was %v/%v, now %v/%v",
				tile.GridX, tile.GridZ, s.lod, s.handle, tile.LOD, tile.Handle())
		}
	}

	// Walk close while still facing away. Distances now fall in the high
	// bucket, but culled tiles must keep their stale assignment.
	eye = math.Vec3{Y: 5, Z: -45}
	f.Evaluate(eye.X, eye.Z, lookingAt(eye, math.Vec3{Y: 5, Z: -300}))
	for tile, s := range before {
		if tile.LOD != s.lod || tile.Handle() != s.handle {
			t.Fatalf("culled tile (%d,%d) repopulated on approach", tile.GridX, tile.GridZ)
		}
	}
	if inst.creates != creates || inst.destroys != destroys {
		t.Fatalf("instancer touched while culled: creates %d->%d destroys %d->%d",
			creates, inst.creates, destroys, inst.destroys)
	}

	// Turn back around: tiles re-enter and pick up their new buckets.
	f.Evaluate(eye.X, eye.Z, lookingAt(eye, math.Vec3{}))
	if st := f.Stats(); st.Visible != 16 {
		t.Fatalf("facing the grid up close: stats = %+v, want all 16 visible", st)
	}
	for _, tile := range f.Tiles() {
		want := SelectLOD(tile.Distance, 40, 90)
		if tile.LOD != want {
			t.Errorf("tile (%d,%d) at %v: LOD %v after re-entry, want %v",
				tile.GridX, tile.GridZ, tile.Distance, tile.LOD, want)
		}
	}
	if inst.creates == creates {
		t.Error("no repopulation after tiles re-entered the view")
	}
}

func TestSetDensitiesDefersToNextVisibleEvaluation(t *testing.T) {
	inst := newFakeInstancer()
	f := NewField(testConfig(), flatSampler{}, inst)

	proj := math.Perspective(math.Pi/2, 1, 0.1, 500)
	eye := math.Vec3{Y: 5, Z: -100}
	facing := frustum.FromViewProj(proj.Mul(math.LookAt(eye, math.Vec3{}, math.Vec3{Y: 1})))
	away := frustum.FromViewProj(proj.Mul(math.LookAt(eye, math.Vec3{Y: 5, Z: -300}, math.Vec3{Y: 1})))

	f.Evaluate(eye.X, eye.Z, &facing)
	f.Evaluate(eye.X, eye.Z, &away)
	creates := inst.creates

	// Retuning while everything is culled must not touch the instancer.
	f.SetDensities(32, 8, 2)
	f.Evaluate(eye.X, eye.Z, &away)
	if inst.creates != creates {
		t.Fatalf("culled tiles repopulated after a density change: creates %d -> %d", creates, inst.creates)
	}

	// Once visible again, every tile regrows at the new density.
	f.Evaluate(eye.X, eye.Z, &facing)
	if st := f.Stats(); st.Rebuilt != 16 {
		t.Fatalf("rebuilt = %d after density change, want 16", st.Rebuilt)
	}
	for _, tile := range f.Tiles() {
		want := f.Bucket(tile.LOD).Density
		if got := len(inst.live[tile.Handle()]); got != want {
			t.Errorf("tile (%d,%d) %v: %d instances, want %d", tile.GridX, tile.GridZ, tile.LOD, got, want)
		}
	}
}

func TestSetThresholds(t *testing.T) {
	cfg := testConfig()
	cfg.WorldSize = 10

	inst := newFakeInstancer()
	f := NewField(cfg, flatSampler{}, inst)

	f.SetThresholds(10, 20)

	f.Evaluate(5, 0, nil)
	if got := f.Tiles()[0].LOD; got != LODHigh {
		t.Errorf("distance 5 with near 10: LOD %v, want %v", got, LODHigh)
	}
	f.Evaluate(15, 0, nil)
	if got := f.Tiles()[0].LOD; got != LODLow {
		t.Errorf("distance 15 with thresholds 10/20: LOD %v, want %v", got, LODLow)
	}
	f.Evaluate(25, 0, nil)
	if got := f.Tiles()[0].LOD; got != LODUltraLow {
		t.Errorf("distance 25 with far 20: LOD %v, want %v", got, LODUltraLow)
	}

	// An inverted pair is repaired instead of accepted.
	f.SetThresholds(50, 30)
	f.Evaluate(45, 0, nil)
	if got := f.Tiles()[0].LOD; got != LODHigh {
		t.Errorf("distance 45 with repaired near 50: LOD %v, want %v", got, LODHigh)
	}
}

func TestDestroyReleasesEverything(t *testing.T) {
	inst := newFakeInstancer()
	f := NewField(testConfig(), flatSampler{}, inst)

	f.Evaluate(0, 0, nil)
	if len(inst.live) != 16 {
		t.Fatalf("live handles = %d, want 16", len(inst.live))
	}

	f.Destroy()

	if len(inst.live) != 0 {
		t.Fatalf("live handles = %d after Destroy, want 0", len(inst.live))
	}
	if got := f.Stats().Instances; got != 0 {
		t.Fatalf("stats.Instances = %d after Destroy, want 0", got)
	}
	for _, tile := range f.Tiles() {
		if tile.Handle() != NoHandle {
			t.Fatalf("tile (%d,%d) still holds a handle after Destroy", tile.GridX, tile.GridZ)
		}
	}

	// The field regrows lazily on the next evaluation.
	f.Evaluate(0, 0, nil)
	if len(inst.live) != 16 {
		t.Fatalf("live handles = %d after re-evaluation, want 16", len(inst.live))
	}
}
