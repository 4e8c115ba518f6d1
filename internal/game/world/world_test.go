package world

import (
	"testing"

	"github.com/softmeadow/glade/internal/config"
	"github.com/softmeadow/glade/internal/engine/collision"
	"github.com/softmeadow/glade/pkg/math"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.World.Size = 80
	cfg.World.Resolution = 32
	cfg.Trees.Count = 40
	return cfg
}

func TestBuilderRunsPhasesInOrder(t *testing.T) {
	b := NewBuilder(testConfig())

	if w := b.World(); w != nil {
		t.Fatal("World() returned a world before any step ran")
	}

	seen := make([]string, 0, len(phases))
	for {
		frac, label := b.Progress()
		want := float32(len(seen)) / float32(len(phases))
		if frac != want {
			t.Fatalf("phase %d: progress = %v, want %v", len(seen), frac, want)
		}
		seen = append(seen, label)
		if b.Step() {
			break
		}
	}

	if len(seen) != len(phases) {
		t.Fatalf("ran %d phases, want %d", len(seen), len(phases))
	}
	for i, label := range seen {
		if label != phases[i] {
			t.Errorf("phase %d labeled %q, want %q", i, label, phases[i])
		}
	}
	if frac, label := b.Progress(); frac != 1 || label != "" {
		t.Errorf("after completion Progress() = %v, %q", frac, label)
	}
	if b.World() == nil {
		t.Fatal("World() is nil after the final step")
	}
}

func TestBuildDeterministicForSeed(t *testing.T) {
	a := Build(testConfig())
	b := Build(testConfig())

	if a.Height.HeightAt(7.5, -12.25) != b.Height.HeightAt(7.5, -12.25) {
		t.Error("same seed produced different terrain")
	}
	if len(a.Trees) != len(b.Trees) {
		t.Fatalf("same seed placed %d vs %d trees", len(a.Trees), len(b.Trees))
	}
	for i := range a.Trees {
		if a.Trees[i] != b.Trees[i] {
			t.Fatalf("tree %d differs between identical builds", i)
		}
	}
}

func TestBuildRegistersTrunkColliders(t *testing.T) {
	w := Build(testConfig())

	if len(w.treeIDs) != len(w.Trees) {
		t.Fatalf("%d colliders for %d trees", len(w.treeIDs), len(w.Trees))
	}
	if len(w.Trees) == 0 {
		t.Skip("scatter placed no trees on this seed")
	}

	// A ray down the first trunk's axis must stop on the trunk box,
	// not carry on to the ground.
	tr := w.Trees[0]
	top := trunkHeight[tr.Kind] * tr.Scale
	origin := tr.Position.Add(math.Vec3{Y: top + 2})
	hit, err := w.Collision.Raycast(origin, math.Vec3{Y: -1}, top+4, collision.NoCollider)
	if err != nil {
		t.Fatalf("raycast: %v", err)
	}
	if hit == nil || hit.Collider == collision.NoCollider {
		t.Fatalf("ray down a trunk hit %+v, want a box collider", hit)
	}
}

func TestSpawnPointSitsAboveGround(t *testing.T) {
	w := Build(testConfig())

	spawn := w.SpawnPoint()
	ground := w.Height.HeightAt(spawn.X, spawn.Z)
	if spawn.Y <= ground {
		t.Fatalf("spawn %v is at or below ground height %v", spawn.Y, ground)
	}

	hit, err := w.Collision.Raycast(spawn, math.Vec3{Y: -1}, 5, collision.NoCollider)
	if err != nil {
		t.Fatalf("raycast: %v", err)
	}
	if hit == nil {
		t.Fatal("ray down from spawn found no ground")
	}
}

func TestRebuildTreesSwapsColliders(t *testing.T) {
	cfg := testConfig()
	w := Build(cfg)
	before := len(w.Trees)

	treesCfg := cfg.Trees
	treesCfg.Count = before / 2
	rebuilt := w.RebuildTrees(treesCfg)

	if len(rebuilt) > treesCfg.Count {
		t.Fatalf("rebuild placed %d trees, cap %d", len(rebuilt), treesCfg.Count)
	}
	if len(w.treeIDs) != len(rebuilt) {
		t.Fatalf("%d colliders after rebuild, want %d", len(w.treeIDs), len(rebuilt))
	}

	// Disabling trees clears every trunk collider.
	treesCfg.Enabled = false
	if got := w.RebuildTrees(treesCfg); len(got) != 0 {
		t.Fatalf("disabled rebuild still placed %d trees", len(got))
	}
	if len(w.treeIDs) != 0 {
		t.Fatalf("%d colliders left after disabling trees", len(w.treeIDs))
	}
}
