// Package world assembles the playground scene data: the procedural
// height field, its render mesh, the scattered trees and the collision
// set they register into.
package world

import (
	"go.uber.org/zap"

	"github.com/softmeadow/glade/internal/config"
	"github.com/softmeadow/glade/internal/engine/collision"
	"github.com/softmeadow/glade/internal/logger"
	"github.com/softmeadow/glade/internal/terrain"
	"github.com/softmeadow/glade/internal/trees"
	"github.com/softmeadow/glade/pkg/math"
)

// Trunk collider dimensions per tree kind, before instance scale.
// These track the renderer's unit meshes so the character bumps into
// what it sees: conifer, broadleaf, birch.
var (
	trunkRadius = [trees.Kinds]float32{0.12, 0.14, 0.08}
	trunkHeight = [trees.Kinds]float32{0.90, 1.20, 1.50}
)

// World is the assembled playground: everything derived from one seed.
// Height and Collision stay live for queries; Mesh and Trees feed the
// scene once and are kept for rebuilds.
type World struct {
	Seed      int64
	Size      float32
	Height    *terrain.HeightField
	Mesh      *terrain.Mesh
	Trees     []trees.Tree
	Collision *collision.World

	treeIDs []collision.ColliderID
	log     *zap.Logger
}

// SpawnPoint returns the character drop-in position: the world center,
// slightly above the ground so the first probe has room.
func (w *World) SpawnPoint() math.Vec3 {
	return math.Vec3{Y: w.Height.HeightAt(0, 0) + 0.5}
}

// RebuildTrees rescatters with the current seed and new tree settings,
// swapping the trunk colliders in place. The caller pushes the returned
// set to the scene.
func (w *World) RebuildTrees(cfg config.TreesConfig) []trees.Tree {
	for _, id := range w.treeIDs {
		w.Collision.RemoveBox(id)
	}
	w.treeIDs = w.treeIDs[:0]

	w.Trees = trees.Scatter(w.Seed, w.Size, cfg, w.Height)
	w.addTrunkColliders()
	w.log.Debug("trees rebuilt", zap.Int("count", len(w.Trees)))
	return w.Trees
}

func (w *World) addTrunkColliders() {
	for _, t := range w.Trees {
		w.treeIDs = append(w.treeIDs, w.Collision.AddBox(trunkBox(t)))
	}
}

// trunkBox is the axis-aligned collider for one placed tree: a square
// column over the trunk footprint. Canopies stay passable.
func trunkBox(t trees.Tree) collision.AABB {
	r := trunkRadius[t.Kind] * t.Scale
	h := trunkHeight[t.Kind] * t.Scale
	return collision.AABB{
		Min: math.Vec3{X: t.Position.X - r, Y: t.Position.Y, Z: t.Position.Z - r},
		Max: math.Vec3{X: t.Position.X + r, Y: t.Position.Y + h, Z: t.Position.Z + r},
	}
}

// Build phases, in order. The loading state runs one per frame so the
// progress bar moves through real work.
var phases = []string{
	"height field",
	"terrain mesh",
	"tree scatter",
	"collision set",
}

// Builder assembles a World one phase at a time.
type Builder struct {
	cfg   *config.Config
	world *World
	phase int
}

// NewBuilder starts a build over the given settings. Nothing is
// computed until the first Step.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{
		cfg: cfg,
		world: &World{
			Seed: cfg.World.Seed,
			Size: cfg.World.Size,
			log:  logger.Named("world"),
		},
	}
}

// Progress reports the completed fraction and the label of the phase
// about to run. After the final step the label is empty.
func (b *Builder) Progress() (float32, string) {
	if b.phase >= len(phases) {
		return 1, ""
	}
	return float32(b.phase) / float32(len(phases)), phases[b.phase]
}

// Step runs the next build phase and reports whether the world is
// complete.
func (b *Builder) Step() bool {
	w := b.world
	switch b.phase {
	case 0:
		w.Height = terrain.NewHeightField(b.cfg.World)
	case 1:
		w.Mesh = terrain.BuildMesh(w.Height, b.cfg.World.Size, b.cfg.World.Resolution)
	case 2:
		w.Trees = trees.Scatter(w.Seed, w.Size, b.cfg.Trees, w.Height)
	case 3:
		w.Collision = collision.NewWorld(w.Height)
		w.addTrunkColliders()
		w.log.Info("world ready",
			zap.Int64("seed", w.Seed),
			zap.Float32("size", w.Size),
			zap.Int("trees", len(w.Trees)),
		)
	}
	if b.phase < len(phases) {
		b.phase++
	}
	return b.phase >= len(phases)
}

// World returns the assembled world once Step has reported done.
func (b *Builder) World() *World {
	if b.phase < len(phases) {
		return nil
	}
	return b.world
}

// Build runs every phase at once. The studio and tools use this; the
// playground steps a Builder to drive its loading bar.
func Build(cfg *config.Config) *World {
	b := NewBuilder(cfg)
	for !b.Step() {
	}
	return b.world
}
