package debug

import (
	"testing"
	"time"

	"github.com/softmeadow/glade/internal/grass"
)

type rampSampler struct{}

func (rampSampler) HeightAt(x, z float32) float32 { return 2 + x*0.1 }

// nullInstancer satisfies grass.Instancer without touching GL.
type nullInstancer struct{ next grass.Handle }

func (n *nullInstancer) Create(lod grass.LOD, instances []grass.Instance) grass.Handle {
	n.next++
	return n.next
}

func (n *nullInstancer) Destroy(h grass.Handle) {}

func testField() *grass.Field {
	cfg := grass.Config{
		WorldSize: 40,
		TileSize:  10,
		Near:      40,
		Far:       90,
		MaxHeight: 8,
		Interval:  100 * time.Millisecond,
		Buckets:   grass.DefaultBuckets(64, 16, 4),
	}
	f := grass.NewField(cfg, rampSampler{}, &nullInstancer{})
	f.Evaluate(0, 0, nil)
	return f
}

func TestGenerateTileOutlines(t *testing.T) {
	g := NewTileGrid(testField(), rampSampler{})

	verts := g.GenerateTileOutlines(0.05)
	if want := 16 * 8; len(verts) != want {
		t.Fatalf("len(verts) = %d, want %d", len(verts), want)
	}

	// Every vertex drapes over the ramp terrain plus the lift.
	for i, v := range verts {
		want := 2 + v.X*0.1 + 0.05
		if diff := v.Y - want; diff > 1e-4 || diff < -1e-4 {
			t.Fatalf("vertex %d y = %v at x=%v, want %v", i, v.Y, v.X, want)
		}
	}
}

func TestGenerateLODOverlayStaysInsideTiles(t *testing.T) {
	field := testField()
	g := NewTileGrid(field, nil)

	verts := g.GenerateLODOverlay(0)
	if want := 16 * 6; len(verts) != want {
		t.Fatalf("len(verts) = %d, want %d", len(verts), want)
	}

	// Quads are inset, so each tile's six vertices stay strictly
	// inside its footprint.
	for i, tile := range field.Tiles() {
		half := tile.Size / 2
		for j := 0; j < 6; j++ {
			v := verts[i*6+j]
			if v.X <= tile.CenterX-half || v.X >= tile.CenterX+half ||
				v.Z <= tile.CenterZ-half || v.Z >= tile.CenterZ+half {
				t.Fatalf("tile (%d,%d) vertex %d at (%v,%v) outside footprint",
					tile.GridX, tile.GridZ, j, v.X, v.Z)
			}
		}
	}
}

func TestLODColors(t *testing.T) {
	if c := lodColor(grass.LODHigh, false); c != [3]float32{0.35, 0.35, 0.35} {
		t.Errorf("culled color = %v, want gray", c)
	}

	seen := map[[3]float32]grass.LOD{}
	for _, l := range []grass.LOD{grass.LODHigh, grass.LODLow, grass.LODUltraLow} {
		c := lodColor(l, true)
		if prev, ok := seen[c]; ok {
			t.Errorf("buckets %v and %v share color %v", prev, l, c)
		}
		seen[c] = l
	}
}

func TestTileAt(t *testing.T) {
	g := NewTileGrid(testField(), nil)

	info := g.TileAt(-19, -19)
	if info == nil {
		t.Fatal("TileAt(-19,-19) = nil, want corner tile")
	}
	if info.GridX != 0 || info.GridZ != 0 {
		t.Errorf("corner tile = (%d,%d), want (0,0)", info.GridX, info.GridZ)
	}
	if !info.Populated {
		t.Error("evaluated visible tile reports Populated = false")
	}
	if info.Density != 64 {
		t.Errorf("high bucket density = %d, want 64", info.Density)
	}

	if info := g.TileAt(500, 0); info != nil {
		t.Errorf("TileAt outside grid = %+v, want nil", info)
	}
}

func TestNilTileGrid(t *testing.T) {
	if g := NewTileGrid(nil, nil); g != nil {
		t.Fatal("NewTileGrid(nil) should return nil")
	}

	var g *TileGrid
	if verts := g.GenerateTileOutlines(0); verts != nil {
		t.Error("nil grid generated outline vertices")
	}
	if verts := g.GenerateLODOverlay(0); verts != nil {
		t.Error("nil grid generated overlay vertices")
	}
	if info := g.TileAt(0, 0); info != nil {
		t.Error("nil grid returned tile info")
	}
}
