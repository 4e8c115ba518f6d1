package grass

import "testing"

func TestBuildGrid(t *testing.T) {
	tests := []struct {
		name      string
		worldSize float32
		tileSize  float32
		perSide   int
	}{
		{"exact division", 160, 10, 16},
		{"partial edge rounds up", 155, 10, 16},
		{"single tile", 8, 10, 1},
		{"tiny world", 1, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := buildGrid(tt.worldSize, tt.tileSize)
			if want := tt.perSide * tt.perSide; len(tiles) != want {
				t.Fatalf("len(tiles) = %d, want %d", len(tiles), want)
			}
			for _, tile := range tiles {
				if tile.Size != tt.tileSize {
					t.Fatalf("tile (%d,%d) size = %v, want %v", tile.GridX, tile.GridZ, tile.Size, tt.tileSize)
				}
				if tile.LOD != LODUltraLow {
					t.Errorf("tile (%d,%d) initial LOD = %v, want %v", tile.GridX, tile.GridZ, tile.LOD, LODUltraLow)
				}
				if tile.Handle() != NoHandle {
					t.Errorf("tile (%d,%d) has instances before any evaluation", tile.GridX, tile.GridZ)
				}
			}
		})
	}
}

func TestBuildGridCenteredAtOrigin(t *testing.T) {
	tiles := buildGrid(160, 10)

	var sumX, sumZ float32
	for _, tile := range tiles {
		sumX += tile.CenterX
		sumZ += tile.CenterZ
	}
	n := float32(len(tiles))
	if avg := sumX / n; avg < -0.001 || avg > 0.001 {
		t.Errorf("grid not centered in x: average center %v", avg)
	}
	if avg := sumZ / n; avg < -0.001 || avg > 0.001 {
		t.Errorf("grid not centered in z: average center %v", avg)
	}

	// Corner tile centers sit half a tile inside the world edge.
	first := tiles[0]
	if first.CenterX != -75 || first.CenterZ != -75 {
		t.Errorf("first tile center = (%v, %v), want (-75, -75)", first.CenterX, first.CenterZ)
	}
	last := tiles[len(tiles)-1]
	if last.CenterX != 75 || last.CenterZ != 75 {
		t.Errorf("last tile center = (%v, %v), want (75, 75)", last.CenterX, last.CenterZ)
	}
}

func TestBuildGridInvalid(t *testing.T) {
	if tiles := buildGrid(0, 10); tiles != nil {
		t.Errorf("buildGrid(0, 10) = %d tiles, want nil", len(tiles))
	}
	if tiles := buildGrid(100, 0); tiles != nil {
		t.Errorf("buildGrid(100, 0) = %d tiles, want nil", len(tiles))
	}
}

func TestTileBounds(t *testing.T) {
	tile := &Tile{CenterX: 30, CenterZ: -20, Size: 10}
	min, max := tile.Bounds(6)

	if min != [3]float32{25, 0, -25} {
		t.Errorf("min = %v, want [25 0 -25]", min)
	}
	if max != [3]float32{35, 6, -15} {
		t.Errorf("max = %v, want [35 6 -15]", max)
	}
}
