// Package debug provides debug visualization utilities: overlay
// geometry for the grass tile grid, wireframe bounds and screenshot
// capture. Generators produce CPU-side vertex slices; the scene
// package owns the GL path that draws them.
package debug

import (
	"github.com/softmeadow/glade/internal/grass"
)

// TileGrid generates debug visualization for the grass tile grid.
type TileGrid struct {
	field   *grass.Field
	sampler grass.HeightSampler
}

// NewTileGrid creates a tile grid visualizer. The sampler drapes the
// overlay over the terrain; a nil sampler draws it at y = 0.
func NewTileGrid(field *grass.Field, sampler grass.HeightSampler) *TileGrid {
	if field == nil {
		return nil
	}
	return &TileGrid{
		field:   field,
		sampler: sampler,
	}
}

// TileVertex represents a vertex for overlay rendering.
type TileVertex struct {
	X, Y, Z float32 // Position
	R, G, B float32 // Color
}

// GenerateTileOutlines generates line vertices outlining every tile,
// colored by the tile's detail bucket. Culled tiles are drawn gray so
// the frustum boundary is visible while orbiting.
// Returns 8 vertices per tile (4 edges), lift raises the lines off the
// ground to avoid z-fighting.
func (t *TileGrid) GenerateTileOutlines(lift float32) []TileVertex {
	if t == nil || t.field == nil {
		return nil
	}

	tiles := t.field.Tiles()
	vertices := make([]TileVertex, 0, len(tiles)*8)

	for _, tile := range tiles {
		color := lodColor(tile.LOD, tile.Visible)
		half := tile.Size / 2

		x0 := tile.CenterX - half
		z0 := tile.CenterZ - half
		x1 := tile.CenterX + half
		z1 := tile.CenterZ + half

		c00 := t.corner(x0, z0, lift, color)
		c10 := t.corner(x1, z0, lift, color)
		c11 := t.corner(x1, z1, lift, color)
		c01 := t.corner(x0, z1, lift, color)

		vertices = append(vertices,
			c00, c10,
			c10, c11,
			c11, c01,
			c01, c00,
		)
	}

	return vertices
}

// GenerateLODOverlay generates colored quads showing each tile's
// detail bucket. Returns 6 vertices per tile (2 triangles), inset by
// 10% so neighboring tiles stay distinguishable.
func (t *TileGrid) GenerateLODOverlay(lift float32) []TileVertex {
	if t == nil || t.field == nil {
		return nil
	}

	tiles := t.field.Tiles()
	vertices := make([]TileVertex, 0, len(tiles)*6)

	for _, tile := range tiles {
		color := lodColor(tile.LOD, tile.Visible)

		half := tile.Size / 2
		inset := tile.Size * 0.1
		x0 := tile.CenterX - half + inset
		z0 := tile.CenterZ - half + inset
		x1 := tile.CenterX + half - inset
		z1 := tile.CenterZ + half - inset

		c00 := t.corner(x0, z0, lift, color)
		c10 := t.corner(x1, z0, lift, color)
		c11 := t.corner(x1, z1, lift, color)
		c01 := t.corner(x0, z1, lift, color)

		// Triangle 1
		vertices = append(vertices, c00, c10, c11)
		// Triangle 2
		vertices = append(vertices, c00, c11, c01)
	}

	return vertices
}

// corner builds one overlay vertex, draped over the terrain when a
// sampler is present.
func (t *TileGrid) corner(x, z, lift float32, color [3]float32) TileVertex {
	y := lift
	if t.sampler != nil {
		y += t.sampler.HeightAt(x, z)
	}
	return TileVertex{x, y, z, color[0], color[1], color[2]}
}

// lodColor returns the overlay color for a tile's bucket. Culled
// tiles are gray regardless of bucket.
func lodColor(l grass.LOD, visible bool) [3]float32 {
	if !visible {
		return [3]float32{0.35, 0.35, 0.35} // Gray for culled
	}
	switch l {
	case grass.LODHigh:
		return [3]float32{0.1, 0.75, 0.2} // Green
	case grass.LODLow:
		return [3]float32{0.85, 0.75, 0.1} // Yellow
	case grass.LODUltraLow:
		return [3]float32{0.85, 0.35, 0.1} // Orange
	default:
		return [3]float32{0.3, 0.3, 0.3}
	}
}

// TileInfo contains information about a specific tile.
type TileInfo struct {
	GridX, GridZ int
	CenterX      float32
	CenterZ      float32
	LOD          grass.LOD
	Visible      bool
	Distance     float32
	Populated    bool
	Density      int // Instances per tile at the current bucket
}

// TileAt returns information about the tile containing the world
// point, nil when the point is outside the grid.
func (t *TileGrid) TileAt(x, z float32) *TileInfo {
	if t == nil || t.field == nil {
		return nil
	}

	for _, tile := range t.field.Tiles() {
		half := tile.Size / 2
		if x < tile.CenterX-half || x >= tile.CenterX+half {
			continue
		}
		if z < tile.CenterZ-half || z >= tile.CenterZ+half {
			continue
		}
		return &TileInfo{
			GridX:     tile.GridX,
			GridZ:     tile.GridZ,
			CenterX:   tile.CenterX,
			CenterZ:   tile.CenterZ,
			LOD:       tile.LOD,
			Visible:   tile.Visible,
			Distance:  tile.Distance,
			Populated: tile.Handle() != grass.NoHandle,
			Density:   t.field.Bucket(tile.LOD).Density,
		}
	}
	return nil
}
