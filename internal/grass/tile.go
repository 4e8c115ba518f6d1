package grass

// Handle identifies a tile's instanced mesh on the renderer side.
// NoHandle marks a tile whose instances have never been built (or were
// torn down by a rebuild).
type Handle uint64

// NoHandle is the zero handle.
const NoHandle Handle = 0

// Tile is one square cell of the grass grid. Distance, LOD and
// visibility are rewritten by every evaluation tick; the handle changes
// whenever the tile is repopulated.
type Tile struct {
	GridX, GridZ     int
	CenterX, CenterZ float32
	Size             float32

	Distance float32 // Horizontal distance to the camera at the last evaluation
	LOD      LOD     // Owning bucket; culled tiles keep their last assignment
	Visible  bool

	handle     Handle
	generation uint64 // Field generation the instances were built against
}

// Handle returns the tile's current instance handle, NoHandle if the
// tile has never been populated.
func (t *Tile) Handle() Handle {
	return t.handle
}

// Bounds returns the tile's AABB for the frustum test. maxY covers the
// tallest possible ground plus blade height.
func (t *Tile) Bounds(maxY float32) (min, max [3]float32) {
	half := t.Size / 2
	min = [3]float32{t.CenterX - half, 0, t.CenterZ - half}
	max = [3]float32{t.CenterX + half, maxY, t.CenterZ + half}
	return min, max
}

// buildGrid partitions a square world of side worldSize centered at the
// origin into tiles of side tileSize. A partial row or column at the
// edge is covered by widening the grid, not by shrinking tiles.
func buildGrid(worldSize, tileSize float32) []*Tile {
	if tileSize <= 0 || worldSize <= 0 {
		return nil
	}

	perSide := int(worldSize / tileSize)
	if float32(perSide)*tileSize < worldSize {
		perSide++
	}
	if perSide < 1 {
		perSide = 1
	}

	origin := -float32(perSide) * tileSize / 2
	tiles := make([]*Tile, 0, perSide*perSide)
	for gz := 0; gz < perSide; gz++ {
		for gx := 0; gx < perSide; gx++ {
			tiles = append(tiles, &Tile{
				GridX:   gx,
				GridZ:   gz,
				CenterX: origin + (float32(gx)+0.5)*tileSize,
				CenterZ: origin + (float32(gz)+0.5)*tileSize,
				Size:    tileSize,
				LOD:     LODUltraLow,
			})
		}
	}
	return tiles
}
