// Package grass implements the tiled instanced-grass system: a fixed
// grid of square tiles, per-tile detail buckets chosen by camera
// distance, frustum culling, and deterministic repopulation of a
// tile's instances whenever its bucket changes.
package grass

// LOD identifies a grass detail bucket.
type LOD int

// Detail buckets, nearest first.
const (
	LODHigh LOD = iota
	LODLow
	LODUltraLow
	lodCount
)

// String returns the bucket name for logs and the HUD.
func (l LOD) String() string {
	switch l {
	case LODHigh:
		return "high"
	case LODLow:
		return "low"
	case LODUltraLow:
		return "ultra-low"
	}
	return "unknown"
}

// Bucket is the static configuration of one detail bucket: blade mesh
// detail and the number of instances per tile.
type Bucket struct {
	Segments int // Blade mesh segments; more segments bend smoother
	Density  int // Instances per tile
}

// SelectLOD maps a camera distance to a bucket. The intervals are
// half-open so a distance exactly on a threshold always resolves the
// same way: d < near is high, near <= d < far is low, d >= far is
// ultra-low.
func SelectLOD(d, near, far float32) LOD {
	switch {
	case d < near:
		return LODHigh
	case d < far:
		return LODLow
	default:
		return LODUltraLow
	}
}
