// Package collision provides a static collision world with raycast queries.
package collision

import (
	"errors"
	gomath "math"

	"github.com/softmeadow/glade/pkg/math"
)

// ColliderID identifies a registered collider. NoCollider excludes nothing.
type ColliderID int

// NoCollider is the zero exclusion filter.
const NoCollider ColliderID = 0

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// NewAABB creates an AABB from two corners, swapping axes as needed so
// Min <= Max holds per component.
func NewAABB(minX, minY, minZ, maxX, maxY, maxZ float32) AABB {
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	if minZ > maxZ {
		minZ, maxZ = maxZ, minZ
	}
	return AABB{
		Min: math.Vec3{X: minX, Y: minY, Z: minZ},
		Max: math.Vec3{X: maxX, Y: maxY, Z: maxZ},
	}
}

// Hit describes a raycast intersection.
type Hit struct {
	Point    math.Vec3
	Normal   math.Vec3
	Distance float32    // Time of impact along the (normalized) ray
	Collider ColliderID // NoCollider for ground hits
}

// HeightSampler is the ground surface consulted by raycasts.
// Non-finite samples are treated as height 0.
type HeightSampler interface {
	HeightAt(x, z float32) float32
}

type boxCollider struct {
	id  ColliderID
	box AABB
}

// World is a static collider set: an optional ground height field plus
// registered AABB colliders. Not safe for concurrent mutation; the
// playground queries it from the render loop only.
type World struct {
	ground HeightSampler
	boxes  []boxCollider
	nextID ColliderID
}

// NewWorld creates a collision world over the given ground surface.
// ground may be nil for a world with box colliders only.
func NewWorld(ground HeightSampler) *World {
	return &World{
		ground: ground,
		nextID: 1,
	}
}

// AddBox registers an AABB collider and returns its ID.
func (w *World) AddBox(box AABB) ColliderID {
	id := w.nextID
	w.nextID++
	w.boxes = append(w.boxes, boxCollider{id: id, box: box})
	return id
}

// UpdateBox moves a registered collider. Unknown IDs are ignored.
func (w *World) UpdateBox(id ColliderID, box AABB) {
	for i := range w.boxes {
		if w.boxes[i].id == id {
			w.boxes[i].box = box
			return
		}
	}
}

// RemoveBox unregisters a collider. Unknown IDs are ignored.
func (w *World) RemoveBox(id ColliderID) {
	for i := range w.boxes {
		if w.boxes[i].id == id {
			w.boxes = append(w.boxes[:i], w.boxes[i+1:]...)
			return
		}
	}
}

var (
	errZeroDirection = errors.New("raycast: zero direction")
	errBadQuery      = errors.New("raycast: non-finite query")
)

// Raycast casts a ray and returns the nearest intersection within
// maxDist, or nil if nothing was hit. The collider identified by
// exclude is skipped (pass NoCollider to test everything). Degenerate
// queries (zero direction, non-finite input) return an error, which
// callers treat as a miss.
func (w *World) Raycast(origin, dir math.Vec3, maxDist float32, exclude ColliderID) (*Hit, error) {
	if !finiteVec(origin) || !finiteVec(dir) || !math.IsFinite(maxDist) {
		return nil, errBadQuery
	}
	length := dir.Length()
	if length == 0 {
		return nil, errZeroDirection
	}
	if maxDist <= 0 {
		return nil, nil
	}
	dir = math.Vec3{X: dir.X / length, Y: dir.Y / length, Z: dir.Z / length}

	var best *Hit

	if w.ground != nil {
		if hit := w.raycastGround(origin, dir, maxDist); hit != nil {
			best = hit
		}
	}

	for i := range w.boxes {
		c := &w.boxes[i]
		if c.id == exclude {
			continue
		}
		hit := raycastAABB(origin, dir, c.box)
		if hit == nil || hit.Distance > maxDist {
			continue
		}
		if best == nil || hit.Distance < best.Distance {
			hit.Collider = c.id
			best = hit
		}
	}

	return best, nil
}

// raycastGround marches along the ray looking for a crossing of the
// height surface, then bisects the bracketing interval.
func (w *World) raycastGround(origin, dir math.Vec3, maxDist float32) *Hit {
	surface := func(t float32) float32 {
		x := origin.X + dir.X*t
		z := origin.Z + dir.Z*t
		y := origin.Y + dir.Y*t
		return y - w.sampleGround(x, z)
	}

	if surface(0) <= 0 {
		// Origin at or below the surface
		return w.groundHit(origin, 0)
	}

	const steps = 64
	step := maxDist / steps
	for i := 1; i <= steps; i++ {
		t := step * float32(i)
		if surface(t) > 0 {
			continue
		}
		// Crossing between t-step and t: bisect
		lo, hi := t-step, t
		for j := 0; j < 20; j++ {
			mid := (lo + hi) / 2
			if surface(mid) > 0 {
				lo = mid
			} else {
				hi = mid
			}
		}
		point := math.Vec3{
			X: origin.X + dir.X*hi,
			Y: origin.Y + dir.Y*hi,
			Z: origin.Z + dir.Z*hi,
		}
		return w.groundHit(point, hi)
	}
	return nil
}

func (w *World) groundHit(point math.Vec3, dist float32) *Hit {
	return &Hit{
		Point:    math.Vec3{X: point.X, Y: w.sampleGround(point.X, point.Z), Z: point.Z},
		Normal:   w.groundNormal(point.X, point.Z),
		Distance: dist,
		Collider: NoCollider,
	}
}

// sampleGround clamps non-finite samples to 0.
func (w *World) sampleGround(x, z float32) float32 {
	h := w.ground.HeightAt(x, z)
	if !math.IsFinite(h) {
		return 0
	}
	return h
}

func (w *World) groundNormal(x, z float32) math.Vec3 {
	const eps = 0.05
	dx := (w.sampleGround(x+eps, z) - w.sampleGround(x-eps, z)) / (2 * eps)
	dz := (w.sampleGround(x, z+eps) - w.sampleGround(x, z-eps)) / (2 * eps)
	return math.Vec3{X: -dx, Y: 1, Z: -dz}.Normalize()
}

// raycastAABB is the slab method. Returns the entry point, or the exit
// point if the ray starts inside the box.
func raycastAABB(origin, dir math.Vec3, box AABB) *Hit {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)
	axis := -1 // Slab that produced tmin

	o := [3]float32{origin.X, origin.Y, origin.Z}
	d := [3]float32{dir.X, dir.Y, dir.Z}
	bmin := [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	bmax := [3]float32{box.Max.X, box.Max.Y, box.Max.Z}

	for i := 0; i < 3; i++ {
		if d[i] != 0 {
			t1 := (bmin[i] - o[i]) / d[i]
			t2 := (bmax[i] - o[i]) / d[i]
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
				axis = i
			}
			if t2 < tmax {
				tmax = t2
			}
		} else if o[i] < bmin[i] || o[i] > bmax[i] {
			return nil
		}
	}

	if tmax < tmin || tmax < 0 {
		return nil
	}

	t := tmin
	if tmin < 0 {
		// Started inside: report the exit
		t = tmax
	}

	point := math.Vec3{
		X: origin.X + dir.X*t,
		Y: origin.Y + dir.Y*t,
		Z: origin.Z + dir.Z*t,
	}

	var normal math.Vec3
	if axis >= 0 {
		sign := float32(1)
		if d[axis] > 0 {
			sign = -1
		}
		switch axis {
		case 0:
			normal = math.Vec3{X: sign}
		case 1:
			normal = math.Vec3{Y: sign}
		case 2:
			normal = math.Vec3{Z: sign}
		}
	}

	return &Hit{Point: point, Normal: normal, Distance: t}
}

func finiteVec(v math.Vec3) bool {
	return math.IsFinite(v.X) && math.IsFinite(v.Y) && math.IsFinite(v.Z)
}
