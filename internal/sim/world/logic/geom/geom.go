package geom

import "math"

// Vec3 is a world-space position or direction. Z is up.
type Vec3 [3]float64

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

// MA returns a + scale*dir.
func MA(a Vec3, scale float64, dir Vec3) Vec3 {
	return Vec3{a[0] + scale*dir[0], a[1] + scale*dir[1], a[2] + scale*dir[2]}
}

// Lerp returns the point at fraction t on the segment a->b.
func Lerp(a, b Vec3, t float64) Vec3 {
	return Vec3{
		a[0] + t*(b[0]-a[0]),
		a[1] + t*(b[1]-a[1]),
		a[2] + t*(b[2]-a[2]),
	}
}

// Snap rounds every axis independently to the nearest multiple of quantum,
// with halves rounding up. A non-positive quantum leaves v unchanged.
func Snap(v Vec3, quantum float64) Vec3 {
	if quantum <= 0 {
		return v
	}
	return Vec3{
		math.Floor(v[0]/quantum+0.5) * quantum,
		math.Floor(v[1]/quantum+0.5) * quantum,
		math.Floor(v[2]/quantum+0.5) * quantum,
	}
}

// AABB is an axis-aligned box with closed bounds.
type AABB struct {
	Min Vec3
	Max Vec3
}

// Box places the local extents mins/maxs at origin.
func Box(origin, mins, maxs Vec3) AABB {
	return AABB{Min: origin.Add(mins), Max: origin.Add(maxs)}
}

// Intersects reports whether a and b share at least one point on all three
// axes. Boxes that only touch at a face, edge or corner intersect.
func (a AABB) Intersects(b AABB) bool {
	for i := 0; i < 3; i++ {
		if !(a.Min[i] <= b.Max[i] && a.Max[i] >= b.Min[i]) {
			return false
		}
	}
	return true
}

// Penetrates is the open-interval variant: touching boxes do not penetrate.
func (a AABB) Penetrates(b AABB) bool {
	for i := 0; i < 3; i++ {
		if !(a.Min[i] < b.Max[i] && a.Max[i] > b.Min[i]) {
			return false
		}
	}
	return true
}

// Contains reports whether b lies entirely inside a (closed bounds).
func (a AABB) Contains(b AABB) bool {
	for i := 0; i < 3; i++ {
		if b.Min[i] < a.Min[i] || b.Max[i] > a.Max[i] {
			return false
		}
	}
	return true
}

// Expand grows a by the extents of a box so a point test against the result
// equals a box test against a (Minkowski sum).
func (a AABB) Expand(mins, maxs Vec3) AABB {
	return AABB{Min: a.Min.Sub(maxs), Max: a.Max.Sub(mins)}
}

// AngleVectors returns the unit forward vector for (pitch, yaw, roll) in
// degrees. Positive pitch looks down.
func AngleVectors(angles Vec3) Vec3 {
	pitch := angles[0] * (math.Pi / 180)
	yaw := angles[1] * (math.Pi / 180)
	sp, cp := math.Sin(pitch), math.Cos(pitch)
	sy, cy := math.Sin(yaw), math.Cos(yaw)
	return Vec3{cp * cy, cp * sy, -sp}
}
